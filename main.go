package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/subcast/backend/internal/api"
	"github.com/subcast/backend/internal/config"
	"github.com/subcast/backend/internal/download"
	"github.com/subcast/backend/internal/media"
	"github.com/subcast/backend/internal/pipeline"
	"github.com/subcast/backend/internal/runlog"
	"github.com/subcast/backend/internal/speech"
	"github.com/subcast/backend/internal/transcribe"
	"github.com/subcast/backend/internal/translate"
)

func main() {
	cfg := config.Load()

	// Ensure data directories exist
	os.MkdirAll(cfg.DataPath, 0755)
	os.MkdirAll(cfg.ScratchPath, 0755)

	// Initialize run registry
	runs, err := runlog.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize run registry: %v", err)
	}
	defer runs.Close()

	// Text transformation engine
	engine, err := buildEngine(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize translation engine: %v", err)
	}
	log.Printf("Translation engine: %s", engine.Name())

	runner := pipeline.NewRunner(pipeline.Options{
		Fetcher:     download.NewYTDLPFetcher(),
		Media:       media.NewFFmpeg(),
		Transcriber: transcribe.NewOpenAIClient(cfg.OpenAIKey),
		Engine:      engine,
		Synthesizer: speech.NewNijivoiceClient(cfg.NijivoiceKey),
		Runs:        runs,
		ScratchBase: cfg.ScratchPath,
		MaxRuns:     cfg.MaxConcurrentRuns,
		Timeouts: pipeline.StageTimeouts{
			Download:   cfg.DownloadTimeout,
			Transcode:  cfg.TranscodeTimeout,
			Transcribe: cfg.TranscribeTimeout,
			Translate:  cfg.TranslateTimeout,
			Generate:   cfg.GenerateTimeout,
			Synthesize: cfg.SynthesizeTimeout,
		},
		Languages: pipeline.Languages{
			SubtitleSource: cfg.SubtitleSourceLang,
			SubtitleTarget: cfg.SubtitleTargetLang,
			PodcastSource:  cfg.PodcastSourceLang,
			PodcastTarget:  cfg.PodcastTargetLang,
		},
	})

	router := api.NewRouter(cfg, runner, runs)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Scratch path: %s", cfg.ScratchPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildEngine(cfg *config.Config) (translate.Engine, error) {
	switch cfg.TranslateEngine {
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("TRANSLATE_ENGINE=gemini requires GEMINI_API_KEY")
		}
		return translate.NewGeminiEngine(context.Background(), cfg.GeminiKey)
	case "openai":
		return translate.NewOpenAIEngine(cfg.OpenAIKey), nil
	default:
		return nil, fmt.Errorf("unknown translation engine: %s", cfg.TranslateEngine)
	}
}
