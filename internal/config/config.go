package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DataPath    string
	DBPath      string
	ScratchPath string

	OpenAIKey    string
	GeminiKey    string
	NijivoiceKey string

	TranslateEngine string // "openai" or "gemini"

	SubtitleSourceLang string
	SubtitleTargetLang string
	PodcastSourceLang  string
	PodcastTargetLang  string

	MaxConcurrentRuns int
	MaxUploadMB       int64
	ProcessRateLimit  int // processing requests per IP per minute

	DownloadTimeout   time.Duration
	TranscodeTimeout  time.Duration
	TranscribeTimeout time.Duration
	TranslateTimeout  time.Duration
	GenerateTimeout   time.Duration
	SynthesizeTimeout time.Duration

	CORSOrigins []string
}

func Load() *Config {
	// Optional .env for local development; real env vars take precedence.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dataPath := getEnv("DATA_PATH", "/data")

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:        port,
		DataPath:    dataPath,
		DBPath:      getEnv("DB_PATH", dataPath+"/subcast.db"),
		ScratchPath: getEnv("SCRATCH_PATH", dataPath+"/scratch"),

		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		NijivoiceKey: os.Getenv("NIJIVOICE_API_KEY"),

		TranslateEngine: getEnv("TRANSLATE_ENGINE", "openai"),

		SubtitleSourceLang: getEnv("SUBTITLE_SOURCE_LANG", "en"),
		SubtitleTargetLang: getEnv("SUBTITLE_TARGET_LANG", "ja"),
		PodcastSourceLang:  getEnv("PODCAST_SOURCE_LANG", "ja"),
		PodcastTargetLang:  getEnv("PODCAST_TARGET_LANG", "ja"),

		MaxConcurrentRuns: getEnvInt("MAX_CONCURRENT_RUNS", 2),
		MaxUploadMB:       int64(getEnvInt("MAX_UPLOAD_MB", 1024)),
		ProcessRateLimit:  getEnvInt("PROCESS_RATE_LIMIT", 10),

		DownloadTimeout:   getEnvDuration("DOWNLOAD_TIMEOUT", 10*time.Minute),
		TranscodeTimeout:  getEnvDuration("TRANSCODE_TIMEOUT", 15*time.Minute),
		TranscribeTimeout: getEnvDuration("TRANSCRIBE_TIMEOUT", 10*time.Minute),
		TranslateTimeout:  getEnvDuration("TRANSLATE_TIMEOUT", 2*time.Minute),
		GenerateTimeout:   getEnvDuration("GENERATE_TIMEOUT", 3*time.Minute),
		SynthesizeTimeout: getEnvDuration("SYNTHESIZE_TIMEOUT", 5*time.Minute),

		CORSOrigins: corsOrigins,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid value for %s: %q, using %d", key, v, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid duration for %s: %q, using %s", key, v, fallback)
	}
	return fallback
}
