package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "/data/subcast.db" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.ScratchPath != "/data/scratch" {
		t.Errorf("ScratchPath = %s", cfg.ScratchPath)
	}
	if cfg.TranslateEngine != "openai" {
		t.Errorf("TranslateEngine = %s", cfg.TranslateEngine)
	}
	if cfg.SubtitleSourceLang != "en" || cfg.SubtitleTargetLang != "ja" {
		t.Errorf("subtitle langs = %s -> %s", cfg.SubtitleSourceLang, cfg.SubtitleTargetLang)
	}
	if cfg.MaxConcurrentRuns != 2 {
		t.Errorf("MaxConcurrentRuns = %d", cfg.MaxConcurrentRuns)
	}
	if cfg.ProcessRateLimit != 10 {
		t.Errorf("ProcessRateLimit = %d", cfg.ProcessRateLimit)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_PATH", "/tmp/subcast")
	t.Setenv("TRANSLATE_ENGINE", "gemini")
	t.Setenv("MAX_CONCURRENT_RUNS", "4")
	t.Setenv("DOWNLOAD_TIMEOUT", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DBPath != "/tmp/subcast/subcast.db" {
		t.Errorf("DBPath = %s (should follow DATA_PATH)", cfg.DBPath)
	}
	if cfg.TranslateEngine != "gemini" {
		t.Errorf("TranslateEngine = %s", cfg.TranslateEngine)
	}
	if cfg.MaxConcurrentRuns != 4 {
		t.Errorf("MaxConcurrentRuns = %d", cfg.MaxConcurrentRuns)
	}
	if cfg.DownloadTimeout != 90*time.Second {
		t.Errorf("DownloadTimeout = %s", cfg.DownloadTimeout)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_RUNS", "lots")
	t.Setenv("TRANSCODE_TIMEOUT", "soon")

	cfg := Load()

	if cfg.MaxConcurrentRuns != 2 {
		t.Errorf("MaxConcurrentRuns = %d, want default 2", cfg.MaxConcurrentRuns)
	}
	if cfg.TranscodeTimeout != 15*time.Minute {
		t.Errorf("TranscodeTimeout = %s, want default 15m", cfg.TranscodeTimeout)
	}
}
