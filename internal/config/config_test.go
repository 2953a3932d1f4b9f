package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "TEXTPREP_API_KEY", "NER_SERVER_URL",
		"LEXICON_PATH", "CLEANING_CONFIG_PATH", "DICTIONARY_PATH",
		"PIPELINE_WORKERS", "MAX_QUEUE_SIZE", "BATCH_CONCURRENCY",
		"MAX_BATCH_SIZE", "MAX_UPLOAD_BYTES", "JOB_TTL",
		"STORAGE_BACKENDS", "JSONL_DIR", "SQLITE_PATH",
		"LANG_FALLBACK", "LANG_CONFIDENCE_FLOOR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("Port = %s, want 8090", cfg.Port)
	}
	if cfg.Workers != 4 || cfg.MaxQueueSize != 100 || cfg.BatchConcurrency != 8 {
		t.Errorf("worker pool defaults wrong: %+v", cfg)
	}
	if cfg.MaxBatchSize != 1000 {
		t.Errorf("MaxBatchSize = %d, want 1000", cfg.MaxBatchSize)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("MaxUploadBytes = %d, want 50MB", cfg.MaxUploadBytes)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("JobTTL = %v, want 1h", cfg.JobTTL)
	}
	if len(cfg.StorageBackends) != 1 || cfg.StorageBackends[0] != "jsonl" {
		t.Errorf("StorageBackends = %v, want [jsonl]", cfg.StorageBackends)
	}
	if cfg.LangFallback != "unknown" || cfg.LangConfidenceFloor != 0.5 {
		t.Errorf("language defaults wrong: %q %g", cfg.LangFallback, cfg.LangConfidenceFloor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("PIPELINE_WORKERS", "2")
	t.Setenv("STORAGE_BACKENDS", "jsonl, SQLITE ,")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("LANG_CONFIDENCE_FLOOR", "0.8")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port = %s, want 9999", cfg.Port)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if len(cfg.StorageBackends) != 2 || cfg.StorageBackends[0] != "jsonl" || cfg.StorageBackends[1] != "sqlite" {
		t.Errorf("StorageBackends = %v, want [jsonl sqlite]", cfg.StorageBackends)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("JobTTL = %v, want 30m", cfg.JobTTL)
	}
	if cfg.LangConfidenceFloor != 0.8 {
		t.Errorf("LangConfidenceFloor = %g, want 0.8", cfg.LangConfidenceFloor)
	}
}

func TestLoadClampsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIPELINE_WORKERS", "-2")
	t.Setenv("MAX_BATCH_SIZE", "0")
	t.Setenv("LANG_CONFIDENCE_FLOOR", "1.5")
	t.Setenv("MAX_QUEUE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want clamped default 4", cfg.Workers)
	}
	if cfg.MaxBatchSize != 1000 {
		t.Errorf("MaxBatchSize = %d, want clamped default 1000", cfg.MaxBatchSize)
	}
	if cfg.LangConfidenceFloor != 0.5 {
		t.Errorf("LangConfidenceFloor = %g, want clamped default 0.5", cfg.LangConfidenceFloor)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("MaxQueueSize = %d, want fallback 100", cfg.MaxQueueSize)
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKENDS", "jsonl,redis")
	if err := Load().Validate(); err == nil {
		t.Fatal("expected error for unknown backend, got nil")
	}
}
