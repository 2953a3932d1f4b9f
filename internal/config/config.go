package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	// Auth. Empty disables request authentication.
	ServiceAPIKey string

	// Entity extraction. Empty NERServerURL selects the built-in lexicon;
	// empty LexiconPath selects the built-in gazetteer.
	NERServerURL string
	LexiconPath  string

	// Cleaning defaults and correction dictionary. Empty paths select the
	// built-in defaults.
	CleaningConfigPath string
	DictionaryPath     string

	// Worker pool
	Workers          int
	MaxQueueSize     int
	BatchConcurrency int

	// Request limits
	MaxBatchSize   int
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Storage
	StorageBackends []string
	JSONLDir        string
	SQLitePath      string

	// Language detection
	LangFallback        string
	LangConfidenceFloor float64
}

func Load() Config {
	cfg := Config{
		Port:     envOr("PORT", "8090"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		ServiceAPIKey: os.Getenv("TEXTPREP_API_KEY"),

		NERServerURL: os.Getenv("NER_SERVER_URL"),
		LexiconPath:  os.Getenv("LEXICON_PATH"),

		CleaningConfigPath: os.Getenv("CLEANING_CONFIG_PATH"),
		DictionaryPath:     os.Getenv("DICTIONARY_PATH"),

		Workers:          envInt("PIPELINE_WORKERS", 4),
		MaxQueueSize:     envInt("MAX_QUEUE_SIZE", 100),
		BatchConcurrency: envInt("BATCH_CONCURRENCY", 8),

		MaxBatchSize:   envInt("MAX_BATCH_SIZE", 1000),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		StorageBackends: splitList(envOr("STORAGE_BACKENDS", "jsonl")),
		JSONLDir:        envOr("JSONL_DIR", "data"),
		SQLitePath:      envOr("SQLITE_PATH", "data/textprep.db"),

		LangFallback:        envOr("LANG_FALLBACK", "unknown"),
		LangConfidenceFloor: envFloat("LANG_CONFIDENCE_FLOOR", 0.5),
	}

	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 8
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 1000
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.LangFallback == "" {
		cfg.LangFallback = "unknown"
	}
	if cfg.LangConfidenceFloor < 0 || cfg.LangConfidenceFloor > 1 {
		cfg.LangConfidenceFloor = 0.5
	}

	return cfg
}

func (c Config) Validate() error {
	for _, b := range c.StorageBackends {
		switch b {
		case "jsonl", "sqlite":
		default:
			return fmt.Errorf("STORAGE_BACKENDS: unknown backend %q", b)
		}
	}
	if contains(c.StorageBackends, "jsonl") && c.JSONLDir == "" {
		return fmt.Errorf("JSONL_DIR is required when the jsonl backend is enabled")
	}
	if contains(c.StorageBackends, "sqlite") && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required when the sqlite backend is enabled")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
