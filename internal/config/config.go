package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Marker extraction
	DatalabAPIKey      string
	MarkerURL          string
	MarkerPollInterval time.Duration
	MarkerMaxPolls     int
	ForceOCRAuto       bool

	// Result cache
	CacheDir string
	CacheTTL time.Duration

	// Chat
	AnthropicAPIKey string
	AnthropicModel  string

	// Speech
	OpenAIAPIKey string
	TTSModel     string
	TTSVoice     string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// State TTLs
	JobTTL     time.Duration
	SessionTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		APIKey: os.Getenv("BLOCKVIEW_API_KEY"),

		DatalabAPIKey:      os.Getenv("DATALAB_API_KEY"),
		MarkerURL:          envOr("MARKER_URL", "https://www.datalab.to/api/v1/marker"),
		MarkerPollInterval: envDuration("MARKER_POLL_INTERVAL", 2*time.Second),
		MarkerMaxPolls:     envInt("MARKER_MAX_POLLS", 300),
		ForceOCRAuto:       envBool("FORCE_OCR_AUTO", true),

		CacheDir: envOr("CACHE_DIR", "cache"),
		CacheTTL: envDuration("CACHE_TTL", 24*time.Hour),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		TTSModel:     envOr("TTS_MODEL", "tts-1"),
		TTSVoice:     envOr("TTS_VOICE", "alloy"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 32),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL:     envDuration("JOB_TTL", 1*time.Hour),
		SessionTTL: envDuration("SESSION_TTL", 12*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 32
	}
	if cfg.MarkerMaxPolls <= 0 {
		cfg.MarkerMaxPolls = 300
	}
	if cfg.MarkerPollInterval <= 0 {
		cfg.MarkerPollInterval = 2 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BLOCKVIEW_API_KEY is required")
	}
	if c.DatalabAPIKey == "" {
		return fmt.Errorf("DATALAB_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	// OPENAI_API_KEY is optional; speech requests fail with 503 without it.
	return nil
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
