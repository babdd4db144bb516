package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Remote inference API
	RemoteBaseURL   string
	RemoteAuthToken string
	QueryTimeout    time.Duration

	// Substituted when a request carries no document locator.
	DefaultDocumentURL string

	// Auth
	PolicyQueryAPIKey string

	// Request limits
	MaxBatchSize int

	// Stats
	StatsWindow time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		RemoteBaseURL:   envOr("REMOTE_BASE_URL", "http://localhost:8000/api/v1"),
		RemoteAuthToken: os.Getenv("REMOTE_AUTH_TOKEN"),
		QueryTimeout:    envDuration("QUERY_TIMEOUT", 30*time.Second),

		DefaultDocumentURL: envOr("DEFAULT_DOCUMENT_URL", "https://hackrx.blob.core.windows.net/assets/policy.pdf"),

		PolicyQueryAPIKey: os.Getenv("POLICYQUERY_API_KEY"),

		MaxBatchSize: envInt("MAX_BATCH_SIZE", 50),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
	}

	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 30 * time.Second
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 50
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.RemoteAuthToken == "" {
		return fmt.Errorf("REMOTE_AUTH_TOKEN is required")
	}
	if c.PolicyQueryAPIKey == "" {
		return fmt.Errorf("POLICYQUERY_API_KEY is required")
	}
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
