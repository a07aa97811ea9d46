// Package config provides configuration loading for docindex.
//
// Configuration is loaded from an optional YAML file overridden by
// environment variables, with sensible defaults for everything else.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/docindex/pkg/objective"
)

// Config holds the complete docindex configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Pool    PoolConfig    `koanf:"pool"`
	Retry   RetryConfig   `koanf:"retry"`
	Indexer IndexerConfig `koanf:"indexer"`
	Logging LoggingConfig `koanf:"logging"`
}

// APIConfig holds Objective API settings.
type APIConfig struct {
	// Key is the bearer token for the Objective API.
	Key string `koanf:"key"`

	// BaseURL is the API base URL, ending with a slash.
	BaseURL string `koanf:"base_url"`
}

// PoolConfig holds connection pool settings. The pool size bounds both HTTP
// connections and concurrent batch workers.
type PoolConfig struct {
	Size int `koanf:"size"`
}

// RetryConfig holds request retry settings.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per request.
	MaxAttempts int `koanf:"max_attempts"`

	// Backoff is the delay before the first retry; doubles per retry.
	Backoff time.Duration `koanf:"backoff"`
}

// IndexerConfig selects the indexer implementation.
type IndexerConfig struct {
	// Provider is "objective" (remote API) or "memory" (process-local).
	Provider string `koanf:"provider"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ApplyDefaults sets default values for missing configuration fields.
func (c *Config) ApplyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = objective.DefaultBaseURL
	}
	if c.Pool.Size == 0 {
		c.Pool.Size = objective.DefaultPoolSize()
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.Backoff == 0 {
		c.Retry.Backoff = 1500 * time.Millisecond
	}
	if c.Indexer.Provider == "" {
		c.Indexer.Provider = "objective"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Indexer.Provider {
	case "objective":
		if c.API.Key == "" {
			return fmt.Errorf("api.key is required for the objective provider")
		}
	case "memory":
		// No external dependencies to configure.
	default:
		return fmt.Errorf("unsupported indexer provider: %s (supported: objective, memory)", c.Indexer.Provider)
	}

	if c.Pool.Size < 1 {
		return fmt.Errorf("pool.size must be positive, got %d", c.Pool.Size)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
