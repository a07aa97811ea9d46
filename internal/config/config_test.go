package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fyrsmithlabs/docindex/internal/config"
	"github.com/fyrsmithlabs/docindex/pkg/objective"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, objective.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, objective.DefaultPoolSize(), cfg.Pool.Size)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 1500*time.Millisecond, cfg.Retry.Backoff)
	assert.Equal(t, "objective", cfg.Indexer.Provider)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		cfg.API.Key = "key"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantError string
	}{
		{
			name:   "valid objective config",
			mutate: func(c *config.Config) {},
		},
		{
			name: "memory provider needs no key",
			mutate: func(c *config.Config) {
				c.Indexer.Provider = "memory"
				c.API.Key = ""
			},
		},
		{
			name:      "objective provider requires key",
			mutate:    func(c *config.Config) { c.API.Key = "" },
			wantError: "api.key is required",
		},
		{
			name:      "unknown provider",
			mutate:    func(c *config.Config) { c.Indexer.Provider = "redis" },
			wantError: "unsupported indexer provider",
		},
		{
			name:      "negative pool size",
			mutate:    func(c *config.Config) { c.Pool.Size = -1 },
			wantError: "pool.size must be positive",
		},
		{
			name:      "zero attempts",
			mutate:    func(c *config.Config) { c.Retry.MaxAttempts = -2 },
			wantError: "retry.max_attempts must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			}
		})
	}
}

func TestLoadWithFile_EnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "env-key")
	t.Setenv("POOL_SIZE", "9")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")

	cfg, err := config.LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.API.Key)
	assert.Equal(t, 9, cfg.Pool.Size)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
}

func TestLoadWithFile_FileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api:\n  key: file-key\npool:\n  size: 4\nindexer:\n  provider: objective\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("POOL_SIZE", "16")

	cfg, err := config.LoadWithFile(path)
	require.NoError(t, err)

	// Env wins over file; file wins over defaults.
	assert.Equal(t, "file-key", cfg.API.Key)
	assert.Equal(t, 16, cfg.Pool.Size)
}

func TestLoadWithFile_RejectsInsecurePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  key: k\n"), 0644))

	_, err := config.LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insecure config file permissions")
}
