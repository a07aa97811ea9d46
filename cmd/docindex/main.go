// Package main implements the docindex CLI for operations against the
// Objective document-indexing API.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docindex/internal/config"
	"github.com/fyrsmithlabs/docindex/internal/logging"
	"github.com/fyrsmithlabs/docindex/pkg/docindex"
	"github.com/fyrsmithlabs/docindex/pkg/objective"
)

var (
	// configPath overrides the default config file location.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docindex",
	Short: "CLI for the Objective document-indexing API",
	Long: `docindex is a command-line interface for upserting, fetching, deleting and
searching documents against the Objective API, and for managing indexes.

Configuration is read from ~/.config/docindex/config.yaml and overridden by
environment variables (API_KEY, API_BASE_URL, POOL_SIZE, ...).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.AddCommand(upsertCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(indexCmd)
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

// newIndexer creates the configured Indexer implementation.
//
// The factory examines Indexer.Provider:
//   - "objective" (default): remote Objective API adapter
//   - "memory": process-local reference indexer
func newIndexer(cfg *config.Config, logger *zap.Logger) (docindex.Indexer, error) {
	switch cfg.Indexer.Provider {
	case "objective", "":
		return newStore(cfg, logger)
	case "memory":
		return docindex.NewInMemoryIndexer(), nil
	default:
		return nil, fmt.Errorf("unsupported indexer provider: %s (supported: objective, memory)", cfg.Indexer.Provider)
	}
}

// newStore creates the remote Objective store. Commands that need search or
// index lifecycle operations require the objective provider.
func newStore(cfg *config.Config, logger *zap.Logger) (*objective.Store, error) {
	return objective.NewStore(objective.Config{
		APIKey:       cfg.API.Key,
		BaseURL:      cfg.API.BaseURL,
		PoolSize:     cfg.Pool.Size,
		MaxAttempts:  cfg.Retry.MaxAttempts,
		RetryBackoff: cfg.Retry.Backoff,
	}, logger)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
