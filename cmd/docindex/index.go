package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/docindex/pkg/objective"
)

var (
	// searchIndexID identifies the remote index to query.
	searchIndexID string
	// searchFilter is accepted for forward compatibility; the API ignores it.
	searchFilter string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search a remote index",
	Long: `Search a remote index for documents matching a query.

Examples:
  docindex search --index idx-123 "connection pooling"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage remote indexes",
}

var indexCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a text-searchable index",
	Long: `Create a text-searchable index and print its identifier.

The index becomes ready asynchronously; poll with "docindex index status".`,
	Args: cobra.NoArgs,
	RunE: runIndexCreate,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status <index-id>",
	Short: "Show an index's lifecycle status",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexStatus,
}

func init() {
	searchCmd.Flags().StringVar(&searchIndexID, "index", "", "index ID to search (required)")
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "filter query (not yet supported by the API)")
	indexCmd.AddCommand(indexCreateCmd)
	indexCmd.AddCommand(indexStatusCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	docs, err := store.Search(cmd.Context(), args[0], objective.SearchOptions{
		IndexID:     searchIndexID,
		FilterQuery: searchFilter,
	})
	if err != nil {
		return err
	}
	return printJSON(docs)
}

func runIndexCreate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.CreateIndex(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"id": id})
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	status, err := store.IndexStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(status)
}
