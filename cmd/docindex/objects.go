package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/docindex/pkg/docindex"
)

var upsertCmd = &cobra.Command{
	Use:   "upsert [file]",
	Short: "Upsert documents from a JSON file or stdin",
	Long: `Upsert documents from a JSON array or stdin.

The input is a JSON array of documents: [{"id": "...", "content": "...",
"metadata": {...}}, ...]. Documents without an id are created and the
assigned id is reported in the result.

Examples:
  # Upsert from a file
  docindex upsert documents.json

  # Upsert from stdin
  cat documents.json | docindex upsert -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpsert,
}

var getCmd = &cobra.Command{
	Use:   "get <id> [id...]",
	Short: "Fetch documents by ID",
	Long: `Fetch documents by ID. IDs that cannot be retrieved are omitted
from the output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id> [id...]",
	Short: "Delete documents by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func runUpsert(cmd *cobra.Command, args []string) error {
	var input []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		input, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		input, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}

	var docs []*docindex.Document
	if err := json.Unmarshal(input, &docs); err != nil {
		return fmt.Errorf("failed to parse documents: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents to upsert")
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	idx, err := newIndexer(cfg, logger)
	if err != nil {
		return err
	}

	result, err := idx.Upsert(cmd.Context(), docs)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	idx, err := newIndexer(cfg, logger)
	if err != nil {
		return err
	}

	docs, err := idx.Get(cmd.Context(), args)
	if err != nil {
		return err
	}
	return printJSON(docs)
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	idx, err := newIndexer(cfg, logger)
	if err != nil {
		return err
	}

	result, err := idx.Delete(cmd.Context(), args)
	if err != nil {
		return err
	}
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("failed to delete %d of %d documents", len(result.Failed), len(args))
	}
	return nil
}
