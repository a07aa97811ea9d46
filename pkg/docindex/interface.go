// Package docindex defines the document indexing contract shared by the
// remote Objective adapter and the in-memory reference indexer.
package docindex

import (
	"context"
	"errors"
)

// Sentinel errors for indexer operations.
var (
	// ErrMissingIDs is returned when a delete is attempted without an
	// explicit list of document IDs.
	ErrMissingIDs = errors.New("ids must be provided for deletion")

	// ErrNotImplemented is returned by entry points that exist for interface
	// completeness but have no implementation yet.
	ErrNotImplemented = errors.New("not implemented")
)

// Embedder generates vector embeddings from text.
//
// The contract references an embeddings provider only through the
// similarity-search entry point, which is not implemented by this core.
// Implementations can use local models or cloud APIs.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	// Returns a slice of embeddings (one per input text) or an error.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Indexer is the interface for document indexing operations.
//
// This interface is transport-agnostic - the remote Objective adapter and the
// in-memory reference implement it identically. Documents are transient DTOs:
// no implementation holds onto a caller's document after the call returns.
//
// Implementations:
//   - objective.Store: HTTPS REST adapter for the Objective API
//   - InMemoryIndexer: process-local reference implementation
type Indexer interface {
	// Upsert inserts or updates documents keyed by identity.
	//
	// Documents without an ID are created and have their assigned ID written
	// back in place; identified documents are overwritten idempotently. A
	// per-document failure never aborts the rest of the batch.
	//
	// Returns a result partitioning every input document into succeeded or
	// failed, and an error only when the batch could not be submitted at all.
	Upsert(ctx context.Context, docs []*Document) (*UpsertResult, error)

	// Delete removes documents by their IDs.
	//
	// Returns ErrMissingIDs if ids is nil. Every ID is attempted even when
	// some fail; the result reports which IDs were actually removed.
	Delete(ctx context.Context, ids []string) (*DeleteResult, error)

	// Get returns the documents for the requested IDs.
	//
	// IDs that are missing or could not be retrieved are silently dropped
	// from the result; callers get exactly the documents that were found.
	Get(ctx context.Context, ids []string) ([]*Document, error)
}
