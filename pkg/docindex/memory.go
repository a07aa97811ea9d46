package docindex

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryIndexer is a non-networked Indexer over a local ID-to-document map.
//
// It is the reference semantics for the Indexer contract and doubles as a
// test fake. There is no external dependency to fail, so upserts succeed
// unconditionally and deleting an absent ID is a no-op, not an error.
type InMemoryIndexer struct {
	mu    sync.RWMutex
	store map[string]*Document
}

// NewInMemoryIndexer creates an empty in-memory indexer.
func NewInMemoryIndexer() *InMemoryIndexer {
	return &InMemoryIndexer{
		store: make(map[string]*Document),
	}
}

// Upsert stores the documents, generating a fresh unique ID for any document
// that does not have one. The generated ID is written back onto a copy of the
// document before storage, so the caller's document keeps the new ID without
// sharing storage with the indexer.
func (m *InMemoryIndexer) Upsert(ctx context.Context, docs []*Document) (*UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	succeeded := make([]string, 0, len(docs))
	for _, doc := range docs {
		stored := doc
		if doc.ID == "" {
			doc.ID = uuid.NewString()
			stored = doc.Clone()
		}
		m.store[stored.ID] = stored
		succeeded = append(succeeded, stored.ID)
	}

	return &UpsertResult{Succeeded: succeeded, Failed: []string{}}, nil
}

// Delete removes the documents with the given IDs.
//
// Returns ErrMissingIDs if ids is nil. IDs not present in the store are
// skipped without error and do not appear in the result.
func (m *InMemoryIndexer) Delete(ctx context.Context, ids []string) (*DeleteResult, error) {
	if ids == nil {
		return nil, ErrMissingIDs
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	succeeded := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.store[id]; ok {
			delete(m.store, id)
			succeeded = append(succeeded, id)
		}
	}

	return &DeleteResult{
		Succeeded:  succeeded,
		Failed:     []string{},
		NumDeleted: len(succeeded),
	}, nil
}

// Get returns the stored documents for the requested IDs, in query order.
// Missing IDs are silently omitted.
func (m *InMemoryIndexer) Get(ctx context.Context, ids []string) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]*Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := m.store[id]; ok {
			found = append(found, doc)
		}
	}

	return found, nil
}

// Len returns the number of stored documents.
func (m *InMemoryIndexer) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

var _ Indexer = (*InMemoryIndexer)(nil)
