package docindex_test

import (
	"context"
	"testing"

	"github.com/fyrsmithlabs/docindex/pkg/docindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIndexer_UpsertAssignsIDs(t *testing.T) {
	idx := docindex.NewInMemoryIndexer()

	docs := []*docindex.Document{
		{Content: "first"},
		{Content: "second"},
		{ID: "fixed", Content: "third"},
	}

	result, err := idx.Upsert(context.Background(), docs)
	require.NoError(t, err)

	require.Len(t, result.Succeeded, 3)
	assert.Empty(t, result.Failed)

	// Generated IDs are non-empty, unique, and written back onto the documents.
	assert.NotEmpty(t, docs[0].ID)
	assert.NotEmpty(t, docs[1].ID)
	assert.NotEqual(t, docs[0].ID, docs[1].ID)
	assert.Equal(t, "fixed", docs[2].ID)

	for i, doc := range docs {
		assert.Equal(t, doc.ID, result.Succeeded[i])
	}
}

func TestInMemoryIndexer_UpsertIsIdempotent(t *testing.T) {
	idx := docindex.NewInMemoryIndexer()
	ctx := context.Background()

	doc := &docindex.Document{ID: "doc-1", Content: "v1"}
	_, err := idx.Upsert(ctx, []*docindex.Document{doc})
	require.NoError(t, err)

	doc.Content = "v2"
	result, err := idx.Upsert(ctx, []*docindex.Document{doc})
	require.NoError(t, err)

	// Same ID both times, no duplicate records.
	assert.Equal(t, []string{"doc-1"}, result.Succeeded)
	assert.Equal(t, 1, idx.Len())

	got, err := idx.Get(ctx, []string{"doc-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Content)
}

func TestInMemoryIndexer_DeleteRequiresIDs(t *testing.T) {
	idx := docindex.NewInMemoryIndexer()

	_, err := idx.Delete(context.Background(), nil)
	assert.ErrorIs(t, err, docindex.ErrMissingIDs)
}

func TestInMemoryIndexer_Delete(t *testing.T) {
	tests := []struct {
		name          string
		stored        []string
		deleteIDs     []string
		wantSucceeded []string
	}{
		{
			name:          "all present",
			stored:        []string{"a", "b"},
			deleteIDs:     []string{"a", "b"},
			wantSucceeded: []string{"a", "b"},
		},
		{
			name:          "absent ID is a no-op",
			stored:        []string{"a"},
			deleteIDs:     []string{"missing"},
			wantSucceeded: []string{},
		},
		{
			name:          "mixed present and absent",
			stored:        []string{"a", "b"},
			deleteIDs:     []string{"b", "missing"},
			wantSucceeded: []string{"b"},
		},
		{
			name:          "empty but non-nil list",
			stored:        []string{"a"},
			deleteIDs:     []string{},
			wantSucceeded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := docindex.NewInMemoryIndexer()
			ctx := context.Background()

			for _, id := range tt.stored {
				_, err := idx.Upsert(ctx, []*docindex.Document{{ID: id, Content: id}})
				require.NoError(t, err)
			}

			result, err := idx.Delete(ctx, tt.deleteIDs)
			require.NoError(t, err)

			assert.Equal(t, tt.wantSucceeded, result.Succeeded)
			assert.Equal(t, len(tt.wantSucceeded), result.NumDeleted)
			assert.Empty(t, result.Failed)
			assert.True(t, result.OK())
		})
	}
}

func TestInMemoryIndexer_GetPreservesQueryOrder(t *testing.T) {
	idx := docindex.NewInMemoryIndexer()
	ctx := context.Background()

	_, err := idx.Upsert(ctx, []*docindex.Document{
		{ID: "a", Content: "alpha"},
		{ID: "b", Content: "beta"},
		{ID: "c", Content: "gamma"},
	})
	require.NoError(t, err)

	// Misses are silently omitted; hits come back in query order.
	got, err := idx.Get(ctx, []string{"c", "missing", "a"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestInMemoryIndexer_UpsertStoresCopyOfUnidentified(t *testing.T) {
	idx := docindex.NewInMemoryIndexer()
	ctx := context.Background()

	doc := &docindex.Document{Content: "original"}
	_, err := idx.Upsert(ctx, []*docindex.Document{doc})
	require.NoError(t, err)

	// Mutating the caller's document must not reach the stored copy.
	doc.Content = "mutated"

	got, err := idx.Get(ctx, []string{doc.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "original", got[0].Content)
}

func TestDeleteResult_OK(t *testing.T) {
	assert.True(t, (&docindex.DeleteResult{Succeeded: []string{"a"}}).OK())
	assert.False(t, (&docindex.DeleteResult{Failed: []string{"b"}}).OK())
}
