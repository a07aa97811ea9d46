package docindex

// Document represents a document passed through the indexing pipeline.
type Document struct {
	// ID is the unique identifier for the document. Empty means unassigned;
	// after a successful upsert the ID is always populated and stable.
	ID string `json:"id,omitempty"`

	// Content is the text content of the document.
	Content string `json:"content"`

	// Metadata contains additional key-value pairs attached to the document.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Clone returns a shallow copy of the document.
// The metadata map is shared between the original and the copy.
func (d *Document) Clone() *Document {
	clone := *d
	return &clone
}

// UpsertResult reports the outcome of a batch upsert.
//
// Every input document appears in exactly one of the two sequences. Order
// within each sequence follows completion order, not input order, because
// items are processed concurrently.
type UpsertResult struct {
	// Succeeded holds the IDs of documents that were stored.
	Succeeded []string `json:"succeeded"`

	// Failed holds the IDs of documents that could not be stored.
	// Documents that failed before an ID was assigned appear as "".
	Failed []string `json:"failed"`
}

// DeleteResult reports the outcome of a batch delete.
type DeleteResult struct {
	// Succeeded holds the IDs that were removed.
	Succeeded []string `json:"succeeded"`

	// Failed holds the IDs whose removal was attempted but failed.
	// Absent IDs are not failures; they are simply not listed.
	Failed []string `json:"failed"`

	// NumDeleted is the number of documents actually removed.
	// Always equal to len(Succeeded).
	NumDeleted int `json:"num_deleted"`
}

// OK reports whether every attempted deletion succeeded.
func (r *DeleteResult) OK() bool {
	return len(r.Failed) == 0
}
