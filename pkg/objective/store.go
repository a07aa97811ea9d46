// Package objective provides a document store adapter for the Objective API.
//
// The adapter implements the docindex.Indexer contract over HTTPS REST:
// per-document operations are fanned out across a bounded worker pool whose
// size matches the HTTP connection pool, and every request is retried with
// exponential backoff on transient failure. Index creation and readiness live
// server-side; the store only surfaces them via CreateIndex and IndexStatus.
package objective

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/docindex/pkg/docindex"
)

// Tracer for OpenTelemetry instrumentation.
var tracer trace.Tracer = otel.Tracer("docindex.objective")

// DefaultBaseURL is the production Objective API endpoint.
const DefaultBaseURL = "https://api.objective.inc/v1/"

// Config holds configuration for the Objective store.
type Config struct {
	// APIKey is the bearer token for the Objective API. Required.
	// Surrounding double quotes are stripped.
	APIKey string

	// BaseURL is the API base URL.
	// Default: DefaultBaseURL
	BaseURL string

	// PoolSize bounds both the HTTP connection pool and the number of
	// concurrent per-document operations in a batch.
	// Default: OBJECTIVE_CONNECTION_POOL_SIZE env var, else CPU count * 12
	PoolSize int

	// MaxAttempts is the total number of attempts per request, including
	// the first. Default: 3
	MaxAttempts int

	// RetryBackoff is the backoff before the first retry; it doubles on
	// each subsequent retry. Default: 1.5 seconds
	RetryBackoff time.Duration

	// RequestTimeout is the per-attempt HTTP timeout.
	// Default: 30 seconds
	RequestTimeout time.Duration

	// RateLimit is the maximum request rate in requests per second.
	// Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the rate limiter burst size. Default: 1 when RateLimit
	// is set.
	RateBurst int

	// Embedder generates vector embeddings. Optional; only the
	// similarity-search entry point would use it, and that entry point is
	// not implemented.
	Embedder docindex.Embedder
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	c.APIKey = strings.Trim(c.APIKey, `"`)
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PoolSize == 0 {
		c.PoolSize = DefaultPoolSize()
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = 1500 * time.Millisecond
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.RateLimit > 0 && c.RateBurst == 0 {
		c.RateBurst = 1
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API key required", ErrInvalidConfig)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("%w: base URL must end with /", ErrInvalidConfig)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: pool size must be positive", ErrInvalidConfig)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be positive", ErrInvalidConfig)
	}
	return nil
}

// SearchOptions holds options for Search.
type SearchOptions struct {
	// IndexID identifies the remote index to search. Required.
	IndexID string

	// SearchType selects the remote ranking strategy. Reserved; the API
	// currently ranks uniformly.
	SearchType string

	// FilterQuery is accepted but not yet supported by the API; a non-empty
	// value is logged and ignored rather than rejected.
	FilterQuery string
}

// Store is a document store adapter for the Objective API.
//
// It implements docindex.Indexer and adds search and index lifecycle
// operations. The store owns its HTTP connection pool for its lifetime;
// documents are transient DTOs passed through the pipeline.
type Store struct {
	client   *Client
	config   Config
	embedder docindex.Embedder
	logger   *zap.Logger
}

// NewStore creates a Store with the given configuration.
func NewStore(config Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	store := &Store{
		client:   newClient(config, logger),
		config:   config,
		embedder: config.Embedder,
		logger:   logger,
	}

	logger.Info("objective store initialized",
		zap.String("base_url", config.BaseURL),
		zap.Int("pool_size", config.PoolSize),
		zap.Int("max_attempts", config.MaxAttempts),
	)

	return store, nil
}

// Close releases the store's pooled HTTP connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// objectPayload is the wire shape of a document's object body. Only content
// and metadata are transmitted; in-memory fields outside the wire contract
// are never sent.
type objectPayload struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// objectEnvelope is the remote object envelope {id, object: {text, metadata}}.
type objectEnvelope struct {
	ID     string        `json:"id"`
	Object objectPayload `json:"object"`
}

// docFromEnvelope translates the wire envelope to the domain model. This is
// the single place the wire shape is decoded; it must stay in sync with the
// objectPayload sent by Upsert.
func docFromEnvelope(env objectEnvelope) *docindex.Document {
	metadata := env.Object.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return &docindex.Document{
		ID:       env.ID,
		Content:  env.Object.Text,
		Metadata: metadata,
	}
}

// Upsert inserts or updates documents against the remote API.
//
// Identified documents are updated with an idempotent PUT; unidentified
// documents are created with a POST and the server-assigned ID is written
// back onto the document in place. Operations run concurrently through the
// bounded batch runner; a per-document failure is logged and recorded,
// never aborting the batch.
func (s *Store) Upsert(ctx context.Context, docs []*docindex.Document) (*docindex.UpsertResult, error) {
	ctx, span := tracer.Start(ctx, "objective.Upsert")
	defer span.End()
	span.SetAttributes(attribute.Int("document_count", len(docs)))

	succeeded, failed := runBatch(ctx, s.config.PoolSize, docs, s.upsertOne)

	span.SetAttributes(
		attribute.Int("succeeded", len(succeeded)),
		attribute.Int("failed", len(failed)),
	)
	return &docindex.UpsertResult{Succeeded: succeeded, Failed: failed}, nil
}

func (s *Store) upsertOne(ctx context.Context, doc *docindex.Document) (string, bool) {
	payload := objectPayload{Text: doc.Content, Metadata: doc.Metadata}

	if doc.ID != "" {
		if err := s.client.do(ctx, http.MethodPut, "objects/"+doc.ID, payload, nil, nil); err != nil {
			s.logger.Error("failed to upsert document", zap.String("id", doc.ID), zap.Error(err))
			return doc.ID, false
		}
		return doc.ID, true
	}

	var created objectEnvelope
	if err := s.client.do(ctx, http.MethodPost, "objects", payload, nil, &created); err != nil {
		s.logger.Error("failed to upsert document", zap.Error(err))
		return "", false
	}
	doc.ID = created.ID
	return doc.ID, true
}

// Delete removes the documents with the given IDs.
//
// Returns docindex.ErrMissingIDs before any request when ids is nil. Every
// ID is attempted; failures are recorded per item and reflected in the
// result (DeleteResult.OK is the AND-reduction across all items).
func (s *Store) Delete(ctx context.Context, ids []string) (*docindex.DeleteResult, error) {
	ctx, span := tracer.Start(ctx, "objective.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int("id_count", len(ids)))

	if ids == nil {
		span.SetStatus(codes.Error, docindex.ErrMissingIDs.Error())
		return nil, docindex.ErrMissingIDs
	}

	succeeded, failed := runBatch(ctx, s.config.PoolSize, ids, s.deleteOne)

	return &docindex.DeleteResult{
		Succeeded:  succeeded,
		Failed:     failed,
		NumDeleted: len(succeeded),
	}, nil
}

func (s *Store) deleteOne(ctx context.Context, id string) (string, bool) {
	if err := s.client.do(ctx, http.MethodDelete, "objects/"+id, nil, nil, nil); err != nil {
		s.logger.Error("failed to delete document", zap.String("id", id), zap.Error(err))
		return id, false
	}
	return id, true
}

// Get fetches documents by ID, one GET per ID through the batch runner.
// IDs that are missing or failed to fetch are silently dropped from the
// result; the caller receives exactly what could be retrieved.
func (s *Store) Get(ctx context.Context, ids []string) ([]*docindex.Document, error) {
	ctx, span := tracer.Start(ctx, "objective.Get")
	defer span.End()
	span.SetAttributes(attribute.Int("id_count", len(ids)))

	found, _ := runBatch(ctx, s.config.PoolSize, ids, s.getOne)

	span.SetAttributes(attribute.Int("found", len(found)))
	return found, nil
}

func (s *Store) getOne(ctx context.Context, id string) (*docindex.Document, bool) {
	var env objectEnvelope
	if err := s.client.do(ctx, http.MethodGet, "objects/"+id, nil, nil, &env); err != nil {
		s.logger.Error("failed to get document", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return docFromEnvelope(env), true
}

// searchResponse is the wire shape of a search result page.
type searchResponse struct {
	Results []objectEnvelope `json:"results"`
}

// Search runs a query against a remote index and maps each result envelope
// to a document.
//
// Returns ErrMissingIndexID without issuing a network call when the index ID
// is absent. A filter query is logged as unsupported and ignored.
func (s *Store) Search(ctx context.Context, query string, opts SearchOptions) ([]*docindex.Document, error) {
	ctx, span := tracer.Start(ctx, "objective.Search")
	defer span.End()

	if opts.IndexID == "" {
		span.SetStatus(codes.Error, ErrMissingIndexID.Error())
		return nil, ErrMissingIndexID
	}
	if opts.FilterQuery != "" {
		s.logger.Warn("filter queries are not yet supported and will be ignored",
			zap.String("filter_query", opts.FilterQuery))
	}

	span.SetAttributes(attribute.String("index_id", opts.IndexID))

	params := url.Values{}
	params.Set("query", query)

	var resp searchResponse
	if err := s.client.do(ctx, http.MethodGet, "indexes/"+opts.IndexID+"/search", nil, params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("searching index %s: %w", opts.IndexID, err)
	}

	docs := make([]*docindex.Document, 0, len(resp.Results))
	for _, env := range resp.Results {
		docs = append(docs, docFromEnvelope(env))
	}

	span.SetAttributes(attribute.Int("result_count", len(docs)))
	return docs, nil
}

// SimilaritySearch is the embedding-based search entry point. Embedding and
// ranking live in the remote service, so there is nothing to run locally.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]*docindex.Document, error) {
	return nil, fmt.Errorf("similarity search: %w", docindex.ErrNotImplemented)
}

// CreateIndex creates a text-searchable index and returns its remote-assigned
// identifier. The index reaches readiness asynchronously; poll IndexStatus.
func (s *Store) CreateIndex(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "objective.CreateIndex")
	defer span.End()

	payload := map[string]interface{}{
		"configuration": map[string]interface{}{
			"index_type": map[string]string{"name": "text"},
			"fields": map[string]interface{}{
				"searchable": map[string]interface{}{"allow": []string{"text"}},
			},
		},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := s.client.do(ctx, http.MethodPost, "indexes", payload, nil, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("creating index: %w", err)
	}
	if resp.ID == "" {
		span.SetStatus(codes.Error, "response missing id")
		return "", fmt.Errorf("%w: create index response missing id", ErrMalformedResponse)
	}

	span.SetAttributes(attribute.String("index_id", resp.ID))
	return resp.ID, nil
}

// IndexStatus returns the remote index's lifecycle status payload. The state
// machine lives server-side; the client only surfaces it.
func (s *Store) IndexStatus(ctx context.Context, indexID string) (map[string]interface{}, error) {
	ctx, span := tracer.Start(ctx, "objective.IndexStatus")
	defer span.End()
	span.SetAttributes(attribute.String("index_id", indexID))

	var resp struct {
		Status map[string]interface{} `json:"status"`
	}
	if err := s.client.do(ctx, http.MethodGet, "indexes/"+indexID+"/status", nil, nil, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("retrieving status for index %s: %w", indexID, err)
	}
	if resp.Status == nil {
		span.SetStatus(codes.Error, "response missing status")
		return nil, fmt.Errorf("%w: index status response missing status", ErrMalformedResponse)
	}

	return resp.Status, nil
}

var _ docindex.Indexer = (*Store)(nil)
