// Package knowledge adapts the pre-built document collection to the answer
// pipeline.
//
// The collection is a similarity index over document chunks stored in
// PostgreSQL with pgvector. Chunks arrive pre-embedded from the provisioning
// archive; only query text is embedded at search time. The index is
// read-only and immutable for the lifetime of the process once loaded.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"
)

// ErrUnavailable indicates the document index is not loaded or the backing
// store is unreachable. Recoverable: the pipeline degrades to an
// empty-context answer rather than failing the turn.
var ErrUnavailable = errors.New("document index unavailable")

// Querier defines the database operations the store needs.
// Defined by the consumer so tests can substitute a mock for the
// pgx-backed Queries.
type Querier interface {
	// SearchChunks performs a vector search ordered by descending similarity.
	SearchChunks(ctx context.Context, embedding pgvector.Vector, limit int32) ([]SearchChunksRow, error)

	// CountChunks counts indexed chunks.
	CountChunks(ctx context.Context) (int64, error)

	// UpsertChunk inserts or replaces a chunk.
	UpsertChunk(ctx context.Context, chunk Chunk) error
}

// Store performs top-k nearest-neighbor lookups over the chunk collection.
//
// Safe for concurrent use: the read path needs no locks because the
// collection is immutable post-initialization. The only mutable shared
// state is the memoized readiness flag, which latches true exactly once.
type Store struct {
	queries  Querier
	embedder ai.Embedder
	logger   *slog.Logger
	ready    atomic.Bool
}

// New creates a Store. A nil logger selects slog.Default().
func New(querier Querier, embedder ai.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		queries:  querier,
		embedder: embedder,
		logger:   logger,
	}
}

// Ready reports whether the index holds at least one chunk.
// A positive answer is memoized; a negative one is re-checked on the next
// call so a completed provisioning run is picked up without restart.
func (s *Store) Ready(ctx context.Context) bool {
	if s.ready.Load() {
		return true
	}
	count, err := s.queries.CountChunks(ctx)
	if err != nil {
		s.logger.Debug("readiness check failed", "error", err)
		return false
	}
	if count == 0 {
		return false
	}
	s.ready.Store(true)
	return true
}

// Search returns the passages most similar to query, ordered by descending
// similarity, at most k long (default k = 4). The result is never padded.
//
// Returns ErrUnavailable when the index is not loaded or the backing store
// is unreachable, and context.DeadlineExceeded (wrapped) when the search
// deadline elapses.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Passage, error) {
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	if !s.Ready(queryCtx) {
		if err := queryCtx.Err(); err != nil {
			return nil, fmt.Errorf("readiness check: %w", err)
		}
		return nil, fmt.Errorf("%w: provisioning has not completed", ErrUnavailable)
	}

	embeddingResp, err := s.embedder.Embed(queryCtx, &ai.EmbedRequest{
		Input: []*ai.Document{
			{Content: []*ai.Part{ai.NewTextPart(query)}},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("query embedding timed out: %w", err)
		}
		return nil, fmt.Errorf("%w: embedding query: %w", ErrUnavailable, err)
	}
	if len(embeddingResp.Embeddings) == 0 || len(embeddingResp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding for query", ErrUnavailable)
	}

	queryEmbedding := pgvector.NewVector(embeddingResp.Embeddings[0].Embedding)

	rows, err := s.queries.SearchChunks(queryCtx, queryEmbedding, cfg.topK)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("vector search timed out: %w", err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	passages := make([]Passage, 0, len(rows))
	for _, row := range rows {
		passages = append(passages, Passage{
			ID:         row.ID,
			Content:    row.Content,
			Source:     row.Source,
			Similarity: row.Similarity,
		})
	}

	s.logger.Debug("search completed",
		"query_length", len(query),
		"top_k", cfg.topK,
		"results", len(passages))
	return passages, nil
}

// Count returns the number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count, err := s.queries.CountChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return int(count), nil
}

// Load bulk-upserts pre-embedded chunks. Called by the provisioner once at
// startup; not part of the per-turn read path.
func (s *Store) Load(ctx context.Context, chunks []Chunk) error {
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk with empty id (content length %d)", len(chunk.Content))
		}
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("chunk %q has no embedding", chunk.ID)
		}
		if err := s.queries.UpsertChunk(ctx, chunk); err != nil {
			return fmt.Errorf("loading chunk %q: %w", chunk.ID, err)
		}
	}
	s.logger.Info("chunks loaded", "count", len(chunks))
	return nil
}
