package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// SQL for the library_chunks table. All queries are parameterized; filter
// values never reach the SQL text directly.
const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS library_chunks (
		id         TEXT PRIMARY KEY,
		content    TEXT NOT NULL,
		source     TEXT NOT NULL DEFAULT '',
		embedding  vector NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	searchChunksSQL = `SELECT id, content, source, 1 - (embedding <=> $1) AS similarity
		FROM library_chunks
		ORDER BY embedding <=> $1
		LIMIT $2`

	countChunksSQL = `SELECT count(*) FROM library_chunks`

	upsertChunkSQL = `INSERT INTO library_chunks (id, content, source, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET content = EXCLUDED.content, source = EXCLUDED.source, embedding = EXCLUDED.embedding`
)

// SearchChunksRow is one row returned by SearchChunks, ordered by
// descending similarity.
type SearchChunksRow struct {
	ID         string
	Content    string
	Source     string
	Similarity float32
}

// Queries is the pgx-backed implementation of the Querier interface.
// The underlying pool is shared and managed by the caller.
type Queries struct {
	pool *pgxpool.Pool
}

// NewQueries creates a Queries over the given connection pool.
func NewQueries(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// EnsureSchema creates the chunk table if it does not exist.
// Requires the pgvector extension to be installed in the database.
func (q *Queries) EnsureSchema(ctx context.Context) error {
	if _, err := q.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("creating pgvector extension: %w", err)
	}
	if _, err := q.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("creating library_chunks table: %w", err)
	}
	return nil
}

// SearchChunks returns the limit nearest chunks to the query embedding.
func (q *Queries) SearchChunks(ctx context.Context, embedding pgvector.Vector, limit int32) ([]SearchChunksRow, error) {
	rows, err := q.pool.Query(ctx, searchChunksSQL, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var out []SearchChunksRow
	for rows.Next() {
		var r SearchChunksRow
		if err := rows.Scan(&r.ID, &r.Content, &r.Source, &r.Similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk rows: %w", err)
	}
	return out, nil
}

// CountChunks returns the total number of indexed chunks.
func (q *Queries) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	if err := q.pool.QueryRow(ctx, countChunksSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// UpsertChunk inserts or replaces a chunk by ID.
func (q *Queries) UpsertChunk(ctx context.Context, chunk Chunk) error {
	embedding := pgvector.NewVector(chunk.Embedding)
	if _, err := q.pool.Exec(ctx, upsertChunkSQL, chunk.ID, chunk.Content, chunk.Source, embedding); err != nil {
		return fmt.Errorf("upserting chunk %q: %w", chunk.ID, err)
	}
	return nil
}
