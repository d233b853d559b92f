package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/models"
)

var collectionName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PgIndex persists chunks in a Postgres table with a pgvector embedding
// column. The table is the collection: it is created lazily with the first
// batch and dropped by Clear, so a cleared index behaves exactly like a
// fresh one.
type PgIndex struct {
	db       *sql.DB
	embedder core.EmbeddingProvider
	table    string
	dim      int
}

// NewPgIndex validates the collection name and binds the index to an open
// connection pool. No schema is touched until the first Add.
func NewPgIndex(db *sql.DB, embedder core.EmbeddingProvider, collection string, dim int) (*PgIndex, error) {
	if !collectionName.MatchString(collection) {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}
	return &PgIndex{db: db, embedder: embedder, table: collection, dim: dim}, nil
}

func (x *PgIndex) ensureCollection(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id           uuid PRIMARY KEY,
			source       text NOT NULL,
			chunk_index  int  NOT NULL,
			total_chunks int  NOT NULL,
			text         text NOT NULL,
			metadata     jsonb NOT NULL DEFAULT '{}',
			embedding    vector(%d) NOT NULL
		)`, x.table, x.dim),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_source_idx ON %s (source)`, x.table, x.table),
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (x *PgIndex) collectionExists(ctx context.Context) (bool, error) {
	var exists bool
	err := x.db.QueryRowContext(ctx,
		`SELECT to_regclass($1) IS NOT NULL`, x.table).Scan(&exists)
	return exists, err
}

// Add embeds the batch and inserts every chunk in one transaction, creating
// the collection first if needed. A failure rolls the whole batch back.
func (x *PgIndex) Add(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := x.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed batch: %v", core.ErrIndexWrite, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d chunks",
			core.ErrIndexWrite, len(vectors), len(chunks))
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", core.ErrIndexWrite, err)
	}

	if err := x.ensureCollection(ctx, tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: ensure collection: %v", core.ErrIndexWrite, err)
	}

	q := fmt.Sprintf(`INSERT INTO %s
		(id, source, chunk_index, total_chunks, text, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, x.table)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: prepare insert: %v", core.ErrIndexWrite, err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		meta, err := json.Marshal(metadataOrEmpty(c.Metadata))
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: marshal metadata: %v", core.ErrIndexWrite, err)
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), c.Source, c.ChunkIndex, c.TotalChunks, c.Text,
			meta, pgvector.NewVector(vectors[i]),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert chunk %d of %s: %v", core.ErrIndexWrite, c.ChunkIndex, c.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrIndexWrite, err)
	}
	return nil
}

// Search embeds the query and returns up to k nearest chunks by cosine
// distance, scored as 1 - distance (descending).
func (x *PgIndex) Search(ctx context.Context, query string, k int, filter Filter) ([]models.ScoredChunk, error) {
	exists, err := x.collectionExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIndexRead, err)
	}
	if !exists || k <= 0 {
		return nil, nil
	}

	vectors, err := x.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", core.ErrIndexRead, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedder returned no vector for query", core.ErrIndexRead)
	}
	queryVec := pgvector.NewVector(vectors[0])

	where, args := buildFilter(filter, 2)
	q := fmt.Sprintf(`SELECT source, chunk_index, total_chunks, text, metadata, embedding,
			embedding <=> $1 AS distance
		FROM %s%s
		ORDER BY distance ASC
		LIMIT %d`, x.table, where, k)

	rows, err := x.db.QueryContext(ctx, q, append([]any{queryVec}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIndexRead, err)
	}
	defer rows.Close()

	var out []models.ScoredChunk
	for rows.Next() {
		var (
			sc       models.ScoredChunk
			meta     []byte
			emb      pgvector.Vector
			distance float64
		)
		if err := rows.Scan(&sc.Chunk.Source, &sc.Chunk.ChunkIndex, &sc.Chunk.TotalChunks,
			&sc.Chunk.Text, &meta, &emb, &distance); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", core.ErrIndexRead, err)
		}
		if err := json.Unmarshal(meta, &sc.Chunk.Metadata); err != nil {
			return nil, fmt.Errorf("%w: metadata: %v", core.ErrIndexRead, err)
		}
		sc.Embedding = emb.Slice()
		sc.Score = 1 - distance
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIndexRead, err)
	}
	return out, nil
}

// Delete removes every chunk of a source; reports whether any existed.
func (x *PgIndex) Delete(ctx context.Context, sourceID string) (bool, error) {
	exists, err := x.collectionExists(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrIndexWrite, err)
	}
	if !exists {
		return false, nil
	}
	res, err := x.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE source = $1`, x.table), sourceID)
	if err != nil {
		return false, fmt.Errorf("%w: delete %s: %v", core.ErrIndexWrite, sourceID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear drops the collection; the next Add recreates it.
func (x *PgIndex) Clear(ctx context.Context) error {
	if _, err := x.db.ExecContext(ctx,
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, x.table)); err != nil {
		return fmt.Errorf("%w: clear: %v", core.ErrIndexWrite, err)
	}
	return nil
}

// ListSources returns the distinct source ids, lexicographically sorted.
func (x *PgIndex) ListSources(ctx context.Context) ([]string, error) {
	exists, err := x.collectionExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIndexRead, err)
	}
	if !exists {
		return nil, nil
	}
	rows, err := x.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT DISTINCT source FROM %s ORDER BY source ASC`, x.table))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrIndexRead, err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrIndexRead, err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// Count is advisory: any failure (including a missing collection) reads
// as zero.
func (x *PgIndex) Count(ctx context.Context) int {
	exists, err := x.collectionExists(ctx)
	if err != nil || !exists {
		return 0
	}
	var n int
	if err := x.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT count(*) FROM %s`, x.table)).Scan(&n); err != nil {
		return 0
	}
	return n
}

func buildFilter(filter Filter, firstArg int) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	var (
		conds []string
		args  []any
	)
	n := firstArg
	for k, v := range filter {
		if k == "source" {
			conds = append(conds, fmt.Sprintf("source = $%d", n))
		} else {
			conds = append(conds, fmt.Sprintf("metadata->>'%s' = $%d", strings.ReplaceAll(k, "'", ""), n))
		}
		args = append(args, v)
		n++
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func metadataOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

var _ VectorIndex = (*PgIndex)(nil)
