// Package index owns the persistent collection of (embedding, chunk text,
// metadata) triples. It wraps an external embedding provider and a store
// engine; callers never see either directly.
package index

import (
	"context"

	"github.com/lunoai/luno/internal/models"
)

// Filter restricts a search by metadata equality. The "source" key matches
// chunk provenance; any other key matches format metadata.
type Filter map[string]string

// VectorIndex is the single mutable shared state of the system.
//
// Add embeds and commits a batch atomically: either every chunk of the
// batch is indexed or none is. Search on an empty or not-yet-created
// collection returns an empty result, never an error. Count is advisory
// and degrades to 0 on any internal failure. Returned chunks are copies;
// later index mutations do not alter results already handed out.
type VectorIndex interface {
	Add(ctx context.Context, chunks []models.Chunk) error
	Search(ctx context.Context, query string, k int, filter Filter) ([]models.ScoredChunk, error)
	Delete(ctx context.Context, sourceID string) (bool, error)
	Clear(ctx context.Context) error
	ListSources(ctx context.Context) ([]string, error)
	Count(ctx context.Context) int
}
