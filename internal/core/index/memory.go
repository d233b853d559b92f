package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/models"
)

type memoryEntry struct {
	id     string
	chunk  models.Chunk
	vector []float32
}

// MemoryIndex is a brute-force in-memory implementation of VectorIndex.
// It backs tests and the no-Postgres deployment mode; contents do not
// survive a restart.
type MemoryIndex struct {
	embedder core.EmbeddingProvider

	mu      sync.RWMutex
	entries []memoryEntry
}

func NewMemoryIndex(embedder core.EmbeddingProvider) *MemoryIndex {
	return &MemoryIndex{embedder: embedder}
}

// Add embeds the batch first and appends it under the lock, so a failed
// embedding leaves the index untouched and the batch lands atomically.
func (x *MemoryIndex) Add(ctx context.Context, chunks []models.Chunk) error {
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

	entries := make([]memoryEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = memoryEntry{id: uuid.NewString(), chunk: c, vector: vectors[i]}
	}

	x.mu.Lock()
	x.entries = append(x.entries, entries...)
	x.mu.Unlock()
	return nil
}

func (x *MemoryIndex) Search(ctx context.Context, query string, k int, filter Filter) ([]models.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	empty := len(x.entries) == 0
	x.mu.RUnlock()
	if empty {
		return nil, nil
	}

	vectors, err := x.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", core.ErrIndexRead, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedder returned no vector for query", core.ErrIndexRead)
	}
	queryVec := vectors[0]

	x.mu.RLock()
	defer x.mu.RUnlock()

	scored := make([]models.ScoredChunk, 0, len(x.entries))
	for _, e := range x.entries {
		if !matchesFilter(e.chunk, filter) {
			continue
		}
		scored = append(scored, models.ScoredChunk{
			Chunk:     copyChunk(e.chunk),
			Score:     dot(queryVec, e.vector),
			Embedding: append([]float32(nil), e.vector...),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func (x *MemoryIndex) Delete(ctx context.Context, sourceID string) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	kept := x.entries[:0]
	removed := false
	for _, e := range x.entries {
		if e.chunk.Source == sourceID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	x.entries = kept
	return removed, nil
}

func (x *MemoryIndex) Clear(ctx context.Context) error {
	x.mu.Lock()
	x.entries = nil
	x.mu.Unlock()
	return nil
}

func (x *MemoryIndex) ListSources(ctx context.Context) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := make(map[string]bool)
	var sources []string
	for _, e := range x.entries {
		if !seen[e.chunk.Source] {
			seen[e.chunk.Source] = true
			sources = append(sources, e.chunk.Source)
		}
	}
	sort.Strings(sources)
	return sources, nil
}

func (x *MemoryIndex) Count(ctx context.Context) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

func matchesFilter(c models.Chunk, filter Filter) bool {
	for k, v := range filter {
		if k == "source" {
			if c.Source != v {
				return false
			}
			continue
		}
		if c.Metadata[k] != v {
			return false
		}
	}
	return true
}

func copyChunk(c models.Chunk) models.Chunk {
	out := c
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// dot assumes unit-length vectors, so the dot product is the cosine
// similarity.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

var _ VectorIndex = (*MemoryIndex)(nil)
