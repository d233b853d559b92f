package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/lunoai/luno/internal/core/index"
	"github.com/lunoai/luno/internal/core/ingest"
)

// ingestWorkers bounds concurrent document processing in a batch. Each
// document is still indexed atomically on its own.
const ingestWorkers = 4

// File is one upload: the original file name (which becomes the source id)
// and its raw bytes.
type File struct {
	Name string
	Data []byte
}

// IngestResult reports the outcome for one document of a batch.
type IngestResult struct {
	Source string `json:"source"`
	Chunks int    `json:"chunks,omitempty"`
	Err    error  `json:"-"`
}

// DocumentService ties the ingestion pipeline to the vector index and
// exposes the document-management operations.
type DocumentService struct {
	pipeline *ingest.Pipeline
	index    index.VectorIndex
}

func NewDocumentService(pipeline *ingest.Pipeline, idx index.VectorIndex) *DocumentService {
	return &DocumentService{pipeline: pipeline, index: idx}
}

// Ingest processes and indexes a single document. The document's chunk set
// is committed wholly or not at all.
func (s *DocumentService) Ingest(ctx context.Context, name string, data []byte) (int, error) {
	chunks, err := s.pipeline.Ingest(name, data)
	if err != nil {
		return 0, err
	}
	if err := s.index.Add(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// IngestAll processes a batch concurrently. A failing document records its
// error in the corresponding result and never aborts its siblings; results
// keep the input order.
func (s *DocumentService) IngestAll(ctx context.Context, files []File) []IngestResult {
	results := make([]IngestResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestWorkers)

	for i, f := range files {
		g.Go(func() error {
			n, err := s.Ingest(gctx, f.Name, f.Data)
			if err != nil {
				log.Printf("ingest %s: %v", f.Name, err)
			}
			results[i] = IngestResult{Source: f.Name, Chunks: n, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Delete removes every chunk of the named source.
func (s *DocumentService) Delete(ctx context.Context, source string) (bool, error) {
	return s.index.Delete(ctx, source)
}

// Clear drops the whole collection.
func (s *DocumentService) Clear(ctx context.Context) error {
	return s.index.Clear(ctx)
}

// Sources lists the indexed source ids, sorted.
func (s *DocumentService) Sources(ctx context.Context) ([]string, error) {
	return s.index.ListSources(ctx)
}

// Count reports the total indexed chunk count (0 on failure).
func (s *DocumentService) Count(ctx context.Context) int {
	return s.index.Count(ctx)
}
