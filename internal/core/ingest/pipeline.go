// Package ingest validates an uploaded file, extracts and normalizes its
// text, and splits it into chunks carrying provenance metadata. Indexing is
// a separate, explicit step owned by the caller.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/core/chunker"
	"github.com/lunoai/luno/internal/core/extract"
	"github.com/lunoai/luno/internal/models"
)

const DefaultMaxFileSize = 10 << 20 // 10 MiB

// reservedKeys are chunk provenance fields; a format extractor must never
// emit them as metadata.
var reservedKeys = map[string]bool{
	"source":       true,
	"chunk_index":  true,
	"total_chunks": true,
}

// Pipeline turns (file name, bytes) into an ordered chunk sequence.
type Pipeline struct {
	splitter    *chunker.Splitter
	maxFileSize int
}

// New builds a pipeline; maxFileSize <= 0 selects the 10 MiB default.
func New(splitter *chunker.Splitter, maxFileSize int) *Pipeline {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Pipeline{splitter: splitter, maxFileSize: maxFileSize}
}

// Ingest validates the file, dispatches to the extractor matching its
// extension, and chunks the normalized text. Every returned chunk carries
// the source name, its 0-based index, the total count, and the extractor's
// format metadata.
func (p *Pipeline) Ingest(fileName string, data []byte) ([]models.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	extractor, ok := extract.ForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			core.ErrUnsupportedFormat, ext, strings.Join(extract.SupportedExtensions(), ", "))
	}

	if len(data) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", core.ErrFileTooLarge, len(data), p.maxFileSize)
	}

	extracted, err := extractor.Extract(data)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(extracted.Text) == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyDocument, fileName)
	}

	for k := range extracted.Metadata {
		if reservedKeys[k] {
			panic(fmt.Sprintf("ingest: extractor emitted reserved metadata key %q", k))
		}
	}

	texts := p.splitter.Split(extracted.Text)

	chunks := make([]models.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, models.Chunk{
			Text:        text,
			Source:      fileName,
			ChunkIndex:  i,
			TotalChunks: len(texts),
			Metadata:    extracted.Metadata,
		})
	}
	return chunks, nil
}
