package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/core/chunker"
)

func newPipeline(maxSize int) *Pipeline {
	return New(chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap), maxSize)
}

func TestIngestUnsupportedFormat(t *testing.T) {
	p := newPipeline(0)
	_, err := p.Ingest("file.xyz", []byte("content"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestIngestExtensionCaseInsensitive(t *testing.T) {
	p := newPipeline(0)
	chunks, err := p.Ingest("NOTES.TXT", []byte("some text"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestIngestFileTooLarge(t *testing.T) {
	p := newPipeline(0)
	big := bytes.Repeat([]byte("a"), DefaultMaxFileSize+1)
	_, err := p.Ingest("big.txt", big)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFileTooLarge)
}

func TestIngestEmptyDocument(t *testing.T) {
	p := newPipeline(0)
	_, err := p.Ingest("empty.txt", []byte("   \n\n\t  "))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyDocument)
}

func TestIngestChunkMetadata(t *testing.T) {
	p := New(chunker.New(100, 20), 0)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("A sentence that fills space. ")
	}

	chunks, err := p.Ingest("doc.txt", []byte(b.String()))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	total := len(chunks)
	for i, c := range chunks {
		assert.Equal(t, "doc.txt", c.Source)
		assert.Equal(t, i, c.ChunkIndex)
		assert.Equal(t, total, c.TotalChunks)
		assert.NotEmpty(t, c.Text)
		assert.Contains(t, c.Metadata, "lines")
	}
}

func TestIngestSingleChunkDocument(t *testing.T) {
	p := newPipeline(0)
	chunks, err := p.Ingest("short.txt", []byte("Para one.\n\nPara two.\n\nPara three."))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[0].TotalChunks)
	assert.Equal(t, "Para one.\n\nPara two.\n\nPara three.", chunks[0].Text)
}
