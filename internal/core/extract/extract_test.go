package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunoai/luno/internal/core"
)

func TestForExtension(t *testing.T) {
	for _, ext := range []string{".pdf", ".txt", ".docx", ".PDF", ".Txt"} {
		_, ok := ForExtension(ext)
		assert.True(t, ok, "extension %s should be supported", ext)
	}
	_, ok := ForExtension(".xyz")
	assert.False(t, ok)
}

func TestTextExtractorUTF8(t *testing.T) {
	e := &TextExtractor{}
	out, err := e.Extract([]byte("first line\nsecond line\n\nnew paragraph"))
	require.NoError(t, err)

	assert.Equal(t, "first line second line\n\nnew paragraph", out.Text)
	assert.Equal(t, "4", out.Metadata["lines"])
}

func TestTextExtractorLatin1Fallback(t *testing.T) {
	e := &TextExtractor{}
	// 0xE9 is "é" in Latin-1 and invalid on its own in UTF-8.
	out, err := e.Extract([]byte{'c', 'a', 'f', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "café", out.Text)
	assert.Equal(t, "1", out.Metadata["lines"])
}

func TestTextExtractorEmpty(t *testing.T) {
	e := &TextExtractor{}
	out, err := e.Extract(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out.Text)
}

func TestPDFExtractorMalformed(t *testing.T) {
	e := &PDFExtractor{}
	_, err := e.Extract([]byte("definitely not a pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExtraction)
}

func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		require.NoError(t, xml.EscapeText(&body, []byte(p)))
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxExtractor(t *testing.T) {
	data := buildDocx(t, []string{"First paragraph.", "   ", "Second paragraph."})

	e := &DocxExtractor{}
	out, err := e.Extract(data)
	require.NoError(t, err)

	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", out.Text)
	assert.Equal(t, "2", out.Metadata["paragraphs"], "blank paragraphs should not be counted")
}

func TestDocxExtractorNotAZip(t *testing.T) {
	e := &DocxExtractor{}
	_, err := e.Extract([]byte("plain bytes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestDocxExtractorMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	e := &DocxExtractor{}
	_, err = e.Extract(buf.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExtraction)
}
