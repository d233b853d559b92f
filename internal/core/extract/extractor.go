// Package extract turns uploaded file bytes into normalized text plus
// format metadata. One extractor per supported format, selected by file
// extension; every extractor runs its output through textnorm before
// returning.
package extract

import "strings"

// ExtractedText is the result of text extraction: the normalized body and
// format-specific metadata (pages, paragraphs, lines) used later for
// citation detail.
type ExtractedText struct {
	Text     string
	Metadata map[string]string
}

// Extractor parses one document format. Malformed input fails with an
// error wrapping core.ErrExtraction.
type Extractor interface {
	Extract(data []byte) (ExtractedText, error)
}

var registry = map[string]Extractor{
	".pdf":  &PDFExtractor{},
	".docx": &DocxExtractor{},
	".txt":  &TextExtractor{},
}

// ForExtension returns the extractor for a file extension (case-insensitive,
// leading dot expected) and whether the format is supported.
func ForExtension(ext string) (Extractor, bool) {
	e, ok := registry[strings.ToLower(ext)]
	return e, ok
}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".docx"}
}
