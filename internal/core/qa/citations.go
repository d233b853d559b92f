package qa

import (
	"fmt"

	"github.com/lunoai/luno/internal/models"
)

// FormatCitations builds one citation per distinct source among the
// retrieved chunks, in first-occurrence order, annotated with the format
// detail the extractor recorded.
func FormatCitations(chunks []models.ScoredChunk) []models.Citation {
	seen := make(map[string]bool)
	var citations []models.Citation

	for _, sc := range chunks {
		source := sc.Chunk.Source
		if seen[source] {
			continue
		}
		seen[source] = true
		citations = append(citations, models.Citation{
			Source: source,
			Detail: formatDetail(sc.Chunk.Metadata),
		})
	}
	return citations
}

func formatDetail(meta map[string]string) string {
	if v, ok := meta["pages"]; ok {
		return fmt.Sprintf("PDF, %s pages", v)
	}
	if v, ok := meta["paragraphs"]; ok {
		return fmt.Sprintf("DOCX, %s paragraphs", v)
	}
	if v, ok := meta["lines"]; ok {
		return fmt.Sprintf("TXT, %s lines", v)
	}
	return ""
}
