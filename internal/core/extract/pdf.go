package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/core/textnorm"
)

// PDFExtractor extracts text page by page. Each page that yields text is
// prefixed with a "--- Page n ---" marker; the marker exists only so the
// normalizer turns the page boundary into a paragraph break before the text
// reaches the chunker. Pages without extractable text contribute nothing.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(data []byte) (out ExtractedText, err error) {
	// The underlying parser panics on some malformed inputs; fold those
	// into the extraction error taxonomy.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf parse panic: %v", core.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ExtractedText{}, fmt.Errorf("%w: pdf: %v", core.ErrExtraction, err)
	}

	total := reader.NumPage()

	var b strings.Builder
	for n := 1; n <= total; n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return ExtractedText{}, fmt.Errorf("%w: pdf page %d: %v", core.ErrExtraction, n, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		b.WriteString("\n--- Page ")
		b.WriteString(strconv.Itoa(n))
		b.WriteString(" ---\n")
		b.WriteString(pageText)
	}

	return ExtractedText{
		Text:     textnorm.Normalize(b.String()),
		Metadata: map[string]string{"pages": strconv.Itoa(total)},
	}, nil
}
