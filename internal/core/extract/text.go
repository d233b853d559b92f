package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lunoai/luno/internal/core/textnorm"
)

// TextExtractor decodes plain text as UTF-8, falling back to Latin-1 when
// the bytes are not valid UTF-8. The Latin-1 path cannot fail, so plain
// text extraction never errors. The line count is taken before
// normalization, splitting on newline.
type TextExtractor struct{}

func (e *TextExtractor) Extract(data []byte) (ExtractedText, error) {
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		text = decodeLatin1(data)
	}

	lines := len(strings.Split(text, "\n"))

	return ExtractedText{
		Text:     textnorm.Normalize(text),
		Metadata: map[string]string{"lines": strconv.Itoa(lines)},
	}, nil
}

func decodeLatin1(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}
