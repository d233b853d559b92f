package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/core/textnorm"
)

// DocxExtractor reads word/document.xml out of the DOCX zip container and
// collects paragraph texts in document order. Paragraphs that trim to empty
// are skipped; the rest are joined with blank lines so paragraph structure
// survives normalization.
type DocxExtractor struct{}

func (e *DocxExtractor) Extract(data []byte) (ExtractedText, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ExtractedText{}, fmt.Errorf("%w: docx: %v", core.ErrExtraction, err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return ExtractedText{}, fmt.Errorf("%w: docx: %v", core.ErrExtraction, err)
			}
			break
		}
	}
	if docXML == nil {
		return ExtractedText{}, fmt.Errorf("%w: docx: word/document.xml missing", core.ErrExtraction)
	}
	defer docXML.Close()

	paragraphs, err := readParagraphs(docXML)
	if err != nil {
		return ExtractedText{}, fmt.Errorf("%w: docx: %v", core.ErrExtraction, err)
	}

	return ExtractedText{
		Text:     textnorm.Normalize(strings.Join(paragraphs, "\n\n")),
		Metadata: map[string]string{"paragraphs": strconv.Itoa(len(paragraphs))},
	}, nil
}

// readParagraphs walks the WordprocessingML token stream: <w:p> delimits
// paragraphs, <w:t> holds the runs of text, <w:tab> and <w:br> map to their
// plain-text equivalents.
func readParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
