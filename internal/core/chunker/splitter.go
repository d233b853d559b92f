// Package chunker splits normalized text into bounded, overlapping chunks
// along a separator hierarchy: paragraph breaks first, then line breaks,
// then spaces, then hard character slicing as the fallback that guarantees
// every piece fits.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// separators in priority order. The empty string is the terminal fallback:
// it splits into individual runes, so a chunk can always be assembled under
// the size limit.
var separators = []string{"\n\n", "\n", " ", ""}

const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Splitter produces chunks of at most ChunkSize characters, each chunk
// after the first starting Overlap characters before the end of the
// previous one. Lengths are counted in runes, not bytes.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

// New returns a Splitter with the given limits; non-positive values fall
// back to the defaults.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
		if overlap >= chunkSize {
			overlap = chunkSize / 5
		}
	}
	return &Splitter{ChunkSize: chunkSize, Overlap: overlap}
}

// Split divides text into chunks. Non-empty input always yields at least
// one chunk.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, separators)
}

// splitText picks the highest-priority separator present in text, splits on
// it keeping the separator attached to the following piece, and merges the
// pieces back into size-bounded chunks. Oversized pieces recurse with the
// remaining separators.
func (s *Splitter) splitText(text string, seps []string) []string {
	separator := seps[len(seps)-1]
	var next []string
	for i, sep := range seps {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			next = seps[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if runeLen(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.mergeSplits(good)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.mergeSplits(good)...)
	}
	return final
}

// splitKeepingSeparator splits text on sep with the separator prepended to
// the piece that follows it, so no characters are lost and the overlap math
// stays exact. An empty separator splits into runes.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, 0, len(runes))
		for _, r := range runes {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeSplits greedily packs consecutive pieces into chunks of at most
// ChunkSize characters. When a chunk is emitted, pieces are dropped from
// the front of the window until the retained tail is within Overlap
// characters, which becomes the start of the next chunk.
func (s *Splitter) mergeSplits(pieces []string) []string {
	var (
		docs    []string
		current []string
		total   int
	)

	for _, piece := range pieces {
		pl := runeLen(piece)
		if total+pl > s.ChunkSize && len(current) > 0 {
			if doc := joinTrimmed(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.Overlap || (total+pl > s.ChunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += pl
	}

	if doc := joinTrimmed(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinTrimmed(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
