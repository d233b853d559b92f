// Package textnorm cleans raw extracted text before chunking: it undoes
// line-wrap artifacts (hyphen breaks, mid-paragraph newlines), strips the
// page markers the PDF extractor injects, and collapses whitespace while
// preserving paragraph structure.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	hyphenBreak = regexp.MustCompile(`(\w)-\n(\w)`)
	pageMarker  = regexp.MustCompile(`\s*--- Page \d+ ---\s*`)
	newlineRun  = regexp.MustCompile(`\n+`)
	spaceRun    = regexp.MustCompile(`[ \t]{2,}`)
)

// Normalize applies the cleanup rules in order and is idempotent:
//
//  1. unify line endings
//  2. rejoin hyphen-broken words ("exam-\nple" -> "example")
//  3. replace page-boundary markers with a paragraph break
//  4. collapse a lone newline into a space (undo line wrapping)
//  5. collapse 3+ newlines to a paragraph break
//  6. collapse runs of horizontal whitespace
//  7. trim
//
// Empty or whitespace-only input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = pageMarker.ReplaceAllString(text, "\n\n")

	// Rules 4 and 5 in one pass: a run of exactly one newline is a wrap
	// artifact and becomes a space; any longer run is a paragraph break.
	text = newlineRun.ReplaceAllStringFunc(text, func(run string) string {
		if len(run) == 1 {
			return " "
		}
		return "\n\n"
	})

	text = spaceRun.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
