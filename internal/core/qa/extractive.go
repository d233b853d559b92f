package qa

import (
	"strings"
	"unicode/utf8"
)

// goalKeywords mark fact-lookup questions about a document's intent, for
// which a verbatim excerpt often beats a generated summary.
var goalKeywords = []string{"goal", "objective", "purpose", "aim", "mission"}

const (
	// extractiveMaxLen caps the assembled snippet.
	extractiveMaxLen = 350
	// windowBefore/windowAfter bound the lines collected around a
	// keyword hit: one line of lead-in, the hit, and two of follow-on.
	windowBefore = 1
	windowAfter  = 3
)

// ExtractiveAnswer scans retrieved chunk texts for lines matching the
// goal/purpose keyword set when the question itself contains one of those
// keywords, and assembles the surrounding lines into a snippet. It is a
// pure function over the retrieved text; it never calls the model. Returns
// "" when the heuristic does not apply or nothing matches.
func ExtractiveAnswer(question string, chunkTexts []string) string {
	lowerQ := strings.ToLower(question)
	matched := false
	for _, kw := range goalKeywords {
		if strings.Contains(lowerQ, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return ""
	}

	var snippets []string
	for _, text := range chunkTexts {
		lines := nonEmptyLines(text)
		for i, line := range lines {
			lower := strings.ToLower(line)
			for _, kw := range goalKeywords {
				if strings.Contains(lower, kw) {
					start := i - windowBefore
					if start < 0 {
						start = 0
					}
					end := i + windowAfter
					if end > len(lines) {
						end = len(lines)
					}
					snippets = append(snippets, strings.Join(lines[start:end], " "))
					break
				}
			}
		}
	}
	if len(snippets) == 0 {
		return ""
	}

	joined := strings.Join(snippets, " ")
	if runes := []rune(joined); len(runes) > extractiveMaxLen {
		joined = string(runes[:extractiveMaxLen]) + "..."
	}
	return joined
}

// preferExtractive decides whether the extractive snippet replaces the
// generated answer: when the model's output is suspiciously short, or when
// the snippet is substantially more compact than the generation.
func preferExtractive(generated, extractive string) bool {
	if extractive == "" {
		return false
	}
	genLen := utf8.RuneCountInString(generated)
	return genLen < 10 || float64(utf8.RuneCountInString(extractive)) < 0.7*float64(genLen)
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
