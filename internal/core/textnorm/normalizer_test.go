package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "  \n\t \r\n ",
			want: "",
		},
		{
			name: "dehyphenation",
			in:   "an exam-\nple word",
			want: "an example word",
		},
		{
			name: "carriage returns unified",
			in:   "one\r\ntwo\rthree",
			want: "one two three",
		},
		{
			name: "lone newline becomes space",
			in:   "wrapped\nline",
			want: "wrapped line",
		},
		{
			name: "paragraph break preserved",
			in:   "para one\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "three newlines collapse to paragraph break",
			in:   "para one\n\n\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "page marker becomes paragraph break",
			in:   "end of page\n--- Page 2 ---\nstart of next",
			want: "end of page\n\nstart of next",
		},
		{
			name: "horizontal whitespace collapsed",
			in:   "too  many\t\tspaces",
			want: "too many spaces",
		},
		{
			name: "leading and trailing trimmed",
			in:   "  padded  ",
			want: "padded",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeDehyphenationRemovesArtifact(t *testing.T) {
	got := Normalize("exam-\nple")
	assert.Contains(t, got, "example")
	assert.NotContains(t, got, "exam-")
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"wrapped\nlines with a hy-\nphen break",
		"--- Page 1 ---\nfirst page\n--- Page 2 ---\nsecond page",
		"a\n\n\nb\n\nc  d\te",
		strings.Repeat("line\n", 50),
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", in)
	}
}

func TestNormalizeKeepsPageBoundaryAsParagraph(t *testing.T) {
	// The extractor injects markers precisely so that page boundaries
	// survive as paragraph breaks once the marker text is stripped.
	in := "tail of page one\n--- Page 2 ---\nhead of page two"
	got := Normalize(in)
	assert.Equal(t, "tail of page one\n\nhead of page two", got)
	assert.NotContains(t, got, "Page")
}
