package qa

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/core/index"
	"github.com/lunoai/luno/internal/core/retrieval"
	"github.com/lunoai/luno/internal/models"
)

// wordOverlapEmbedder maps texts onto a tiny fixed vocabulary so retrieval
// ranks by shared words; vectors are unit length.
type wordOverlapEmbedder struct{}

var vocab = []string{"goal", "project", "cats", "dogs", "planets", "about", "para"}

func (wordOverlapEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, len(vocab)+1)
		lower := strings.ToLower(t)
		var norm float32
		for j, w := range vocab {
			if strings.Contains(lower, w) {
				vec[j] = 1
				norm++
			}
		}
		if norm == 0 {
			vec[len(vocab)] = 1
		} else {
			for j := range vec {
				vec[j] /= sqrt32(norm)
			}
		}
		out[i] = vec
	}
	return out, nil
}

func sqrt32(f float32) float32 {
	if f <= 0 {
		return 1
	}
	x := f
	for i := 0; i < 20; i++ {
		x = (x + f/x) / 2
	}
	return x
}

type stubLLM struct {
	answer string
	err    error
	prompt string
}

func (s *stubLLM) Generate(_ context.Context, _ string, userPrompt string) (string, error) {
	s.prompt = userPrompt
	return s.answer, s.err
}

func newSynthesizer(t *testing.T, llm core.LLMProvider, chunks ...models.Chunk) *Synthesizer {
	t.Helper()
	idx := index.NewMemoryIndex(wordOverlapEmbedder{})
	if len(chunks) > 0 {
		require.NoError(t, idx.Add(context.Background(), chunks))
	}
	r := retrieval.New(idx, retrieval.StrategySimilarity, 4, 0, 0.25)
	return NewSynthesizer(r, llm)
}

func TestAnswerEmptyQuestion(t *testing.T) {
	s := newSynthesizer(t, &stubLLM{answer: "unused"})
	_, err := s.Answer(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyQuestion)
}

func TestAnswerGenerationFailure(t *testing.T) {
	s := newSynthesizer(t, &stubLLM{err: errors.New("rate limited")},
		models.Chunk{Text: "cats and dogs", Source: "pets.txt", TotalChunks: 1})

	_, err := s.Answer(context.Background(), "tell me about cats")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAnswerGeneration)
}

func TestAnswerEmbedsContextAndQuestion(t *testing.T) {
	llm := &stubLLM{answer: "A grounded answer about cats that is long enough."}
	s := newSynthesizer(t, llm,
		models.Chunk{Text: "cats are mammals", Source: "pets.txt", TotalChunks: 1})

	res, err := s.Answer(context.Background(), "what about cats?")
	require.NoError(t, err)

	assert.Contains(t, llm.prompt, "cats are mammals")
	assert.Contains(t, llm.prompt, "what about cats?")
	assert.Contains(t, llm.prompt, Refusal)
	assert.Equal(t, "A grounded answer about cats that is long enough.", res.Answer)
}

func TestAnswerEndToEndSingleSource(t *testing.T) {
	llm := &stubLLM{answer: "The document describes three short paragraphs."}
	s := newSynthesizer(t, llm, models.Chunk{
		Text:        "Para one.\n\nPara two.\n\nPara three.",
		Source:      "notes.txt",
		ChunkIndex:  0,
		TotalChunks: 1,
		Metadata:    map[string]string{"lines": "5"},
	})

	res, err := s.Answer(context.Background(), "What is this about?")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Answer)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, "notes.txt", res.Sources[0].Source)
	assert.Equal(t, "TXT, 5 lines", res.Sources[0].Detail)
}

func TestExtractiveAnswer(t *testing.T) {
	chunkText := "Introduction line.\nThe goal of this project is to index documents.\nIt does so quickly.\nNothing else here."

	got := ExtractiveAnswer("What is the goal of the project?", []string{chunkText})
	assert.Contains(t, got, "The goal of this project is to index documents.")
	assert.Contains(t, got, "Introduction line.", "window should include the preceding line")
	assert.Contains(t, got, "It does so quickly.", "window should include following lines")
}

func TestExtractiveAnswerQuestionWithoutKeyword(t *testing.T) {
	got := ExtractiveAnswer("How many pages are there?", []string{"the goal is stated here"})
	assert.Empty(t, got, "heuristic only applies to goal/purpose-style questions")
}

func TestExtractiveAnswerNoMatchingLines(t *testing.T) {
	got := ExtractiveAnswer("what is the purpose?", []string{"nothing relevant\nat all"})
	assert.Empty(t, got)
}

func TestExtractiveAnswerTruncated(t *testing.T) {
	long := "the purpose is " + strings.Repeat("to elaborate endlessly ", 40)
	got := ExtractiveAnswer("state the purpose", []string{long})
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 353)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestExtractiveAnswerTruncatedMultiByte(t *testing.T) {
	long := "the purpose is " + strings.Repeat("é", 400)
	got := ExtractiveAnswer("what is the purpose?", []string{long})
	require.NotEmpty(t, got)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 353)
}

func TestPreferExtractive(t *testing.T) {
	assert.False(t, preferExtractive("a generated answer", ""))
	assert.True(t, preferExtractive("short", "a usable extractive snippet"),
		"sub-10-char generations lose to any snippet")
	assert.True(t, preferExtractive(strings.Repeat("x", 100), strings.Repeat("y", 50)),
		"snippet under 0.7x the generation wins")
	assert.False(t, preferExtractive(strings.Repeat("x", 100), strings.Repeat("y", 90)))
	assert.False(t, preferExtractive(strings.Repeat("é", 100), strings.Repeat("y", 90)),
		"lengths compare in runes, not bytes")
	assert.True(t, preferExtractive("短い答え", "a usable extractive snippet"))
}

func TestAnswerPrefersExtractiveForShortGeneration(t *testing.T) {
	llm := &stubLLM{answer: "Yes."}
	s := newSynthesizer(t, llm, models.Chunk{
		Text:        "Overview.\nThe goal of the project is fast document search.\nMore detail follows.",
		Source:      "plan.txt",
		TotalChunks: 1,
	})

	res, err := s.Answer(context.Background(), "What is the goal of the project?")
	require.NoError(t, err)
	assert.Contains(t, res.Answer, "The goal of the project is fast document search.")
}

func TestFormatCitationsDistinctFirstOccurrence(t *testing.T) {
	chunks := []models.ScoredChunk{
		{Chunk: models.Chunk{Source: "b.pdf", Metadata: map[string]string{"pages": "12"}}},
		{Chunk: models.Chunk{Source: "a.docx", Metadata: map[string]string{"paragraphs": "7"}}},
		{Chunk: models.Chunk{Source: "b.pdf", Metadata: map[string]string{"pages": "12"}}},
		{Chunk: models.Chunk{Source: "c.txt", Metadata: map[string]string{"lines": "42"}}},
	}

	citations := FormatCitations(chunks)
	require.Len(t, citations, 3)
	assert.Equal(t, models.Citation{Source: "b.pdf", Detail: "PDF, 12 pages"}, citations[0])
	assert.Equal(t, models.Citation{Source: "a.docx", Detail: "DOCX, 7 paragraphs"}, citations[1])
	assert.Equal(t, models.Citation{Source: "c.txt", Detail: "TXT, 42 lines"}, citations[2])
}

func TestFormatCitationsNoMetadata(t *testing.T) {
	citations := FormatCitations([]models.ScoredChunk{{Chunk: models.Chunk{Source: "x.txt"}}})
	require.Len(t, citations, 1)
	assert.Empty(t, citations[0].Detail)
}
