// Package qa orchestrates one question: retrieve grounding chunks, prompt
// the language model, apply the extractive fallback, and attach citations.
package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/lunoai/luno/internal/core"
	"github.com/lunoai/luno/internal/core/retrieval"
	"github.com/lunoai/luno/internal/models"
)

// Synthesizer answers questions against a retriever bound to the index.
type Synthesizer struct {
	retriever *retrieval.Retriever
	llm       core.LLMProvider
}

func NewSynthesizer(retriever *retrieval.Retriever, llm core.LLMProvider) *Synthesizer {
	return &Synthesizer{retriever: retriever, llm: llm}
}

// Answer runs the full pipeline for one question. Retrieval always
// completes before generation; any external-service failure surfaces as
// ErrAnswerGeneration with no partial result.
func (s *Synthesizer) Answer(ctx context.Context, question string) (models.QAResult, error) {
	if strings.TrimSpace(question) == "" {
		return models.QAResult{}, core.ErrEmptyQuestion
	}

	retrieved, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return models.QAResult{}, fmt.Errorf("%w: retrieve: %v", core.ErrAnswerGeneration, err)
	}

	texts := make([]string, len(retrieved))
	for i, sc := range retrieved {
		texts[i] = sc.Chunk.Text
	}
	grounding := strings.Join(texts, "\n\n")

	prompt := buildPrompt(grounding, question)
	answer, err := s.llm.Generate(ctx, "", prompt)
	if err != nil {
		return models.QAResult{}, fmt.Errorf("%w: %v", core.ErrAnswerGeneration, err)
	}
	answer = strings.TrimSpace(answer)

	if extractive := ExtractiveAnswer(question, texts); preferExtractive(answer, extractive) {
		answer = extractive
	}

	return models.QAResult{
		Answer:  answer,
		Sources: FormatCitations(retrieved),
	}, nil
}
