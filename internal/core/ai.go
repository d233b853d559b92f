package core

import "context"

// EmbeddingProvider turns texts into fixed-length vectors. Implementations
// are expected to return unit-length vectors so distance ranking stays
// consistent across backends.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMProvider generates an answer for a composed prompt.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
