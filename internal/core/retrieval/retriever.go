// Package retrieval selects which indexed chunks ground an answer. Two
// policies are supported: plain similarity top-k, and maximal marginal
// relevance, which over-fetches candidates and greedily trades relevance
// against redundancy with what has already been picked.
package retrieval

import (
	"context"
	"fmt"

	"github.com/lunoai/luno/internal/core/index"
	"github.com/lunoai/luno/internal/models"
)

// Strategy names a retrieval policy.
type Strategy string

const (
	StrategySimilarity Strategy = "similarity"
	StrategyMMR        Strategy = "mmr"
)

const (
	DefaultTopK = 4
	// DefaultLambda favors diversity: MMR score is
	// lambda*relevance - (1-lambda)*redundancy.
	DefaultLambda = 0.25
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySimilarity, StrategyMMR:
		return Strategy(s), nil
	case "":
		return StrategyMMR, nil
	}
	return "", fmt.Errorf("unknown retrieval strategy %q", s)
}

// Retriever binds a strategy to a vector index.
type Retriever struct {
	index    index.VectorIndex
	strategy Strategy
	topK     int
	fetchK   int
	lambda   float64
}

// New builds a retriever. fetchK <= 0 selects max(10, 3*topK) for MMR
// over-fetching; lambda outside [0,1] falls back to the default.
func New(idx index.VectorIndex, strategy Strategy, topK, fetchK int, lambda float64) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if fetchK <= 0 {
		fetchK = 3 * topK
		if fetchK < 10 {
			fetchK = 10
		}
	}
	if lambda < 0 || lambda > 1 {
		lambda = DefaultLambda
	}
	return &Retriever{index: idx, strategy: strategy, topK: topK, fetchK: fetchK, lambda: lambda}
}

// Retrieve returns the chunks grounding an answer, most relevant first.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.ScoredChunk, error) {
	switch r.strategy {
	case StrategyMMR:
		candidates, err := r.index.Search(ctx, query, r.fetchK, nil)
		if err != nil {
			return nil, err
		}
		return rerankMMR(candidates, r.topK, r.lambda), nil
	default:
		return r.index.Search(ctx, query, r.topK, nil)
	}
}

// rerankMMR greedily picks k candidates maximizing
// lambda*relevance - (1-lambda)*maxSimilarityToSelected. Candidates arrive
// ranked by query similarity; relevance is normalized against the best
// score so the two terms are comparable.
func rerankMMR(candidates []models.ScoredChunk, k int, lambda float64) []models.ScoredChunk {
	if len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	maxScore := candidates[0].Score
	for _, c := range candidates {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}

	selected := make([]models.ScoredChunk, 0, k)
	remaining := append([]models.ScoredChunk(nil), candidates...)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestMMR := -1e9

		for i, candidate := range remaining {
			relevance := candidate.Score / maxScore

			maxSim := 0.0
			for _, sel := range selected {
				if sim := cosine(candidate.Embedding, sel.Embedding); sim > maxSim {
					maxSim = sim
				}
			}

			if mmr := lambda*relevance - (1-lambda)*maxSim; mmr > bestMMR {
				bestMMR = mmr
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// cosine over unit-length vectors reduces to the dot product.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
