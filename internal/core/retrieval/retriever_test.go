package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunoai/luno/internal/models"
)

func scored(id string, score float64, vec []float32) models.ScoredChunk {
	return models.ScoredChunk{
		Chunk:     models.Chunk{Text: id, Source: id},
		Score:     score,
		Embedding: vec,
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("similarity")
	require.NoError(t, err)
	assert.Equal(t, StrategySimilarity, s)

	s, err = ParseStrategy("mmr")
	require.NoError(t, err)
	assert.Equal(t, StrategyMMR, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyMMR, s)

	_, err = ParseStrategy("hybrid")
	assert.Error(t, err)
}

func TestNewFetchKDefault(t *testing.T) {
	r := New(nil, StrategyMMR, 4, 0, 0.25)
	assert.Equal(t, 12, r.fetchK, "fetchK should be 3*topK when that exceeds 10")

	r = New(nil, StrategyMMR, 2, 0, 0.25)
	assert.Equal(t, 10, r.fetchK, "fetchK floor is 10")
}

func TestRerankMMRPicksMostRelevantFirst(t *testing.T) {
	candidates := []models.ScoredChunk{
		scored("best", 1.0, []float32{1, 0, 0}),
		scored("second", 0.9, []float32{0, 1, 0}),
	}
	out := rerankMMR(candidates, 2, 0.25)
	require.Len(t, out, 2)
	assert.Equal(t, "best", out[0].Chunk.Source)
}

func TestRerankMMRPrefersDiversity(t *testing.T) {
	// "near-duplicate" repeats the top result almost exactly; a diverse
	// but slightly less relevant chunk should be chosen ahead of it.
	candidates := []models.ScoredChunk{
		scored("top", 1.0, []float32{1, 0, 0}),
		scored("near-duplicate", 0.95, []float32{0.999, 0.04, 0}),
		scored("diverse", 0.7, []float32{0, 1, 0}),
	}

	out := rerankMMR(candidates, 2, 0.25)
	require.Len(t, out, 2)
	assert.Equal(t, "top", out[0].Chunk.Source)
	assert.Equal(t, "diverse", out[1].Chunk.Source)
}

func TestRerankMMRLambdaOneIsPureRelevance(t *testing.T) {
	candidates := []models.ScoredChunk{
		scored("a", 1.0, []float32{1, 0}),
		scored("dup", 0.9, []float32{1, 0}),
		scored("other", 0.2, []float32{0, 1}),
	}

	out := rerankMMR(candidates, 2, 1.0)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Chunk.Source)
	assert.Equal(t, "dup", out[1].Chunk.Source)
}

func TestRerankMMREmptyAndSmall(t *testing.T) {
	assert.Nil(t, rerankMMR(nil, 4, 0.25))

	one := []models.ScoredChunk{scored("only", 0.5, []float32{1})}
	out := rerankMMR(one, 4, 0.25)
	require.Len(t, out, 1)
	assert.Equal(t, "only", out[0].Chunk.Source)
}
