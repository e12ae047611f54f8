package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateSet() []Candidate {
	return []Candidate{
		{Vector: []float32{1, 0, 0}, Text: "exact match", DocumentID: "doc-a", ChunkIndex: 0},
		{Vector: []float32{0.9, 0.1, 0}, Text: "close match", DocumentID: "doc-b", ChunkIndex: 0},
		{Vector: []float32{0, 1, 0}, Text: "orthogonal", DocumentID: "doc-a", ChunkIndex: 1},
		{Vector: []float32{-1, 0, 0}, Text: "opposite", DocumentID: "doc-c", ChunkIndex: 0},
		{Vector: []float32{0.5, 0.5, 0}, Text: "diagonal", DocumentID: "doc-b", ChunkIndex: 1},
	}
}

func TestTopKRanksBySimilarity(t *testing.T) {
	result := TopK([]float32{1, 0, 0}, candidateSet(), 3, 0.1)

	require.Len(t, result.Chunks, 3)
	assert.Equal(t, "exact match", result.Chunks[0].Text)
	assert.Equal(t, "close match", result.Chunks[1].Text)
	assert.Equal(t, "diagonal", result.Chunks[2].Text)
}

func TestTopKDeterministic(t *testing.T) {
	query := []float32{1, 0.2, 0}
	first := TopK(query, candidateSet(), DefaultTopK, DefaultMinSimilarity)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, TopK(query, candidateSet(), DefaultTopK, DefaultMinSimilarity))
	}
}

func TestTopKThresholdIsStrict(t *testing.T) {
	candidates := []Candidate{
		{Vector: []float32{1, 0}, Text: "relevant", DocumentID: "doc-a"},
		{Vector: []float32{0, 1}, Text: "irrelevant", DocumentID: "doc-b"},
	}

	// Orthogonal candidate has similarity 0 <= 0.1 and must never appear,
	// even though top_k leaves room for it.
	result := TopK([]float32{1, 0}, candidates, 5, 0.1)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "relevant", result.Chunks[0].Text)
	assert.Equal(t, []string{"doc-a"}, result.DocumentIDs)

	// A candidate sitting exactly at the threshold is dropped too.
	exact := TopK([]float32{1, 0}, []Candidate{{Vector: []float32{1, 0}, DocumentID: "d"}}, 5, 1.0)
	assert.Empty(t, exact.Chunks)
}

func TestTopKBound(t *testing.T) {
	query := []float32{1, 0, 0}
	for _, k := range []int{1, 2, 3, 10} {
		result := TopK(query, candidateSet(), k, 0.1)
		assert.LessOrEqual(t, len(result.Chunks), k)
	}

	// Never more than the number of candidates exceeding the threshold.
	result := TopK(query, candidateSet(), 10, 0.1)
	assert.Len(t, result.Chunks, 3)
}

func TestTopKStableTieBreak(t *testing.T) {
	candidates := []Candidate{
		{Vector: []float32{1, 0}, Text: "first", DocumentID: "doc-a"},
		{Vector: []float32{2, 0}, Text: "second", DocumentID: "doc-b"},
		{Vector: []float32{3, 0}, Text: "third", DocumentID: "doc-c"},
	}

	// All three have similarity 1; input order must be preserved.
	result := TopK([]float32{1, 0}, candidates, 3, 0.1)
	require.Len(t, result.Chunks, 3)
	assert.Equal(t, "first", result.Chunks[0].Text)
	assert.Equal(t, "second", result.Chunks[1].Text)
	assert.Equal(t, "third", result.Chunks[2].Text)
	assert.Equal(t, []string{"doc-a", "doc-b", "doc-c"}, result.DocumentIDs)
}

func TestTopKDocumentIDsFirstSeenOrder(t *testing.T) {
	result := TopK([]float32{1, 0, 0}, candidateSet(), 5, 0.1)

	// doc-a contributes the best chunk, doc-b the next two; ids are
	// distinct and ordered by first appearance in the ranking.
	assert.Equal(t, []string{"doc-a", "doc-b"}, result.DocumentIDs)
}

func TestTopKEmptyCandidates(t *testing.T) {
	result := TopK([]float32{1, 0}, nil, DefaultTopK, DefaultMinSimilarity)
	assert.Empty(t, result.Chunks)
	assert.Empty(t, result.DocumentIDs)
}

func TestTopKZeroQueryVector(t *testing.T) {
	// Zero query has similarity 0 to everything, which never clears the
	// threshold.
	result := TopK([]float32{0, 0, 0}, candidateSet(), DefaultTopK, DefaultMinSimilarity)
	assert.Empty(t, result.Chunks)
}
