// Package retriever ranks candidate chunks against a query vector by cosine
// similarity. Search is exact (brute force): candidate sets are the handful
// of documents uploaded to one session, so an ANN index would be overkill.
package retriever

import (
	"sort"

	"github.com/medchat/docchat-backend/internal/pkg/vector"
)

const (
	// DefaultTopK bounds how many chunks feed the prompt context.
	DefaultTopK = 5

	// DefaultMinSimilarity is the relevance floor: a candidate must
	// strictly exceed it to be returned.
	DefaultMinSimilarity = 0.1
)

// Candidate is one stored chunk offered for ranking, with its provenance.
type Candidate struct {
	Vector     []float32
	Text       string
	DocumentID string
	Filename   string
	ChunkIndex int
}

// Result holds the ranked payloads and the distinct set of contributing
// document ids in first-seen order. Similarity scores are not exposed.
type Result struct {
	Chunks      []Candidate
	DocumentIDs []string
}

// TopK returns the topK candidates most similar to query, dropping any whose
// cosine similarity does not strictly exceed minSimilarity. Ordering is
// deterministic: descending by similarity, ties preserve input order.
func TopK(query []float32, candidates []Candidate, topK int, minSimilarity float64) Result {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(candidates) == 0 {
		return Result{}
	}

	type scored struct {
		candidate Candidate
		score     float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{
			candidate: c,
			score:     vector.Cosine(query, c.Vector),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	var result Result
	seen := make(map[string]bool)
	for _, s := range ranked {
		if s.score <= minSimilarity {
			continue
		}
		result.Chunks = append(result.Chunks, s.candidate)
		if !seen[s.candidate.DocumentID] {
			seen[s.candidate.DocumentID] = true
			result.DocumentIDs = append(result.DocumentIDs, s.candidate.DocumentID)
		}
	}

	return result
}
