package services

import (
	"math"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// maxMarginalRelevance selects up to k candidates balancing similarity to
// the query against similarity to those already selected. The first pick is
// the most similar candidate; each later pick maximises
//
//	lambda*sim(q, d) - (1-lambda)*max(sim(d, s) for s in selected)
//
// Ties go to the earlier candidate. Candidates must carry embeddings.
func maxMarginalRelevance(query []float32, candidates []driven.VectorHit, k int, lambda float64) []domain.Chunk {
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return nil
	}

	relevance := make([]float64, len(candidates))
	for i, c := range candidates {
		relevance[i] = domain.CosineSimilarity(query, c.Chunk.Embedding)
	}

	// redundancy[i] is the highest similarity of candidate i to any selected chunk.
	redundancy := make([]float64, len(candidates))
	for i := range redundancy {
		redundancy[i] = math.Inf(-1)
	}
	used := make([]bool, len(candidates))
	selected := make([]domain.Chunk, 0, k)

	for len(selected) < k {
		best := -1
		bestScore := math.Inf(-1)
		for i := range candidates {
			if used[i] {
				continue
			}
			score := relevance[i]
			if len(selected) > 0 {
				score = lambda*relevance[i] - (1-lambda)*redundancy[i]
			}
			if score > bestScore {
				best, bestScore = i, score
			}
		}

		used[best] = true
		picked := candidates[best].Chunk
		selected = append(selected, picked)

		for i := range candidates {
			if used[i] {
				continue
			}
			if sim := domain.CosineSimilarity(candidates[i].Chunk.Embedding, picked.Embedding); sim > redundancy[i] {
				redundancy[i] = sim
			}
		}
	}

	return selected
}
