package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

func hit(id string, embedding ...float32) driven.VectorHit {
	return driven.VectorHit{Chunk: domain.Chunk{ID: id, Embedding: embedding}}
}

func ids(chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.ID
	}
	return out
}

func TestMaxMarginalRelevance(t *testing.T) {
	query := []float32{1, 0, 0}
	// near and twin are almost identical; far points elsewhere but is still relevant.
	candidates := []driven.VectorHit{
		hit("near", 0.8, 0.6, 0),
		hit("twin", 0.79, 0.61, 0),
		hit("far", 0.7, -0.714, 0),
	}

	tests := []struct {
		name     string
		k        int
		lambda   float64
		expected []string
	}{
		{"diversity demotes the near duplicate", 3, 0.5, []string{"near", "far", "twin"}},
		{"lambda one is plain similarity", 3, 1.0, []string{"near", "twin", "far"}},
		{"first pick is the most similar", 1, 0.0, []string{"near"}},
		{"k larger than candidates", 10, 0.5, []string{"near", "far", "twin"}},
		{"zero k", 0, 0.5, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := maxMarginalRelevance(query, candidates, tc.k, tc.lambda)
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func TestMaxMarginalRelevance_NoCandidates(t *testing.T) {
	assert.Empty(t, maxMarginalRelevance([]float32{1, 0}, nil, 5, 0.5))
}

func TestMaxMarginalRelevance_ReturnsDistinctChunks(t *testing.T) {
	query := []float32{1, 1}
	candidates := []driven.VectorHit{
		hit("a", 1, 1),
		hit("b", 1, 1),
		hit("c", 1, 0.9),
		hit("d", 0.2, 1),
	}

	got := ids(maxMarginalRelevance(query, candidates, 4, 0.5))

	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, got)
	assert.Equal(t, "a", got[0])
}
