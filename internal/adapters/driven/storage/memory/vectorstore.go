package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Search is an exhaustive cosine scan.
type VectorStore struct {
	mu     sync.RWMutex
	built  bool
	chunks []domain.Chunk
}

// NewVectorStore creates a new in-memory vector store with no index.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Exists reports whether Rebuild has been called.
func (s *VectorStore) Exists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built, nil
}

// Rebuild replaces the index with chunks.
func (s *VectorStore) Rebuild(_ context.Context, chunks []domain.Chunk) error {
	replaced := make([]domain.Chunk, len(chunks))
	copy(replaced, chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = replaced
	s.built = true
	return nil
}

// Search returns the k chunks most similar to query.
func (s *VectorStore) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.built {
		return nil, domain.ErrIndexNotFound
	}

	hits := make([]driven.VectorHit, 0, len(s.chunks))
	for _, c := range s.chunks {
		hits = append(hits, driven.VectorHit{
			Chunk:      c,
			Similarity: domain.CosineSimilarity(query, c.Embedding),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:max(k, 0)]
	}
	return hits, nil
}

// Len returns the number of indexed chunks.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
