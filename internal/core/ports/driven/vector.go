package driven

import (
	"context"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// VectorStore is the persistent vector index.
//
// The index is only ever replaced wholesale: Rebuild publishes a complete
// new index atomically, so concurrent searches observe either the previous
// or the new contents, never a partial rebuild.
type VectorStore interface {
	// Exists reports whether an index has been published.
	Exists(ctx context.Context) (bool, error)

	// Rebuild replaces the index with the given chunks.
	// Every chunk must carry an embedding.
	Rebuild(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k chunks nearest to the query vector, most similar
	// first. Returned chunks include their embeddings.
	// Returns domain.ErrIndexNotFound if no index exists.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk with content, metadata and embedding.
	Chunk domain.Chunk

	// Similarity is the cosine similarity to the query.
	Similarity float64
}
