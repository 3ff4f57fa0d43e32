package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// TextStore persists extracted text artifacts in a flat directory.
type TextStore interface {
	// Save writes text under name, overwriting any previous artifact.
	// Returns the path of the written artifact.
	Save(ctx context.Context, name, text string) (string, error)

	// List returns every .txt artifact, sorted by name. Subdirectories are ignored.
	List(ctx context.Context) ([]domain.TextDocument, error)
}

// UploadStore persists raw uploaded files in a flat directory.
type UploadStore interface {
	// Save writes the upload under its base filename, overwriting any existing file.
	// Returns the path of the saved file.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
}

// TextSplitter splits text into chunks bounded by a maximum size with overlap.
type TextSplitter interface {
	// Split returns the chunk texts in document order.
	Split(text string) []string
}

// ChunkPipeline turns a persisted text artifact into metadata-tagged chunks.
// Returned chunks carry no embeddings.
type ChunkPipeline interface {
	Process(ctx context.Context, doc *domain.TextDocument) ([]domain.Chunk, error)
}
