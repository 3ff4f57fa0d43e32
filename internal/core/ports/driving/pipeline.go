package driving

import (
	"context"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// ExtractionService converts uploaded documents into persisted plain text.
type ExtractionService interface {
	// ExtractText extracts the text of the file at path and persists it as
	// <stem>.txt in the text directory. Unsupported formats yield empty text.
	// A failed artifact write is not an error; SavedPath is left empty.
	ExtractText(ctx context.Context, path string) (*domain.Extraction, error)
}

// IndexService rebuilds the vector index from the text artifacts.
type IndexService interface {
	// BuildIndex fully rebuilds the index. With no text artifacts it reports
	// domain.IndexStatusNoTexts and leaves any existing index untouched.
	BuildIndex(ctx context.Context) (*domain.IndexBuild, error)
}

// RetrievalService finds the chunks most relevant to a query.
type RetrievalService interface {
	// Retrieve returns up to k chunks selected by maximal marginal relevance
	// from fetchK candidates. Non-positive values use the configured defaults.
	// Returns domain.ErrIndexNotFound when no index exists.
	Retrieve(ctx context.Context, query string, k, fetchK int) ([]domain.Chunk, error)
}

// AnswerService answers questions grounded in the indexed documents.
type AnswerService interface {
	// Answer retrieves context and asks the language model once.
	// Returns domain.ErrIndexNotFound without calling the model when no index exists.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

// IngestService coordinates saving, extraction and reindexing of uploads.
type IngestService interface {
	// IngestBatch saves and extracts every upload, then rebuilds the index once.
	// Per-file failures are reported on the matching ExtractedFile.
	IngestBatch(ctx context.Context, uploads []domain.Upload) (*domain.IngestResult, error)
}
