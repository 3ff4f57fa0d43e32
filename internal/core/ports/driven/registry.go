package driven

import (
	"context"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// Extractor reads plain text out of documents of specific formats.
type Extractor interface {
	// Formats returns the document formats this extractor handles.
	Formats() []domain.Format

	// Extract returns the raw text of the file at path.
	// Parser failures wrap domain.ErrParseFailed.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry selects the extractor for a file based on its format.
type ExtractorRegistry interface {
	// Extract reads the file with the extractor registered for its format.
	// Files of unregistered formats yield empty text and no error.
	Extract(ctx context.Context, path string) (string, error)

	// Register adds an extractor, replacing any previous one for the same formats.
	Register(extractor Extractor)

	// SupportedFormats returns all formats that can be extracted.
	SupportedFormats() []domain.Format
}
