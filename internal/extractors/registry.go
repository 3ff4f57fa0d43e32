package extractors

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/extractors/docx"
	"github.com/custodia-labs/travelrag/internal/extractors/pdf"
	"github.com/custodia-labs/travelrag/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps document formats to their extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.Format]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[domain.Format]driven.Extractor),
	}
}

// NewDefaultRegistry creates a registry with the built-in PDF, DOCX and
// plain text extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(plaintext.New())
	return r
}

// Register adds an extractor for each of its formats.
// A later registration replaces an earlier one for the same format.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range extractor.Formats() {
		r.extractors[f] = extractor
	}
}

// Extract reads the file at path with the extractor for its format.
// Unsupported formats yield empty text and no error.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	r.mu.RLock()
	extractor, ok := r.extractors[domain.DetectFormat(path)]
	r.mu.RUnlock()
	if !ok {
		return "", nil
	}
	return extractor.Extract(ctx, path)
}

// SupportedFormats returns all registered formats, sorted.
func (r *Registry) SupportedFormats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.Format, 0, len(r.extractors))
	for f := range r.extractors {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
