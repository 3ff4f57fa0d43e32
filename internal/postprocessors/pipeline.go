// Package postprocessors turns persisted text artifacts into indexable chunks.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
	"github.com/custodia-labs/travelrag/internal/postprocessors/cleaner"
)

// Ensure Pipeline implements the interface.
var _ driven.ChunkPipeline = (*Pipeline)(nil)

// Pipeline cleans a document, extracts its passenger and splits it into
// chunks that all carry the document's metadata.
// It implements the ChunkPipeline interface.
type Pipeline struct {
	splitter driven.TextSplitter
	newID    func() string
}

// NewPipeline creates a new processing pipeline around the given splitter.
func NewPipeline(splitter driven.TextSplitter) *Pipeline {
	return &Pipeline{
		splitter: splitter,
		newID:    uuid.NewString,
	}
}

// Process cleans the document and splits it into chunks.
// Chunks are tagged with {source: doc name, passenger: name or nil}.
// A document with no content after cleaning produces no chunks.
func (p *Pipeline) Process(ctx context.Context, doc *domain.TextDocument) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := cleaner.Clean(strings.ToValidUTF8(string(doc.Content), ""))

	var passenger any
	if name, ok := cleaner.ExtractPassengerName(content); ok {
		passenger = name
	}

	pieces := p.splitter.Split(content)
	if len(pieces) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:         p.newID(),
			DocumentID: doc.Name,
			Content:    piece,
			Position:   i,
			Metadata: map[string]any{
				domain.MetadataSource:    doc.Name,
				domain.MetadataPassenger: passenger,
			},
		})
	}

	return chunks, nil
}
