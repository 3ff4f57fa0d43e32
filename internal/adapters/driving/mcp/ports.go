package mcp

import (
	"github.com/custodia-labs/travelrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions grounded in the indexed documents.
	Answer driving.AnswerService

	// Retrieval returns the chunks most relevant to a query.
	Retrieval driving.RetrievalService

	// Index rebuilds the vector index. Optional: the reindex tool is only
	// registered when set.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
