package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/travelrag/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the travel documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string    `json:"answer"`
	Sources []*string `json:"sources"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the text to find relevant document chunks for"`
	K     int    `json:"k,omitempty" jsonschema:"number of chunks to return (default 10)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []ChunkOutput `json:"results"`
	Count   int           `json:"count"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	Content   string  `json:"content"`
	Source    *string `json:"source"`
	Passenger *string `json:"passenger"`
}

// ReindexInput is the (empty) input schema for the reindex tool.
type ReindexInput struct{}

// ReindexOutput is the output schema for the reindex tool.
type ReindexOutput struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the indexed travel documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Return the document chunks most relevant to a query",
	}, s.handleRetrieve)

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reindex",
			Description: "Rebuild the vector index from all extracted documents",
		}, s.handleReindex)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := answer.Sources
	if sources == nil {
		sources = []*string{}
	}
	return nil, AskOutput{Answer: answer.Text, Sources: sources}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	chunks, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.K, 0)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]ChunkOutput, len(chunks)),
		Count:   len(chunks),
	}
	for i := range chunks {
		output.Results[i] = toChunkOutput(chunks[i])
	}

	return nil, output, nil
}

// handleReindex handles the reindex tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	build, err := s.ports.Index.BuildIndex(ctx)
	if err != nil {
		return nil, ReindexOutput{}, err
	}

	return nil, ReindexOutput{
		Status:    string(build.Status),
		Documents: build.Documents,
		Chunks:    build.Chunks,
	}, nil
}

func toChunkOutput(c domain.Chunk) ChunkOutput {
	return ChunkOutput{
		Content:   c.Content,
		Source:    c.Source(),
		Passenger: c.Passenger(),
	}
}
