// Package mcp provides an MCP (Model Context Protocol) server adapter for travelrag.
// It lets AI assistants ask questions about, and search, the indexed travel documents.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
