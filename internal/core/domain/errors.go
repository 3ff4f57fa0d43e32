package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParseFailed indicates a document parser could not read a file.
	// The underlying parser error is wrapped for diagnostics.
	ErrParseFailed = errors.New("parse failed")

	// ErrIndexNotFound indicates no vector index has been built yet.
	// Callers should run a reindex before retrieving or answering.
	ErrIndexNotFound = errors.New("index not found")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answering and PDF formatting repair are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
