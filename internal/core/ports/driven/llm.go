// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides chat completion for answering questions.
// This is an optional service - when nil, answering is disabled.
type LLMService interface {
	// Generate produces a single completion for a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero means provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	// Zero is sent explicitly.
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// FormattingRepairer repairs the layout of text extracted from PDFs.
//
// Implementations must not summarise, paraphrase or drop content. They
// deduplicate bilingual field labels keeping the English one, restore
// missing spaces between words, reconstruct line breaks and rejoin split
// words. Results are not guaranteed to be identical across runs.
type FormattingRepairer interface {
	RepairFormatting(ctx context.Context, text string) (string, error)
}
