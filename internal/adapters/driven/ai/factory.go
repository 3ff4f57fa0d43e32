// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	openaiembed "github.com/custodia-labs/travelrag/internal/adapters/driven/embedding/openai"
	openaillm "github.com/custodia-labs/travelrag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
// Services are nil when no API key is configured.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Repairer         driven.FormattingRepairer
	Warnings         []string // Non-fatal issues that disabled a capability.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the embedding, chat and formatting repair services from
// settings. A missing API key is not an error: the services are left nil
// and a warning is recorded. The prompt store is optional.
func Init(settings *domain.OpenAISettings, prompts driven.PromptStore) (*InitResult, error) {
	result := &InitResult{}
	if settings == nil || !settings.HasAPIKey() {
		result.Warnings = append(result.Warnings,
			domain.APIKeyEnv+" is not set: indexing, retrieval and answering are disabled")
		return result, nil
	}

	embedder, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	llm, err := CreateLLMService(settings)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	repairer := NewRepairer(llm)
	if prompts != nil {
		repairer.SetPromptStore(prompts)
	}

	result.EmbeddingService = embedder
	result.LLMService = llm
	result.Repairer = repairer
	return result, nil
}

// ValidateOpenAIConfig creates both services and pings them.
// This is intended for `config validate` to check credentials.
func ValidateOpenAIConfig(settings *domain.OpenAISettings) error {
	if settings == nil || !settings.HasAPIKey() {
		return fmt.Errorf("%w: %s is not set", domain.ErrEmbeddingUnavailable, domain.APIKeyEnv)
	}

	embedder, err := CreateEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	defer embedder.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	llm, err := CreateLLMService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	defer llm.Close()

	if err := llm.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// CreateEmbeddingService creates the OpenAI embedding service.
// Returns nil if no API key is configured.
func CreateEmbeddingService(settings *domain.OpenAISettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.HasAPIKey() {
		return nil, nil
	}

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            settings.APIKey,
		BaseURL:           settings.BaseURL,
		Model:             settings.EmbeddingModel,
		RequestsPerSecond: settings.RequestsPerSecond,
		Burst:             settings.Burst,
	})
}

// CreateLLMService creates the OpenAI chat completion service.
// Returns nil if no API key is configured.
func CreateLLMService(settings *domain.OpenAISettings) (driven.LLMService, error) {
	if settings == nil || !settings.HasAPIKey() {
		return nil, nil
	}

	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.ChatModel,
	})
}
