package driven

import "github.com/custodia-labs/travelrag/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateOpenAI pings the embedding and chat endpoints with the given settings.
	// Returns domain.ErrEmbeddingUnavailable when no API key is configured.
	ValidateOpenAI(config *domain.OpenAISettings) error
}
