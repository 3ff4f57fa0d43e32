package ai

import (
	"github.com/custodia-labs/travelrag/internal/core/domain"
	"github.com/custodia-labs/travelrag/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateOpenAI validates the provider configuration by pinging both services.
func (v *ConfigValidator) ValidateOpenAI(config *domain.OpenAISettings) error {
	return ValidateOpenAIConfig(config)
}
