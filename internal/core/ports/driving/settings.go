package driving

import "github.com/custodia-labs/travelrag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults for unset keys.
	// The API key is resolved from the environment.
	Get() (*domain.Settings, error)

	// Set stores a single configuration value by its dot-notation key.
	// Unknown keys and values of the wrong type are rejected.
	Set(key, value string) error

	// Keys returns every supported configuration key in display order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ValidateOpenAIConfig pings the configured provider with the current settings.
	ValidateOpenAIConfig() error
}
