package driving

import (
	"context"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings. Credentials are never written back.
	Save(settings *domain.AppSettings) error

	// Set stores a single dotted key (for example "pipeline.concurrency").
	Set(key, value string) error

	// Keys lists every recognised dotted key.
	Keys() []string

	// Values returns the effective value of every key with secrets redacted.
	Values() (map[string]string, error)

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model string) error

	// Validate checks the current settings for consistency.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig(ctx context.Context) error
}
