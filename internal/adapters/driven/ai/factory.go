// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/llm/ollama"
	openaillm "github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/llm/openai"
	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of LLM initialisation.
type InitResult struct {
	LLMService  driven.LLMService
	PromptStore driven.PromptStore
	Warnings    []string // Non-fatal issues that left the LLM disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// Init creates the configured LLM service and wires prompts into it.
// An unconfigured or unreachable provider is not an error: the result has
// no LLMService and a warning explains why.
func Init(ctx context.Context, settings *domain.LLMSettings, prompts driven.PromptStore) *InitResult {
	res := &InitResult{PromptStore: prompts}
	if settings == nil || !settings.IsConfigured() {
		res.Warnings = append(res.Warnings, "no LLM provider configured; classification, summaries and profiles are disabled")
		return res
	}

	svc, err := CreateAndValidateLLMService(ctx, settings)
	if err != nil {
		res.Warnings = append(res.Warnings, err.Error())
		return res
	}
	if aware, ok := svc.(driven.PromptStoreAware); ok && prompts != nil {
		aware.SetPromptStore(prompts)
	}
	res.LLMService = svc
	return res
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'threadsift settings set llm.provider <name>' to fix",
			domain.ErrLLMUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w)", domain.ErrLLMUnavailable, settings.Provider, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}

// CreateLLMService creates the LLM service selected by settings.Provider.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerMinute: settings.RequestsPerMinute,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:            settings.APIKey.Value(),
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerMinute: settings.RequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:            settings.APIKey.Value(),
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerMinute: settings.RequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
