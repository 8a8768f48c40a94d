package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// RedditMode selects the Reddit client implementation.
type RedditMode string

// Available Reddit modes.
const (
	// RedditModeAPI uses a script app with username and password.
	RedditModeAPI RedditMode = "api"

	// RedditModeApp uses application-only OAuth (client id and secret).
	RedditModeApp RedditMode = "app"

	// RedditModePublic uses the anonymous .json endpoints.
	RedditModePublic RedditMode = "public"

	// RedditModeMock serves built-in fixtures.
	RedditModeMock RedditMode = "mock"
)

// IsValid returns true if the mode is recognised.
func (m RedditMode) IsValid() bool {
	switch m {
	case RedditModeAPI, RedditModeApp, RedditModePublic, RedditModeMock:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m RedditMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m RedditMode) Description() string {
	switch m {
	case RedditModeAPI:
		return "Script app (client id, secret, username, password)"
	case RedditModeApp:
		return "Application-only OAuth (client id, secret)"
	case RedditModePublic:
		return "Anonymous JSON endpoints"
	case RedditModeMock:
		return "Built-in sample posts"
	default:
		return unknownDescription
	}
}

// ExtractorProvider identifies a content extraction backend.
type ExtractorProvider string

// Available extractors.
const (
	// ExtractorFirecrawl uses the hosted Firecrawl scrape API.
	ExtractorFirecrawl ExtractorProvider = "firecrawl"

	// ExtractorReadability fetches the page directly and extracts the article locally.
	ExtractorReadability ExtractorProvider = "readability"
)

// IsValid returns true if the extractor is recognised.
func (e ExtractorProvider) IsValid() bool {
	return e == ExtractorFirecrawl || e == ExtractorReadability
}

// String returns the string representation.
func (e ExtractorProvider) String() string {
	return string(e)
}

// RedditSettings holds Reddit client configuration.
type RedditSettings struct {
	Mode         RedditMode `validate:"required,oneof=api app public mock"`
	ClientID     string
	ClientSecret Secret
	Username     string
	Password     Secret
	UserAgent    string `validate:"required"`

	// RequestsPerMinute bounds calls to the Reddit API.
	RequestsPerMinute int `validate:"min=1,max=600"`
}

// IsConfigured returns true if the selected mode has the credentials it needs.
func (r RedditSettings) IsConfigured() bool {
	switch r.Mode {
	case RedditModeAPI:
		return r.ClientID != "" && !r.ClientSecret.IsEmpty() && r.Username != "" && !r.Password.IsEmpty()
	case RedditModeApp:
		return r.ClientID != "" && !r.ClientSecret.IsEmpty()
	case RedditModePublic, RedditModeMock:
		return true
	default:
		return false
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey Secret

	// RequestsPerMinute bounds calls to the LLM provider (0 disables).
	RequestsPerMinute int `validate:"min=0"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey.IsEmpty() {
		return false
	}
	return true
}

// ExtractorSettings holds content extraction configuration.
type ExtractorSettings struct {
	Provider ExtractorProvider `validate:"required,oneof=firecrawl readability"`
	BaseURL  string
	APIKey   Secret
}

// IsConfigured returns true if the extractor can be used.
func (e ExtractorSettings) IsConfigured() bool {
	switch e.Provider {
	case ExtractorFirecrawl:
		return !e.APIKey.IsEmpty()
	case ExtractorReadability:
		return true
	default:
		return false
	}
}

// PipelineSettings tunes the classification pipeline.
type PipelineSettings struct {
	// Concurrency is the maximum number of in-flight classifications.
	Concurrency int `validate:"min=1,max=64"`

	// MaxAttempts bounds tries per item when rate limited.
	MaxAttempts int `validate:"min=1,max=10"`

	// BackoffBase is the first rate-limit backoff delay.
	BackoffBase time.Duration `validate:"min=0"`

	// BackoffMax caps a single backoff delay.
	BackoffMax time.Duration `validate:"gtefield=BackoffBase"`

	// CallTimeout bounds every external call.
	CallTimeout time.Duration `validate:"min=1ms"`
}

// ClassifierSettings tunes prompt construction.
type ClassifierSettings struct {
	// MaxInputChars is the rune budget for title plus body.
	MaxInputChars int `validate:"min=100"`

	// MaxOutputTokens bounds the model response.
	MaxOutputTokens int `validate:"min=16"`

	// Temperature is the sampling temperature.
	Temperature float64 `validate:"min=0,max=2"`
}

// SummarizerSettings tunes thread summaries.
type SummarizerSettings struct {
	// MaxInputChars caps the extracted text sent to the model.
	MaxInputChars int `validate:"min=500"`

	// MaxSummaryChars is the hard limit on summary length.
	MaxSummaryChars int `validate:"min=50"`
}

// HistorySettings controls search history.
type HistorySettings struct {
	// Persist keeps history in SQLite across sessions.
	Persist bool

	// Limit is the number of entries retained.
	Limit int `validate:"min=1,max=1000"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	Reddit     RedditSettings
	LLM        LLMSettings
	Extractor  ExtractorSettings
	Pipeline   PipelineSettings
	Classifier ClassifierSettings
	Summarizer SummarizerSettings
	History    HistorySettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; Reddit falls back to the public endpoints.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Reddit: RedditSettings{
			Mode:              RedditModePublic,
			UserAgent:         "threadsift/1.0",
			RequestsPerMinute: 30,
		},
		LLM: LLMSettings{
			RequestsPerMinute: 0,
		},
		Extractor: ExtractorSettings{
			Provider: ExtractorReadability,
			BaseURL:  "https://api.firecrawl.dev",
		},
		Pipeline: PipelineSettings{
			Concurrency: 4,
			MaxAttempts: 3,
			BackoffBase: 1 * time.Second,
			BackoffMax:  30 * time.Second,
			CallTimeout: 30 * time.Second,
		},
		Classifier: ClassifierSettings{
			MaxInputChars:   2000,
			MaxOutputTokens: 200,
			Temperature:     0,
		},
		Summarizer: SummarizerSettings{
			MaxInputChars:   12000,
			MaxSummaryChars: 1200,
		},
		History: HistorySettings{
			Persist: false,
			Limit:   DefaultHistoryLimit,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}
