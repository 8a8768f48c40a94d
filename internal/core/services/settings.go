package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// envPrefix prefixes the generic environment override for every key:
// "pipeline.concurrency" is overridden by THREADSIFT_PIPELINE_CONCURRENCY.
const envPrefix = "THREADSIFT_"

// defaultOllamaURL is used when Ollama is selected without a base URL.
const defaultOllamaURL = "http://localhost:11434"

// setting binds a dotted config key to a field of domain.AppSettings.
type setting struct {
	key string

	// secret keys are never written by Save and are redacted by Values.
	secret bool

	// env lists well-known variable names checked after the generic one.
	env []string

	get func(s *domain.AppSettings) any
	set func(s *domain.AppSettings, v string) error
}

//nolint:gosec // G101: key names, not credentials.
var settingsTable = []setting{
	{key: "reddit.mode",
		get: func(s *domain.AppSettings) any { return s.Reddit.Mode.String() },
		set: func(s *domain.AppSettings, v string) error {
			m := domain.RedditMode(strings.ToLower(v))
			if !m.IsValid() {
				return fmt.Errorf("unknown reddit mode %q", v)
			}
			s.Reddit.Mode = m
			return nil
		}},
	{key: "reddit.client_id", env: []string{"REDDIT_CLIENT_ID"},
		get: func(s *domain.AppSettings) any { return s.Reddit.ClientID },
		set: func(s *domain.AppSettings, v string) error { s.Reddit.ClientID = v; return nil }},
	{key: "reddit.client_secret", secret: true, env: []string{"REDDIT_CLIENT_SECRET"},
		get: func(s *domain.AppSettings) any { return s.Reddit.ClientSecret.Value() },
		set: func(s *domain.AppSettings, v string) error { s.Reddit.ClientSecret = domain.Secret(v); return nil }},
	{key: "reddit.username", env: []string{"REDDIT_USERNAME"},
		get: func(s *domain.AppSettings) any { return s.Reddit.Username },
		set: func(s *domain.AppSettings, v string) error { s.Reddit.Username = v; return nil }},
	{key: "reddit.password", secret: true, env: []string{"REDDIT_PASSWORD"},
		get: func(s *domain.AppSettings) any { return s.Reddit.Password.Value() },
		set: func(s *domain.AppSettings, v string) error { s.Reddit.Password = domain.Secret(v); return nil }},
	{key: "reddit.user_agent", env: []string{"REDDIT_USER_AGENT"},
		get: func(s *domain.AppSettings) any { return s.Reddit.UserAgent },
		set: func(s *domain.AppSettings, v string) error { s.Reddit.UserAgent = v; return nil }},
	{key: "reddit.requests_per_minute",
		get: func(s *domain.AppSettings) any { return s.Reddit.RequestsPerMinute },
		set: intSetter(func(s *domain.AppSettings, n int) { s.Reddit.RequestsPerMinute = n })},

	{key: "llm.provider",
		get: func(s *domain.AppSettings) any { return s.LLM.Provider.String() },
		set: func(s *domain.AppSettings, v string) error {
			p := domain.AIProvider(strings.ToLower(v))
			if v != "" && !p.IsValid() {
				return fmt.Errorf("unknown LLM provider %q", v)
			}
			s.LLM.Provider = p
			return nil
		}},
	{key: "llm.model",
		get: func(s *domain.AppSettings) any { return s.LLM.Model },
		set: func(s *domain.AppSettings, v string) error { s.LLM.Model = v; return nil }},
	{key: "llm.base_url",
		get: func(s *domain.AppSettings) any { return s.LLM.BaseURL },
		set: func(s *domain.AppSettings, v string) error { s.LLM.BaseURL = v; return nil }},
	{key: "llm.api_key", secret: true,
		get: func(s *domain.AppSettings) any { return s.LLM.APIKey.Value() },
		set: func(s *domain.AppSettings, v string) error { s.LLM.APIKey = domain.Secret(v); return nil }},
	{key: "llm.requests_per_minute",
		get: func(s *domain.AppSettings) any { return s.LLM.RequestsPerMinute },
		set: intSetter(func(s *domain.AppSettings, n int) { s.LLM.RequestsPerMinute = n })},

	{key: "extractor.provider",
		get: func(s *domain.AppSettings) any { return s.Extractor.Provider.String() },
		set: func(s *domain.AppSettings, v string) error {
			p := domain.ExtractorProvider(strings.ToLower(v))
			if !p.IsValid() {
				return fmt.Errorf("unknown extractor %q", v)
			}
			s.Extractor.Provider = p
			return nil
		}},
	{key: "extractor.base_url",
		get: func(s *domain.AppSettings) any { return s.Extractor.BaseURL },
		set: func(s *domain.AppSettings, v string) error { s.Extractor.BaseURL = v; return nil }},
	{key: "extractor.api_key", secret: true, env: []string{"FIRECRAWL_API_KEY"},
		get: func(s *domain.AppSettings) any { return s.Extractor.APIKey.Value() },
		set: func(s *domain.AppSettings, v string) error { s.Extractor.APIKey = domain.Secret(v); return nil }},

	{key: "pipeline.concurrency",
		get: func(s *domain.AppSettings) any { return s.Pipeline.Concurrency },
		set: intSetter(func(s *domain.AppSettings, n int) { s.Pipeline.Concurrency = n })},
	{key: "pipeline.max_attempts",
		get: func(s *domain.AppSettings) any { return s.Pipeline.MaxAttempts },
		set: intSetter(func(s *domain.AppSettings, n int) { s.Pipeline.MaxAttempts = n })},
	{key: "pipeline.backoff_base",
		get: func(s *domain.AppSettings) any { return s.Pipeline.BackoffBase.String() },
		set: durationSetter(func(s *domain.AppSettings, d time.Duration) { s.Pipeline.BackoffBase = d })},
	{key: "pipeline.backoff_max",
		get: func(s *domain.AppSettings) any { return s.Pipeline.BackoffMax.String() },
		set: durationSetter(func(s *domain.AppSettings, d time.Duration) { s.Pipeline.BackoffMax = d })},
	{key: "pipeline.call_timeout",
		get: func(s *domain.AppSettings) any { return s.Pipeline.CallTimeout.String() },
		set: durationSetter(func(s *domain.AppSettings, d time.Duration) { s.Pipeline.CallTimeout = d })},

	{key: "classifier.max_input_chars",
		get: func(s *domain.AppSettings) any { return s.Classifier.MaxInputChars },
		set: intSetter(func(s *domain.AppSettings, n int) { s.Classifier.MaxInputChars = n })},
	{key: "classifier.max_output_tokens",
		get: func(s *domain.AppSettings) any { return s.Classifier.MaxOutputTokens },
		set: intSetter(func(s *domain.AppSettings, n int) { s.Classifier.MaxOutputTokens = n })},
	{key: "classifier.temperature",
		get: func(s *domain.AppSettings) any { return s.Classifier.Temperature },
		set: func(s *domain.AppSettings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			s.Classifier.Temperature = f
			return nil
		}},

	{key: "summarizer.max_input_chars",
		get: func(s *domain.AppSettings) any { return s.Summarizer.MaxInputChars },
		set: intSetter(func(s *domain.AppSettings, n int) { s.Summarizer.MaxInputChars = n })},
	{key: "summarizer.max_summary_chars",
		get: func(s *domain.AppSettings) any { return s.Summarizer.MaxSummaryChars },
		set: intSetter(func(s *domain.AppSettings, n int) { s.Summarizer.MaxSummaryChars = n })},

	{key: "history.persist",
		get: func(s *domain.AppSettings) any { return s.History.Persist },
		set: func(s *domain.AppSettings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("not a boolean: %q", v)
			}
			s.History.Persist = b
			return nil
		}},
	{key: "history.limit",
		get: func(s *domain.AppSettings) any { return s.History.Limit },
		set: intSetter(func(s *domain.AppSettings, n int) { s.History.Limit = n })},
}

func intSetter(apply func(*domain.AppSettings, int)) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("not an integer: %q", v)
		}
		apply(s, n)
		return nil
	}
}

func durationSetter(apply func(*domain.AppSettings, time.Duration)) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("not a duration: %q", v)
		}
		apply(s, d)
		return nil
	}
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

func envName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService manages application settings.
// Values come from the config store, then the environment, then defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings.
// Invalid stored values are logged and replaced by defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	for _, st := range settingsTable {
		val, ok := s.configStore.Get(st.key)
		if !ok {
			continue
		}
		if err := st.set(&settings, configString(val)); err != nil {
			logger.Warn("Ignoring %s in %s: %v", st.key, s.configStore.Path(), err)
		}
	}

	for _, st := range settingsTable {
		for _, name := range append([]string{envName(st.key)}, st.env...) {
			v, ok := s.lookupEnv(name)
			if !ok || v == "" {
				continue
			}
			if err := st.set(&settings, v); err != nil {
				logger.Warn("Ignoring %s: %v", name, err)
			}
			break
		}
	}

	if settings.LLM.APIKey.IsEmpty() {
		if name := providerKeyEnv(settings.LLM.Provider); name != "" {
			if v, ok := s.lookupEnv(name); ok && v != "" {
				settings.LLM.APIKey = domain.Secret(v)
			}
		}
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return &settings, nil
}

// providerKeyEnv names the conventional API key variable for a provider.
func providerKeyEnv(p domain.AIProvider) string {
	switch p {
	case domain.AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case domain.AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// configString renders a stored value the way a user would type it.
func configString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Save persists application settings. Secrets are skipped: they are either
// already in the file (set explicitly) or come from the environment.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := validateStruct(settings); err != nil {
		return err
	}
	for _, st := range settingsTable {
		if st.secret {
			continue
		}
		if err := s.configStore.Set(st.key, st.get(settings)); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}
	return nil
}

// Set parses value for key, validates the result and persists it.
// Unlike Save, Set writes secret keys because the user asked for it.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := st.set(settings, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if err := validateStruct(settings); err != nil {
		return err
	}

	return s.configStore.Set(st.key, st.get(settings))
}

// Keys lists every recognised dotted key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingsTable))
	for _, st := range settingsTable {
		keys = append(keys, st.key)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the effective value of every key. Secrets are redacted.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settingsTable))
	for _, st := range settingsTable {
		v := configString(st.get(settings))
		if st.secret {
			v = domain.Secret(v).String()
		}
		out[st.key] = v
	}
	return out, nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	return s.Save(settings)
}

// Validate checks the current settings for consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := validateStruct(settings); err != nil {
		return err
	}

	if !settings.Reddit.IsConfigured() {
		return fmt.Errorf("reddit mode %q needs credentials: %w", settings.Reddit.Mode, domain.ErrNotConfigured)
	}
	if !settings.Extractor.IsConfigured() {
		return fmt.Errorf("extractor %q needs an API key: %w", settings.Extractor.Provider, domain.ErrNotConfigured)
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q needs an API key: %w", settings.LLM.Provider, domain.ErrNotConfigured)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}
