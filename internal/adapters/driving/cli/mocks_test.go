package cli

import (
	"context"
	"sort"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
)

type mockPipeline struct {
	result      *domain.PipelineResult
	err         error
	query       domain.SearchQuery
	concurrency int
}

func (m *mockPipeline) Run(_ context.Context, q domain.SearchQuery) (*domain.PipelineResult, error) {
	m.query = q
	if m.result == nil {
		return nil, m.err
	}
	res := *m.result
	res.Query = q
	return &res, m.err
}

type mockSummaryService struct {
	summary *domain.ThreadSummary
	err     error
}

func (m *mockSummaryService) Summarize(_ context.Context, url string) (*domain.ThreadSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := *m.summary
	s.SourceURL = url
	return &s, nil
}

type mockProfileService struct {
	profile *domain.Profile
	err     error
}

func (m *mockProfileService) Profile(_ context.Context, post domain.Post) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p := *m.profile
	p.PostID = post.ID
	return &p, nil
}

type mockHistoryService struct {
	entries  []domain.HistoryEntry
	recorded []domain.SearchQuery
	cleared  bool
	err      error
}

func (m *mockHistoryService) Record(_ context.Context, q domain.SearchQuery, _ int) error {
	m.recorded = append(m.recorded, q)
	return m.err
}

func (m *mockHistoryService) List(_ context.Context) ([]domain.HistoryEntry, error) {
	return m.entries, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	m.cleared = true
	m.entries = nil
	return m.err
}

type mockSettingsService struct {
	values      map[string]string
	set         map[string]string
	provider    domain.AIProvider
	model       string
	validateErr error
	llmErr      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Set(key, value string) error {
	if _, ok := m.values[key]; !ok {
		return domain.ErrInvalidInput
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Values() (map[string]string, error) {
	return m.values, nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model string) error {
	m.provider = provider
	m.model = model
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateLLMConfig(_ context.Context) error { return m.llmErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	pipeline *mockPipeline
	summary  *mockSummaryService
	profile  *mockProfileService
	history  *mockHistoryService
	settings *mockSettingsService
}

func samplePipelineResult() *domain.PipelineResult {
	start := time.Now().Add(-time.Second)
	return &domain.PipelineResult{
		RunID: "run-1",
		State: domain.StateAggregated,
		Items: []domain.ResultItem{
			{
				Post: domain.Post{
					ID: "p1", Title: "How do I learn Go?", Body: "Any tips?", URL: "https://www.reddit.com/r/golang/comments/p1/",
					Subreddit: "golang", Author: "gopher", CreatedAt: time.Now().Add(-2 * time.Hour), Score: 10, CommentCount: 4,
				},
				Status: domain.StatusClassified,
				Classification: &domain.Classification{
					PostID: "p1", Intent: domain.IntentQuestion, Confidence: 0.9, Rationale: "asks for tips",
					Sentiment: domain.SentimentNeutral, Topics: []string{"learning", "go"},
				},
			},
			{
				Post: domain.Post{
					ID: "p2", Title: "Modules keep breaking", Subreddit: "golang",
					CreatedAt: time.Now().Add(-60 * 24 * time.Hour),
				},
				Status: domain.StatusFailed,
				Err:    &domain.ItemError{Kind: domain.KindUpstream, Code: 500, Message: "llm: 500"},
			},
		},
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}
}

// setupTestServices installs mocks and returns a cleanup func that restores
// the previous services and flag values.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		pipeline: &mockPipeline{result: samplePipelineResult()},
		summary: &mockSummaryService{summary: &domain.ThreadSummary{
			Title:      "A thread",
			Text:       "Most replies suggest the tour.",
			MainTopics: []string{"tour", "books"},
			Metadata:   domain.SummaryMetadata{Domain: "reddit.com", WordCount: 640, ReadingMinutes: 4},
		}},
		profile: &mockProfileService{profile: &domain.Profile{
			Emotion: "frustration", CoreBelief: "Go is hard",
			AttemptedSolutions: []string{"books"}, Quote: "I give up",
		}},
		history: &mockHistoryService{},
		settings: &mockSettingsService{
			values: map[string]string{
				"llm.api_key":          "[REDACTED]",
				"llm.provider":         "openai",
				"pipeline.concurrency": "4",
				"reddit.mode":          "public",
			},
			set: map[string]string{},
		},
	}

	prevBootstrap := bootstrap
	bootstrap = nil
	SetServices(&Services{
		Pipeline: func(concurrency int, _ func(done, total int)) driving.PipelineService {
			ts.pipeline.concurrency = concurrency
			return ts.pipeline
		},
		Summary:  ts.summary,
		Profile:  ts.profile,
		History:  ts.history,
		Settings: ts.settings,
	})

	return ts, func() {
		SetServices(nil)
		bootstrap = prevBootstrap
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

// resetFlags restores flag variables, which cobra keeps between Execute calls.
func resetFlags() {
	searchSubreddit = false
	searchLimit = domain.DefaultQueryLimit
	searchSort = string(domain.SortNew)
	searchTime = string(domain.TimeAll)
	searchConcurrency = 0
	searchDays = 0
	searchTextOnly = false
	searchIntent = ""
	searchJSON = false
	summarizeJSON = false
	profileTitle, profileBody, profileID = "", "", ""
	profileJSON = false
	historyClear = false
	historyJSON = false
	settingsJSON = false
	mcpAddr = ""
	_ = settingsLLMCmd.Flags().Set("model", "")
}
