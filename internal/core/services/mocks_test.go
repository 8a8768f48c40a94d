package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockSource implements driven.PostSource for testing.
type mockSource struct {
	posts []domain.Post
	err   error
	calls atomic.Int32
	last  domain.SearchQuery
}

func (m *mockSource) Search(_ context.Context, q domain.SearchQuery) ([]domain.Post, error) {
	m.calls.Add(1)
	m.last = q
	if m.err != nil {
		return nil, m.err
	}
	return m.posts, nil
}

func (m *mockSource) Name() string {
	return "mock"
}

// mockLLM implements driven.LLMService for testing.
// generate, when set, decides each Generate reply.
type mockLLM struct {
	mu        sync.Mutex
	generate  func(prompt string) (string, error)
	summary   string
	err       error
	calls     int
	prompts   []string
	opts      []driven.GenerateOptions
	maxLength int
	block     bool
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	gen := m.generate
	m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	if gen != nil {
		return gen(prompt)
	}
	return `{"intent": "question", "confidence": 0.9}`, nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return "", nil
}

func (m *mockLLM) Summarise(ctx context.Context, _ string, maxLength int) (string, error) {
	m.mu.Lock()
	m.calls++
	m.maxLength = maxLength
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockClassifier implements PostClassifier with a per-post script.
type mockClassifier struct {
	mu     sync.Mutex
	fn     func(ctx context.Context, post domain.Post, call int) (domain.Classification, error)
	calls  map[string]int
	total  atomic.Int32
	delays map[string]time.Duration
}

func newMockClassifier(fn func(ctx context.Context, post domain.Post, call int) (domain.Classification, error)) *mockClassifier {
	return &mockClassifier{fn: fn, calls: make(map[string]int)}
}

func (m *mockClassifier) Classify(ctx context.Context, post domain.Post) (domain.Classification, error) {
	m.mu.Lock()
	m.calls[post.ID]++
	call := m.calls[post.ID]
	delay := m.delays[post.ID]
	m.mu.Unlock()
	m.total.Add(1)

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.Classification{}, ctx.Err()
		}
	}
	return m.fn(ctx, post, call)
}

func (m *mockClassifier) callsFor(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// okClassification is a deterministic verdict derived from the post.
func okClassification(post domain.Post) domain.Classification {
	intents := domain.AllIntents()
	return domain.Classification{
		PostID:     post.ID,
		Intent:     intents[len(post.Title)%len(intents)],
		Confidence: 0.8,
	}
}

// mockExtractor implements driven.ContentExtractor for testing.
type mockExtractor struct {
	content *domain.ExtractedContent
	err     error
	block   bool
}

func (m *mockExtractor) Extract(ctx context.Context, url string) (*domain.ExtractedContent, error) {
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	c := *m.content
	c.URL = url
	return &c, nil
}

func (m *mockExtractor) Name() string { return "mock-extractor" }

// stubPromptStore implements driven.PromptStore for testing.
type stubPromptStore struct {
	prompts map[string]string
	err     error
}

func (s *stubPromptStore) Load(name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.prompts[name], nil
}

func (s *stubPromptStore) Reload() {}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err  error
	seen *domain.LLMSettings
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, cfg *domain.LLMSettings) error {
	m.seen = cfg
	return m.err
}

// makePosts builds n posts with ids p1..pn.
func makePosts(n int) []domain.Post {
	posts := make([]domain.Post, n)
	for i := range posts {
		posts[i] = domain.Post{
			ID:        fmt.Sprintf("p%d", i+1),
			Title:     fmt.Sprintf("Post number %d%s", i+1, string(rune('a'+i%26))),
			Body:      fmt.Sprintf("body %d", i+1),
			Subreddit: "golang",
			CreatedAt: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
		}
	}
	return posts
}

func upstreamErr(code int) error {
	return domain.NewStatusError("openai", code, 0, "boom")
}
