package mcp

import (
	"context"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
)

type mockPipeline struct {
	result *domain.PipelineResult
	err    error
	query  domain.SearchQuery
}

func (m *mockPipeline) Run(_ context.Context, q domain.SearchQuery) (*domain.PipelineResult, error) {
	m.query = q
	return m.result, m.err
}

func (m *mockPipeline) factory() PipelineFactory {
	return func(int, func(int, int)) driving.PipelineService { return m }
}

type mockSummaryService struct {
	summary *domain.ThreadSummary
	err     error
	url     string
}

func (m *mockSummaryService) Summarize(_ context.Context, url string) (*domain.ThreadSummary, error) {
	m.url = url
	return m.summary, m.err
}

type mockProfileService struct {
	profile *domain.Profile
	err     error
	post    domain.Post
}

func (m *mockProfileService) Profile(_ context.Context, post domain.Post) (*domain.Profile, error) {
	m.post = post
	return m.profile, m.err
}

type mockHistoryService struct {
	entries  []domain.HistoryEntry
	recorded []domain.SearchQuery
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
	return m.err
}
