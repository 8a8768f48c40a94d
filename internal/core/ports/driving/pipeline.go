package driving

import (
	"context"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// PipelineService fetches and classifies posts for a query.
type PipelineService interface {
	// Run executes fetch then classify. A non-nil result is returned whenever
	// the fetch succeeded, including when ctx is cancelled mid-run.
	// The error is non-nil only for a fetch failure or rejected credentials.
	Run(ctx context.Context, q domain.SearchQuery) (*domain.PipelineResult, error)
}

// SummaryService expands a single thread into a summary on demand.
type SummaryService interface {
	// Summarize extracts the thread at url and condenses it.
	Summarize(ctx context.Context, url string) (*domain.ThreadSummary, error)
}

// ProfileService produces a psychographic reading of one post on demand.
type ProfileService interface {
	// Profile analyses the post's title and body.
	Profile(ctx context.Context, post domain.Post) (*domain.Profile, error)
}

// HistoryService lists and clears past queries.
type HistoryService interface {
	// Record stores a finished query.
	Record(ctx context.Context, q domain.SearchQuery, resultCount int) error

	// List returns the most recent queries first.
	List(ctx context.Context) ([]domain.HistoryEntry, error)

	// Clear removes all history.
	Clear(ctx context.Context) error
}
