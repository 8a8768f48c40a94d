package services

import (
	"context"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records past queries. It never sees posts or classifications.
type HistoryService struct {
	store driven.HistoryStore
	limit int
	now   func() time.Time
}

// NewHistoryService creates a history service keeping at most limit entries.
func NewHistoryService(store driven.HistoryStore, limit int) *HistoryService {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	return &HistoryService{store: store, limit: limit, now: time.Now}
}

// Record stores a finished query.
func (s *HistoryService) Record(ctx context.Context, q domain.SearchQuery, resultCount int) error {
	return s.store.Add(ctx, domain.HistoryEntry{
		Term:        q.Term,
		Scope:       q.Scope,
		Limit:       q.Limit,
		ResultCount: resultCount,
		SearchedAt:  s.now().UTC(),
	}, s.limit)
}

// List returns the most recent queries first.
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.store.List(ctx, s.limit)
}

// Clear removes all history.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}
