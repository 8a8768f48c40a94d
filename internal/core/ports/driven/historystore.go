package driven

import (
	"context"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// HistoryStore keeps past queries. It never stores posts or classifications.
type HistoryStore interface {
	// Add records an entry and trims the store to keep at most limit entries.
	Add(ctx context.Context, entry domain.HistoryEntry, limit int) error

	// List returns the most recent entries first, at most limit.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
