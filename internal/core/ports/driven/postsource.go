package driven

import (
	"context"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// PostSource retrieves one page of posts from the platform.
// Implementations normalise platform records into domain.Post and map
// failures to *domain.ServiceError (rate limited, auth failed, upstream).
type PostSource interface {
	// Search returns at most q.Limit posts for an already validated query.
	// Order is the platform's order. Duplicates are allowed; the caller dedupes.
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.Post, error)

	// Name identifies the implementation in logs (api, app, public, mock).
	Name() string
}
