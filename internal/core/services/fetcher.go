package services

import (
	"context"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// PostFetcher retrieves one bounded page of posts for a query.
type PostFetcher struct {
	source driven.PostSource
}

// NewPostFetcher creates a fetcher over source.
func NewPostFetcher(source driven.PostSource) *PostFetcher {
	return &PostFetcher{source: source}
}

// Fetch validates q, asks the source for one page and returns at most q.Limit
// posts with distinct ids, in the source's order. Zero posts is not an error.
func (f *PostFetcher) Fetch(ctx context.Context, q domain.SearchQuery) ([]domain.Post, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}

	logger.Section("Fetch")
	logger.Debug("Source: %s, scope: %s, term: %q, limit: %d, sort: %s", f.source.Name(), q.Scope, q.Term, q.Limit, q.Sort)

	posts, err := f.source.Search(ctx, q)
	if err != nil {
		logger.Debug("Fetch failed: %v", err)
		return nil, err
	}

	out := dedupePosts(posts, q.Limit)
	logger.Debug("Fetched %d posts (%d before dedupe)", len(out), len(posts))
	return out, nil
}

// dedupePosts keeps the first occurrence of each id and stops at limit.
// Posts without an id are dropped.
func dedupePosts(posts []domain.Post, limit int) []domain.Post {
	seen := make(map[string]struct{}, len(posts))
	out := make([]domain.Post, 0, min(len(posts), limit))
	for _, p := range posts {
		if len(out) == limit {
			break
		}
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
