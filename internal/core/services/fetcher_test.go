package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

func TestPostFetcher_LengthAndUniqueIDs(t *testing.T) {
	posts := makePosts(8)
	// Duplicates interleaved with fresh posts.
	withDupes := []domain.Post{posts[0], posts[1], posts[0], posts[2], posts[1], posts[3], posts[4], posts[5], posts[6], posts[7]}

	for _, limit := range []int{1, 3, 5, 8, 25} {
		src := &mockSource{posts: withDupes}
		fetcher := NewPostFetcher(src)

		got, err := fetcher.Fetch(context.Background(), domain.NewSearchQuery("golang", domain.ScopeKeyword, limit))
		require.NoError(t, err)

		assert.LessOrEqual(t, len(got), limit)
		seen := map[string]bool{}
		for _, p := range got {
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
		}
	}
}

func TestPostFetcher_DedupeKeepsFirstOccurrence(t *testing.T) {
	first := domain.Post{ID: "a", Title: "first"}
	second := domain.Post{ID: "a", Title: "second"}
	src := &mockSource{posts: []domain.Post{first, {ID: "b", Title: "b"}, second, {ID: "", Title: "no id"}}}

	got, err := NewPostFetcher(src).Fetch(context.Background(), domain.NewSearchQuery("go", domain.ScopeKeyword, 10))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "b", got[1].ID)
}

func TestPostFetcher_EmptyIsNotAnError(t *testing.T) {
	got, err := NewPostFetcher(&mockSource{}).Fetch(context.Background(), domain.NewSearchQuery("nothing", domain.ScopeKeyword, 10))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPostFetcher_PropagatesTypedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   error
	}{
		{"rate limited", domain.NewStatusError("reddit", 429, 0, ""), domain.ErrRateLimited},
		{"auth failed", domain.NewStatusError("reddit", 401, 0, ""), domain.ErrAuthFailed},
		{"upstream", domain.NewStatusError("reddit", 503, 0, ""), domain.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPostFetcher(&mockSource{err: tt.err}).Fetch(context.Background(), domain.NewSearchQuery("go", domain.ScopeKeyword, 5))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestPostFetcher_InvalidQuery(t *testing.T) {
	tests := []struct {
		name string
		q    domain.SearchQuery
	}{
		{"empty term", domain.NewSearchQuery("  ", domain.ScopeKeyword, 10)},
		{"limit too large", domain.NewSearchQuery("go", domain.ScopeKeyword, 101)},
		{"negative limit", domain.NewSearchQuery("go", domain.ScopeKeyword, -1)},
		{"bad scope", domain.SearchQuery{Term: "go", Scope: "everything", Limit: 5}},
		{"bad subreddit", domain.NewSearchQuery("not a sub!", domain.ScopeSubreddit, 5)},
		{"subreddit too short", domain.NewSearchQuery("r/a", domain.ScopeSubreddit, 5)},
		{"bad sort", domain.NewSearchQuery("go", domain.ScopeKeyword, 5).WithSort("random")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockSource{posts: makePosts(3)}
			_, err := NewPostFetcher(src).Fetch(context.Background(), tt.q)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, int32(0), src.calls.Load(), "source must not be called")
		})
	}
}

func TestPostFetcher_SubredditPrefixStripped(t *testing.T) {
	src := &mockSource{posts: makePosts(2)}

	_, err := NewPostFetcher(src).Fetch(context.Background(), domain.NewSearchQuery("r/golang", domain.ScopeSubreddit, 5))

	require.NoError(t, err)
	assert.Equal(t, "golang", src.last.Term)
}
