package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

func sampleResult() *domain.PipelineResult {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.PipelineResult{
		RunID: "run-1",
		State: domain.StateAggregated,
		Items: []domain.ResultItem{
			{
				Post:   domain.Post{ID: "p1", Title: "How do I start?", URL: "https://reddit.com/r/golang/p1", Subreddit: "golang", CreatedAt: created, Score: 5, CommentCount: 2},
				Status: domain.StatusClassified,
				Classification: &domain.Classification{
					PostID: "p1", Intent: domain.IntentQuestion, Confidence: 0.9, Rationale: "asks", Topics: []string{"go"}, Sentiment: domain.SentimentNeutral,
				},
			},
			{
				Post:   domain.Post{ID: "p2", Title: "Tooling is painful", Subreddit: "golang"},
				Status: domain.StatusFailed,
				Err:    &domain.ItemError{Kind: domain.KindUpstream, Code: 500},
			},
		},
	}
}

func TestServer_handleSearchPosts(t *testing.T) {
	ctx := context.Background()

	t.Run("maps classified and failed posts", func(t *testing.T) {
		pipe := &mockPipeline{result: sampleResult()}
		hist := &mockHistoryService{}
		server, err := NewServer(&Ports{Pipeline: pipe.factory(), History: hist})
		require.NoError(t, err)

		_, out, err := server.handleSearchPosts(ctx, nil, SearchPostsInput{Term: "golang", Subreddit: true, Sort: "TOP", Time: "week"})
		require.NoError(t, err)

		assert.Equal(t, "run-1", out.RunID)
		assert.Equal(t, "aggregated", out.State)
		assert.Equal(t, 2, out.Count)
		require.Len(t, out.Posts, 2)
		assert.Equal(t, "question", out.Posts[0].Intent)
		assert.Equal(t, 0.9, out.Posts[0].Confidence)
		assert.Equal(t, "2025-03-01T12:00:00Z", out.Posts[0].CreatedAt)
		assert.Equal(t, "upstream(500)", out.Posts[1].Error)
		assert.Equal(t, 1, out.Totals["classified"])
		assert.Equal(t, 1, out.Totals["failed"])
		assert.Equal(t, map[string]int{"neutral": 1}, out.Sentiments)

		assert.Equal(t, domain.ScopeSubreddit, pipe.query.Scope)
		assert.Equal(t, defaultToolLimit, pipe.query.Limit)
		assert.Equal(t, domain.SortTop, pipe.query.Sort)
		assert.Equal(t, domain.TimeWeek, pipe.query.Time)
		assert.Len(t, hist.recorded, 1)
	})

	t.Run("intent filter", func(t *testing.T) {
		pipe := &mockPipeline{result: sampleResult()}
		server, err := NewServer(&Ports{Pipeline: pipe.factory()})
		require.NoError(t, err)

		_, out, err := server.handleSearchPosts(ctx, nil, SearchPostsInput{Term: "go", Intent: "question"})
		require.NoError(t, err)
		require.Len(t, out.Posts, 1)
		assert.Equal(t, "p1", out.Posts[0].ID)
	})

	t.Run("unknown intent", func(t *testing.T) {
		pipe := &mockPipeline{result: sampleResult()}
		server, err := NewServer(&Ports{Pipeline: pipe.factory()})
		require.NoError(t, err)

		_, _, err = server.handleSearchPosts(ctx, nil, SearchPostsInput{Term: "go", Intent: "rant"})
		assert.Error(t, err)
	})

	t.Run("pipeline error", func(t *testing.T) {
		pipe := &mockPipeline{err: errors.New("fetch failed")}
		hist := &mockHistoryService{}
		server, err := NewServer(&Ports{Pipeline: pipe.factory(), History: hist})
		require.NoError(t, err)

		_, _, err = server.handleSearchPosts(ctx, nil, SearchPostsInput{Term: "go"})
		assert.EqualError(t, err, "fetch failed")
		assert.Empty(t, hist.recorded)
	})

	t.Run("history failure does not fail the search", func(t *testing.T) {
		pipe := &mockPipeline{result: sampleResult()}
		hist := &mockHistoryService{err: errors.New("disk full")}
		server, err := NewServer(&Ports{Pipeline: pipe.factory(), History: hist})
		require.NoError(t, err)

		_, out, err := server.handleSearchPosts(ctx, nil, SearchPostsInput{Term: "go", Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Count)
		assert.Equal(t, 3, pipe.query.Limit)
	})
}

func TestToSearchOutput_FallbackConfidenceIsSerialised(t *testing.T) {
	fallback := domain.FallbackClassification("p3", "unparseable reply")
	res := &domain.PipelineResult{
		RunID: "run-2",
		State: domain.StateAggregated,
		Items: []domain.ResultItem{{
			Post:           domain.Post{ID: "p3", Title: "???"},
			Status:         domain.StatusClassified,
			Classification: &fallback,
		}},
	}

	raw, err := json.Marshal(toSearchOutput(res).Posts[0])
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"intent":"other"`)
	assert.Contains(t, string(raw), `"confidence":0`)
}

func TestServer_handleSummarizeThread(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary", func(t *testing.T) {
		sum := &mockSummaryService{summary: &domain.ThreadSummary{
			Title:      "Thread",
			Text:       "People agree.",
			SourceURL:  "https://reddit.com/x",
			Truncated:  true,
			MainTopics: []string{"generics"},
			Metadata:   domain.SummaryMetadata{Domain: "reddit.com", WordCount: 420, ReadingMinutes: 3},
		}}
		server, err := NewServer(&Ports{Pipeline: (&mockPipeline{}).factory(), Summary: sum})
		require.NoError(t, err)

		_, out, err := server.handleSummarizeThread(ctx, nil, SummarizeThreadInput{URL: "https://reddit.com/x"})
		require.NoError(t, err)
		assert.Equal(t, "https://reddit.com/x", sum.url)
		assert.Equal(t, "People agree.", out.Summary)
		assert.Equal(t, "Thread", out.Title)
		assert.True(t, out.Truncated)
		assert.Equal(t, []string{"generics"}, out.MainTopics)
		assert.Equal(t, 3, out.Metadata.ReadingMinutes)
	})

	t.Run("propagates error", func(t *testing.T) {
		sum := &mockSummaryService{err: domain.ErrInvalidInput}
		server, err := NewServer(&Ports{Pipeline: (&mockPipeline{}).factory(), Summary: sum})
		require.NoError(t, err)

		_, _, err = server.handleSummarizeThread(ctx, nil, SummarizeThreadInput{URL: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleProfilePost(t *testing.T) {
	ctx := context.Background()

	t.Run("returns profile", func(t *testing.T) {
		prof := &mockProfileService{profile: &domain.Profile{PostID: "p1", Emotion: "frustration"}}
		server, err := NewServer(&Ports{Pipeline: (&mockPipeline{}).factory(), Profile: prof})
		require.NoError(t, err)

		_, out, err := server.handleProfilePost(ctx, nil, ProfilePostInput{ID: "p1", Title: "Stuck", Body: "again"})
		require.NoError(t, err)
		assert.Equal(t, "frustration", out.Emotion)
		assert.Equal(t, domain.Post{ID: "p1", Title: "Stuck", Body: "again"}, prof.post)
	})

	t.Run("title required", func(t *testing.T) {
		prof := &mockProfileService{}
		server, err := NewServer(&Ports{Pipeline: (&mockPipeline{}).factory(), Profile: prof})
		require.NoError(t, err)

		_, _, err = server.handleProfilePost(ctx, nil, ProfilePostInput{Title: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
