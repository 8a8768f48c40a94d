package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

const defaultToolLimit = 10

// SearchPostsInput is the input schema for search_posts.
type SearchPostsInput struct {
	Term      string `json:"term" jsonschema:"keyword, or community name when subreddit is true"`
	Subreddit bool   `json:"subreddit,omitempty" jsonschema:"treat term as a community name"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of posts, 1-100 (default 10)"`
	Sort      string `json:"sort,omitempty" jsonschema:"new, relevance, hot, top or comments (default new)"`
	Time      string `json:"time,omitempty" jsonschema:"hour, day, week, month, year or all (default all)"`
	Intent    string `json:"intent,omitempty" jsonschema:"only return posts with this intent"`
	Days      int    `json:"days,omitempty" jsonschema:"only return posts from the last N days"`
}

// SearchPostsOutput is the output schema for search_posts.
type SearchPostsOutput struct {
	RunID      string         `json:"run_id"`
	State      string         `json:"state"`
	Posts      []PostOutput   `json:"posts"`
	Count      int            `json:"count"`
	Totals     map[string]int `json:"totals"`
	Sentiments map[string]int `json:"sentiments"`
}

// PostOutput is one classified post.
type PostOutput struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Subreddit  string   `json:"subreddit"`
	Author     string   `json:"author,omitempty"`
	Score      int      `json:"score"`
	Comments   int      `json:"comments"`
	CreatedAt  string   `json:"created_at,omitempty"`
	Status     string   `json:"status"`
	Intent     string   `json:"intent,omitempty"`
	Confidence float64  `json:"confidence"`
	Rationale  string   `json:"rationale,omitempty"`
	Sentiment  string   `json:"sentiment,omitempty"`
	Topics     []string `json:"topics,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// SummarizeThreadInput is the input schema for summarize_thread.
type SummarizeThreadInput struct {
	URL string `json:"url" jsonschema:"link to the thread to summarise"`
}

// SummarizeThreadOutput is the output schema for summarize_thread.
type SummarizeThreadOutput struct {
	Title      string                 `json:"title,omitempty"`
	Summary    string                 `json:"summary"`
	SourceURL  string                 `json:"source_url"`
	Truncated  bool                   `json:"truncated,omitempty"`
	MainTopics []string               `json:"main_topics,omitempty"`
	Metadata   domain.SummaryMetadata `json:"metadata"`
}

// ProfilePostInput is the input schema for profile_post.
type ProfilePostInput struct {
	ID    string `json:"id,omitempty" jsonschema:"post id, echoed back"`
	Title string `json:"title" jsonschema:"post title"`
	Body  string `json:"body,omitempty" jsonschema:"post body"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_posts",
		Description: "Fetch Reddit posts for a keyword or community and classify each post's intent",
	}, s.handleSearchPosts)

	if s.ports.Summary != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "summarize_thread",
			Description: "Summarise a discussion thread: the question, the main replies and any consensus",
		}, s.handleSummarizeThread)
	}

	if s.ports.Profile != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "profile_post",
			Description: "Read the author's emotion, beliefs, attempted solutions and blockers from one post",
		}, s.handleProfilePost)
	}
}

func (s *Server) handleSearchPosts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPostsInput,
) (*mcp.CallToolResult, SearchPostsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultToolLimit
	}

	scope := domain.ScopeKeyword
	if input.Subreddit {
		scope = domain.ScopeSubreddit
	}
	q := domain.NewSearchQuery(input.Term, scope, limit)
	if input.Sort != "" {
		q = q.WithSort(domain.SortOrder(strings.ToLower(input.Sort)))
	}
	if input.Time != "" {
		q = q.WithTime(domain.TimeWindow(strings.ToLower(input.Time)))
	}

	filter := domain.ResultFilter{MaxAgeDays: input.Days}
	if input.Intent != "" {
		intent, ok := domain.ParseIntent(input.Intent)
		if !ok {
			return nil, SearchPostsOutput{}, fmt.Errorf("unknown intent %q", input.Intent)
		}
		filter.Intent = intent
	}

	res, err := s.ports.Pipeline(0, nil).Run(ctx, q)
	if err != nil {
		return nil, SearchPostsOutput{}, err
	}

	if s.ports.History != nil {
		if err := s.ports.History.Record(ctx, q, len(res.Items)); err != nil {
			logger.Warn("mcp: could not record search history: %v", err)
		}
	}

	now := time.Now()
	if !filter.IsZero() {
		res = res.Filter(filter, now)
	}

	return nil, toSearchOutput(res), nil
}

func toSearchOutput(res *domain.PipelineResult) SearchPostsOutput {
	out := SearchPostsOutput{
		RunID:      res.RunID,
		State:      string(res.State),
		Posts:      make([]PostOutput, len(res.Items)),
		Count:      len(res.Items),
		Totals:     make(map[string]int),
		Sentiments: make(map[string]int),
	}
	for status, n := range res.Counts() {
		out.Totals[string(status)] = n
	}
	for sentiment, n := range res.SentimentCounts() {
		out.Sentiments[string(sentiment)] = n
	}

	for i, it := range res.Items {
		p := PostOutput{
			ID:        it.Post.ID,
			Title:     it.Post.Title,
			URL:       it.Post.URL,
			Subreddit: it.Post.Subreddit,
			Author:    it.Post.Author,
			Score:     it.Post.Score,
			Comments:  it.Post.CommentCount,
			Status:    string(it.Status),
		}
		if !it.Post.CreatedAt.IsZero() {
			p.CreatedAt = it.Post.CreatedAt.UTC().Format(time.RFC3339)
		}
		if c := it.Classification; c != nil {
			p.Intent = c.Intent.String()
			p.Confidence = c.Confidence
			p.Rationale = c.Rationale
			p.Sentiment = string(c.Sentiment)
			p.Topics = c.Topics
		}
		if it.Err != nil {
			p.Error = it.Err.String()
		}
		out.Posts[i] = p
	}
	return out
}

func (s *Server) handleSummarizeThread(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeThreadInput,
) (*mcp.CallToolResult, SummarizeThreadOutput, error) {
	sum, err := s.ports.Summary.Summarize(ctx, input.URL)
	if err != nil {
		return nil, SummarizeThreadOutput{}, err
	}
	return nil, SummarizeThreadOutput{
		Title:      sum.Title,
		Summary:    sum.Text,
		SourceURL:  sum.SourceURL,
		Truncated:  sum.Truncated,
		MainTopics: sum.MainTopics,
		Metadata:   sum.Metadata,
	}, nil
}

func (s *Server) handleProfilePost(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProfilePostInput,
) (*mcp.CallToolResult, domain.Profile, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.Profile{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	p, err := s.ports.Profile.Profile(ctx, domain.Post{ID: input.ID, Title: input.Title, Body: input.Body})
	if err != nil {
		return nil, domain.Profile{}, err
	}
	return nil, *p, nil
}
