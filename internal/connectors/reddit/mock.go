package reddit

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
)

// Ensure MockSource implements the interface.
var _ driven.PostSource = (*MockSource)(nil)

// MockSource serves deterministic sample posts for demos and offline use.
// The same query always yields the same posts in the same order.
type MockSource struct {
	now func() time.Time
}

// NewMockSource creates a fixture-backed source.
func NewMockSource() *MockSource {
	return &MockSource{now: time.Now}
}

// Name identifies the client mode.
func (m *MockSource) Name() string {
	return string(domain.RedditModeMock)
}

type mockTemplate struct {
	title string
	body  string
	link  bool
}

var mockTemplates = []mockTemplate{
	{title: "Question about %s: how do I solve this?", body: "I've been working with %s for a few weeks and hit a problem I can't get past. Can anyone help?"},
	{title: "I need help with %s for a project", body: "I'm a beginner with %s and don't know where to start. Which resources do you recommend?"},
	{title: "Anyone have real experience with %s?", body: "Thinking of adopting %s at work. What went wrong for you and what would you do differently?"},
	{title: "Best way to learn %s this year?", body: ""},
	{title: "Recommended resources for %s", body: "After six months with %s, here are the books and courses that actually helped me. Start with the official docs, then build something small."},
	{title: "How %s changed my career", body: "Two years ago I picked up %s on a whim. Here is what happened and the lessons I learned along the way."},
	{title: "Common problems with %s and how to fix them", body: "I keep losing hours to the same %s issues and it is driving me crazy. Nothing I try works and my deadline is next week."},
	{title: "What's new in %s that you should know about", body: "", link: true},
	{title: "Why is %s important for the future?", body: "Curious what everyone thinks: is %s a fad or here to stay? Let's discuss."},
	{title: "Comparing different approaches to %s", body: "I tried three approaches to %s. Here's a breakdown of the trade-offs and which one I'd pick."},
}

var mockAuthors = []string{
	"tech_enthusiast", "code_master", "data_wizard", "web_guru", "ai_researcher",
	"startup_founder", "marketing_pro", "design_ninja", "career_coach", "future_thinker",
}

// Search returns up to q.Limit fixtures derived from the query term.
func (m *MockSource) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	term := strings.TrimSpace(q.Term)
	subreddit := "programming"
	if q.Scope == domain.ScopeSubreddit {
		subreddit = term
	}

	seed := hashString(strings.ToLower(term))
	now := m.now().UTC().Truncate(time.Hour)

	n := min(q.Limit, len(mockTemplates)*3)
	posts := make([]domain.Post, 0, n)
	for i := 0; i < n; i++ {
		tpl := mockTemplates[(int(seed%uint32(len(mockTemplates)))+i)%len(mockTemplates)]
		id := strconv.FormatUint(uint64(hashString(fmt.Sprintf("%s/%d", term, i))), 36)
		age := time.Duration((int(seed)+i*37)%(90*24)) * time.Hour

		body := tpl.body
		if body != "" {
			body = fmt.Sprintf(body, term)
		}
		permalink := fmt.Sprintf("%s/r/%s/comments/%s/", WebBaseURL, subreddit, id)
		link := ""
		if tpl.link {
			link = "https://example.com/" + strings.ReplaceAll(strings.ToLower(term), " ", "-") + "/news"
		}

		posts = append(posts, domain.Post{
			ID:           id,
			Title:        fmt.Sprintf(tpl.title, term),
			Body:         body,
			URL:          permalink,
			LinkURL:      link,
			Subreddit:    subreddit,
			Author:       mockAuthors[(int(seed)+i)%len(mockAuthors)],
			CreatedAt:    now.Add(-age),
			Score:        int((seed>>3)%500) + i*7,
			CommentCount: int((seed>>5)%120) + i,
		})
	}
	return posts, nil
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
