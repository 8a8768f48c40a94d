package reddit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// Ensure APIClient implements the interface.
var _ driven.PostSource = (*APIClient)(nil)

// APIConfig holds script-app credentials for the official API.
type APIConfig struct {
	ClientID          string
	ClientSecret      string
	Username          string
	Password          string
	UserAgent         string
	RequestsPerMinute int

	// BaseURL and TokenURL override the endpoints (tests).
	BaseURL  string
	TokenURL string

	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// APIClient reads Reddit through go-reddit using a script app.
type APIClient struct {
	client      *reddit.Client
	rateLimiter *RateLimiter
}

// NewAPIClient creates a go-reddit backed client.
func NewAPIClient(cfg APIConfig) (*APIClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, ErrMissingCredentials
	}

	opts := []reddit.Opt{reddit.WithUserAgent(cfg.UserAgent)}
	if cfg.HTTPClient != nil {
		opts = append(opts, reddit.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, reddit.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TokenURL != "" {
		opts = append(opts, reddit.WithTokenURL(cfg.TokenURL))
	}

	creds := reddit.Credentials{
		ID:       cfg.ClientID,
		Secret:   cfg.ClientSecret,
		Username: cfg.Username,
		Password: cfg.Password,
	}
	client, err := reddit.NewClient(creds, opts...)
	if err != nil {
		return nil, fmt.Errorf("reddit: create client: %w", err)
	}

	return &APIClient{
		client:      client,
		rateLimiter: NewRateLimiter(cfg.RequestsPerMinute),
	}, nil
}

// Name identifies the client mode.
func (c *APIClient) Name() string {
	return string(domain.RedditModeAPI)
}

// Search fetches one page through the official API.
func (c *APIClient) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Post, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, mapError(err)
	}

	var (
		posts []*reddit.Post
		resp  *reddit.Response
		err   error
	)

	list := reddit.ListOptions{Limit: q.Limit}
	switch q.Scope {
	case domain.ScopeSubreddit:
		logger.Debug("reddit api: r/%s/%s", q.Term, listingSort(q.Sort))
		switch listingSort(q.Sort) {
		case "hot":
			posts, resp, err = c.client.Subreddit.HotPosts(ctx, q.Term, &list)
		case "top":
			posts, resp, err = c.client.Subreddit.TopPosts(ctx, q.Term, &reddit.ListPostOptions{
				ListOptions: list,
				Time:        timeWindow(q.Time),
			})
		default:
			posts, resp, err = c.client.Subreddit.NewPosts(ctx, q.Term, &list)
		}
	default:
		logger.Debug("reddit api: search %q", q.Term)
		posts, resp, err = c.client.Subreddit.SearchPosts(ctx, q.Term, "", &reddit.ListPostSearchOptions{
			ListPostOptions: reddit.ListPostOptions{
				ListOptions: list,
				Time:        timeWindow(q.Time),
			},
			Sort: searchSort(q.Sort),
		})
	}

	if resp != nil && resp.Response != nil {
		c.rateLimiter.UpdateFromHeaders(resp.Header)
	}
	if err != nil {
		return nil, mapError(err)
	}

	return convertPosts(posts), nil
}

// convertPosts normalises go-reddit posts, skipping unusable records.
func convertPosts(in []*reddit.Post) []domain.Post {
	out := make([]domain.Post, 0, len(in))
	for _, p := range in {
		if p == nil {
			continue
		}
		var created time.Time
		if p.Created != nil {
			created = p.Created.Time
		}
		link := ""
		if !p.IsSelfPost {
			link = p.URL
		}
		post, ok := normalisePost(
			p.ID, p.Title, p.Body, p.Permalink, link, p.SubredditName, p.Author,
			created, p.Score, p.NumberOfComments,
		)
		if ok {
			out = append(out, post)
		}
	}
	return out
}
