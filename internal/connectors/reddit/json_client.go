package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// Ensure JSONClient implements the interface.
var _ driven.PostSource = (*JSONClient)(nil)

// Endpoints.
const (
	// PublicBaseURL serves anonymous .json listings.
	PublicBaseURL = "https://www.reddit.com"

	// OAuthBaseURL serves authenticated listings.
	OAuthBaseURL = "https://oauth.reddit.com"

	// TokenURL issues OAuth tokens.
	TokenURL = "https://www.reddit.com/api/v1/access_token" //nolint:gosec // URL, not a credential

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxListingBytes bounds a listing response body.
	maxListingBytes = 8 << 20
)

// JSONConfig configures a JSONClient.
type JSONConfig struct {
	// BaseURL overrides the listing host (tests).
	BaseURL string

	// UserAgent is required by Reddit's API rules.
	UserAgent string

	// RequestsPerMinute feeds the rate limiter.
	RequestsPerMinute int

	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// JSONClient reads Reddit's JSON listings directly, either anonymously
// or with an application-only OAuth token.
type JSONClient struct {
	name        string
	baseURL     string
	userAgent   string
	client      *http.Client
	rateLimiter *RateLimiter
	jsonSuffix  bool
}

// NewPublicClient creates an anonymous client against www.reddit.com.
func NewPublicClient(cfg JSONConfig) *JSONClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = PublicBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &JSONClient{
		name:        string(domain.RedditModePublic),
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		client:      client,
		rateLimiter: NewRateLimiter(cfg.RequestsPerMinute),
		jsonSuffix:  true,
	}
}

// AppConfig adds application-only OAuth credentials to JSONConfig.
type AppConfig struct {
	JSONConfig

	ClientID     string
	ClientSecret string

	// TokenURL overrides the token endpoint (tests).
	TokenURL string
}

// NewAppClient creates a client that authenticates with the client
// credentials grant and reads from oauth.reddit.com. Tokens are fetched
// lazily and refreshed by the oauth2 transport.
func NewAppClient(cfg AppConfig) (*JSONClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = OAuthBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = TokenURL
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: DefaultTimeout}
	}
	// Reddit rejects token requests without a User-Agent.
	uaClient := &http.Client{
		Timeout:   base.Timeout,
		Transport: &userAgentTransport{agent: cfg.UserAgent, next: base.Transport},
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, uaClient)
	client := oauth2.NewClient(tokenCtx, cc.TokenSource(tokenCtx))
	client.Timeout = base.Timeout

	return &JSONClient{
		name:        string(domain.RedditModeApp),
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		client:      client,
		rateLimiter: NewRateLimiter(cfg.RequestsPerMinute),
		jsonSuffix:  false,
	}, nil
}

// Name identifies the client mode.
func (c *JSONClient) Name() string {
	return c.name
}

// Search fetches one listing page for q.
func (c *JSONClient) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Post, error) {
	endpoint := c.endpoint(q)
	logger.Debug("reddit %s: GET %s", c.name, endpoint)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, mapError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var l listing
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxListingBytes)).Decode(&l); err != nil {
		return nil, &domain.ServiceError{
			Service: ServiceName,
			Kind:    domain.KindUpstream,
			Code:    resp.StatusCode,
			Message: "decode listing",
			Err:     err,
		}
	}

	posts := l.posts()
	logger.Debug("reddit %s: %d posts, %.0f requests remaining", c.name, len(posts), c.rateLimiter.Remaining())
	return posts, nil
}

// endpoint builds the listing URL for q.
func (c *JSONClient) endpoint(q domain.SearchQuery) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("raw_json", "1")

	var path string
	switch q.Scope {
	case domain.ScopeSubreddit:
		sort := listingSort(q.Sort)
		path = "/r/" + url.PathEscape(q.Term) + "/" + sort
		if sort == "top" {
			params.Set("t", timeWindow(q.Time))
		}
	default:
		path = "/search"
		params.Set("q", q.Term)
		params.Set("sort", searchSort(q.Sort))
		params.Set("t", timeWindow(q.Time))
		params.Set("type", "link")
	}

	if c.jsonSuffix {
		path += ".json"
	}
	return c.baseURL + path + "?" + params.Encode()
}

// userAgentTransport sets User-Agent on every request.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	if t.agent != "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return next.RoundTrip(req)
}
