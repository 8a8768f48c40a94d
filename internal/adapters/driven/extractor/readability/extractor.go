// Package readability extracts page content locally: it fetches the page,
// runs go-readability to find the article and falls back to whole-page text
// when no article is found.
package readability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/httpapi"
	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/normalisers/html"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	ServiceName      = "readability"
	DefaultUserAgent = "threadsift/1.0"
	DefaultTimeout   = 30 * time.Second

	// maxPageBytes bounds how much of a page is read.
	maxPageBytes = 5 << 20
)

// Config holds extractor configuration.
type Config struct {
	UserAgent string
	Timeout   time.Duration

	// KeepRedditHost disables rewriting reddit.com thread URLs to
	// old.reddit.com, whose pages are rendered server-side.
	KeepRedditHost bool

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Extractor fetches pages over HTTP and extracts readable text.
type Extractor struct {
	client         *http.Client
	userAgent      string
	keepRedditHost bool
	normaliser     *html.Normaliser
}

// New creates a readability extractor.
func New(cfg Config) *Extractor {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Extractor{
		client:         client,
		userAgent:      cfg.UserAgent,
		keepRedditHost: cfg.KeepRedditHost,
		normaliser:     html.New(),
	}
}

// Name identifies the implementation in logs.
func (e *Extractor) Name() string {
	return ServiceName
}

// Extract fetches rawURL and returns its main content.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*domain.ExtractedContent, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: not an http(s) url: %q", domain.ErrInvalidInput, rawURL)
	}
	if !e.keepRedditHost {
		u = serverRenderedReddit(u)
	}

	page, err := e.fetch(ctx, u)
	if err != nil {
		return nil, err
	}

	content, err := e.extract(page, u)
	if err != nil {
		return nil, err
	}
	content.URL = rawURL
	return content, nil
}

func (e *Extractor) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", ServiceName, err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, httpapi.TransportError(ServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpapi.StatusError(ServiceName, resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, httpapi.TransportError(ServiceName, err)
	}
	return body, nil
}

// extract runs readability and falls back to the whole page when the
// article is missing or has no text.
func (e *Extractor) extract(page []byte, u *url.URL) (*domain.ExtractedContent, error) {
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(page), u)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		content, nerr := e.normaliser.Normalise(strings.NewReader(article.Content), u.String())
		if nerr == nil && content.Text != "" {
			if t := strings.TrimSpace(article.Title); t != "" {
				content.Title = t
			}
			return content, nil
		}
	}

	content, err := e.normaliser.Normalise(bytes.NewReader(page), u.String())
	if err != nil {
		return nil, &domain.ServiceError{Service: ServiceName, Kind: domain.KindExtraction, Err: err}
	}
	return content, nil
}

// serverRenderedReddit points reddit.com thread URLs at old.reddit.com.
func serverRenderedReddit(u *url.URL) *url.URL {
	switch strings.ToLower(u.Host) {
	case "reddit.com", "www.reddit.com", "new.reddit.com", "np.reddit.com":
		c := *u
		c.Host = "old.reddit.com"
		return &c
	default:
		return u
	}
}
