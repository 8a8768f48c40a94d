// Package firecrawl extracts page content through the hosted Firecrawl scrape API.
package firecrawl

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/httpapi"
	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/normalisers/markdown"
)

// Ensure Extractor implements the interface.
var _ driven.ContentExtractor = (*Extractor)(nil)

// Default configuration values.
const (
	ServiceName    = "firecrawl"
	DefaultBaseURL = "https://api.firecrawl.dev"
	DefaultTimeout = 60 * time.Second
)

// Config holds Firecrawl configuration.
type Config struct {
	// APIKey is the Firecrawl API key (required).
	APIKey string

	// BaseURL is the API base URL, useful for self-hosted instances.
	BaseURL string

	// Timeout is the HTTP client timeout. Scrapes render pages and can be slow.
	Timeout time.Duration
}

// Extractor calls POST /v1/scrape and returns the page as markdown.
type Extractor struct {
	client  *httpapi.Client
	baseURL string
}

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title     string `json:"title"`
			SourceURL string `json:"sourceURL"`
		} `json:"metadata"`
	} `json:"data"`
}

// New creates a Firecrawl extractor.
func New(cfg Config) (*Extractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("firecrawl: %w: API key is required", domain.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	return &Extractor{
		client:  httpapi.NewClient(ServiceName, cfg.Timeout, 0, header),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Name identifies the implementation in logs.
func (e *Extractor) Name() string {
	return ServiceName
}

// Extract scrapes url and returns its main content with markdown stripped.
func (e *Extractor) Extract(ctx context.Context, url string) (*domain.ExtractedContent, error) {
	req := scrapeRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	}

	var resp scrapeResponse
	if err := e.client.PostJSON(ctx, e.baseURL+"/v1/scrape", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "scrape unsuccessful"
		}
		return nil, &domain.ServiceError{
			Service: ServiceName,
			Kind:    domain.KindExtraction,
			Code:    http.StatusOK,
			Message: msg,
		}
	}

	content := markdown.Normalise(resp.Data.Markdown, url)
	if t := strings.TrimSpace(resp.Data.Metadata.Title); t != "" {
		content.Title = t
	}
	return content, nil
}
