package driven

import (
	"context"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// ContentExtractor turns a web page into readable text.
//
// Implementations include:
//   - Firecrawl (hosted scrape API)
//   - Readability (direct fetch and local article extraction)
type ContentExtractor interface {
	// Extract fetches url and returns its main content.
	// An empty Text is valid; the caller decides whether that is a failure.
	Extract(ctx context.Context, url string) (*domain.ExtractedContent, error)

	// Name identifies the implementation in logs.
	Name() string
}
