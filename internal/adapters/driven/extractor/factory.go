// Package extractor selects the content extractor used for thread summaries.
package extractor

import (
	"fmt"

	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/extractor/firecrawl"
	"github.com/Vitor-VarelAI/threadsift/internal/adapters/driven/extractor/readability"
	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
)

// New creates the extractor named by settings.Provider.
// userAgent is sent by extractors that fetch pages themselves.
func New(settings domain.ExtractorSettings, userAgent string) (driven.ContentExtractor, error) {
	switch settings.Provider {
	case domain.ExtractorFirecrawl:
		fc, err := firecrawl.New(firecrawl.Config{
			APIKey:  settings.APIKey.Value(),
			BaseURL: settings.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return fc, nil
	case domain.ExtractorReadability, "":
		return readability.New(readability.Config{UserAgent: userAgent}), nil
	default:
		return nil, fmt.Errorf("%w: unknown extractor %q", domain.ErrInvalidInput, settings.Provider)
	}
}
