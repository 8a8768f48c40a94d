package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driven"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// Ensure ThreadSummarizer implements the interface.
var _ driving.SummaryService = (*ThreadSummarizer)(nil)

// ThreadSummarizer extracts a thread's content and condenses it with the LLM.
type ThreadSummarizer struct {
	extractor   driven.ContentExtractor
	llm         driven.LLMService
	settings    domain.SummarizerSettings
	callTimeout time.Duration
}

// NewThreadSummarizer creates a summarizer. llm may be nil, in which case
// every call fails with domain.ErrLLMUnavailable.
func NewThreadSummarizer(
	extractor driven.ContentExtractor,
	llm driven.LLMService,
	settings domain.SummarizerSettings,
) *ThreadSummarizer {
	return &ThreadSummarizer{
		extractor:   extractor,
		llm:         llm,
		settings:    settings,
		callTimeout: domain.DefaultAppSettings().Pipeline.CallTimeout,
	}
}

// SetCallTimeout bounds the extraction and the LLM call separately.
// Non-positive values are ignored.
func (s *ThreadSummarizer) SetCallTimeout(d time.Duration) {
	if d > 0 {
		s.callTimeout = d
	}
}

// Summarize extracts rawURL and returns a summary no longer than the configured limit.
func (s *ThreadSummarizer) Summarize(ctx context.Context, rawURL string) (*domain.ThreadSummary, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an http(s) URL", domain.ErrInvalidInput, rawURL)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("content extractor: %w", domain.ErrNotConfigured)
	}

	logger.Section("Summarize")
	logger.Debug("Extractor: %s, url: %s", s.extractor.Name(), rawURL)

	ectx, cancel := context.WithTimeout(ctx, s.callTimeout)
	content, err := s.extractor.Extract(ectx, rawURL)
	cancel()
	if err != nil {
		return nil, s.extractionError(err)
	}
	text := strings.TrimSpace(content.Text)
	if text == "" {
		return nil, &domain.ServiceError{
			Service: s.extractor.Name(),
			Kind:    domain.KindExtraction,
			Message: "no readable content",
		}
	}

	maxIn := s.settings.MaxInputChars
	if maxIn <= 0 {
		maxIn = domain.DefaultAppSettings().Summarizer.MaxInputChars
	}
	maxOut := s.settings.MaxSummaryChars
	if maxOut <= 0 {
		maxOut = domain.DefaultAppSettings().Summarizer.MaxSummaryChars
	}
	metadata := domain.NewSummaryMetadata(rawURL, text)
	topics := mainTopics(text, domain.MaxTopics)
	text = truncateRunes(text, maxIn)
	logger.Debug("Extracted %d words, summarising to %d runes", metadata.WordCount, maxOut)

	lctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	summary, err := s.llm.Summarise(lctx, text, maxOut)
	cancel()
	if err != nil {
		return nil, asTimeout(s.llm.ModelName(), err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, &domain.ServiceError{
			Service: s.llm.ModelName(),
			Kind:    domain.KindMalformed,
			Message: "empty summary",
		}
	}

	out, truncated := truncateSummary(summary, maxOut)
	return &domain.ThreadSummary{
		PostID:     domain.PostIDFromURL(rawURL),
		Title:      content.Title,
		Text:       out,
		SourceURL:  rawURL,
		Truncated:  truncated,
		MainTopics: topics,
		Metadata:   metadata,
	}, nil
}

// extractionError keeps rate-limit, auth, cancellation and timeout failures
// as they are and reports everything else as an extraction failure.
func (s *ThreadSummarizer) extractionError(err error) error {
	switch domain.KindOf(err) {
	case domain.KindRateLimited, domain.KindAuthFailed, domain.KindCancelled, domain.KindInvalidInput:
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return asTimeout(s.extractor.Name(), err)
	}
	return &domain.ServiceError{
		Service: s.extractor.Name(),
		Kind:    domain.KindExtraction,
		Err:     err,
	}
}
