package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
	"github.com/Vitor-VarelAI/threadsift/internal/core/ports/driving"
	"github.com/Vitor-VarelAI/threadsift/internal/logger"
)

// Ensure PipelineOrchestrator implements the interface.
var _ driving.PipelineService = (*PipelineOrchestrator)(nil)

// PostClassifier labels a single post. *IntentClassifier is the production implementation.
type PostClassifier interface {
	Classify(ctx context.Context, post domain.Post) (domain.Classification, error)
}

// ProgressFunc is called after each post finishes (classified or failed).
// It may be called from several goroutines at once.
type ProgressFunc func(done, total int)

// upstreamRetries is how many times an Upstream failure is retried.
const upstreamRetries = 1

// PipelineOrchestrator runs fetch then bounded-concurrency classification.
type PipelineOrchestrator struct {
	fetcher    *PostFetcher
	classifier PostClassifier
	settings   domain.PipelineSettings
	progress   ProgressFunc

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewPipelineOrchestrator creates an orchestrator.
// A nil classifier disables classification: every item stays pending.
func NewPipelineOrchestrator(
	fetcher *PostFetcher,
	classifier PostClassifier,
	settings domain.PipelineSettings,
) *PipelineOrchestrator {
	defaults := domain.DefaultAppSettings().Pipeline
	if settings.Concurrency <= 0 {
		settings.Concurrency = defaults.Concurrency
	}
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = defaults.MaxAttempts
	}
	if settings.CallTimeout <= 0 {
		settings.CallTimeout = defaults.CallTimeout
	}
	if settings.BackoffMax < settings.BackoffBase {
		settings.BackoffMax = settings.BackoffBase
	}

	return &PipelineOrchestrator{
		fetcher:    fetcher,
		classifier: classifier,
		settings:   settings,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// SetProgress installs a progress callback for subsequent runs.
func (o *PipelineOrchestrator) SetProgress(fn ProgressFunc) {
	o.progress = fn
}

// Run fetches posts for q and classifies them.
//
// The returned result keeps the fetch order. When ctx ends mid-run the result
// is still returned with state cancelled: finished items are kept and the
// rest stay pending. Errors are returned only when the fetch fails or the
// LLM rejects the credentials.
func (o *PipelineOrchestrator) Run(ctx context.Context, q domain.SearchQuery) (*domain.PipelineResult, error) {
	res := &domain.PipelineResult{
		RunID:     uuid.NewString(),
		Query:     q,
		State:     domain.StateFetching,
		StartedAt: o.now(),
	}
	log := logger.Get().With().Str("run_id", res.RunID).Logger()

	fctx, cancel := context.WithTimeout(ctx, o.settings.CallTimeout)
	posts, err := o.fetcher.Fetch(fctx, q)
	cancel()
	if err != nil {
		log.Debug().Err(err).Msg("fetch failed")
		return nil, &domain.BatchError{Stage: domain.StateFetching, Err: err}
	}

	res.Items = domain.NewPendingItems(posts)
	res.State = domain.StateClassifying

	if o.classifier == nil {
		log.Debug().Int("posts", len(posts)).Msg("classification disabled")
	} else if err := o.classify(ctx, res.Items); err != nil {
		log.Debug().Err(err).Msg("batch aborted")
		return nil, err
	}

	res.FinishedAt = o.now()
	if ctx.Err() != nil {
		res.State = domain.StateCancelled
	} else {
		res.State = domain.StateAggregated
	}

	counts := res.Counts()
	log.Debug().
		Str("state", string(res.State)).
		Int("classified", counts[domain.StatusClassified]).
		Int("failed", counts[domain.StatusFailed]).
		Int("pending", counts[domain.StatusPending]).
		Dur("took", res.Duration()).
		Msg("run finished")

	return res, nil
}

// classify fills items in place. Each goroutine writes only its own slot.
func (o *PipelineOrchestrator) classify(ctx context.Context, items []domain.ResultItem) error {
	logger.Section("Classify")

	total := len(items)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.settings.Concurrency)

	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if err := o.classifyItem(gctx, &items[i]); err != nil {
				return err
			}
			if items[i].Status != domain.StatusPending && o.progress != nil {
				o.progress(int(done.Add(1)), total)
			}
			return nil
		})
	}

	return g.Wait()
}

// classifyItem applies the retry policy to one post. It returns an error only
// when the whole batch must stop.
func (o *PipelineOrchestrator) classifyItem(ctx context.Context, item *domain.ResultItem) error {
	upstreamLeft := upstreamRetries

	for attempt := 1; ; attempt++ {
		item.Attempts = attempt

		cctx, cancel := context.WithTimeout(ctx, o.settings.CallTimeout)
		c, err := o.classifier.Classify(cctx, item.Post)
		cancel()

		if err == nil {
			item.Classification = &c
			item.Status = domain.StatusClassified
			return nil
		}
		if ctx.Err() != nil {
			// Abandoned by cancellation; the slot stays pending.
			return nil
		}
		err = asTimeout("llm", err)

		switch domain.KindOf(err) {
		case domain.KindAuthFailed:
			logger.Warn("Credentials rejected while classifying %s, aborting batch", item.Post.ID)
			return &domain.BatchError{Stage: domain.StateClassifying, Err: err}

		case domain.KindRateLimited:
			if attempt < o.settings.MaxAttempts {
				d := backoff(attempt, o.settings.BackoffBase, o.settings.BackoffMax, domain.RetryAfterOf(err))
				logger.Debug("Rate limited on %s (attempt %d/%d), retrying in %s", item.Post.ID, attempt, o.settings.MaxAttempts, d)
				if o.sleep(ctx, d) != nil {
					return nil
				}
				continue
			}

		case domain.KindUpstream:
			if upstreamLeft > 0 {
				upstreamLeft--
				logger.Debug("Upstream error on %s, retrying: %v", item.Post.ID, err)
				continue
			}
		}

		item.Err = domain.NewItemError(err)
		item.Status = domain.StatusFailed
		logger.Debug("Post %s failed after %d attempt(s): %s", item.Post.ID, attempt, item.Err)
		return nil
	}
}

// asTimeout turns a bare per-call deadline into Upstream(timeout).
func asTimeout(service string, err error) error {
	var se *domain.ServiceError
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError(service, err)
	}
	return err
}

// isTimeout reports whether err is already an Upstream(timeout).
func isTimeout(err error) bool {
	var se *domain.ServiceError
	return errors.As(err, &se) && se.Kind == domain.KindUpstream && se.Code == domain.CodeTimeout
}
