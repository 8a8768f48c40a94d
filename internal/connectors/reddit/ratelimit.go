package reddit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerMinute keeps well under Reddit's 100 QPM OAuth allowance
	// and matches what anonymous clients are tolerated at.
	DefaultRequestsPerMinute = 30

	// MinBuffer is the remaining-request floor below which we wait for the reset.
	MinBuffer = 2

	// HeaderRateUsed is the used requests header.
	HeaderRateUsed = "X-Ratelimit-Used"

	// HeaderRateRemaining is the remaining requests header (may be fractional).
	HeaderRateRemaining = "X-Ratelimit-Remaining"

	// HeaderRateReset is the seconds until the window resets.
	HeaderRateReset = "X-Ratelimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter combines a proactive token bucket with Reddit's reactive
// X-Ratelimit-* headers.
type RateLimiter struct {
	mu        sync.Mutex
	remaining float64
	used      int
	resetAt   time.Time
	bucket    *rate.Limiter
	minBuffer float64
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMinute with a burst of one.
// Non-positive values use DefaultRequestsPerMinute.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &RateLimiter{
		remaining: math.Inf(1),
		bucket:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		minBuffer: MinBuffer,
		now:       time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetAt := r.resetAt
	now := r.now()
	r.mu.Unlock()

	if remaining < r.minBuffer && now.Before(resetAt) {
		timer := time.NewTimer(resetAt.Sub(now))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// UpdateFromHeaders records the server's view of the current window.
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	if h == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v := h.Get(HeaderRateRemaining); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			r.remaining = f
		}
	}
	if v := h.Get(HeaderRateUsed); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.used = n
		}
	}
	if v := h.Get(HeaderRateReset); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			r.resetAt = r.now().Add(time.Duration(secs) * time.Second)
		}
	}
}

// Remaining returns the last reported remaining requests (+Inf before any response).
func (r *RateLimiter) Remaining() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// ResetAt returns when the current window resets.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}

// RetryAfter extracts how long to wait from a 429 response.
// Retry-After wins; X-Ratelimit-Reset is the fallback.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	if h == nil {
		return 0
	}
	if v := h.Get(HeaderRetryAfter); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		if t, err := http.ParseTime(v); err == nil {
			if d := t.Sub(now); d > 0 {
				return d
			}
			return 0
		}
	}
	if v := h.Get(HeaderRateReset); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
