package services

import (
	"context"
	"time"
)

// backoff returns the delay before retry number attempt (1-based):
// base * 2^(attempt-1), capped at max, but never shorter than hint.
func backoff(attempt int, base, max, hint time.Duration) time.Duration {
	d := base
	for i := 1; i < attempt && d < max; i++ {
		d *= 2
	}
	if max > 0 && d > max {
		d = max
	}
	if hint > d {
		d = hint
	}
	return d
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
