package reddit

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(0)
	assert.True(t, math.IsInf(r.Remaining(), 1))
	assert.True(t, r.ResetAt().IsZero())
}

func TestRateLimiter_UpdateFromHeaders(t *testing.T) {
	r := NewRateLimiter(60)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	h := http.Header{}
	h.Set(HeaderRateRemaining, "42.5")
	h.Set(HeaderRateUsed, "58")
	h.Set(HeaderRateReset, "300")
	r.UpdateFromHeaders(h)

	assert.Equal(t, 42.5, r.Remaining())
	assert.Equal(t, fixed.Add(5*time.Minute), r.ResetAt())

	r.UpdateFromHeaders(nil)
	assert.Equal(t, 42.5, r.Remaining())
}

func TestRateLimiter_Wait_BlocksUntilResetWhenExhausted(t *testing.T) {
	r := NewRateLimiter(6000)
	h := http.Header{}
	h.Set(HeaderRateRemaining, "0")
	h.Set(HeaderRateReset, "60")
	r.UpdateFromHeaders(h)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_Wait_RespectsCancellation(t *testing.T) {
	r := NewRateLimiter(1)
	require.NoError(t, r.Wait(context.Background()), "first token is free")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, r.Wait(ctx))
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		headers  map[string]string
		expected time.Duration
	}{
		{"none", nil, 0},
		{"seconds", map[string]string{HeaderRetryAfter: "5"}, 5 * time.Second},
		{"http date", map[string]string{HeaderRetryAfter: now.Add(90 * time.Second).Format(http.TimeFormat)}, 90 * time.Second},
		{"past date", map[string]string{HeaderRetryAfter: now.Add(-time.Minute).Format(http.TimeFormat)}, 0},
		{"reset fallback", map[string]string{HeaderRateReset: "12"}, 12 * time.Second},
		{"retry-after wins", map[string]string{HeaderRetryAfter: "3", HeaderRateReset: "12"}, 3 * time.Second},
		{"garbage", map[string]string{HeaderRetryAfter: "soon"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.expected, RetryAfter(h, now))
		})
	}
}
