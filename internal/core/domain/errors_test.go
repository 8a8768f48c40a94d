package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotConfigured", ErrNotConfigured},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAuthFailed", ErrAuthFailed},
		{"ErrUpstream", ErrUpstream},
		{"ErrMalformedResponse", ErrMalformedResponse},
		{"ErrExtractionFailed", ErrExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorKind
	}{
		{http.StatusOK, KindNone},
		{http.StatusNoContent, KindNone},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusUnauthorized, KindAuthFailed},
		{http.StatusForbidden, KindAuthFailed},
		{http.StatusInternalServerError, KindUpstream},
		{http.StatusBadGateway, KindUpstream},
		{http.StatusNotFound, KindUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, KindFromStatus(tt.status))
		})
	}
}

func TestServiceError_IsSentinel(t *testing.T) {
	rl := NewStatusError("reddit", http.StatusTooManyRequests, 2*time.Second, "slow down")
	assert.True(t, errors.Is(rl, ErrRateLimited))
	assert.False(t, errors.Is(rl, ErrAuthFailed))
	assert.Equal(t, 2*time.Second, RetryAfterOf(rl))

	auth := NewStatusError("openai", http.StatusUnauthorized, 0, "")
	assert.True(t, errors.Is(auth, ErrAuthFailed))

	up := NewStatusError("firecrawl", http.StatusBadGateway, 0, "")
	assert.True(t, errors.Is(up, ErrUpstream))
	assert.Equal(t, "firecrawl: upstream(502)", up.Error())
}

func TestServiceError_Wrapped(t *testing.T) {
	err := fmt.Errorf("classify: %w", NewStatusError("anthropic", http.StatusTooManyRequests, 0, ""))

	assert.Equal(t, KindRateLimited, KindOf(err))
	assert.True(t, errors.Is(err, ErrRateLimited))

	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "anthropic", se.Service)
}

func TestNewTransportError(t *testing.T) {
	timeout := NewTransportError("openai", fmt.Errorf("send request: %w", context.DeadlineExceeded))
	assert.Equal(t, KindUpstream, timeout.Kind)
	assert.Equal(t, CodeTimeout, timeout.Code)
	assert.Contains(t, timeout.Error(), "upstream(timeout)")

	refused := NewTransportError("openai", errors.New("connection refused"))
	assert.Equal(t, CodeTransport, refused.Code)
	assert.Contains(t, refused.Error(), "upstream(transport)")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"nil", nil, KindNone},
		{"rate limited sentinel", ErrRateLimited, KindRateLimited},
		{"auth sentinel wrapped", fmt.Errorf("x: %w", ErrAuthFailed), KindAuthFailed},
		{"malformed", ErrMalformedResponse, KindMalformed},
		{"extraction", ErrExtractionFailed, KindExtraction},
		{"invalid input", ErrInvalidInput, KindInvalidInput},
		{"cancelled", context.Canceled, KindCancelled},
		{"deadline", context.DeadlineExceeded, KindUpstream},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestNewItemError(t *testing.T) {
	assert.Nil(t, NewItemError(nil))

	ie := NewItemError(NewStatusError("openai", http.StatusInternalServerError, 0, ""))
	require.NotNil(t, ie)
	assert.Equal(t, KindUpstream, ie.Kind)
	assert.Equal(t, 500, ie.Code)
	assert.Equal(t, "upstream(500)", ie.String())

	rl := NewItemError(ErrRateLimited)
	assert.Equal(t, "rate_limited", rl.String())
}

func TestBatchError(t *testing.T) {
	err := &BatchError{Stage: StateClassifying, Err: ErrAuthFailed}
	assert.True(t, errors.Is(err, ErrAuthFailed))
	assert.Equal(t, "pipeline classifying: authentication failed", err.Error())
}
