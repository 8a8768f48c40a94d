package reddit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/oauth2"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// ServiceName labels errors raised by this package.
const ServiceName = "reddit"

// Reddit-specific errors.
var (
	// ErrMissingCredentials indicates the selected mode needs credentials that are not set.
	ErrMissingCredentials = fmt.Errorf("reddit: %w: missing credentials", domain.ErrNotConfigured)

	// ErrUnknownMode indicates an unrecognised client mode.
	ErrUnknownMode = errors.New("reddit: unknown mode")
)

// maxErrorBody bounds how much of an error body is kept in messages.
const maxErrorBody = 256

// statusError converts a non-2xx response into a typed error.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return domain.NewStatusError(
		ServiceName,
		resp.StatusCode,
		RetryAfter(resp.Header, time.Now()),
		strings.TrimSpace(string(body)),
	)
}

// mapError converts transport, OAuth and go-reddit errors into typed errors.
// Already typed errors and context cancellation pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *domain.ServiceError
	if errors.As(err, &se) {
		return err
	}

	var rl *reddit.RateLimitError
	if errors.As(err, &rl) {
		var wait time.Duration
		if !rl.Rate.Reset.IsZero() {
			wait = time.Until(rl.Rate.Reset)
		}
		if rl.Response != nil {
			if hinted := RetryAfter(rl.Response.Header, time.Now()); hinted > wait {
				wait = hinted
			}
		}
		return &domain.ServiceError{
			Service:    ServiceName,
			Kind:       domain.KindRateLimited,
			Code:       http.StatusTooManyRequests,
			RetryAfter: max(wait, 0),
			Message:    rl.Message,
		}
	}

	var er *reddit.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return domain.NewStatusError(
			ServiceName,
			er.Response.StatusCode,
			RetryAfter(er.Response.Header, time.Now()),
			er.Message,
		)
	}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := http.StatusUnauthorized
		if re.Response != nil && re.Response.StatusCode >= 400 {
			status = re.Response.StatusCode
		}
		// Reddit answers a bad password grant with 200 and {"error": "invalid_grant"}
		if re.ErrorCode != "" || status == http.StatusBadRequest {
			status = http.StatusUnauthorized
		}
		return domain.NewStatusError(ServiceName, status, 0, "token request rejected")
	}

	// Caller cancellation is not an upstream failure; deadlines are.
	if errors.Is(err, context.Canceled) {
		return err
	}

	return domain.NewTransportError(ServiceName, err)
}
