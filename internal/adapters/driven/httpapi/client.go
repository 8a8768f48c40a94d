// Package httpapi is the JSON-over-HTTP client shared by the outbound
// adapters (LLM providers, Firecrawl). Adapters build request bodies; this
// package sends them, applies the client-side rate limit and maps failures
// onto domain.ServiceError.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

// Client sends JSON requests to a single upstream service.
type Client struct {
	service string
	http    *http.Client
	limiter *rate.Limiter
	header  http.Header
}

// NewClient creates a client for service. header is sent on every request.
// requestsPerMinute <= 0 disables client-side limiting.
func NewClient(service string, timeout time.Duration, requestsPerMinute int, header http.Header) *Client {
	c := &Client{
		service: service,
		http:    &http.Client{Timeout: timeout},
		header:  header.Clone(),
	}
	if requestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return c
}

// Service returns the provider name used in errors.
func (c *Client) Service() string {
	return c.service
}

// PostJSON sends in as JSON and decodes a 2xx response into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", c.service, err)
	}
	resp, err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ServiceError{
			Service: c.service,
			Kind:    domain.KindMalformed,
			Code:    resp.StatusCode,
			Message: "decode response",
			Err:     err,
		}
	}
	return nil
}

// Get issues a GET and discards a 2xx body. Used for liveness checks.
func (c *Client) Get(ctx context.Context, url string) error {
	resp, err := c.do(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, TransportError(c.service, ctxErr)
			}
			// The next token would arrive after the caller's deadline.
			if _, ok := ctx.Deadline(); ok {
				return nil, domain.NewTimeoutError(c.service, err)
			}
			return nil, TransportError(c.service, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.service, err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, TransportError(c.service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, StatusError(c.service, resp)
	}
	return resp, nil
}

// TransportError maps a failed round trip. Caller cancellation passes
// through untouched; deadlines and client timeouts become Upstream(timeout).
func TransportError(service string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.NewTimeoutError(service, err)
	}
	return domain.NewTransportError(service, err)
}

// StatusError converts a non-2xx response into a typed error.
// It reads a bounded prefix of the body for the message.
func StatusError(service string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return domain.NewStatusError(
		service,
		resp.StatusCode,
		RetryAfter(resp.Header, time.Now()),
		errorMessage(raw),
	)
}

// RetryAfter reads the server's retry hint. It understands Retry-After in
// seconds or as an HTTP date, and OpenAI's duration-valued reset headers.
func RetryAfter(h http.Header, now time.Time) time.Duration {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
		if t, err := http.ParseTime(v); err == nil {
			return max(t.Sub(now), 0)
		}
	}
	for _, name := range []string{"X-Ratelimit-Reset-Requests", "X-Ratelimit-Reset-Tokens"} {
		if d, err := time.ParseDuration(strings.TrimSpace(h.Get(name))); err == nil && d > 0 {
			return d
		}
	}
	return 0
}

// errorMessage pulls a human message out of an error body.
// OpenAI and Anthropic use {"error":{"message":...}}; Ollama and Firecrawl use {"error":"..."}.
// A JSON body without any message yields "".
func errorMessage(raw []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	var top struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &top) == nil && top.Message != "" {
		return top.Message
	}
	if json.Valid(raw) {
		return ""
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// Malformed reports a 2xx response that carried no usable content.
func Malformed(service, message string) error {
	return &domain.ServiceError{Service: service, Kind: domain.KindMalformed, Code: http.StatusOK, Message: message}
}
