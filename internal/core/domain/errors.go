package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required upstream has no credentials or settings.
	ErrNotConfigured = errors.New("not configured")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Classification, summaries and profiles are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Upstream errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthFailed indicates the upstream rejected the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUpstream indicates any other upstream failure (non-2xx, transport, timeout).
	ErrUpstream = errors.New("upstream error")

	// ErrMalformedResponse indicates the upstream answered with content we could not parse.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrExtractionFailed indicates the content extractor returned nothing usable.
	ErrExtractionFailed = errors.New("extraction failed")
)

// ErrorKind classifies an error for retry and reporting decisions.
type ErrorKind string

// Error kinds.
const (
	KindNone         ErrorKind = ""
	KindRateLimited  ErrorKind = "rate_limited"
	KindAuthFailed   ErrorKind = "auth_failed"
	KindUpstream     ErrorKind = "upstream"
	KindMalformed    ErrorKind = "malformed_response"
	KindExtraction   ErrorKind = "extraction_failed"
	KindInvalidInput ErrorKind = "invalid_input"
	KindCancelled    ErrorKind = "cancelled"
	KindUnknown      ErrorKind = "unknown"
)

// Upstream codes that are not HTTP statuses.
const (
	// CodeTimeout marks a call that exceeded its deadline.
	CodeTimeout = 0

	// CodeTransport marks a failure below HTTP (DNS, refused connection, reset).
	CodeTransport = -1
)

// sentinel returns the sentinel error matching the kind.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindRateLimited:
		return ErrRateLimited
	case KindAuthFailed:
		return ErrAuthFailed
	case KindUpstream:
		return ErrUpstream
	case KindMalformed:
		return ErrMalformedResponse
	case KindExtraction:
		return ErrExtractionFailed
	case KindInvalidInput:
		return ErrInvalidInput
	case KindCancelled:
		return context.Canceled
	default:
		return nil
	}
}

// ServiceError is the structured error every upstream adapter returns.
// It matches the sentinel for its Kind with errors.Is.
type ServiceError struct {
	// Service names the upstream (reddit, openai, firecrawl, ...).
	Service string

	// Kind is the error classification.
	Kind ErrorKind

	// Code is the HTTP status code, or CodeTimeout for deadline failures.
	Code int

	// RetryAfter is the server's hint for when to retry, zero if absent.
	RetryAfter time.Duration

	// Message is an optional upstream message.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements error.
func (e *ServiceError) Error() string {
	msg := e.Service + ": " + string(e.Kind)
	if e.Kind == KindUpstream {
		msg += "(" + CodeString(e.Code) + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ServiceError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// CodeString renders an Upstream code.
func CodeString(code int) string {
	switch code {
	case CodeTimeout:
		return "timeout"
	case CodeTransport:
		return "transport"
	default:
		return strconv.Itoa(code)
	}
}

// KindFromStatus maps an HTTP status code to an error kind.
// 2xx maps to KindNone.
func KindFromStatus(status int) ErrorKind {
	switch {
	case status >= 200 && status < 300:
		return KindNone
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuthFailed
	default:
		return KindUpstream
	}
}

// NewStatusError builds a ServiceError from a non-2xx HTTP status.
func NewStatusError(service string, status int, retryAfter time.Duration, message string) *ServiceError {
	return &ServiceError{
		Service:    service,
		Kind:       KindFromStatus(status),
		Code:       status,
		RetryAfter: retryAfter,
		Message:    message,
	}
}

// NewTimeoutError builds an Upstream(timeout) error.
func NewTimeoutError(service string, err error) *ServiceError {
	return &ServiceError{Service: service, Kind: KindUpstream, Code: CodeTimeout, Err: err}
}

// NewTransportError builds an Upstream error for failures below HTTP
// (connection refused, DNS, reset). Deadline failures become timeouts.
func NewTransportError(service string, err error) *ServiceError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(service, err)
	}
	return &ServiceError{Service: service, Kind: KindUpstream, Code: CodeTransport, Err: err}
}

// KindOf classifies any error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrAuthFailed):
		return KindAuthFailed
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrExtractionFailed):
		return KindExtraction
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrUpstream), errors.Is(err, context.DeadlineExceeded):
		return KindUpstream
	default:
		return KindUnknown
	}
}

// RetryAfterOf returns the retry hint carried by err, if any.
func RetryAfterOf(err error) time.Duration {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.RetryAfter
	}
	return 0
}

// ItemError is the per-post failure recorded in a PipelineResult.
type ItemError struct {
	Kind    ErrorKind `json:"kind"`
	Code    int       `json:"code,omitempty"`
	Message string    `json:"message"`
}

// NewItemError converts an error into its recorded form.
func NewItemError(err error) *ItemError {
	if err == nil {
		return nil
	}
	ie := &ItemError{Kind: KindOf(err), Message: err.Error()}
	var se *ServiceError
	if errors.As(err, &se) {
		ie.Code = se.Code
	}
	return ie
}

// String renders the error as Kind or Kind(code).
func (e *ItemError) String() string {
	if e == nil {
		return ""
	}
	if e.Kind == KindUpstream {
		return fmt.Sprintf("%s(%s)", e.Kind, CodeString(e.Code))
	}
	return string(e.Kind)
}

// BatchError is returned when a whole pipeline run fails.
type BatchError struct {
	Stage BatchState
	Err   error
}

// Error implements error.
func (e *BatchError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BatchError) Unwrap() error {
	return e.Err
}
