// Package http provides the shared transport for the YouTrack REST client.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies every failure the transport can report.
type Kind int

// Failure kinds. The zero value is never produced by this package.
const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimited
	KindServerError
	KindUnreachable
	KindMalformedResponse
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindBadRequest:        "bad_request",
	KindUnauthorized:      "unauthorized",
	KindForbidden:         "forbidden",
	KindNotFound:          "not_found",
	KindRateLimited:       "rate_limited",
	KindServerError:       "server_error",
	KindUnreachable:       "unreachable",
	KindMalformedResponse: "malformed_response",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Standard sentinel errors, one per Kind.
var (
	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates invalid or missing authentication.
	ErrUnauthorized = errors.New("authentication failed")

	// ErrForbidden indicates the token lacks permission for the operation.
	ErrForbidden = errors.New("permission denied")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrServerError indicates a server-side error occurred.
	ErrServerError = errors.New("server error")

	// ErrUnreachable indicates the service could not be reached.
	ErrUnreachable = errors.New("service unreachable")

	// ErrMalformedResponse indicates a 2xx response that could not be used.
	ErrMalformedResponse = errors.New("malformed response")
)

var kindSentinels = map[Kind]error{
	KindBadRequest:        ErrBadRequest,
	KindUnauthorized:      ErrUnauthorized,
	KindForbidden:         ErrForbidden,
	KindNotFound:          ErrNotFound,
	KindRateLimited:       ErrRateLimited,
	KindServerError:       ErrServerError,
	KindUnreachable:       ErrUnreachable,
	KindMalformedResponse: ErrMalformedResponse,
}

// APIError is the single error shape every transport failure is normalized into.
type APIError struct {
	// Kind classifies the failure.
	Kind Kind

	// StatusCode is the HTTP status code returned, or 0 when no response was received.
	StatusCode int

	// Message is the upstream error description, or the status text.
	Message string

	// Endpoint is the API path that was called.
	Endpoint string

	// RequestID correlates the call with server logs.
	RequestID string

	// Retryable reports whether the failure is transient.
	Retryable bool

	// RetryAfter is the server-requested wait, if any.
	RetryAfter time.Duration

	// Attempts is the number of HTTP round trips made before giving up.
	Attempts int

	// Err is the underlying cause (network error, decode error, context error).
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	var status string
	if e.StatusCode != 0 {
		status = fmt.Sprintf(" (%d)", e.StatusCode)
	}

	if e.RequestID != "" {
		return fmt.Sprintf("youtrack %s%s at %s [%s]: %s", e.Kind, status, e.Endpoint, e.RequestID, msg)
	}
	if e.Endpoint != "" {
		return fmt.Sprintf("youtrack %s%s at %s: %s", e.Kind, status, e.Endpoint, msg)
	}
	return fmt.Sprintf("youtrack %s%s: %s", e.Kind, status, msg)
}

// Unwrap exposes the sentinel for the error's kind and the underlying cause.
func (e *APIError) Unwrap() []error {
	var errs []error
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindForStatus maps an HTTP status code to a failure kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	case status >= 200 && status < 300:
		return KindUnknown
	default:
		return KindBadRequest
	}
}

// NewStatusError builds an APIError for a non-2xx response.
func NewStatusError(status int, message, endpoint string) *APIError {
	kind := KindForStatus(status)
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Endpoint:   endpoint,
		Retryable:  kind == KindRateLimited || kind == KindServerError,
	}
}

// InvalidArgument reports a request rejected locally before any I/O.
func InvalidArgument(endpoint, format string, args ...any) *APIError {
	return &APIError{
		Kind:     KindBadRequest,
		Message:  fmt.Sprintf(format, args...),
		Endpoint: endpoint,
	}
}

// Malformed reports a successful response that could not be used.
func Malformed(endpoint string, cause error, format string, args ...any) *APIError {
	return &APIError{
		Kind:     KindMalformedResponse,
		Message:  fmt.Sprintf(format, args...),
		Endpoint: endpoint,
		Err:      cause,
	}
}

// NotFound reports an absent entity detected from an otherwise successful response.
func NotFound(endpoint, format string, args ...any) *APIError {
	return &APIError{
		Kind:     KindNotFound,
		Message:  fmt.Sprintf(format, args...),
		Endpoint: endpoint,
	}
}

func unreachable(endpoint string, cause error, retryable bool) *APIError {
	return &APIError{
		Kind:      KindUnreachable,
		Message:   cause.Error(),
		Endpoint:  endpoint,
		Retryable: retryable,
		Err:       cause,
	}
}

// KindOf returns the failure kind of err, or KindUnknown if err is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsRateLimited reports whether the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCanceled reports whether the call was aborted by its context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsRetryable reports whether the error is transient and could be retried.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError)
}
