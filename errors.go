package youtrack

import (
	"errors"
	"fmt"

	ythttp "github.com/randalmurphal/youtrack/http"
)

// Configuration errors.
var (
	ErrConfigURLRequired   = errors.New("youtrack url is required")
	ErrConfigTokenRequired = errors.New("youtrack token is required")
	ErrConfigInvalid       = errors.New("invalid youtrack configuration")
)

// APIError is the single error shape returned by every operation.
type APIError = ythttp.APIError

// Kind classifies an APIError.
type Kind = ythttp.Kind

// Failure kinds.
const (
	KindUnknown           = ythttp.KindUnknown
	KindBadRequest        = ythttp.KindBadRequest
	KindUnauthorized      = ythttp.KindUnauthorized
	KindForbidden         = ythttp.KindForbidden
	KindNotFound          = ythttp.KindNotFound
	KindRateLimited       = ythttp.KindRateLimited
	KindServerError       = ythttp.KindServerError
	KindUnreachable       = ythttp.KindUnreachable
	KindMalformedResponse = ythttp.KindMalformedResponse
)

// KindOf returns the failure kind of err, or KindUnknown.
func KindOf(err error) Kind {
	return ythttp.KindOf(err)
}

// IsNotFound reports whether the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return ythttp.IsNotFound(err)
}

// IsUnauthorized reports whether the error indicates authentication failed.
func IsUnauthorized(err error) bool {
	return ythttp.IsUnauthorized(err)
}

// IsForbidden reports whether the error indicates permission was denied.
func IsForbidden(err error) bool {
	return ythttp.IsForbidden(err)
}

// IsRateLimited reports whether the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return ythttp.IsRateLimited(err)
}

// IsRetryable reports whether the error is transient and should be retried.
func IsRetryable(err error) bool {
	return ythttp.IsRetryable(err)
}

// invalidRequest rejects a call before any I/O.
func invalidRequest(endpoint string, cause error) error {
	return &ythttp.APIError{
		Kind:     ythttp.KindBadRequest,
		Message:  cause.Error(),
		Endpoint: endpoint,
		Err:      cause,
	}
}

// requireID rejects an empty identifier argument.
func requireID(endpoint, name, value string) error {
	if value == "" {
		return ythttp.InvalidArgument(endpoint, "%s is required", name)
	}
	return nil
}

// requireIDs checks name/value pairs in order.
func requireIDs(endpoint string, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireID(endpoint, pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
