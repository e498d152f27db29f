package dscgg

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the service's status-code conventions. Use errors.Is
// to match them against errors returned by client operations.
var (
	// ErrInvalidCredentials is returned when the API token is rejected (401).
	ErrInvalidCredentials = errors.New("invalid API token")

	// ErrPermissionDenied is returned when the caller lacks access, e.g.
	// premium-only features or a blacklisted owner (403).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMalformedRequest is returned when the service rejects the request
	// arguments, including already-taken slugs (400).
	ErrMalformedRequest = errors.New("malformed request")

	// ErrNotFound is returned when the requested entity does not exist (404).
	// Lookup operations absorb it into a nil result instead of surfacing it.
	ErrNotFound = errors.New("not found")

	// ErrPayloadTooLarge is returned when a slug or password exceeds the
	// service limits (413).
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrRateLimited is returned on 429 responses. It always surfaces, no
	// matter the error policy: exceeding the published rate is a caller bug,
	// not a recoverable condition.
	ErrRateLimited = errors.New("rate limited, whitelist your application")

	// ErrServiceFault is returned on 500 responses.
	ErrServiceFault = errors.New("internal service error")

	// ErrServiceUnavailable is returned on 503 responses.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidArgument is returned for local contract violations, before
	// any request is made.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingToken is returned when a client is constructed without an
	// API token.
	ErrMissingToken = errors.New("API token is required")
)

// APIError is a failure reported by the dsc.gg API. It wraps the sentinel
// matching its status code, so errors.Is(err, dscgg.ErrNotFound) and
// friends work on it.
type APIError struct {
	StatusCode int
	// Code is the service's own response code from the envelope, when present.
	Code    string
	Message string

	err error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("dsc.gg API error: status %d: %s", e.StatusCode, e.Message)
	}
	if e.err != nil {
		return fmt.Sprintf("dsc.gg API error: status %d: %s", e.StatusCode, e.err)
	}
	return fmt.Sprintf("dsc.gg API error: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.err }

// IsNotFound reports whether the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether the error is a 429.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// statusError maps a status code to a typed *APIError. The switch is the
// single source of truth for the status taxonomy; unrecognized statuses
// produce a generic APIError carrying only the raw status.
func statusError(status int, code, message string) error {
	var base error
	switch status {
	case http.StatusBadRequest:
		base = ErrMalformedRequest
	case http.StatusUnauthorized:
		base = ErrInvalidCredentials
	case http.StatusForbidden:
		base = ErrPermissionDenied
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusRequestEntityTooLarge:
		base = ErrPayloadTooLarge
	case http.StatusTooManyRequests:
		base = ErrRateLimited
	case http.StatusInternalServerError:
		base = ErrServiceFault
	case http.StatusServiceUnavailable:
		base = ErrServiceUnavailable
	}
	return &APIError{StatusCode: status, Code: code, Message: message, err: base}
}
