package objective

import (
	"errors"
	"fmt"
)

// Sentinel errors for Objective API operations.
var (
	// ErrInvalidConfig indicates invalid store configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingIndexID is returned when a search is attempted without an
	// index ID. No network call is made.
	ErrMissingIndexID = errors.New("index id is required for search")

	// ErrMalformedResponse indicates an API response missing an expected field.
	ErrMalformedResponse = errors.New("malformed API response")
)

// RemoteError is a terminal remote failure: retries were exhausted and the
// server supplied a response body. The body is surfaced verbatim as the
// error message. Requests that exhaust retries without ever receiving a
// response propagate the underlying transport error instead.
type RemoteError struct {
	// StatusCode is the HTTP status of the last failed attempt.
	StatusCode int

	// Body is the raw server response body.
	Body string
}

func (e *RemoteError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("objective API error (status %d)", e.StatusCode)
}
