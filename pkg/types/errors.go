// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ExternalError is a failure reported by an external service (embedding,
// vector index, completion, feed, enrichment). Transient failures are
// retried by the caller's retry policy; an ExternalError surfaces only
// after retries are exhausted.
type ExternalError struct {
	// Service names the failing collaborator (e.g. "embedding", "qdrant").
	Service string

	// RateLimited marks a rate-limit response from the provider. Still
	// retriable, but logged distinctly: it means the local limiter is
	// more permissive than the provider's actual policy.
	RateLimited bool

	Err error
}

func (e *ExternalError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("%s: rate limited: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err carries a provider rate-limit signal.
func IsRateLimited(err error) bool {
	var ee *ExternalError
	return errors.As(err, &ee) && ee.RateLimited
}

// ValidationError rejects malformed input synchronously, with no retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
