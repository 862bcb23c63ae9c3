// ABOUTME: Error taxonomy shared by the stats engine, store and remote client.
// ABOUTME: Validation errors are never retried; transient errors may be.
package models

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an operation referenced a habit id absent from the
// store. It signals caller/state desync and must never be swallowed.
var ErrNotFound = errors.New("habit not found")

// ErrConflict indicates a concurrent-write race detected by the remote.
var ErrConflict = errors.New("conflicting write")

// ValidationError reports malformed input: a schedule of the wrong length,
// an unparseable date string, an empty habit name.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransientError wraps a retryable network or server failure. Reads fall
// back to the cache on these; writes surface them after retries exhaust.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
