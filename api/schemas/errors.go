// api/schemas/errors.go
package schemas

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies a driver failure. The first four kinds are timing
// related and expected to self-resolve if the operation is retried; the last
// two indicate a programming or environment error and must never be retried.
type FailureKind int

const (
	// FailureNotFound means the selector matched nothing (yet).
	FailureNotFound FailureKind = iota
	// FailureNotVisible means the element exists but is not rendered.
	FailureNotVisible
	// FailureNotInteractable means the element is visible but cannot accept
	// the action (disabled, zero-sized, covered).
	FailureNotInteractable
	// FailureStaleReference means the handle refers to an element that is no
	// longer attached to the DOM.
	FailureStaleReference
	// FailureInvalidSelector means the selector string itself is malformed.
	FailureInvalidSelector
	// FailureSession means the browser session or transport is gone.
	FailureSession
)

func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not_found"
	case FailureNotVisible:
		return "not_visible"
	case FailureNotInteractable:
		return "not_interactable"
	case FailureStaleReference:
		return "stale_reference"
	case FailureInvalidSelector:
		return "invalid_selector"
	case FailureSession:
		return "session_error"
	default:
		return fmt.Sprintf("failure_kind(%d)", int(k))
	}
}

// Transient reports whether a failure of this kind is expected to self-resolve
// under retry.
func (k FailureKind) Transient() bool {
	switch k {
	case FailureNotFound, FailureNotVisible, FailureNotInteractable, FailureStaleReference:
		return true
	default:
		return false
	}
}

// DriverError is a classified failure reported by a Driver.
type DriverError struct {
	Kind     FailureKind
	Selector string
	Cause    error
}

// NewDriverError builds a classified driver failure. Cause may be nil when the
// classification itself is the whole story (e.g. zero matches).
func NewDriverError(kind FailureKind, selector string, cause error) *DriverError {
	return &DriverError{Kind: kind, Selector: selector, Cause: cause}
}

func (e *DriverError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s for selector %q: %v", e.Kind, e.Selector, e.Cause)
	}
	return fmt.Sprintf("%s for selector %q", e.Kind, e.Selector)
}

func (e *DriverError) Unwrap() error { return e.Cause }

// IsTransient reports whether err is (or wraps) a transient driver failure.
// Anything that is not a classified *DriverError is treated as fatal.
func IsTransient(err error) bool {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Kind.Transient()
	}
	return false
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (FailureKind, bool) {
	var de *DriverError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// TimeoutError is returned when the retry engine exhausts its deadline. It
// embeds the last observed transient failure so the caller sees the root
// cause, not a generic timeout.
type TimeoutError struct {
	Target  string
	Elapsed time.Duration
	Last    error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("timed out after %s waiting on %s: %v", e.Elapsed.Round(time.Millisecond), e.Target, e.Last)
	}
	return fmt.Sprintf("timed out after %s waiting on %s", e.Elapsed.Round(time.Millisecond), e.Target)
}

func (e *TimeoutError) Unwrap() error { return e.Last }
