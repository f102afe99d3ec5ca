// api/schemas/driver.go
package schemas

import "context"

// ElementHandle is a transient reference to one live remote element. A handle
// is only valid for the duration of the read or action call that obtained it;
// identity is not stable across resolutions, and a handle must never be held
// across DOM mutations.
type ElementHandle interface {
	// Description returns a short human readable identifier for diagnostics,
	// e.g. a node id or an element summary. It must not touch the remote end.
	Description() string
}

// Driver is the contract a remote browser backend must satisfy for the
// page-object engine. Selector semantics belong entirely to the driver: the
// engine passes selector strings through verbatim (the cdp driver speaks CSS,
// the htmldom driver speaks XPath).
//
// Every method either succeeds or fails with a *DriverError carrying a
// classified FailureKind, so the retry engine can distinguish timing failures
// from programming or session errors.
type Driver interface {
	// Query returns all elements matching selector within scope, in document
	// order. A nil scope means the whole document. Zero matches is an empty
	// slice, not an error.
	Query(ctx context.Context, scope ElementHandle, selector string) ([]ElementHandle, error)

	// ReadText returns the rendered text content of the element.
	ReadText(ctx context.Context, h ElementHandle) (string, error)

	// ReadAttribute returns the value of an HTML attribute. The boolean is
	// false when the attribute is absent.
	ReadAttribute(ctx context.Context, h ElementHandle, name string) (string, bool, error)

	// ReadProperty returns a DOM property (e.g. a form field's live "value"),
	// stringified by the driver.
	ReadProperty(ctx context.Context, h ElementHandle, name string) (string, error)

	// Click performs a click on the element.
	Click(ctx context.Context, h ElementHandle) error

	// SetText replaces the element's text/value with the given string.
	SetText(ctx context.Context, h ElementHandle, text string) error

	// IsInteractable reports whether the element is currently visible and
	// enabled. Used by drivers internally to classify action failures.
	IsInteractable(ctx context.Context, h ElementHandle) (bool, error)
}
