// pkg/pageobject/element.go
package pageobject

import (
	"context"
	"fmt"

	"github.com/amagee/webdriver-components/api/schemas"
)

// Element is the lazy accessor for one single-cardinality slot. It stores a
// resolution closure, not a handle: every read and action re-resolves the
// target inside the retry loop, attempt by attempt, so a stale or not-yet
// present element heals itself within the deadline.
type Element struct {
	page     *Page
	path     string
	selector string
	policy   Policy
	resolve  func(ctx context.Context) (schemas.ElementHandle, error)

	// err records a declaration mistake made while building the accessor;
	// every operation surfaces it instead of touching the driver.
	err error
}

// WithPolicy returns a copy of the element using the given retry policy for
// its operations.
func (e *Element) WithPolicy(p Policy) *Element {
	dup := *e
	dup.policy = p
	return &dup
}

// Path returns the slot chain from the root component, for diagnostics.
func (e *Element) Path() string { return e.path }

// do is the common read/action path: re-resolve then operate, the whole pair
// retried as a unit.
func (e *Element) do(ctx context.Context, op func(ctx context.Context, h schemas.ElementHandle) error) error {
	if e.err != nil {
		return e.err
	}
	target := fmt.Sprintf("%s (%s)", e.path, e.selector)
	return withRetry(ctx, e.page.logger, e.policy, target, func(ctx context.Context) error {
		h, err := e.resolve(ctx)
		if err != nil {
			return err
		}
		return op(ctx, h)
	})
}

// Click clicks the element, polling until it exists and is interactable or
// the deadline passes.
func (e *Element) Click(ctx context.Context) error {
	return e.do(ctx, func(ctx context.Context, h schemas.ElementHandle) error {
		return e.page.driver.Click(ctx, h)
	})
}

// SetText replaces the element's text/value.
func (e *Element) SetText(ctx context.Context, text string) error {
	return e.do(ctx, func(ctx context.Context, h schemas.ElementHandle) error {
		return e.page.driver.SetText(ctx, h, text)
	})
}

// Text reads the element's rendered text.
func (e *Element) Text(ctx context.Context) (string, error) {
	var out string
	err := e.do(ctx, func(ctx context.Context, h schemas.ElementHandle) error {
		var err error
		out, err = e.page.driver.ReadText(ctx, h)
		return err
	})
	return out, err
}

// Attribute reads an HTML attribute; the boolean is false when absent.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	var (
		out string
		ok  bool
	)
	err := e.do(ctx, func(ctx context.Context, h schemas.ElementHandle) error {
		var err error
		out, ok, err = e.page.driver.ReadAttribute(ctx, h, name)
		return err
	})
	return out, ok, err
}

// Property reads a live DOM property such as a form field's "value".
func (e *Element) Property(ctx context.Context, name string) (string, error) {
	var out string
	err := e.do(ctx, func(ctx context.Context, h schemas.ElementHandle) error {
		var err error
		out, err = e.page.driver.ReadProperty(ctx, h, name)
		return err
	})
	return out, err
}
