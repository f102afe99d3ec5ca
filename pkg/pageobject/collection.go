// pkg/pageobject/collection.go
package pageobject

import (
	"context"
	"fmt"

	"github.com/amagee/webdriver-components/api/schemas"
)

// Collection is the lazy accessor for a multiple-cardinality slot. Like a
// component it stores no handles: length checks and positional access each
// re-run the query, so the collection always reflects the DOM as it is now.
type Collection struct {
	owner *Component
	path  string
	d     Descriptor
	err   error
}

// WithPolicy returns a copy of the collection whose accesses use the given
// retry policy.
func (col *Collection) WithPolicy(p Policy) *Collection {
	dup := *col
	owner := col.owner.WithPolicy(p)
	dup.owner = owner
	return &dup
}

// Path returns the slot chain from the root component, for diagnostics.
func (col *Collection) Path() string { return col.path }

// Len re-queries and returns the current number of matches. Zero is a valid
// length, not an error.
func (col *Collection) Len(ctx context.Context) (int, error) {
	if col.err != nil {
		return 0, col.err
	}
	pg := col.owner.page
	var n int
	target := fmt.Sprintf("%s (%s)", col.path, col.d.Selector)
	err := withRetry(ctx, pg.logger, col.owner.policy, target, func(ctx context.Context) error {
		matches, err := pg.resolveAll(ctx, col.owner.scope, col.d)
		if err != nil {
			return err
		}
		n = len(matches)
		return nil
	})
	return n, err
}

// At returns the lazy positional accessor for the i-th match of a raw-handle
// collection. The index is applied at access time: every operation re-runs
// the query and takes whatever is at position i right then, so a reordered
// list is reflected, never a cached snapshot.
func (col *Collection) At(i int) *Element {
	path := fmt.Sprintf("%s[%d]", col.path, i)
	if col.err != nil {
		return &Element{page: col.owner.page, path: path, err: col.err}
	}
	if col.d.Component != "" {
		return &Element{page: col.owner.page, path: path,
			err: fmt.Errorf("%s: slot wraps component %q; use ChildAt", col.path, col.d.Component)}
	}
	pg := col.owner.page
	outer := col.owner.scope
	d := col.d
	return &Element{
		page:     pg,
		path:     path,
		selector: d.Selector,
		policy:   col.owner.policy,
		resolve: func(ctx context.Context) (schemas.ElementHandle, error) {
			return pg.resolveAt(ctx, outer, d, i)
		},
	}
}

// ChildAt returns the i-th match wrapped as a nested component. Its scope
// closure re-derives positionally: re-run the outer scope and the query, take
// the i-th match at access time.
func (col *Collection) ChildAt(i int) *Component {
	path := fmt.Sprintf("%s[%d]", col.path, i)
	if col.err != nil {
		return &Component{page: col.owner.page, path: path, err: col.err}
	}
	if col.d.Component == "" {
		return &Component{page: col.owner.page, path: path,
			err: fmt.Errorf("%s: slot has no component reference; use At", col.path)}
	}
	pg := col.owner.page
	outer := col.owner.scope
	d := col.d
	return &Component{
		page:       pg,
		schemaName: d.Component,
		path:       path,
		policy:     col.owner.policy,
		scope: func(ctx context.Context) (schemas.ElementHandle, error) {
			return pg.resolveAt(ctx, outer, d, i)
		},
	}
}

// All performs a single query and returns accessors bound to that one
// snapshot, for a sequential iteration pass over a raw-handle collection.
// Unlike At, the returned elements keep the handles from this query: they are
// valid for the current pass only, and a DOM mutation during the pass shows
// up as a stale-reference failure rather than silent re-resolution.
func (col *Collection) All(ctx context.Context) ([]*Element, error) {
	if col.err != nil {
		return nil, col.err
	}
	if col.d.Component != "" {
		return nil, fmt.Errorf("%s: slot wraps component %q; use AllChildren", col.path, col.d.Component)
	}
	handles, err := col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, len(handles))
	for i, h := range handles {
		h := h
		out[i] = &Element{
			page:     col.owner.page,
			path:     fmt.Sprintf("%s[%d]", col.path, i),
			selector: col.d.Selector,
			policy:   col.owner.policy,
			resolve: func(ctx context.Context) (schemas.ElementHandle, error) {
				return h, nil
			},
		}
	}
	return out, nil
}

// AllChildren is All for component-wrapped collections.
func (col *Collection) AllChildren(ctx context.Context) ([]*Component, error) {
	if col.err != nil {
		return nil, col.err
	}
	if col.d.Component == "" {
		return nil, fmt.Errorf("%s: slot has no component reference; use All", col.path)
	}
	handles, err := col.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Component, len(handles))
	for i, h := range handles {
		h := h
		out[i] = &Component{
			page:       col.owner.page,
			schemaName: col.d.Component,
			path:       fmt.Sprintf("%s[%d]", col.path, i),
			policy:     col.owner.policy,
			scope: func(ctx context.Context) (schemas.ElementHandle, error) {
				return h, nil
			},
		}
	}
	return out, nil
}

func (col *Collection) snapshot(ctx context.Context) ([]schemas.ElementHandle, error) {
	pg := col.owner.page
	var handles []schemas.ElementHandle
	target := fmt.Sprintf("%s (%s)", col.path, col.d.Selector)
	err := withRetry(ctx, pg.logger, col.owner.policy, target, func(ctx context.Context) error {
		var err error
		handles, err = pg.resolveAll(ctx, col.owner.scope, col.d)
		return err
	})
	return handles, err
}
