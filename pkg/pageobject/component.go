// pkg/pageobject/component.go
package pageobject

import (
	"context"
	"fmt"

	"github.com/amagee/webdriver-components/api/schemas"
)

// Component is an instance of a schema bound to a scope resolution closure.
// It holds no element handle, only the recipe to obtain one: each slot access
// re-queries the driver against the scope as it exists at that moment. Two
// consecutive accesses of the same slot may therefore legitimately reach
// different underlying elements if the DOM changed in between.
type Component struct {
	page       *Page
	schemaName string
	// path is the slot chain from the root, for diagnostics
	// (e.g. "loginForm.header.menu[2]").
	path   string
	scope  ScopeFunc
	policy Policy

	// err, when set, poisons the component: every access returns it. It
	// records declaration mistakes (unknown slot, wrong slot kind) made while
	// building an accessor chain, which surface at the point of use.
	err error
}

func (c *Component) poisoned(err error) *Component {
	return &Component{page: c.page, path: c.path, err: err}
}

// WithPolicy returns a copy of the component whose slot accesses use the
// given retry policy instead of the page default.
func (c *Component) WithPolicy(p Policy) *Component {
	dup := *c
	dup.policy = p
	return &dup
}

// Path returns the slot chain from the root component, for diagnostics.
func (c *Component) Path() string { return c.path }

// descriptor looks up a slot in the schema's static slot table. The schema
// itself is fetched from the registry here, at access time, which is what
// lets schemas reference each other (or themselves) before registration.
func (c *Component) descriptor(slot string) (Descriptor, error) {
	if c.err != nil {
		return Descriptor{}, c.err
	}
	s, err := c.page.registry.lookup(c.schemaName)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", c.path, err)
	}
	d, ok := s.Slots[slot]
	if !ok {
		return Descriptor{}, fmt.Errorf("%s: schema %q has no slot %q", c.path, c.schemaName, slot)
	}
	return d, nil
}

// Element returns the accessor for a single-cardinality raw-handle slot. The
// returned Element is lazy: nothing is resolved until a read or action runs.
func (c *Component) Element(slot string) *Element {
	d, err := c.descriptor(slot)
	if err != nil {
		return &Element{page: c.page, path: joinPath(c.path, slot), err: err}
	}
	if d.Cardinality != Single {
		return &Element{page: c.page, path: joinPath(c.path, slot),
			err: fmt.Errorf("%s: slot %q has multiple cardinality; use Collection", c.path, slot)}
	}
	if d.Component != "" {
		return &Element{page: c.page, path: joinPath(c.path, slot),
			err: fmt.Errorf("%s: slot %q wraps component %q; use Child", c.path, slot, d.Component)}
	}
	outer := c.scope
	return &Element{
		page:     c.page,
		path:     joinPath(c.path, slot),
		selector: d.Selector,
		policy:   c.policy,
		resolve: func(ctx context.Context) (schemas.ElementHandle, error) {
			return c.page.resolveOne(ctx, outer, d)
		},
	}
}

// Child returns the nested component for a single-cardinality slot with a
// component reference. The child's scope closure re-derives from this
// component's scope on every access: it re-runs the outer scope and the slot
// query, never capturing a handle, so it survives the DOM being rebuilt.
func (c *Component) Child(slot string) *Component {
	d, err := c.descriptor(slot)
	if err != nil {
		return c.poisoned(err)
	}
	if d.Component == "" {
		return c.poisoned(fmt.Errorf("%s: slot %q has no component reference; use Element", c.path, slot))
	}
	if d.Cardinality != Single {
		return c.poisoned(fmt.Errorf("%s: slot %q has multiple cardinality; use Collection", c.path, slot))
	}
	outer := c.scope
	return &Component{
		page:       c.page,
		schemaName: d.Component,
		path:       joinPath(c.path, slot),
		policy:     c.policy,
		scope: func(ctx context.Context) (schemas.ElementHandle, error) {
			return c.page.resolveOne(ctx, outer, d)
		},
	}
}

// Collection returns the accessor for a multiple-cardinality slot.
func (c *Component) Collection(slot string) *Collection {
	d, err := c.descriptor(slot)
	if err != nil {
		return &Collection{owner: c, path: joinPath(c.path, slot), err: err}
	}
	if d.Cardinality != Multiple {
		return &Collection{owner: c, path: joinPath(c.path, slot),
			err: fmt.Errorf("%s: slot %q has single cardinality", c.path, slot)}
	}
	return &Collection{
		owner: c,
		path:  joinPath(c.path, slot),
		d:     d,
	}
}

// Do runs a named behavior registered on this component's schema. Behaviors
// are plain sequences of slot accesses: each sub-action retries on its own,
// and a failure partway through does not roll back earlier sub-actions.
func (c *Component) Do(ctx context.Context, behavior string, args ...string) error {
	if c.err != nil {
		return c.err
	}
	s, err := c.page.registry.lookup(c.schemaName)
	if err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}
	fn, ok := s.Behaviors[behavior]
	if !ok {
		return fmt.Errorf("%s: schema %q has no behavior %q", c.path, c.schemaName, behavior)
	}
	return fn(ctx, c, args...)
}

func joinPath(base, slot string) string {
	if base == "" {
		return slot
	}
	return base + "." + slot
}
