// pkg/pageobject/page.go

// Package pageobject implements a declarative page-object engine for remote
// browser automation: schemas declare named slots bound to selectors, and
// component instances resolve those selectors lazily against their current
// scope on every access, with a retry/poll loop absorbing transient DOM
// timing failures.
//
// The central invariant is that nothing here stores a live element handle as
// state. A component owns only a scope resolution closure; every read and
// action re-resolves its target at the moment of use, so a rebuilt DOM is
// picked up transparently.
package pageobject

import (
	"context"

	"go.uber.org/zap"

	"github.com/amagee/webdriver-components/api/schemas"
)

// ScopeFunc returns the current live root for a component's queries. A nil
// handle means the whole document. It is invoked fresh on every resolution,
// never memoized.
type ScopeFunc func(ctx context.Context) (schemas.ElementHandle, error)

// Page is the entry point binding a driver, a schema registry, a default
// retry policy, and a logger. It is the only shared state between component
// instances; one Page drives one logical test sequence at a time.
type Page struct {
	driver   schemas.Driver
	registry *Registry
	policy   Policy
	logger   *zap.Logger
}

// Option customizes a Page.
type Option func(*Page)

// WithPolicy sets the page-wide default retry policy.
func WithPolicy(p Policy) Option {
	return func(pg *Page) { pg.policy = p }
}

// WithLogger sets the structured logger used for retry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(pg *Page) { pg.logger = l }
}

// New builds a Page over the given driver and registry.
func New(driver schemas.Driver, registry *Registry, opts ...Option) *Page {
	pg := &Page{
		driver:   driver,
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(pg)
	}
	return pg
}

// Component instantiates a top-level component of the named schema, scoped to
// the whole document. The schema itself is looked up lazily at first slot
// access, matching the deferred resolution used for nested references.
func (pg *Page) Component(schemaName string) *Component {
	return &Component{
		page:       pg,
		schemaName: schemaName,
		path:       schemaName,
		scope: func(ctx context.Context) (schemas.ElementHandle, error) {
			return nil, nil
		},
		policy: pg.policy,
	}
}

// resolveAll performs one query of descriptor against the current scope.
func (pg *Page) resolveAll(ctx context.Context, scope ScopeFunc, d Descriptor) ([]schemas.ElementHandle, error) {
	root, err := scope(ctx)
	if err != nil {
		return nil, err
	}
	return pg.driver.Query(ctx, root, d.Selector)
}

// resolveOne is single-cardinality resolution: first match in document order,
// or a transient not-found failure for the retry loop to absorb.
func (pg *Page) resolveOne(ctx context.Context, scope ScopeFunc, d Descriptor) (schemas.ElementHandle, error) {
	matches, err := pg.resolveAll(ctx, scope, d)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, schemas.NewDriverError(schemas.FailureNotFound, d.Selector, nil)
	}
	return matches[0], nil
}

// resolveAt is positional resolution for collections: re-run the query and
// take the i-th match at access time. An index beyond the current match count
// is a transient not-found, so a list that is still filling in can be polled.
func (pg *Page) resolveAt(ctx context.Context, scope ScopeFunc, d Descriptor, i int) (schemas.ElementHandle, error) {
	matches, err := pg.resolveAll(ctx, scope, d)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(matches) {
		return nil, schemas.NewDriverError(schemas.FailureNotFound, d.Selector, nil)
	}
	return matches[i], nil
}
