// pkg/pageobject/schema_test.go
package pageobject

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRejectsInvalidSchemas(t *testing.T) {
	reg := NewRegistry()

	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(&Schema{}), "schema without a name")
	assert.Error(t, reg.Register(&Schema{
		Name:  "form",
		Slots: map[string]Descriptor{"field": {Selector: ""}},
	}), "empty selector")

	require.NoError(t, reg.Register(&Schema{Name: "form"}))
	assert.Error(t, reg.Register(&Schema{Name: "form"}), "duplicate registration")
}

func TestUnknownSlotSurfacesAtUse(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Schema{
		Name:  "form",
		Slots: map[string]Descriptor{"field": {Selector: "#f"}},
	}))
	page := newTestPage(&fakeDriver{}, reg)

	_, err := page.Component("form").Element("nope").Text(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no slot "nope"`)
}

func TestUnregisteredSchemaSurfacesAtUse(t *testing.T) {
	page := newTestPage(&fakeDriver{}, NewRegistry())

	// Creating the component is fine; only slot access needs the schema.
	c := page.Component("ghost")
	_, err := c.Element("anything").Text(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestSlotKindMismatchesAreDescriptive(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Schema{
		Name: "page",
		Slots: map[string]Descriptor{
			"rows":   {Selector: ".row", Cardinality: Multiple},
			"header": {Selector: ".hdr", Component: "page"},
		},
	}))
	page := newTestPage(&fakeDriver{}, reg)
	c := page.Component("page")
	ctx := context.Background()

	_, err := c.Element("rows").Text(ctx)
	assert.ErrorContains(t, err, "use Collection")

	_, err = c.Element("header").Text(ctx)
	assert.ErrorContains(t, err, "use Child")

	_, err = c.Collection("header").Len(ctx)
	assert.ErrorContains(t, err, "single cardinality")

	_, err = c.Collection("rows").AllChildren(ctx)
	assert.ErrorContains(t, err, "use All")

	err = c.Child("rows").Element("x").Click(ctx)
	assert.Error(t, err)
}

func TestBehaviorLookup(t *testing.T) {
	reg := NewRegistry()
	ran := false
	require.NoError(t, reg.Register(&Schema{
		Name:  "form",
		Slots: map[string]Descriptor{"field": {Selector: "#f"}},
		Behaviors: map[string]Behavior{
			"touch": func(ctx context.Context, c *Component, args ...string) error {
				ran = true
				return nil
			},
		},
	}))
	page := newTestPage(&fakeDriver{}, reg)
	c := page.Component("form")

	require.NoError(t, c.Do(context.Background(), "touch"))
	assert.True(t, ran)

	err := c.Do(context.Background(), "missing")
	assert.ErrorContains(t, err, `no behavior "missing"`)
}

func TestForwardAndSelfReference(t *testing.T) {
	reg := NewRegistry()
	// "outer" references "inner" before it exists, and "inner" references
	// itself; registration order must not matter.
	require.NoError(t, reg.Register(&Schema{
		Name:  "outer",
		Slots: map[string]Descriptor{"panel": {Selector: "#panel", Component: "inner"}},
	}))

	page := newTestPage(&fakeDriver{}, reg)
	child := page.Component("outer").Child("panel")

	// The reference is unresolved until a slot access needs it.
	_, err := child.Element("leaf").Text(context.Background())
	assert.ErrorContains(t, err, `schema "inner" is not registered`)

	require.NoError(t, reg.Register(&Schema{
		Name: "inner",
		Slots: map[string]Descriptor{
			"leaf": {Selector: ".leaf"},
			"self": {Selector: ".nested", Component: "inner"},
		},
	}))

	_, err = child.Element("leaf").Text(context.Background())
	require.NoError(t, err)

	// Self reference nests arbitrarily deep.
	_, err = child.Child("self").Child("self").Element("leaf").Text(context.Background())
	require.NoError(t, err)
}
