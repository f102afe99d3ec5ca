// pkg/pageobject/descriptor.go
package pageobject

import "fmt"

// Cardinality says whether a slot resolves to one element or an ordered
// collection.
type Cardinality int

const (
	// Single resolves to the first match in document order; zero matches is a
	// transient not-found failure.
	Single Cardinality = iota
	// Multiple resolves to all matches in document order; zero matches is an
	// empty collection, not an error.
	Multiple
)

func (c Cardinality) String() string {
	if c == Multiple {
		return "multiple"
	}
	return "single"
}

// Descriptor is the immutable declaration attached to a named slot on a
// schema: how to find the element(s) within the owning component's scope, and
// optionally which schema to wrap each match as.
//
// Component is a schema NAME, not a schema value. It is resolved through the
// registry at first use, which lets schemas reference each other in any
// declaration order, including self reference for recursive widgets.
type Descriptor struct {
	Selector    string
	Cardinality Cardinality
	Component   string
}

// validate checks a descriptor at registration time.
func (d Descriptor) validate(schema, slot string) error {
	if d.Selector == "" {
		return fmt.Errorf("schema %q slot %q: empty selector", schema, slot)
	}
	if d.Cardinality != Single && d.Cardinality != Multiple {
		return fmt.Errorf("schema %q slot %q: unknown cardinality %d", schema, slot, int(d.Cardinality))
	}
	return nil
}
