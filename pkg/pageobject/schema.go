// pkg/pageobject/schema.go
package pageobject

import (
	"context"
	"fmt"
	"sync"
)

// Behavior is a user declared composite action over a component: a plain
// sequence of slot accesses and actions. Each sub-action carries its own retry
// semantics; a behavior is not atomic, and a mid-sequence failure leaves the
// effects of earlier sub-actions in place.
type Behavior func(ctx context.Context, c *Component, args ...string) error

// Schema is a named set of slot declarations plus optional named behaviors.
// Schemas are registered once and shared by every component instance of that
// type; they are never mutated after registration.
type Schema struct {
	Name      string
	Slots     map[string]Descriptor
	Behaviors map[string]Behavior
}

// Registry holds schemas by name. Slot descriptors reference other schemas by
// name only, and those references are looked up here at resolution time, so
// registration order does not matter and cycles are fine.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register validates and adds a schema. Registering the same name twice is an
// error; schemas are immutable once in.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("schema must have a name")
	}
	for slot, d := range s.Slots {
		if slot == "" {
			return fmt.Errorf("schema %q: empty slot name", s.Name)
		}
		if err := d.validate(s.Name, slot); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.schemas[s.Name]; dup {
		return fmt.Errorf("schema %q already registered", s.Name)
	}
	r.schemas[s.Name] = s
	return nil
}

// MustRegister is Register for package-level declarations; it panics on
// invalid or duplicate schemas.
func (r *Registry) MustRegister(s *Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

func (r *Registry) lookup(name string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	if !ok {
		return nil, fmt.Errorf("schema %q is not registered", name)
	}
	return s, nil
}
