package resolve

import (
	"maps"
	"slices"
)

// Context holds the structures eligible for Nested treatment during one run.
// It is built by the caller and passed to the Resolver explicitly.
type Context struct {
	eligible map[string]SchemaID
}

// NewContext creates a Context with the given eligible structure names.
func NewContext(structures ...string) *Context {
	c := &Context{eligible: make(map[string]SchemaID, len(structures))}
	for _, s := range structures {
		c.Register(s)
	}

	return c
}

// Register marks a qualified structure name as eligible and returns its id.
func (c *Context) Register(qualified string) SchemaID {
	id := SchemaID(qualified)
	c.eligible[qualified] = id

	return id
}

// Lookup returns the schema id for an eligible structure.
func (c *Context) Lookup(qualified string) (SchemaID, bool) {
	if c == nil {
		return "", false
	}

	id, ok := c.eligible[qualified]

	return id, ok
}

// Eligible returns the eligible structure names, sorted.
func (c *Context) Eligible() []string {
	return slices.Sorted(maps.Keys(c.eligible))
}
