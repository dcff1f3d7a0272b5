package commands

import (
	"fmt"
	"sort"
)

// Registry is the alias table: every name and alias maps to exactly
// one Definition. Lookup is case-sensitive and exact.
type Registry struct {
	defs    []*Definition
	byAlias map[string]*Definition
}

// NewRegistry builds the table. A name or alias registered twice is a
// configuration error.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{byAlias: make(map[string]*Definition)}
	for i := range defs {
		def := &defs[i]
		r.defs = append(r.defs, def)
		for _, alias := range append([]string{def.Name}, def.Aliases...) {
			if prev, dup := r.byAlias[alias]; dup {
				return nil, fmt.Errorf("alias %q registered to both %q and %q", alias, prev.Name, def.Name)
			}
			r.byAlias[alias] = def
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for the startup path, where a duplicate
// alias is fatal.
func MustRegistry(defs []Definition) *Registry {
	r, err := NewRegistry(defs)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve maps a token to its definition.
func (r *Registry) Resolve(token string) (*Definition, bool) {
	def, ok := r.byAlias[token]
	return def, ok
}

// All returns the definitions in registration order.
func (r *Registry) All() []*Definition {
	return r.defs
}

// Names returns all names and aliases, sorted, for completion.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byAlias))
	for name := range r.byAlias {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
