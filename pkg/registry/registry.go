// Package registry builds the cross-unit component registry: every declared
// dependency and conflict, and every component name mentioned anywhere in the
// program.
//
// A [Registry] is built once per program snapshot and is read-only after
// [Build] returns, so it may be shared between goroutines checking different
// units of the same snapshot. Memoization per snapshot lives in
// [github.com/matzehuels/compcheck/pkg/session].
package registry

import (
	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/resolve"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

// Registry maps component names to their declared constraints.
type Registry struct {
	// Components holds every component with at least one validator
	// registration.
	Components map[string]*component.Metadata

	// Known is a superset of the keys of Components: it also contains names
	// mentioned only as dependencies, conflicts, template entries or query
	// filters.
	Known component.Set
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		Components: make(map[string]*component.Metadata),
		Known:      component.Set{},
	}
}

// Declare unions d into the registry.
func (r *Registry) Declare(d decl.Declaration) {
	m, ok := r.Components[d.Subject]
	if !ok {
		m = component.NewMetadata()
		r.Components[d.Subject] = m
	}
	for _, e := range d.Dependencies {
		m.Dependencies.Add(e.Name)
	}
	for _, e := range d.Conflicts {
		m.Conflicts.Add(e.Name)
	}
	r.Mention(d.Mentions()...)
}

// Mention records names as known components.
func (r *Registry) Mention(names ...string) {
	for _, n := range names {
		if n != "" {
			r.Known.Add(n)
		}
	}
}

// Metadata returns the constraints declared for name, or nil.
func (r *Registry) Metadata(name string) *component.Metadata {
	if r == nil {
		return nil
	}
	return r.Components[name]
}

// IsKnown reports whether name was mentioned anywhere in the program.
func (r *Registry) IsKnown(name string) bool {
	return r != nil && r.Known.Has(name)
}

// Stats summarizes the registry size.
type Stats struct {
	Constrained int `json:"constrained"`
	Known       int `json:"known"`
	Edges       int `json:"edges"`
}

func (r *Registry) Stats() Stats {
	s := Stats{Constrained: len(r.Components), Known: len(r.Known)}
	for _, m := range r.Components {
		s.Edges += len(m.Dependencies) + len(m.Conflicts)
	}
	return s
}

// Build scans every non-external unit of prog and returns the registry.
// Call sites whose arguments cannot be resolved are skipped.
func Build(prog *syntax.Program, methods decl.Methods) *Registry {
	reg := New()
	for _, u := range prog.Units {
		if u.External || u.Root == nil {
			continue
		}
		scanUnit(reg, u, methods)
	}
	return reg
}

func scanUnit(reg *Registry, u *syntax.Unit, methods decl.Methods) {
	r := resolve.New(u.Symbols)
	for _, s := range methods.Scan(u.Root) {
		switch s := s.(type) {
		case decl.ValidatorRegistration:
			if d, ok := decl.ExtractDeclaration(s, r); ok {
				reg.Declare(d)
			}
		case decl.TemplateRegistration:
			reg.Mention(decl.Names(decl.ExtractTemplate(s, r))...)
		case decl.QueryDeclaration:
			reg.Mention(decl.ExtractFilter(s, r).Mentions()...)
		}
	}
}
