// Package constraint merges cross-unit and unit-local component declarations
// into the dependency and conflict graphs that validators query.
//
// A [Graph] is built once per checked unit from the snapshot's
// [registry.Registry], the unit's own declarations and any configured seeds.
// All sources are merged additively. After [New] returns the graph is
// read-only.
//
// # Conflict Symmetry
//
// Declarations state conflicts in one direction ("A conflicts with B"). With
// [Options.SymmetricConflicts] set, [Graph.ConflictsOf] also reports the
// reverse direction, so attaching A after B is caught as well as B after A.
// Without it, only declared directions are reported.
package constraint

import (
	"slices"

	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/dag"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/registry"
)

// Options configures graph construction.
type Options struct {
	// SymmetricConflicts treats every declared conflict as mutual.
	SymmetricConflicts bool

	// Seeds adds constraints for components declared outside the scanned
	// sources.
	Seeds map[string]component.Metadata
}

// Graph is the per-unit constraint graph.
type Graph struct {
	deps      map[string]component.Set
	conflicts map[string]component.Set
	declared  map[string]component.Set
	known     component.Set

	// Edges stated in source declarations, excluding seeds.
	srcDeps      map[string]component.Set
	srcConflicts map[string]component.Set
	opts         Options
}

// New merges reg, local and opts.Seeds into a graph. reg may be nil.
func New(reg *registry.Registry, local []decl.Declaration, opts Options) *Graph {
	g := &Graph{
		deps:      make(map[string]component.Set),
		conflicts: make(map[string]component.Set),
		declared:  make(map[string]component.Set),
		known:     component.Set{},
		opts:      opts,

		srcDeps:      make(map[string]component.Set),
		srcConflicts: make(map[string]component.Set),
	}
	if reg != nil {
		for name, m := range reg.Components {
			g.merge(name, m.Dependencies, m.Conflicts)
			g.source(name, m.Dependencies, m.Conflicts)
		}
		g.known.AddAll(reg.Known)
	}
	for name, m := range opts.Seeds {
		g.merge(name, m.Dependencies, m.Conflicts)
	}
	for _, d := range local {
		deps, conflicts := component.NewSet(decl.Names(d.Dependencies)...), component.NewSet(decl.Names(d.Conflicts)...)
		g.merge(d.Subject, deps, conflicts)
		g.source(d.Subject, deps, conflicts)
		for _, n := range d.Mentions() {
			g.known.Add(n)
		}
	}
	return g
}

func (g *Graph) merge(name string, deps, conflicts component.Set) {
	g.known.Add(name)
	into(g.deps, name).AddAll(deps)
	into(g.declared, name).AddAll(conflicts)
	into(g.conflicts, name).AddAll(conflicts)
	for c := range conflicts {
		g.known.Add(c)
		if g.opts.SymmetricConflicts {
			into(g.conflicts, c).Add(name)
		}
	}
	g.known.AddAll(deps)
}

func (g *Graph) source(name string, deps, conflicts component.Set) {
	into(g.srcDeps, name).AddAll(deps)
	into(g.srcConflicts, name).AddAll(conflicts)
}

func into(m map[string]component.Set, key string) component.Set {
	s, ok := m[key]
	if !ok {
		s = component.Set{}
		m[key] = s
	}
	return s
}

var empty = component.Set{}

// DependenciesOf returns the components name requires. The result must not be
// modified.
func (g *Graph) DependenciesOf(name string) component.Set {
	if s, ok := g.deps[name]; ok {
		return s
	}
	return empty
}

// ConflictsOf returns the components name cannot coexist with, including
// reverse edges when conflicts are symmetric. The result must not be
// modified.
func (g *Graph) ConflictsOf(name string) component.Set {
	if s, ok := g.conflicts[name]; ok {
		return s
	}
	return empty
}

// Conflicting reports whether a and b conflict in either declared direction.
func (g *Graph) Conflicting(a, b string) bool {
	return g.ConflictsOf(a).Has(b) || g.ConflictsOf(b).Has(a)
}

// DependsInSource reports whether a source declaration of from lists to as a
// dependency. Seeds do not count.
func (g *Graph) DependsInSource(from, to string) bool { return g.srcDeps[from].Has(to) }

// ConflictsInSource reports whether a source declaration of from lists to as
// a conflict. Seeds and reverse edges do not count.
func (g *Graph) ConflictsInSource(from, to string) bool { return g.srcConflicts[from].Has(to) }

// Seeded returns the components that have seed constraints, sorted.
func (g *Graph) Seeded() []string {
	names := make([]string, 0, len(g.opts.Seeds))
	for name := range g.opts.Seeds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsKnown reports whether name was mentioned by any declaration, template,
// query or seed.
func (g *Graph) IsKnown(name string) bool { return g.known.Has(name) }

// Components returns every known component, sorted.
func (g *Graph) Components() []string { return g.known.Sorted() }

// Symmetric reports whether conflicts are treated as mutual.
func (g *Graph) Symmetric() bool { return g.opts.SymmetricConflicts }

// DetectSelfReference reports whether name appears in set.
func (g *Graph) DetectSelfReference(name string, set component.Set) bool {
	return set.Has(name)
}

// DetectContradiction returns the targets name both depends on and conflicts
// with. name itself is excluded; that case is a self reference.
func (g *Graph) DetectContradiction(name string) component.Set {
	out := g.DependenciesOf(name).Intersect(g.ConflictsOf(name))
	delete(out, name)
	return out
}

// DetectDuplicates returns the names that occur more than once in list, in
// order of their second occurrence.
func (g *Graph) DetectDuplicates(list []string) []string {
	return Duplicates(list)
}

// Duplicates returns the names that occur more than once in list, each once,
// in order of their second occurrence.
func Duplicates(list []string) []string {
	seen := make(map[string]int, len(list))
	var dups []string
	for _, n := range list {
		seen[n]++
		if seen[n] == 2 {
			dups = append(dups, n)
		}
	}
	return dups
}

// DetectCycles returns every dependency cycle found by a full depth-first
// sweep. Self dependencies are excluded; they are reported as self
// references.
func (g *Graph) DetectCycles() []dag.Cycle {
	return g.DependencyDAG().Cycles()
}

// DependencyDAG returns the dependency edges as a [dag.Graph], with nodes and
// edges inserted in sorted order and self loops omitted.
func (g *Graph) DependencyDAG() *dag.Graph {
	d := dag.New(nil)
	for _, name := range g.known.Sorted() {
		_ = d.AddNode(dag.Node{ID: name})
	}
	for _, from := range g.known.Sorted() {
		for _, to := range g.DependenciesOf(from).Sorted() {
			if to == from {
				continue
			}
			_ = d.EnsureNode(to)
			_ = d.AddEdge(dag.Edge{From: from, To: to})
		}
	}
	return d
}

// Conflict is one declared conflict edge.
type Conflict struct {
	From, To string
}

// DeclaredConflicts returns each declared conflict edge, sorted by From then To.
// Reverse edges added by symmetry are not included.
func (g *Graph) DeclaredConflicts() []Conflict {
	var out []Conflict
	for _, from := range g.known.Sorted() {
		for _, to := range g.declared[from].Sorted() {
			out = append(out, Conflict{From: from, To: to})
		}
	}
	return out
}
