package check

import (
	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/constraint"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/finding"
)

// ValidateTemplate replays an ordered template: each entry must find its
// dependencies among the earlier entries and no conflicting earlier entry.
func ValidateTemplate(g *constraint.Graph, name string, entries []decl.Entry) []finding.Finding {
	state := newComposition()
	var out []finding.Finding
	for _, e := range entries {
		out = append(out, state.attach(g, e, finding.KeyTemplate, name)...)
	}
	return out
}

// composition is the ordered set of components attached to one object.
type composition struct {
	attached component.Set
	order    []string
}

func newComposition() *composition {
	return &composition{attached: component.Set{}}
}

// attach checks e against the current state and then records it. extra is
// appended to each finding's data.
func (c *composition) attach(g *constraint.Graph, e decl.Entry, extra ...string) []finding.Finding {
	var out []finding.Finding
	for _, dep := range g.DependenciesOf(e.Name).Sorted() {
		if dep == e.Name || c.attached.Has(dep) {
			continue
		}
		kv := append([]string{finding.KeyComponent, e.Name, finding.KeyDependency, dep}, extra...)
		out = append(out, finding.New(finding.MissingDependency, e.Node, kv...))
	}
	for _, other := range g.ConflictsOf(e.Name).Sorted() {
		if other == e.Name || !c.attached.Has(other) {
			continue
		}
		kv := append([]string{finding.KeyComponent, e.Name, finding.KeyConflict, other}, extra...)
		out = append(out, finding.New(finding.ConflictingComponent, e.Node, kv...))
	}
	if !c.attached.Has(e.Name) {
		c.attached.Add(e.Name)
		c.order = append(c.order, e.Name)
	}
	return out
}
