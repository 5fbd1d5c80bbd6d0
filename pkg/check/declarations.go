package check

import (
	"slices"
	"strings"

	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/constraint"
	"github.com/matzehuels/compcheck/pkg/dag"
	"github.com/matzehuels/compcheck/pkg/decl"
	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/syntax"
)

// CheckDeclarations reports self references and duplicates within each
// declaration, and contradictions once per subject and target. A
// contradiction is reported at the conflicts entry when a source
// declaration lists the conflict, and at the dependencies entry otherwise,
// so one split across units is reported once.
func CheckDeclarations(g *constraint.Graph, locals []decl.Declaration) []finding.Finding {
	var out []finding.Finding
	type pair struct{ subject, target string }
	reported := make(map[pair]bool)

	for _, d := range locals {
		arrays := []struct {
			relation string
			entries  []decl.Entry
		}{
			{finding.RelationDependency, d.Dependencies},
			{finding.RelationConflict, d.Conflicts},
		}
		for _, a := range arrays {
			names := decl.Names(a.entries)
			if g.DetectSelfReference(d.Subject, component.NewSet(names...)) {
				out = append(out, finding.New(finding.SelfReference, entryNode(a.entries, d.Subject, 1, d.Site),
					finding.KeyComponent, d.Subject,
					finding.KeyRelation, a.relation))
			}
			for _, dup := range g.DetectDuplicates(names) {
				out = append(out, finding.New(finding.DuplicateEntry, entryNode(a.entries, dup, 2, d.Site),
					finding.KeyComponent, d.Subject,
					finding.KeyTarget, dup,
					finding.KeyArray, arrayName(a.relation)))
			}
		}

		for _, target := range g.DetectContradiction(d.Subject).Sorted() {
			p := pair{d.Subject, target}
			if reported[p] {
				continue
			}
			loc := entryNode(d.Conflicts, target, 1, nil)
			if loc == nil && !g.ConflictsInSource(d.Subject, target) {
				loc = entryNode(d.Dependencies, target, 1, nil)
			}
			if loc == nil {
				continue
			}
			reported[p] = true
			out = append(out, finding.New(finding.Contradiction, loc,
				finding.KeyComponent, d.Subject,
				finding.KeyTarget, target))
		}
	}
	return out
}

// CheckCycles reports each dependency cycle at the declaration of its anchor
// edge: the edge leaving the cycle's lexicographically smallest component.
// Exactly one unit declares a given anchor edge in the common case, so a
// cycle spanning several units is reported once. Anchor edges that only seeds
// declare are left to [CheckSeeds].
func CheckCycles(g *constraint.Graph, locals []decl.Declaration) []finding.Finding {
	var out []finding.Finding
	for _, c := range g.DetectCycles() {
		from, to := anchor(c)

		for _, d := range locals {
			if d.Subject != from {
				continue
			}
			if loc := entryNode(d.Dependencies, to, 1, nil); loc != nil {
				out = append(out, finding.New(finding.Cycle, loc,
					finding.KeyComponent, from,
					finding.KeyCycle, strings.Join(c, " -> ")))
				break
			}
		}
	}
	return out
}

// CheckSeeds reports the contradictions and cycles that no source
// declaration can carry because they stem from seed constraints alone. They
// are located at seedPath. g must be built without local declarations.
func CheckSeeds(g *constraint.Graph, seedPath string) []finding.Finding {
	var out []finding.Finding
	at := &syntax.Node{Pos: syntax.Position{Path: seedPath}}

	for _, name := range g.Seeded() {
		for _, target := range g.DetectContradiction(name).Sorted() {
			if g.DependsInSource(name, target) || g.ConflictsInSource(name, target) {
				continue
			}
			out = append(out, finding.New(finding.Contradiction, at,
				finding.KeyComponent, name,
				finding.KeyTarget, target))
		}
	}

	for _, c := range g.DetectCycles() {
		from, to := anchor(c)
		if g.DependsInSource(from, to) {
			continue
		}
		out = append(out, finding.New(finding.Cycle, at,
			finding.KeyComponent, from,
			finding.KeyCycle, strings.Join(c, " -> ")))
	}
	return out
}

// anchor returns the edge of c leaving its lexicographically smallest node.
func anchor(c dag.Cycle) (from, to string) {
	nodes := c.Nodes()
	i := slices.Index(nodes, slices.Min(nodes))
	return nodes[i], nodes[(i+1)%len(nodes)]
}

// entryNode returns the node of the nth entry named name, or fallback.
func entryNode(entries []decl.Entry, name string, nth int, fallback *syntax.Node) *syntax.Node {
	for _, e := range entries {
		if e.Name != name {
			continue
		}
		if nth--; nth == 0 {
			return e.Node
		}
	}
	return fallback
}

func arrayName(relation string) string {
	if relation == finding.RelationDependency {
		return "dependencies"
	}
	return "conflicts"
}
