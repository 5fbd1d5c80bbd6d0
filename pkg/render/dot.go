package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/compcheck/pkg/component"
	"github.com/matzehuels/compcheck/pkg/constraint"
)

// Options configures DOT generation.
type Options struct {
	// Conflicts adds declared conflict edges.
	Conflicts bool

	// Detailed adds dependency and conflict counts to node labels.
	Detailed bool

	// Focus limits the diagram to these components and everything reachable
	// from them over dependency edges. Empty means the whole graph.
	Focus []string
}

const (
	cycleColor    = "#d62728"
	conflictColor = "#d62728"
)

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *constraint.Graph, opts Options) string {
	deps := g.DependencyDAG()
	keep := reachable(g, opts.Focus)

	onCycle := component.Set{}
	cycleEdge := make(map[[2]string]bool)
	for _, c := range deps.Cycles() {
		for _, n := range c.Nodes() {
			onCycle.Add(n)
		}
		for _, e := range c.Edges() {
			cycleEdge[e] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph components {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("\n")

	for _, n := range deps.NodeIDs() {
		if !keep(n) {
			continue
		}
		attrs := []string{fmt.Sprintf("label=%q", label(g, n, opts.Detailed))}
		if onCycle.Has(n) {
			attrs = append(attrs, fmt.Sprintf("color=%q", cycleColor), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range deps.Edges() {
		if !keep(e.From) || !keep(e.To) {
			continue
		}
		if cycleEdge[[2]string{e.From, e.To}] {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=2];\n", e.From, e.To, cycleColor)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	if opts.Conflicts {
		for _, c := range g.DeclaredConflicts() {
			if !keep(c.From) || !keep(c.To) {
				continue
			}
			dir := "none"
			if !g.Symmetric() {
				dir = "forward"
			}
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=%q, dir=%s, constraint=false];\n",
				c.From, c.To, conflictColor, dir)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(g *constraint.Graph, n string, detailed bool) string {
	if !detailed {
		return n
	}
	return fmt.Sprintf("%s\ndeps: %d\nconflicts: %d", n, len(g.DependenciesOf(n)), len(g.ConflictsOf(n)))
}

// reachable returns a predicate for the components within focus.
func reachable(g *constraint.Graph, focus []string) func(string) bool {
	if len(focus) == 0 {
		return func(string) bool { return true }
	}
	seen := component.Set{}
	stack := append([]string(nil), focus...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen.Has(n) {
			continue
		}
		seen.Add(n)
		for _, d := range g.DependenciesOf(n).Sorted() {
			stack = append(stack, d)
		}
	}
	return seen.Has
}
