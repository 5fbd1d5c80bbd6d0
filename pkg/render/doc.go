// Package render draws constraint graphs as node-link diagrams.
//
// [ToDOT] converts a [constraint.Graph] to Graphviz DOT source: dependency
// edges are solid arrows, declared conflicts are dashed red edges without
// arrowheads, and components on a dependency cycle are outlined in red.
// [Render] lays the DOT source out in-process with go-graphviz and encodes
// it as SVG or PNG.
//
//	dot := render.ToDOT(g, render.Options{Conflicts: true})
//	svg, err := render.Render(ctx, dot, render.FormatSVG)
//
// The DOT output is deterministic, so it can be diffed or post-processed
// with external Graphviz tools.
package render
