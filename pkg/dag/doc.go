// Package dag provides a string-keyed directed graph with cycle detection.
//
// # Overview
//
// The constraint engine stores component dependencies as edges A → B
// ("A depends on B"). A well-formed set of declarations forms a DAG; any
// directed cycle is a declaration error that must be reported with its full
// path.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	_ = g.AddNode(dag.Node{ID: "Velocity"})
//	_ = g.AddNode(dag.Node{ID: "Position"})
//	_ = g.AddEdge(dag.Edge{From: "Velocity", To: "Position"})
//
// # Cycle Detection
//
// [Graph.Cycles] runs a white/gray/black depth-first sweep that keeps the
// recursion stack, so each back edge yields the exact path that closes the
// loop. The sweep does not stop at the first cycle.
//
// # Concurrency
//
// A Graph is safe for concurrent reads once construction is complete.
package dag
