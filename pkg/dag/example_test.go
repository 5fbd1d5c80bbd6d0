package dag_test

import (
	"fmt"

	"github.com/matzehuels/compcheck/pkg/dag"
)

func ExampleGraph_basic() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Velocity"})
	_ = g.AddNode(dag.Node{ID: "Position"})
	_ = g.AddNode(dag.Node{ID: "Transform"})
	_ = g.AddEdge(dag.Edge{From: "Velocity", To: "Position"})
	_ = g.AddEdge(dag.Edge{From: "Position", To: "Transform"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Children of Velocity:", g.Children("Velocity"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Children of Velocity: [Position]
}

func ExampleGraph_Cycles() {
	g := dag.New(nil)
	for _, id := range []string{"A", "B", "C"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "A", To: "B"})
	_ = g.AddEdge(dag.Edge{From: "B", To: "C"})
	_ = g.AddEdge(dag.Edge{From: "C", To: "A"})

	for _, c := range g.Cycles() {
		fmt.Println(c)
	}
	// Output:
	// [A B C A]
}
