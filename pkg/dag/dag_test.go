package dag

import (
	"errors"
	"slices"
	"testing"
)

func build(t *testing.T, ids []string, edges [][2]string) *Graph {
	t.Helper()
	g := New(nil)
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want %v", err, ErrInvalidNodeID)
	}
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want %v", err, ErrDuplicateNodeID)
	}
	if err := g.EnsureNode("a"); err != nil {
		t.Errorf("EnsureNode(existing) = %v, want nil", err)
	}
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge() = %v, want %v", err, ErrUnknownSourceNode)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge() = %v, want %v", err, ErrUnknownTargetNode)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}})
	g.RemoveEdge("a", "b")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if !g.HasEdge("a", "b") {
		t.Error("HasEdge() = false, want parallel edge kept")
	}
	g.RemoveEdge("b", "a")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d after removing missing edge, want 1", g.EdgeCount())
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := build(t, []string{"app", "lib", "core"}, [][2]string{{"app", "lib"}, {"lib", "core"}})
	if got := len(g.Sources()); got != 1 || g.Sources()[0].ID != "app" {
		t.Errorf("Sources() = %v, want [app]", g.Sources())
	}
	if got := len(g.Sinks()); got != 1 || g.Sinks()[0].ID != "core" {
		t.Errorf("Sinks() = %v, want [core]", g.Sinks())
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges [][2]string
		want  []Cycle
	}{
		{
			name:  "chain",
			ids:   []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}},
			want:  nil,
		},
		{
			name:  "two nodes",
			ids:   []string{"A", "B"},
			edges: [][2]string{{"A", "B"}, {"B", "A"}},
			want:  []Cycle{{"A", "B", "A"}},
		},
		{
			name:  "triangle",
			ids:   []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			want:  []Cycle{{"A", "B", "C", "A"}},
		},
		{
			name:  "cycle below entry",
			ids:   []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "B"}},
			want:  []Cycle{{"B", "C", "B"}},
		},
		{
			name:  "disjoint cycles",
			ids:   []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"B", "A"}, {"C", "D"}, {"D", "C"}},
			want:  []Cycle{{"A", "B", "A"}, {"C", "D", "C"}},
		},
		{
			name:  "shared node",
			ids:   []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "A"}, {"B", "C"}, {"C", "B"}},
			want:  []Cycle{{"A", "B", "A"}, {"B", "C", "B"}},
		},
		{
			name:  "diamond without cycle",
			ids:   []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			want:  nil,
		},
		{
			name:  "self loop",
			ids:   []string{"A"},
			edges: [][2]string{{"A", "A"}},
			want:  []Cycle{{"A", "A"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.ids, tt.edges)
			got := g.Cycles()
			if !slices.EqualFunc(got, tt.want, func(a, b Cycle) bool { return slices.Equal(a, b) }) {
				t.Errorf("Cycles() = %v, want %v", got, tt.want)
			}
			if err := g.Validate(); (err != nil) != (len(tt.want) > 0) {
				t.Errorf("Validate() = %v, want cycle error %v", err, len(tt.want) > 0)
			}
		})
	}
}

func TestCycleHelpers(t *testing.T) {
	c := Cycle{"A", "B", "C", "A"}
	if got := c.Nodes(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("Nodes() = %v, want [A B C]", got)
	}
	if got := c.Edges(); len(got) != 3 || got[2] != [2]string{"C", "A"} {
		t.Errorf("Edges() = %v", got)
	}
	if Cycle(nil).Nodes() != nil {
		t.Error("Nodes() of empty cycle should be nil")
	}
}
