package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a directed cycle
	// exists.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Metadata maps are never nil after insertion.
type Metadata map[string]any

// Node is a vertex of the graph.
type Node struct {
	ID   string
	Meta Metadata
}

// Edge is a directed connection From → To.
type Edge struct {
	From string
	To   string
	Meta Metadata
}

// Graph is a directed graph keyed by string IDs. Despite the package name it
// may contain cycles; [Graph.Cycles] reports them and [Graph.Validate] rejects
// them.
//
// The zero value is not usable; call [New]. Graph is not safe for concurrent
// mutation.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds n to the graph.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// EnsureNode adds a node with the given ID unless it already exists.
func (g *Graph) EnsureNode(id string) error {
	if _, ok := g.nodes[id]; ok {
		return nil
	}
	return g.AddNode(Node{ID: id})
}

// AddEdge adds a directed edge between two existing nodes. Parallel edges are
// allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the first edge from→to if it exists.
func (g *Graph) RemoveEdge(from, to string) {
	if i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.From == from && e.To == to }); i >= 0 {
		g.edges = slices.Delete(g.edges, i, i+1)
	}
	if i := slices.Index(g.outgoing[from], to); i >= 0 {
		g.outgoing[from] = slices.Delete(g.outgoing[from], i, i+1)
	}
	if i := slices.Index(g.incoming[to], from); i >= 0 {
		g.incoming[to] = slices.Delete(g.incoming[to], i, i+1)
	}
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// NodeIDs returns all node IDs sorted ascending.
func (g *Graph) NodeIDs() []string { return slices.Sorted(maps.Keys(g.nodes)) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the targets of id's outgoing edges. The slice is a
// read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of id's incoming edges. The slice is a
// read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasEdge reports whether an edge from→to exists.
func (g *Graph) HasEdge(from, to string) bool {
	return slices.Contains(g.outgoing[from], to)
}

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, n := range g.Nodes() {
		if len(g.incoming[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, n := range g.Nodes() {
		if len(g.outgoing[n.ID]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// Validate returns ErrGraphHasCycle if the graph has a directed cycle.
func (g *Graph) Validate() error {
	if len(g.Cycles()) > 0 {
		return ErrGraphHasCycle
	}
	return nil
}
