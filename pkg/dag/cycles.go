package dag

// Cycle is a closed path through the graph: the first and last elements are
// the same node, for example [A B C A].
type Cycle []string

// Nodes returns the distinct nodes of the cycle, without the closing repeat.
func (c Cycle) Nodes() []string {
	if len(c) == 0 {
		return nil
	}
	return c[:len(c)-1]
}

// Edges returns the consecutive pairs of the cycle.
func (c Cycle) Edges() [][2]string {
	var edges [][2]string
	for i := 0; i+1 < len(c); i++ {
		edges = append(edges, [2]string{c[i], c[i+1]})
	}
	return edges
}

// Cycles sweeps the whole graph with depth-first search and returns every
// cycle closed by a back edge. Roots are visited in sorted ID order and
// children in edge insertion order, so the result is deterministic.
//
// When an edge reaches a node on the recursion stack, the cycle is the stack
// slice from that node through the current node, with the target appended.
// Fully explored nodes are never entered again, so the sweep is O(V+E) and may
// report fewer cycles than the graph's full set of elementary cycles.
func (g *Graph) Cycles() []Cycle {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	onStack := make(map[string]int, len(g.nodes))
	var stack []string
	var cycles []Cycle

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		onStack[id] = len(stack)
		stack = append(stack, id)
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				c := make(Cycle, 0, len(stack)-onStack[child]+1)
				c = append(c, stack[onStack[child]:]...)
				cycles = append(cycles, append(c, child))
			}
		}
		stack = stack[:len(stack)-1]
		delete(onStack, id)
		color[id] = black
	}

	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}
