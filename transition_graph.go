package synthstate

import (
	"slices"
	"sync"
)

// transitionNode records the neighbors of a single state. Both lists keep
// insertion order and hold no duplicates.
type transitionNode[TState comparable] struct {
	toStates   []TState
	fromStates []TState
}

// transitionGraph is the adjacency structure behind a Machine. Nodes are
// created lazily the first time a state appears as either endpoint of an
// edge. The graph is append-only: no operation removes an edge.
type transitionGraph[TState comparable] struct {
	mu    sync.RWMutex
	nodes map[TState]*transitionNode[TState]
}

func newTransitionGraph[TState comparable]() *transitionGraph[TState] {
	return &transitionGraph[TState]{
		nodes: make(map[TState]*transitionNode[TState]),
	}
}

// node returns the node for state, creating it if needed. Callers must hold mu.
func (g *transitionGraph[TState]) node(state TState) *transitionNode[TState] {
	n, ok := g.nodes[state]
	if !ok {
		n = &transitionNode[TState]{}
		g.nodes[state] = n
	}
	return n
}

// addEdge inserts the directed edge (from, to). Inserting an edge that
// already exists is a no-op.
func (g *transitionGraph[TState]) addEdge(from, to TState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	src := g.node(from)
	dst := g.node(to)
	if !slices.Contains(src.toStates, to) {
		src.toStates = append(src.toStates, to)
	}
	if !slices.Contains(dst.fromStates, from) {
		dst.fromStates = append(dst.fromStates, from)
	}
}

// hasEdge reports whether the directed edge (from, to) exists.
func (g *transitionGraph[TState]) hasEdge(from, to TState) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[from]
	return ok && slices.Contains(n.toStates, to)
}

// neighbors returns the outgoing neighbor list of state in insertion order.
// The returned slice is a copy; mutating it does not affect the graph.
func (g *transitionGraph[TState]) neighbors(state TState) []TState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[state]
	if !ok {
		return nil
	}
	return slices.Clone(n.toStates)
}

// incoming returns a copy of the incoming neighbor list of state.
func (g *transitionGraph[TState]) incoming(state TState) []TState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[state]
	if !ok {
		return nil
	}
	return slices.Clone(n.fromStates)
}

// states returns every state referenced by the graph, in unspecified order.
func (g *transitionGraph[TState]) states() []TState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]TState, 0, len(g.nodes))
	for state := range g.nodes {
		out = append(out, state)
	}
	return out
}

// edgeCount returns the number of directed edges, summed over all nodes.
func (g *transitionGraph[TState]) edgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	total := 0
	for _, n := range g.nodes {
		total += len(n.toStates)
	}
	return total
}
