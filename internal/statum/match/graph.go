package match

import "iter"

// Graph is the set of transition edges between the variants of one state.
// Edges are listed in the order they were first added.
type Graph struct {
	edges *bidiMultiMap[string, string] // source variant <-> target variant
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{newBidiMultiMap[string, string]()}
}

// Add adds an edge. It reports false if the edge already exists.
func (g *Graph) Add(from, to string) bool { return g.edges.Add(from, to) }

// Has reports whether the edge exists.
func (g *Graph) Has(from, to string) bool { return g.edges.Has(from, to) }

// Targets returns the variants reachable from a variant in one step.
func (g *Graph) Targets(from string) []string { return g.edges.Get(from) }

// Sources returns the variants that reach a variant in one step.
func (g *Graph) Sources(to string) []string { return g.edges.GetKeys(to) }

// Edges iterates every edge.
func (g *Graph) Edges() iter.Seq2[string, string] { return g.edges.All() }
