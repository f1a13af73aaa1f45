package graph

import (
	"fmt"
	"slices"
)

// Edge is an undirected edge between two node indices with U <= V.
type Edge struct {
	U, V int
}

// Graph is an undirected simple graph over the nodes [0, N).
// Self-loops and parallel edges are ignored.
type Graph struct {
	adj   []map[int]struct{}
	edges []Edge
}

// New creates a graph with n isolated nodes.
func New(n int) *Graph {
	adj := make([]map[int]struct{}, n)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	return &Graph{adj: adj}
}

// AddEdge connects u and v. It reports whether a new edge was added; an
// existing edge (in either orientation) or a self-loop adds nothing.
// Out-of-range endpoints are an error.
func (g *Graph) AddEdge(u, v int) (bool, error) {
	n := len(g.adj)
	if u < 0 || u >= n || v < 0 || v >= n {
		return false, fmt.Errorf("edge (%d,%d) outside node range [0,%d)", u, v, n)
	}
	if u == v {
		return false, nil
	}
	if _, ok := g.adj[u][v]; ok {
		return false, nil
	}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	g.edges = append(g.edges, Edge{U: min(u, v), V: max(u, v)})
	return true, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.adj) }

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns the distinct edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || u >= len(g.adj) {
		return false
	}
	_, ok := g.adj[u][v]
	return ok
}

// Neighbors returns the neighbors of u in ascending order.
func (g *Graph) Neighbors(u int) []int {
	if u < 0 || u >= len(g.adj) {
		return nil
	}
	out := make([]int, 0, len(g.adj[u]))
	for v := range g.adj[u] {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Degree returns the number of neighbors of u.
func (g *Graph) Degree(u int) int {
	if u < 0 || u >= len(g.adj) {
		return 0
	}
	return len(g.adj[u])
}

// Isolated returns the nodes without any incident edge, ascending.
func (g *Graph) Isolated() []int {
	var out []int
	for i, nb := range g.adj {
		if len(nb) == 0 {
			out = append(out, i)
		}
	}
	return out
}
