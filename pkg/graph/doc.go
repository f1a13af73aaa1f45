// Package graph provides the undirected adjacency graph built from the
// 1-skeleton of a simplicial complex.
//
// Nodes are the dense vertex indices [0, N). Every index is a node, whether
// or not an edge touches it, so isolated vertices still take part in layout.
// The graph is the input to the force-directed layout and can be exported to
// Graphviz DOT (and rendered to SVG) for a quick 2D preview.
//
// # Usage
//
//	g := graph.New(7)
//	g.AddEdge(0, 1)
//	g.AddEdge(1, 0)      // no-op: edges are undirected and deduplicated
//	g.Neighbors(0)       // [1]
//
//	dot := graph.ToDOT(g, graph.DOTOptions{Labels: labels, Colors: colors})
//	svg, err := graph.RenderSVG(dot)
//
// # Concurrency
//
// All methods are safe for concurrent reads but not concurrent writes.
package graph
