package extract

import (
	"context"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/graph"
)

// Element is a simplex that survived filtering.
type Element struct {
	// Seq is the simplex's position in the raw per-dimension enumeration.
	// Dropped simplices leave gaps.
	Seq int

	// Simplex holds the raw tokens as enumerated by the source.
	Simplex complex.Simplex

	// Indices holds the dense indices of the first Arity tokens.
	Indices []int
}

// Result is the outcome of one extraction step.
type Result struct {
	Elements []Element
	Total    int // simplices enumerated
	Dropped  int // simplices filtered out
}

// Arity returns the number of vertices an element of dimension dim carries.
func Arity(dim int) int { return dim + 1 }

// Elements enumerates the simplices of dimension dim and maps them onto the
// index. Nothing is enumerated when dim exceeds maxDim. Simplices with
// fewer than dim+1 tokens, or whose first dim+1 tokens are not all indexed,
// are dropped.
func Elements(ctx context.Context, r complex.Reader, idx *Index, dim, maxDim int) (Result, error) {
	if dim > maxDim {
		return Result{}, nil
	}
	simplices, err := r.Simplices(ctx, dim)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeSource, err, "read simplices of dimension %d", dim)
	}

	res := Result{Total: len(simplices)}
	for seq, s := range simplices {
		ids, ok := idx.Map(s, Arity(dim))
		if !ok {
			res.Dropped++
			continue
		}
		res.Elements = append(res.Elements, Element{Seq: seq, Simplex: s, Indices: ids})
	}
	return res, nil
}

// BuildGraph builds the 1-skeleton over the index. It returns the
// adjacency graph (one node per indexed vertex) and the edges that survived
// filtering, in enumeration order. Repeated edges appear once in the graph
// but every occurrence is kept in the returned edge list.
func BuildGraph(ctx context.Context, r complex.Reader, idx *Index) (*graph.Graph, Result, error) {
	edges, err := Elements(ctx, r, idx, 1, 1)
	if err != nil {
		return nil, Result{}, err
	}

	g := graph.New(idx.Len())
	for _, e := range edges.Elements {
		if _, err := g.AddEdge(e.Indices[0], e.Indices[1]); err != nil {
			return nil, Result{}, errors.Wrap(errors.ErrCodeInternal, err, "edge %s", e.Simplex)
		}
	}
	return g, edges, nil
}
