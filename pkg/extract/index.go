package extract

import (
	"context"
	"slices"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
)

// Index maps vertex tokens to dense indices.
type Index struct {
	// Vertices lists the tokens in index order (sorted by complex.Compare).
	Vertices []complex.Vertex

	// IDs maps each token to its index.
	IDs map[complex.Vertex]int
}

// Len returns the number of indexed vertices.
func (x *Index) Len() int { return len(x.Vertices) }

// Lookup returns the index of v.
func (x *Index) Lookup(v complex.Vertex) (int, bool) {
	i, ok := x.IDs[v]
	return i, ok
}

// Map resolves the first arity tokens of s. It fails if s is shorter than
// arity or any of those tokens is not indexed.
func (x *Index) Map(s complex.Simplex, arity int) ([]int, bool) {
	if len(s) < arity {
		return nil, false
	}
	out := make([]int, arity)
	for i, v := range s[:arity] {
		id, ok := x.IDs[v]
		if !ok {
			return nil, false
		}
		out[i] = id
	}
	return out, true
}

// IndexVertices collects the unique vertex tokens of all simplices of
// dimension 0..maxDim and indexes them in sorted order.
//
// The result is a pure function of the complex: re-running on an unchanged
// complex yields identical indices.
func IndexVertices(ctx context.Context, r complex.Reader, maxDim int) (*Index, error) {
	if err := errors.ValidateMaxDim(maxDim); err != nil {
		return nil, err
	}

	seen := make(map[complex.Vertex]struct{})
	for d := 0; d <= maxDim; d++ {
		simplices, err := r.Simplices(ctx, d)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "read simplices of dimension %d", d)
		}
		for _, s := range simplices {
			for _, v := range s {
				seen[v] = struct{}{}
			}
		}
	}

	vertices := make([]complex.Vertex, 0, len(seen))
	for v := range seen {
		vertices = append(vertices, v)
	}
	slices.SortFunc(vertices, complex.Compare)

	ids := make(map[complex.Vertex]int, len(vertices))
	for i, v := range vertices {
		ids[v] = i
	}
	return &Index{Vertices: vertices, IDs: ids}, nil
}
