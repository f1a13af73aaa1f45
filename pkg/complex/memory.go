package complex

import (
	"context"
	"slices"
)

// Complex is an in-memory simplicial complex. Simplices are kept per
// dimension in insertion order. Duplicates are kept as given.
//
// Complex is not safe for concurrent mutation.
type Complex struct {
	byDim [][]Simplex
}

// New creates a complex holding the given simplices.
func New(simplices ...Simplex) *Complex {
	c := &Complex{}
	for _, s := range simplices {
		c.Add(s)
	}
	return c
}

// Add appends a simplex. Empty simplices are ignored.
func (c *Complex) Add(s Simplex) {
	d := s.Dim()
	if d < 0 {
		return
	}
	for len(c.byDim) <= d {
		c.byDim = append(c.byDim, nil)
	}
	c.byDim[d] = append(c.byDim[d], slices.Clone(s))
}

// AddClosure adds s together with all of its faces that are not yet present.
func (c *Complex) AddClosure(s Simplex) {
	seen := make(map[string]bool)
	for _, group := range c.byDim {
		for _, f := range group {
			seen[f.Key()] = true
		}
	}
	for _, f := range faces(s) {
		if k := f.Key(); !seen[k] {
			seen[k] = true
			c.Add(f)
		}
	}
}

// faces returns every non-empty sub-tuple of s, lower dimensions first.
func faces(s Simplex) []Simplex {
	n := len(s)
	var out []Simplex
	for size := 1; size <= n; size++ {
		idx := make([]int, size)
		for i := range idx {
			idx[i] = i
		}
		for {
			f := make(Simplex, size)
			for i, j := range idx {
				f[i] = s[j]
			}
			out = append(out, f)

			i := size - 1
			for i >= 0 && idx[i] == n-size+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for j := i + 1; j < size; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
	return out
}

// Simplices implements Reader.
func (c *Complex) Simplices(ctx context.Context, dim int) ([]Simplex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dim < 0 || dim >= len(c.byDim) {
		return nil, nil
	}
	return slices.Clone(c.byDim[dim]), nil
}

// Dimension implements Reader.
func (c *Complex) Dimension(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for d := len(c.byDim) - 1; d >= 0; d-- {
		if len(c.byDim[d]) > 0 {
			return d, nil
		}
	}
	return -1, nil
}

var _ Reader = (*Complex)(nil)
