package complex

import "context"

// Reader is the narrow read interface the pipeline needs from a simplicial
// complex source.
//
// Simplices returns every simplex of exactly the requested dimension, in a
// stable order. Dimension returns the largest dimension present, or -1 for an
// empty complex. Asking for a dimension above Dimension returns no simplices
// and no error.
type Reader interface {
	Simplices(ctx context.Context, dim int) ([]Simplex, error)
	Dimension(ctx context.Context) (int, error)
}

// Counts returns the number of simplices per dimension, 0..Dimension.
func Counts(ctx context.Context, r Reader) ([]int, error) {
	top, err := r.Dimension(ctx)
	if err != nil {
		return nil, err
	}
	counts := make([]int, top+1)
	for d := 0; d <= top; d++ {
		s, err := r.Simplices(ctx, d)
		if err != nil {
			return nil, err
		}
		counts[d] = len(s)
	}
	return counts, nil
}

// All returns every simplex of r, grouped by ascending dimension.
func All(ctx context.Context, r Reader) ([]Simplex, error) {
	top, err := r.Dimension(ctx)
	if err != nil {
		return nil, err
	}
	var out []Simplex
	for d := 0; d <= top; d++ {
		s, err := r.Simplices(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, s...)
	}
	return out, nil
}
