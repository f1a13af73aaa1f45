package complex

import (
	"slices"
	"strconv"
	"strings"
)

// Simplex is a tuple of vertex tokens. Its dimension is len-1.
type Simplex []Vertex

// S builds a simplex from integer tokens. It is a convenience for tests and
// sample complexes.
func S(ids ...int64) Simplex {
	s := make(Simplex, len(ids))
	for i, id := range ids {
		s[i] = Int(id)
	}
	return s
}

// Dim returns the dimension of the simplex (-1 for the empty simplex).
func (s Simplex) Dim() int { return len(s) - 1 }

// Sorted returns a sorted copy of s.
func (s Simplex) Sorted() Simplex {
	out := slices.Clone(s)
	slices.SortFunc(out, Compare)
	return out
}

// Key returns a canonical, order-independent string for s.
// Two simplices with the same vertex multiset have the same key.
func (s Simplex) Key() string {
	return s.Sorted().String()
}

// String returns the tuple in its stored order, e.g. "(0,1,2)".
// String tokens are Go-quoted, so Str("1") and Int(1) render differently and
// distinct tuples never share a rendering.
func (s Simplex) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		if v.IsString() {
			b.WriteString(strconv.Quote(v.String()))
		} else {
			b.WriteString(v.String())
		}
	}
	b.WriteByte(')')
	return b.String()
}
