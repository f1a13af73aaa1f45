package material

import (
	"fmt"
	"slices"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
)

// DefaultNodeSize is the baseline vertex size.
const DefaultNodeSize = 5.0

// override is a per-element entry. The tokens are kept in the orientation
// they were first set with so presets round-trip.
type override struct {
	tokens complex.Simplex
	props  Props
}

// Store holds the class defaults and per-element overrides of all four
// classes.
//
// A Store is not safe for concurrent use. Callers serialize mutations
// before resolving.
type Store struct {
	nodeSize  float64
	defaults  [4]Props
	overrides [4]map[string]*override
	order     [4][]string
	revision  uint64
}

// Option configures a Store.
type Option func(*Store)

// WithNodeSize sets the baseline vertex size.
func WithNodeSize(size float64) Option {
	return func(s *Store) {
		if size > 0 {
			s.nodeSize = size
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{nodeSize: DefaultNodeSize}
	for i := range s.overrides {
		s.overrides[i] = make(map[string]*override)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NodeSize returns the baseline vertex size.
func (s *Store) NodeSize() float64 { return s.nodeSize }

// SetNodeSize changes the baseline vertex size.
func (s *Store) SetNodeSize(size float64) error {
	if size <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node size must be positive, got %v", size)
	}
	s.nodeSize = size
	s.revision++
	return nil
}

// Revision counts mutations. It changes whenever a resolved property set
// may have changed.
func (s *Store) Revision() uint64 { return s.revision }

// SetClassDefaults replaces the class default layer of c. Passing nil
// clears it. Other classes and all per-element overrides are untouched.
func (s *Store) SetClassDefaults(c Class, props Props) error {
	if err := checkClass(c); err != nil {
		return err
	}
	if props == nil {
		s.defaults[c] = nil
		s.revision++
		return nil
	}
	p, err := normalize(props)
	if err != nil {
		return err
	}
	s.defaults[c] = p
	s.revision++
	return nil
}

// SetDefaults replaces the default layer of every class at once. Classes
// missing from defaults end up without class defaults.
func (s *Store) SetDefaults(defaults map[Class]Props) error {
	var next [4]Props
	for c, props := range defaults {
		if err := checkClass(c); err != nil {
			return err
		}
		p, err := normalize(props)
		if err != nil {
			return err
		}
		next[c] = p
	}
	s.defaults = next
	s.revision++
	return nil
}

// ClassDefaults returns a copy of the default layer of c.
func (s *Store) ClassDefaults(c Class) Props {
	if !c.Valid() {
		return nil
	}
	return s.defaults[c].Clone()
}

// SetOverride merges props into the per-element override of the element
// identified by tokens. Only the first c.Arity() tokens are used.
func (s *Store) SetOverride(c Class, tokens complex.Simplex, props Props) error {
	if err := checkClass(c); err != nil {
		return err
	}
	if len(tokens) < c.Arity() {
		return errors.New(errors.ErrCodeInvalidInput, "%s override needs %d vertices, got %d", c, c.Arity(), len(tokens))
	}
	p, err := normalize(props)
	if err != nil {
		return err
	}

	tokens = tokens[:c.Arity()]
	key := storeKey(c, tokens)
	if o, ok := s.overrides[c][key]; ok {
		o.props = Merge(o.props, p)
	} else {
		stored := slices.Clone(tokens)
		if c == Face || c == Tetrahedron {
			stored = tokens.Sorted()
		}
		s.overrides[c][key] = &override{tokens: stored, props: p}
		s.order[c] = append(s.order[c], key)
	}
	s.revision++
	return nil
}

// SetElementOverride is SetOverride with a class tag such as "edge" or
// "faces".
func (s *Store) SetElementOverride(tag string, tokens complex.Simplex, props Props) error {
	c, err := ParseClass(tag)
	if err != nil {
		return err
	}
	return s.SetOverride(c, tokens, props)
}

// SetVertex merges an override for vertex v.
func (s *Store) SetVertex(v complex.Vertex, props Props) error {
	return s.SetOverride(Vertex, complex.Simplex{v}, props)
}

// SetEdge merges an override for the edge (a, b). It also applies to (b, a)
// unless that orientation has its own override.
func (s *Store) SetEdge(a, b complex.Vertex, props Props) error {
	return s.SetOverride(Edge, complex.Simplex{a, b}, props)
}

// SetFace merges an override for the face spanned by vs.
func (s *Store) SetFace(vs complex.Simplex, props Props) error {
	return s.SetOverride(Face, vs, props)
}

// SetTetrahedron merges an override for the tetrahedron spanned by vs.
func (s *Store) SetTetrahedron(vs complex.Simplex, props Props) error {
	return s.SetOverride(Tetrahedron, vs, props)
}

// Resolve returns the merged property set of one element. tokens
// identifies the element as enumerated by the source; seq is its sequence
// index and is ignored for vertices. Resolve succeeds for elements without
// overrides and returns a fresh map on every call.
func (s *Store) Resolve(c Class, tokens complex.Simplex, seq int) (Props, error) {
	if err := checkClass(c); err != nil {
		return nil, err
	}
	if c == Vertex && len(tokens) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "vertex resolve needs a token")
	}
	return Merge(s.baseline(c, tokens, seq), s.defaults[c], s.lookup(c, tokens)), nil
}

// ResolveTag is Resolve with a class tag.
func (s *Store) ResolveTag(tag string, tokens complex.Simplex, seq int) (Props, error) {
	c, err := ParseClass(tag)
	if err != nil {
		return nil, err
	}
	return s.Resolve(c, tokens, seq)
}

func (s *Store) baseline(c Class, tokens complex.Simplex, seq int) Props {
	switch c {
	case Vertex:
		v := tokens[0].String()
		return Props{
			"vertex":  v,
			"size":    s.nodeSize,
			"color":   ColorHash(v),
			"tooltip": "Vertex " + v,
		}
	case Edge:
		return Props{
			"weight": 1,
			"color":  ColorHash(fmt.Sprintf("edge-%d", seq)),
		}
	case Face:
		return Props{
			"color":     ColorHash(fmt.Sprintf("face-%d", seq)),
			"opacity":   0.5,
			"wireframe": false,
		}
	default:
		return Props{
			"color":   ColorHash(fmt.Sprintf("tetra-%d", seq))&0x7FFFFF | 0x400000,
			"opacity": 0.6,
		}
	}
}

func (s *Store) lookup(c Class, tokens complex.Simplex) Props {
	if len(tokens) < c.Arity() {
		return nil
	}
	tokens = tokens[:c.Arity()]
	if o, ok := s.overrides[c][storeKey(c, tokens)]; ok {
		return o.props
	}
	if c == Edge {
		if o, ok := s.overrides[c][storeKey(c, complex.Simplex{tokens[1], tokens[0]})]; ok {
			return o.props
		}
	}
	return nil
}

// storeKey keeps vertex and edge keys in their given order and sorts face
// and tetrahedron keys.
func storeKey(c Class, tokens complex.Simplex) string {
	if c == Vertex || c == Edge {
		return tokens.String()
	}
	return tokens.Key()
}
