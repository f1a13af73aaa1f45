package material

import (
	"strings"

	"github.com/matzehuels/simplexsight/pkg/errors"
)

// Class is an element class.
type Class int

const (
	Vertex Class = iota
	Edge
	Face
	Tetrahedron
)

// Classes lists every class in dimension order.
var Classes = []Class{Vertex, Edge, Face, Tetrahedron}

// String returns the plural tag used in presets and scene documents.
func (c Class) String() string {
	switch c {
	case Vertex:
		return "vertices"
	case Edge:
		return "edges"
	case Face:
		return "faces"
	case Tetrahedron:
		return "tetrahedra"
	default:
		return "unknown"
	}
}

// Arity returns the number of tokens that identify an element of class c.
func (c Class) Arity() int { return int(c) + 1 }

// Valid reports whether c is one of the four known classes.
func (c Class) Valid() bool { return c >= Vertex && c <= Tetrahedron }

// ParseClass accepts the singular or plural tag of a class, case
// insensitively.
func ParseClass(tag string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "vertex", "vertices":
		return Vertex, nil
	case "edge", "edges":
		return Edge, nil
	case "face", "faces":
		return Face, nil
	case "tetrahedron", "tetrahedra", "tetra":
		return Tetrahedron, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidClass, "unknown element class %q", tag)
}

func checkClass(c Class) error {
	if !c.Valid() {
		return errors.New(errors.ErrCodeInvalidClass, "unknown element class %d", int(c))
	}
	return nil
}
