package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/graph"
)

// Position is a point in scene space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Position) finite() bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Layouter computes one position per graph node, indexed by node id.
type Layouter interface {
	Layout(ctx context.Context, g *graph.Graph) ([]Position, error)
}

// Validate checks that positions cover exactly n nodes with finite
// coordinates.
func Validate(positions []Position, n int) error {
	if len(positions) != n {
		return errors.New(errors.ErrCodeLayoutFailure, "layout returned %d positions for %d nodes", len(positions), n)
	}
	for i, p := range positions {
		if !p.finite() {
			return errors.New(errors.ErrCodeLayoutFailure, "node %d has non-finite position %s", i, p)
		}
	}
	return nil
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}
