package layout

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/graph"
)

const (
	DefaultIterations = 50
	DefaultScale      = 100.0
	DefaultThreshold  = 1e-4
)

// Options configures the spring embedder.
type Options struct {
	// Iterations caps the number of relaxation steps.
	Iterations int

	// Scale is the largest absolute coordinate in the output.
	Scale float64

	// Seed fixes the initial positions. Zero draws a random seed.
	Seed uint64

	// Threshold stops relaxation early once the mean node displacement per
	// step falls below it.
	Threshold float64
}

// ValidateAndSetDefaults fills zero fields and rejects negative ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout iterations must be non-negative, got %d", o.Iterations)
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "layout scale must be a non-negative number, got %v", o.Scale)
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return nil
}

// Spring is a Layouter running Fruchterman-Reingold in three dimensions.
type Spring struct {
	opts Options
}

// NewSpring returns a spring layouter. Invalid options fall back to the
// defaults field by field.
func NewSpring(opts Options) *Spring {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		opts = Options{Seed: opts.Seed}
		_ = opts.ValidateAndSetDefaults()
	}
	return &Spring{opts: opts}
}

// Options returns the effective options.
func (s *Spring) Options() Options { return s.opts }

// Layout positions every node of g. A graph with no nodes is a layout
// failure; a single node sits at the origin.
func (s *Spring) Layout(ctx context.Context, g *graph.Graph) ([]Position, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, errors.New(errors.ErrCodeLayoutFailure, "cannot lay out an empty graph")
	}
	if n == 1 {
		return []Position{{}}, nil
	}

	seed := s.opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	pos := make([][3]float64, n)
	for i := range pos {
		pos[i] = [3]float64{rng.Float64(), rng.Float64(), rng.Float64()}
	}

	edges := g.Edges()
	k := 1 / math.Sqrt(float64(n))
	temp := 0.1
	cool := temp / float64(s.opts.Iterations+1)
	disp := make([][3]float64, n)

	for iter := 0; iter < s.opts.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range disp {
			disp[i] = [3]float64{}
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d, dist := delta(pos[i], pos[j])
				f := k * k / dist
				for c := range 3 {
					disp[i][c] += d[c] / dist * f
					disp[j][c] -= d[c] / dist * f
				}
			}
		}
		for _, e := range edges {
			d, dist := delta(pos[e.U], pos[e.V])
			f := dist * dist / k
			for c := range 3 {
				disp[e.U][c] -= d[c] / dist * f
				disp[e.V][c] += d[c] / dist * f
			}
		}

		var moved float64
		for i := range pos {
			length := math.Sqrt(disp[i][0]*disp[i][0] + disp[i][1]*disp[i][1] + disp[i][2]*disp[i][2])
			if length < 1e-9 {
				continue
			}
			step := math.Min(length, temp)
			for c := range 3 {
				pos[i][c] += disp[i][c] / length * step
			}
			moved += step
		}
		temp -= cool
		if moved/float64(n) < s.opts.Threshold {
			break
		}
	}

	out := rescale(pos, s.opts.Scale)
	if err := Validate(out, n); err != nil {
		return nil, err
	}
	return out, nil
}

// delta returns a-b and its length, clamped away from zero so coincident
// nodes still push apart.
func delta(a, b [3]float64) ([3]float64, float64) {
	d := [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
	dist := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	return d, math.Max(dist, 0.01)
}

func rescale(pos [][3]float64, scale float64) []Position {
	var center [3]float64
	for _, p := range pos {
		for c := range 3 {
			center[c] += p[c]
		}
	}
	for c := range 3 {
		center[c] /= float64(len(pos))
	}

	var lim float64
	for i := range pos {
		for c := range 3 {
			pos[i][c] -= center[c]
			lim = math.Max(lim, math.Abs(pos[i][c]))
		}
	}

	out := make([]Position, len(pos))
	for i, p := range pos {
		if lim > 0 {
			for c := range 3 {
				p[c] = p[c] / lim * scale
			}
		}
		out[i] = Position{X: p[0], Y: p[1], Z: p[2]}
	}
	return out
}
