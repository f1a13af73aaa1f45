package scene

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/extract"
	"github.com/matzehuels/simplexsight/pkg/graph"
	"github.com/matzehuels/simplexsight/pkg/layout"
	"github.com/matzehuels/simplexsight/pkg/material"
	"github.com/matzehuels/simplexsight/pkg/observability"
)

// Stats describes the most recent Prepare.
type Stats struct {
	MaxDim int

	Vertices   int
	Edges      int
	Faces      int
	Tetrahedra int

	DroppedEdges      int
	DroppedFaces      int
	DroppedTetrahedra int

	// Layouts and Resolves count how often each stage actually ran.
	Layouts  int
	Resolves int

	ExtractTime time.Duration
	LayoutTime  time.Duration
	ResolveTime time.Duration
}

// Dropped returns the number of elements filtered out for referencing
// unindexed vertices.
func (s Stats) Dropped() int {
	return s.DroppedEdges + s.DroppedFaces + s.DroppedTetrahedra
}

// frame is the material-independent part of a scene.
type frame struct {
	maxDim    int
	index     *extract.Index
	graph     *graph.Graph
	edges     extract.Result
	faces     extract.Result
	tets      extract.Result
	positions []layout.Position
}

// Assembler turns a complex into a cached scene document.
type Assembler struct {
	source    complex.Reader
	maxDim    *int
	materials *material.Store
	layouter  layout.Layouter
	logger    *log.Logger

	frame       *frame
	doc         *Document
	docRevision uint64
	stats       Stats
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLayouter replaces the default spring layouter.
func WithLayouter(l layout.Layouter) Option {
	return func(a *Assembler) {
		if l != nil {
			a.layouter = l
		}
	}
}

// WithMaterials uses an existing material store.
func WithMaterials(s *material.Store) Option {
	return func(a *Assembler) {
		if s != nil {
			a.materials = s
		}
	}
}

// New returns an Assembler reading from source. source may be nil and set
// later with SetSource.
func New(source complex.Reader, opts ...Option) *Assembler {
	a := &Assembler{
		source:    source,
		materials: material.NewStore(),
		layouter:  layout.NewSpring(layout.Options{}),
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetSource replaces the complex and drops every cached result.
func (a *Assembler) SetSource(r complex.Reader) {
	a.source = r
	a.Invalidate()
}

// SetMaxDim bounds the extracted dimensions. A bound above the source's
// dimension is allowed and simply enumerates nothing at those dimensions.
func (a *Assembler) SetMaxDim(dim int) error {
	if err := errors.ValidateMaxDim(dim); err != nil {
		return err
	}
	a.maxDim = &dim
	a.Invalidate()
	return nil
}

// ClearMaxDim falls back to the source's dimension.
func (a *Assembler) ClearMaxDim() {
	a.maxDim = nil
	a.Invalidate()
}

// MaxDim returns the configured bound, if any.
func (a *Assembler) MaxDim() (int, bool) {
	if a.maxDim == nil {
		return 0, false
	}
	return *a.maxDim, true
}

// Materials returns the material store. Mutations are picked up by the
// next Prepare.
func (a *Assembler) Materials() *material.Store { return a.materials }

// SetVertexMaterial merges an override for vertex v.
func (a *Assembler) SetVertexMaterial(v complex.Vertex, props material.Props) error {
	return a.materials.SetVertex(v, props)
}

// SetEdgeMaterial merges an override for the edge (u, v).
func (a *Assembler) SetEdgeMaterial(u, v complex.Vertex, props material.Props) error {
	return a.materials.SetEdge(u, v, props)
}

// SetFaceMaterial merges an override for the face spanned by vs.
func (a *Assembler) SetFaceMaterial(vs complex.Simplex, props material.Props) error {
	return a.materials.SetFace(vs, props)
}

// SetTetrahedronMaterial merges an override for the tetrahedron spanned by vs.
func (a *Assembler) SetTetrahedronMaterial(vs complex.Simplex, props material.Props) error {
	return a.materials.SetTetrahedron(vs, props)
}

// SetDefaultMaterials replaces the class defaults of every class. Keys are
// class tags such as "vertices" or "edges".
func (a *Assembler) SetDefaultMaterials(defaults map[string]material.Props) error {
	byClass := make(map[material.Class]material.Props, len(defaults))
	for tag, props := range defaults {
		c, err := material.ParseClass(tag)
		if err != nil {
			return err
		}
		byClass[c] = props
	}
	return a.materials.SetDefaults(byClass)
}

// Invalidate drops the cached layout and document.
func (a *Assembler) Invalidate() {
	a.frame = nil
	a.doc = nil
}

// InvalidateMaterials drops the cached document but keeps the layout.
func (a *Assembler) InvalidateMaterials() {
	a.doc = nil
}

// Stats returns the statistics of the most recent Prepare.
func (a *Assembler) Stats() Stats { return a.stats }

// Prepare returns the scene document, computing only what changed since
// the previous call. Unchanged inputs return the same *Document.
//
// Elements referencing unindexed vertices are dropped and counted in
// Stats. An unknown material class, a negative bound or a failed layout
// are returned as errors.
func (a *Assembler) Prepare(ctx context.Context) (*Document, error) {
	if a.source == nil {
		return nil, errors.New(errors.ErrCodeInvalidSource, "no complex source set")
	}

	if a.frame == nil {
		f, err := a.build(ctx)
		if err != nil {
			return nil, err
		}
		a.frame = f
		a.doc = nil
	}

	if a.doc != nil && a.docRevision == a.materials.Revision() {
		return a.doc, nil
	}

	rev := a.materials.Revision()
	start := time.Now()
	doc, err := a.resolve(a.frame)
	a.stats.ResolveTime = time.Since(start)
	observability.Pipeline().OnResolveComplete(ctx, docLen(doc), a.stats.ResolveTime, err)
	if err != nil {
		return nil, err
	}
	a.stats.Resolves++
	a.doc, a.docRevision = doc, rev

	a.logger.Debug("resolved materials",
		"elements", doc.Len(),
		"revision", rev,
		"duration", a.stats.ResolveTime)
	return doc, nil
}

func docLen(d *Document) int {
	if d == nil {
		return 0
	}
	return d.Len()
}

func (a *Assembler) effectiveMaxDim(ctx context.Context) (int, error) {
	if a.maxDim != nil {
		return *a.maxDim, nil
	}
	dim, err := a.source.Dimension(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeSource, err, "read complex dimension")
	}
	return max(dim, 0), nil
}

func (a *Assembler) build(ctx context.Context) (*frame, error) {
	maxDim, err := a.effectiveMaxDim(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnExtractStart(ctx, maxDim)
	f, err := a.extract(ctx, maxDim)
	a.stats.ExtractTime = time.Since(start)

	var es observability.ExtractStats
	if f != nil {
		es = observability.ExtractStats{
			Vertices:   f.index.Len(),
			Edges:      len(f.edges.Elements),
			Faces:      len(f.faces.Elements),
			Tetrahedra: len(f.tets.Elements),
			Dropped:    f.edges.Dropped + f.faces.Dropped + f.tets.Dropped,
		}
	}
	observability.Pipeline().OnExtractComplete(ctx, es, a.stats.ExtractTime, err)
	if err != nil {
		return nil, err
	}

	a.stats.MaxDim = maxDim
	a.stats.Vertices = es.Vertices
	a.stats.Edges, a.stats.DroppedEdges = es.Edges, f.edges.Dropped
	a.stats.Faces, a.stats.DroppedFaces = es.Faces, f.faces.Dropped
	a.stats.Tetrahedra, a.stats.DroppedTetrahedra = es.Tetrahedra, f.tets.Dropped

	a.logger.Info("extracted complex",
		"max_dim", maxDim,
		"vertices", es.Vertices,
		"edges", es.Edges,
		"faces", es.Faces,
		"tetrahedra", es.Tetrahedra,
		"duration", a.stats.ExtractTime)
	if es.Dropped > 0 {
		a.logger.Warn("dropped elements referencing unindexed vertices",
			"edges", f.edges.Dropped,
			"faces", f.faces.Dropped,
			"tetrahedra", f.tets.Dropped)
	}

	start = time.Now()
	observability.Pipeline().OnLayoutStart(ctx, f.graph.NodeCount())
	f.positions, err = a.layout(ctx, f.graph)
	a.stats.LayoutTime = time.Since(start)
	observability.Pipeline().OnLayoutComplete(ctx, a.stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}
	a.stats.Layouts++

	a.logger.Info("computed layout",
		"nodes", f.graph.NodeCount(),
		"duration", a.stats.LayoutTime)
	return f, nil
}

func (a *Assembler) extract(ctx context.Context, maxDim int) (*frame, error) {
	idx, err := extract.IndexVertices(ctx, a.source, maxDim)
	if err != nil {
		return nil, err
	}
	g, edges, err := extract.BuildGraph(ctx, a.source, idx)
	if err != nil {
		return nil, err
	}
	faces, err := extract.Elements(ctx, a.source, idx, 2, maxDim)
	if err != nil {
		return nil, err
	}
	tets, err := extract.Elements(ctx, a.source, idx, 3, maxDim)
	if err != nil {
		return nil, err
	}
	return &frame{maxDim: maxDim, index: idx, graph: g, edges: edges, faces: faces, tets: tets}, nil
}

// layout runs the layouter and validates its output. Failures other than
// cancellation are reported as LAYOUT_FAILURE.
func (a *Assembler) layout(ctx context.Context, g *graph.Graph) ([]layout.Position, error) {
	positions, err := a.layouter.Layout(ctx, g)
	if err != nil {
		if ctx.Err() != nil || errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "layout %d nodes", g.NodeCount())
	}
	if err := layout.Validate(positions, g.NodeCount()); err != nil {
		return nil, err
	}
	return positions, nil
}

func (a *Assembler) resolve(f *frame) (*Document, error) {
	doc := newDocument(f.index.Len(), len(f.edges.Elements), len(f.faces.Elements), len(f.tets.Elements))

	for i, v := range f.index.Vertices {
		props, err := a.materials.Resolve(material.Vertex, complex.Simplex{v}, i)
		if err != nil {
			return nil, err
		}
		doc.Vertices = append(doc.Vertices, VertexRecord{
			ID:       strconv.Itoa(i),
			Position: f.positions[i],
			Data:     props,
		})
	}

	for _, e := range f.edges.Elements {
		props, err := a.materials.Resolve(material.Edge, e.Simplex, e.Seq)
		if err != nil {
			return nil, err
		}
		doc.Edges = append(doc.Edges, EdgeRecord{
			ID:     fmt.Sprintf("edge-%d", e.Seq),
			Source: e.Indices[0],
			Target: e.Indices[1],
			Data:   props,
		})
	}

	cells := func(class material.Class, prefix string, elems []extract.Element) ([]CellRecord, error) {
		out := make([]CellRecord, 0, len(elems))
		for _, e := range elems {
			props, err := a.materials.Resolve(class, e.Simplex, e.Seq)
			if err != nil {
				return nil, err
			}
			out = append(out, CellRecord{
				ID:       fmt.Sprintf("%s-%d", prefix, e.Seq),
				Vertices: slices.Clone(e.Indices),
				Data:     props,
			})
		}
		return out, nil
	}

	var err error
	if doc.Faces, err = cells(material.Face, "face", f.faces.Elements); err != nil {
		return nil, err
	}
	if doc.Tetrahedra, err = cells(material.Tetrahedron, "tetra", f.tets.Elements); err != nil {
		return nil, err
	}
	return doc, nil
}
