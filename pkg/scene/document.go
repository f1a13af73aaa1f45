package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/graph"
	"github.com/matzehuels/simplexsight/pkg/layout"
	"github.com/matzehuels/simplexsight/pkg/material"
)

// Document is the assembled scene.
type Document struct {
	Vertices   []VertexRecord `json:"vertices"`
	Edges      []EdgeRecord   `json:"edges"`
	Faces      []CellRecord   `json:"faces"`
	Tetrahedra []CellRecord   `json:"tetrahedra"`
}

// VertexRecord is a positioned vertex.
type VertexRecord struct {
	ID       string          `json:"id"`
	Position layout.Position `json:"position"`
	Data     material.Props  `json:"data"`
}

// EdgeRecord connects two vertex indices in enumeration orientation.
type EdgeRecord struct {
	ID     string         `json:"id"`
	Source int            `json:"source"`
	Target int            `json:"target"`
	Data   material.Props `json:"data"`
}

// CellRecord is a face (3 indices) or a tetrahedron (4 indices).
type CellRecord struct {
	ID       string         `json:"id"`
	Vertices []int          `json:"vertices"`
	Data     material.Props `json:"data"`
}

func newDocument(nv, ne, nf, nt int) *Document {
	return &Document{
		Vertices:   make([]VertexRecord, 0, nv),
		Edges:      make([]EdgeRecord, 0, ne),
		Faces:      make([]CellRecord, 0, nf),
		Tetrahedra: make([]CellRecord, 0, nt),
	}
}

// Len returns the total number of records.
func (d *Document) Len() int {
	return len(d.Vertices) + len(d.Edges) + len(d.Faces) + len(d.Tetrahedra)
}

// Validate checks that every index lies in [0, len(Vertices)) and that
// faces and tetrahedra carry 3 and 4 indices.
func (d *Document) Validate() error {
	n := len(d.Vertices)
	in := func(i int) bool { return i >= 0 && i < n }
	for _, e := range d.Edges {
		if !in(e.Source) || !in(e.Target) {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s references a vertex outside [0,%d)", e.ID, n)
		}
	}
	check := func(cells []CellRecord, arity int, class string) error {
		for _, c := range cells {
			if len(c.Vertices) != arity {
				return errors.New(errors.ErrCodeInvalidInput, "%s %s has %d vertices, want %d", class, c.ID, len(c.Vertices), arity)
			}
			for _, i := range c.Vertices {
				if !in(i) {
					return errors.New(errors.ErrCodeInvalidInput, "%s %s references a vertex outside [0,%d)", class, c.ID, n)
				}
			}
		}
		return nil
	}
	if err := check(d.Faces, 3, "face"); err != nil {
		return err
	}
	return check(d.Tetrahedra, 4, "tetrahedron")
}

// Graph rebuilds the 1-skeleton of the document.
func (d *Document) Graph() *graph.Graph {
	g := graph.New(len(d.Vertices))
	for _, e := range d.Edges {
		_, _ = g.AddEdge(e.Source, e.Target)
	}
	return g
}

// DOTOptions labels and colors graph nodes from the vertex materials.
func (d *Document) DOTOptions() graph.DOTOptions {
	opts := graph.DOTOptions{
		Labels: make([]string, len(d.Vertices)),
		Colors: make([]int, len(d.Vertices)),
	}
	for i, v := range d.Vertices {
		opts.Labels[i] = v.ID
		if s, ok := v.Data["vertex"].(string); ok {
			opts.Labels[i] = s
		}
		if c, err := material.ParseColor(v.Data["color"]); err == nil {
			opts.Colors[i] = c
		}
	}
	return opts
}

// MarshalDocument encodes d as compact JSON.
func MarshalDocument(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return data, nil
}

// UnmarshalDocument decodes and validates a JSON document. Missing arrays
// decode as empty.
func UnmarshalDocument(data []byte) (*Document, error) {
	return ReadJSON(bytes.NewReader(data))
}

// WriteJSON encodes d as indented JSON and writes it to w.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return nil
}

// ExportJSON writes d to a JSON file at path.
func ExportJSON(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ReadJSON decodes a document from r and validates its indices.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	if d.Vertices == nil {
		d.Vertices = []VertexRecord{}
	}
	if d.Edges == nil {
		d.Edges = []EdgeRecord{}
	}
	if d.Faces == nil {
		d.Faces = []CellRecord{}
	}
	if d.Tetrahedra == nil {
		d.Tetrahedra = []CellRecord{}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportJSON reads a document from a JSON file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
