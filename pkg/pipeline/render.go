package pipeline

import (
	"bytes"

	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/graph"
	"github.com/matzehuels/simplexsight/pkg/scene"
)

// Render encodes doc in every requested format. DOT and SVG draw the
// 1-skeleton with vertex labels and colors taken from the materials.
func Render(doc *scene.Document, formats []string) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(formats))
	var dot string
	for _, format := range formats {
		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			if err := scene.WriteJSON(doc, &buf); err != nil {
				return nil, err
			}
			out[format] = buf.Bytes()
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = graph.ToDOT(doc.Graph(), doc.DOTOptions())
			}
			if format == FormatDOT {
				out[format] = []byte(dot)
				continue
			}
			svg, err := graph.RenderSVG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
			}
			out[format] = svg
		}
	}
	return out, nil
}
