// Package scene assembles a simplicial complex into a renderable scene
// document.
//
// # Document
//
// A [Document] has exactly four arrays, always present even when empty:
//
//	{
//	  "vertices":   [{"id": "0", "position": {"x": 1, "y": 2, "z": 3}, "data": {...}}],
//	  "edges":      [{"id": "edge-0", "source": 0, "target": 1, "data": {...}}],
//	  "faces":      [{"id": "face-0", "vertices": [0, 1, 2], "data": {...}}],
//	  "tetrahedra": [{"id": "tetra-0", "vertices": [0, 1, 2, 3], "data": {...}}]
//	}
//
// Vertex ids are the dense vertex indices. Element ids carry the element's
// position in the source enumeration, so dropped elements leave gaps.
// The data maps are the resolved material properties.
//
// # Assembler
//
// [Assembler] owns the whole pipeline state: the source, the dimension
// bound, the material store, the layouter and the cached results. Prepare
// computes the document once and returns the cached value until something
// changes:
//
//   - SetSource, SetMaxDim, ClearMaxDim and Invalidate drop the layout and
//     the document.
//   - Any material mutation is picked up by the next Prepare, which
//     re-resolves materials against the cached layout.
//   - InvalidateMaterials forces that re-resolution explicitly.
//
// An Assembler is not safe for concurrent use.
package scene
