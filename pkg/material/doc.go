// Package material resolves the visual properties of scene elements.
//
// Every element class (vertices, edges, faces, tetrahedra) resolves its
// properties from three layers, merged left to right:
//
//  1. a built-in baseline with a deterministic hash color,
//  2. the class defaults configured with [Store.SetClassDefaults],
//  3. the per-element override configured with [Store.SetOverride].
//
// Each layer is partial: a key set in a later layer replaces the same key
// from an earlier one and every other key passes through. Property sets are
// open maps; keys the package does not know about are kept verbatim.
//
// # Override keys
//
// Vertex overrides are keyed by the vertex token. Edge overrides are keyed
// by the ordered token pair and looked up forward first, then reversed.
// Face and tetrahedron overrides are keyed by the sorted token tuple, so
// (3,1,2) and (1,2,3) address the same face.
//
// # Presets
//
// A [Preset] is the serializable form of a Store. Presets are read from and
// written to YAML, TOML or JSON files with [LoadFile] and [WriteFile].
package material
