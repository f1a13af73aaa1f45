// Package layout places graph nodes in three-dimensional space.
//
// [Spring] is a Fruchterman-Reingold spring embedder: every pair of nodes
// repels, every edge attracts, and a cooling temperature bounds how far a
// node may move per iteration. Nodes start at random positions in the unit
// cube, so two runs without a fixed seed produce different (but equally
// valid) layouts.
//
// Output positions are centered on the origin and rescaled so the largest
// absolute coordinate equals [Options.Scale]. Every returned coordinate is
// validated as finite; a degenerate result is reported as a
// LAYOUT_FAILURE error instead of being returned.
package layout
