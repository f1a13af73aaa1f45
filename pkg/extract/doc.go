// Package extract turns a complex.Reader into the indexed structures the
// scene is assembled from.
//
// # Stages
//
//  1. [IndexVertices]: collect every vertex token appearing in simplices of
//     dimension 0..maxDim, sort them with [complex.Compare] and assign dense
//     indices [0, N).
//  2. [BuildGraph]: build the undirected 1-skeleton over [0, N). Every index
//     is a node, including isolated ones.
//  3. [Elements]: map the simplices of one dimension onto vertex indices.
//
// Each stage filters independently: an element that references a token
// missing from the index is dropped and counted, never reported as an error.
// This tolerates complexes whose face sets are not closed under the vertex
// set.
package extract
