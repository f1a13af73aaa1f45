// Package complex defines the read-only view of a simplicial complex that the
// visualization pipeline consumes.
//
// A complex is anything that can enumerate its simplices by dimension:
//
//	type Reader interface {
//	    Simplices(ctx context.Context, dim int) ([]Simplex, error)
//	    Dimension(ctx context.Context) (int, error)
//	}
//
// The package ships an in-memory implementation ([Complex]) and a few sample
// complexes. Adapters for other sources live in subpackages:
//
//   - complex/file: JSON and TOML simplex lists
//   - complex/sqlite: SQLite-backed store (modernc.org/sqlite)
//   - complex/mongo: MongoDB collection of simplex documents
//
// # Vertex Tokens
//
// Vertices are opaque tokens, either integers or strings. Tokens have a
// deterministic total order (integers first, numerically; then strings,
// lexicographically) so that vertex indexing is reproducible.
//
// # Tolerance
//
// Nothing in this package checks that a complex is closed under taking faces.
// A face may name a vertex that has no 0-simplex of its own; downstream
// extraction drops what it cannot index.
package complex
