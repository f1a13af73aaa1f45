// Package pkg provides the core libraries for Simplexsight.
//
// # Overview
//
// Simplexsight turns a simplicial complex into a renderable 3D scene: a
// positioned vertex set plus styled edges, faces and tetrahedra. The pkg
// directory is organized into three areas:
//
//  1. Core - the scene pipeline ([extract], [layout], [material], [scene])
//  2. Sources - complex readers ([complex], [complex/file], [complex/sqlite],
//     [complex/mongo])
//  3. Infrastructure - [pipeline], [cache], [config], [observability],
//     [errors]
//
// # Architecture
//
// The typical data flow:
//
//	complex file / SQLite / MongoDB
//	         ↓
//	    [complex] Reader (simplices per dimension)
//	         ↓
//	    [extract] (vertex index, 1-skeleton, faces, tetrahedra)
//	         ↓
//	    [layout] (3D spring embedding)        [material] (three-tier resolution)
//	         ↓                                     ↓
//	    [scene] Document (vertices, edges, faces, tetrahedra)
//	         ↓
//	    JSON / DOT / SVG output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/simplexsight/pkg/complex"
//	    "github.com/matzehuels/simplexsight/pkg/material"
//	    "github.com/matzehuels/simplexsight/pkg/scene"
//	)
//
//	asm := scene.New(complex.Fan(6))
//	_ = asm.SetVertexMaterial(complex.Int(0), material.Props{"color": "#ff0000"})
//	doc, err := asm.Prepare(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = scene.WriteJSON(doc, os.Stdout)
//
// # Main Packages
//
// [extract] - Vertex indexing and element enumeration. Elements that
// reference vertices outside the index are dropped and counted.
//
// [layout] - Force-directed placement in three dimensions, rescaled so the
// largest absolute coordinate equals the configured scale.
//
// [material] - Baseline, class default and per-element override layers with
// deterministic hash colors. Presets load from YAML, TOML or JSON.
//
// [scene] - The Assembler ties the stages together and caches its result
// until the source, the dimension bound or the materials change.
//
// [graph] - Undirected 1-skeleton adjacency with Graphviz DOT export.
//
// [pipeline] - Source resolution, caching and artifact rendering shared by
// the CLI and embedding hosts.
//
// [cache] - File, memory, Redis and no-op caches keyed by content hashes.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/scene/...              # Specific package
//	go test -run Example                 # Examples only
//
// [extract]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/extract
// [layout]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/layout
// [material]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/material
// [scene]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/scene
// [complex]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/complex
// [complex/file]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/complex/file
// [complex/sqlite]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/complex/sqlite
// [complex/mongo]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/complex/mongo
// [graph]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/simplexsight/pkg/errors
package pkg
