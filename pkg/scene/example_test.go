package scene_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/material"
	"github.com/matzehuels/simplexsight/pkg/scene"
)

func ExampleAssembler_Prepare() {
	asm := scene.New(complex.Fan(6))
	_ = asm.SetVertexMaterial(complex.Int(0), material.Props{"color": 0xFF0000})

	doc, err := asm.Prepare(context.Background())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(len(doc.Vertices), len(doc.Edges), len(doc.Faces), len(doc.Tetrahedra))
	fmt.Printf("%s %06X\n", doc.Edges[0].ID, doc.Vertices[0].Data["color"])
	// Output:
	// 7 12 6 0
	// edge-0 FF0000
}
