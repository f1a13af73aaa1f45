package material_test

import (
	"fmt"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/material"
)

func ExampleStore_Resolve() {
	s := material.NewStore()
	_ = s.SetClassDefaults(material.Vertex, material.Props{"color": 0xCCCCCC})
	_ = s.SetVertex(complex.Int(0), material.Props{"color": "#ff0000"})

	for _, v := range []int64{0, 1} {
		p, _ := s.Resolve(material.Vertex, complex.S(v), 0)
		fmt.Printf("vertex %d: %06X size=%v\n", v, p["color"], p["size"])
	}
	// Output:
	// vertex 0: FF0000 size=5
	// vertex 1: CCCCCC size=5
}

func ExampleStore_SetEdge() {
	s := material.NewStore()
	_ = s.SetEdge(complex.Int(1), complex.Int(2), material.Props{"width": 3})

	p, _ := s.Resolve(material.Edge, complex.S(2, 1), 7)
	fmt.Println(p["width"], p["weight"])
	// Output: 3 1
}
