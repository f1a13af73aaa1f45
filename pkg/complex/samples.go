package complex

// Fan returns a hub-and-spoke disc: vertex 0 joined to vertices 1..n, the
// rim 1..n closed into a cycle, and the n triangles (0,i,i+1).
// Edges are listed spokes first, then the rim.
func Fan(n int) *Complex {
	c := New()
	for i := 0; i <= n; i++ {
		c.Add(S(int64(i)))
	}
	for i := 1; i <= n; i++ {
		c.Add(S(0, int64(i)))
	}
	for i := 1; i <= n; i++ {
		c.Add(S(int64(i), int64(i%n+1)))
	}
	for i := 1; i <= n; i++ {
		c.Add(S(0, int64(i), int64(i%n+1)))
	}
	return c
}

// TetrahedronBoundary returns the hollow tetrahedron on vertices 0..3:
// all vertices, edges and triangles but no 3-simplex.
func TetrahedronBoundary() *Complex {
	c := New()
	for _, f := range [][]int64{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}} {
		c.AddClosure(S(f...))
	}
	return c
}

// SolidTetrahedron returns the full closure of the 3-simplex (0,1,2,3).
func SolidTetrahedron() *Complex {
	c := New()
	c.AddClosure(S(0, 1, 2, 3))
	return c
}
