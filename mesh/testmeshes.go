package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Standard small meshes used across the package tests. Kept out of the
// _test files so the geometry, checks and fix packages can share them.

// UnitTet is the right tetrahedron (0,0,0),(1,0,0),(0,1,0),(0,0,1)
// with volume 1/6.
func UnitTet() *Mesh {
	m := NewMesh()
	m.Points = []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	m.Cells = []Cell{{Type: Tet, Nodes: []int{0, 1, 2, 3}}}
	return m
}

// InvertedTet is UnitTet with two nodes swapped, giving volume -1/6.
func InvertedTet() *Mesh {
	m := UnitTet()
	m.Cells[0].Nodes = []int{0, 2, 1, 3}
	return m
}

func cubeCorners() []r3.Vec {
	return []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 1, Z: 1},
	}
}

// UnitCubeHex is the unit cube as a single hex with volume 1.
func UnitCubeHex() *Mesh {
	m := NewMesh()
	m.Points = cubeCorners()
	m.Cells = []Cell{{Type: Hex, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}}}
	return m
}

// UnitPyramid has the unit square base at z=0 and apex at the base
// center, height 1 (volume 1/3).
func UnitPyramid() *Mesh {
	m := NewMesh()
	m.Points = []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0.5, Y: 0.5, Z: 1},
	}
	m.Cells = []Cell{{Type: Pyramid, Nodes: []int{0, 1, 2, 3, 4}}}
	return m
}

// UnitWedge is the unit cube cut along a diagonal plane: triangular
// cross-section in xy extruded along z, volume 1/2.
func UnitWedge() *Mesh {
	m := NewMesh()
	m.Points = []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 1},
	}
	m.Cells = []Cell{{Type: Prism, Nodes: []int{0, 1, 2, 3, 4, 5}}}
	return m
}

// cubeStreamFaces lists the unit cube faces with outward orientation,
// in the point numbering of cubeCorners.
func cubeStreamFaces() [][]int {
	return [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
	}
}

// PolyCube is the unit cube expressed as a single polyhedron cell with
// an outward-oriented six-face stream.
func PolyCube() *Mesh {
	m := NewMesh()
	m.Points = cubeCorners()
	fs := NewFaceStream(cubeStreamFaces())
	m.Cells = []Cell{{Type: Polyhedron, Stream: &fs}}
	return m
}

// PolyCubeFlipped is PolyCube with the named faces reversed, so those
// faces point inward.
func PolyCubeFlipped(faces ...int) *Mesh {
	m := PolyCube()
	flipped, err := m.Cells[0].Stream.FlipFaces(faces)
	if err != nil {
		panic(err)
	}
	m.Cells[0].Stream = &flipped
	return m
}

// MixedMesh stacks a hex with a pyramid on top sharing the hex top
// face, plus a tet glued to one pyramid face.
func MixedMesh() *Mesh {
	m := NewMesh()
	m.Points = append(cubeCorners(),
		r3.Vec{X: 0.5, Y: 0.5, Z: 2},    // 8: pyramid apex
		r3.Vec{X: -0.5, Y: 0.5, Z: 1.5}, // 9: tet tip
	)
	m.Cells = []Cell{
		{Type: Hex, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{Type: Pyramid, Nodes: []int{4, 5, 6, 7, 8}},
		{Type: Tet, Nodes: []int{4, 7, 9, 8}},
	}
	return m
}

// CollocatedPair returns UnitTet plus two extra points within eps of
// point 0 and an exact duplicate of point 1.
func CollocatedPair(eps float64) *Mesh {
	m := UnitTet()
	m.Points = append(m.Points,
		r3.Vec{X: eps / 2, Y: 0, Z: 0}, // 4: within eps of 0
		r3.Vec{X: 1, Y: 0, Z: 0},       // 5: exact duplicate of 1
	)
	return m
}

// DegenerateSupportTet uses the same point twice in one cell.
func DegenerateSupportTet() *Mesh {
	m := UnitTet()
	m.Cells[0].Nodes = []int{0, 1, 1, 3}
	return m
}
