package geometry

import (
	"testing"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const touchTol = 1e-9

func TestCheckCellValidShapes(t *testing.T) {
	meshes := map[string]*mesh.Mesh{
		"tet":     mesh.UnitTet(),
		"hex":     mesh.UnitCubeHex(),
		"wedge":   mesh.UnitWedge(),
		"pyramid": mesh.UnitPyramid(),
		"poly":    mesh.PolyCube(),
	}
	for name, m := range meshes {
		for i := 0; i < m.NumCells(); i++ {
			flags, err := CheckCell(m, i, touchTol)
			require.NoError(t, err)
			assert.Equal(t, Invalidity(0), flags, "%s cell %d: %s", name, i, flags)
		}
	}
	mixed := mesh.MixedMesh()
	for i := 0; i < mixed.NumCells(); i++ {
		flags, err := CheckCell(mixed, i, touchTol)
		require.NoError(t, err)
		assert.Equal(t, Invalidity(0), flags, "mixed cell %d: %s", i, flags)
	}
}

func TestCheckCellRejectsNegativeDistance(t *testing.T) {
	_, err := CheckCell(mesh.UnitTet(), 0, -1e-6)
	assert.Error(t, err)
}

func TestCheckCellWrongNumberOfPoints(t *testing.T) {
	m := mesh.UnitTet()
	m.Cells[0].Nodes = []int{0, 1, 2}
	flags, err := CheckCell(m, 0, touchTol)
	require.NoError(t, err)
	assert.Equal(t, WrongNumberOfPoints, flags)

	p := mesh.PolyCube()
	fs := mesh.NewFaceStream([][]int{{0, 3, 2, 1}, {4, 5, 6, 7}})
	p.Cells[0].Stream = &fs
	flags, err = CheckCell(p, 0, touchTol)
	require.NoError(t, err)
	assert.Equal(t, WrongNumberOfPoints, flags)
}

func TestCheckCellMisorientedFaces(t *testing.T) {
	m := mesh.PolyCubeFlipped(0)
	flags, err := CheckCell(m, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&FacesOrientedIncorrectly)

	// a fully inverted cell is all-faces-misoriented
	inv := mesh.InvertedTet()
	flags, err = CheckCell(inv, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&FacesOrientedIncorrectly)
}

func TestCheckCellDegenerateFaces(t *testing.T) {
	p := mesh.PolyCube()
	faces := p.Cells[0].Stream.Faces()
	faces[1] = []int{4, 5, 5, 7} // repeated support point in one face
	fs := mesh.NewFaceStream(faces)
	p.Cells[0].Stream = &fs
	flags, err := CheckCell(p, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&DegenerateFaces)
}

func TestCheckCellNonPlanarFaces(t *testing.T) {
	m := mesh.UnitCubeHex()
	m.Points[6] = r3.Vec{X: 1, Y: 1, Z: 1.5}
	flags, err := CheckCell(m, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&NonPlanarFaces)

	// generous tolerance accepts the same warp
	flags, err = CheckCell(m, 0, 1.0)
	require.NoError(t, err)
	assert.Zero(t, flags&NonPlanarFaces)
}

func TestCheckCellNoncontiguousEdges(t *testing.T) {
	p := mesh.PolyCube()
	faces := p.Cells[0].Stream.Faces()[:5] // drop one face: open shell
	fs := mesh.NewFaceStream(faces)
	p.Cells[0].Stream = &fs
	flags, err := CheckCell(p, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&NoncontiguousEdges)
}

func TestCheckCellIntersectingEdges(t *testing.T) {
	// bottom face rewired into a bowtie: its diagonals cross
	p := mesh.PolyCube()
	faces := p.Cells[0].Stream.Faces()
	faces[0] = []int{0, 2, 3, 1}
	fs := mesh.NewFaceStream(faces)
	p.Cells[0].Stream = &fs
	flags, err := CheckCell(p, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&IntersectingEdges)
}

func TestCheckCellIntersectingFaces(t *testing.T) {
	// tet plus a detached triangle piercing its bottom face
	m := mesh.UnitTet()
	m.Points = append(m.Points,
		r3.Vec{X: 0.2, Y: 0.2, Z: -0.3},
		r3.Vec{X: 0.3, Y: 0.2, Z: 0.3},
		r3.Vec{X: 0.1, Y: 0.3, Z: 0.3},
	)
	faces := mesh.CellFaces(mesh.Tet, []int{0, 1, 2, 3})
	faces = append(faces, []int{4, 5, 6})
	fs := mesh.NewFaceStream(faces)
	m.Cells[0] = mesh.Cell{Type: mesh.Polyhedron, Stream: &fs}
	flags, err := CheckCell(m, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&IntersectingFaces)
}

func TestCheckCellNonconvex(t *testing.T) {
	// cube corner dented inward
	m := mesh.UnitCubeHex()
	m.Points[6] = r3.Vec{X: 0.6, Y: 0.6, Z: 0.6}
	flags, err := CheckCell(m, 0, touchTol)
	require.NoError(t, err)
	assert.NotZero(t, flags&Nonconvex)
}

func TestInvalidityDecoding(t *testing.T) {
	assert.Equal(t, "Valid", Invalidity(0).String())
	v := IntersectingFaces | DegenerateFaces
	assert.Equal(t, []string{"IntersectingFaces", "DegenerateFaces"}, v.Names())
	assert.Len(t, InvalidityFlagNames(), 8)
	assert.Equal(t, Invalidity(0x01), WrongNumberOfPoints)
	assert.Equal(t, Invalidity(0x80), DegenerateFaces)
}
