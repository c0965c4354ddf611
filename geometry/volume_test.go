package geometry

import (
	"math"
	"testing"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const volTol = 1e-12

func TestCellVolumeStandardShapes(t *testing.T) {
	cases := []struct {
		name string
		m    *mesh.Mesh
		want float64
	}{
		{"unit right tet", mesh.UnitTet(), 1.0 / 6},
		{"inverted tet", mesh.InvertedTet(), -1.0 / 6},
		{"unit cube hex", mesh.UnitCubeHex(), 1},
		{"unit wedge", mesh.UnitWedge(), 0.5},
		{"unit pyramid", mesh.UnitPyramid(), 1.0 / 3},
		{"polyhedral cube", mesh.PolyCube(), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := CellVolume(tc.m, 0)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, v, volTol)
		})
	}
}

func TestCellVolumeMixedMesh(t *testing.T) {
	m := mesh.MixedMesh()
	for i := 0; i < m.NumCells(); i++ {
		v, err := CellVolume(m, i)
		require.NoError(t, err)
		assert.Greater(t, v, 0.0, "cell %d (%s)", i, m.Cells[i].Type)
	}
}

func TestCellVolumeBadSupport(t *testing.T) {
	m := mesh.UnitTet()
	m.Cells[0].Nodes = []int{0, 1, 2, 99}
	_, err := CellVolume(m, 0)
	assert.Error(t, err)

	m = mesh.PolyCube()
	m.Cells[0].Stream = nil
	_, err = CellVolume(m, 0)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestCellVolumeNaNIsFatal(t *testing.T) {
	m := mesh.UnitTet()
	m.Points[0] = r3.Vec{X: math.NaN()}
	_, err := CellVolume(m, 0)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestCellQuality(t *testing.T) {
	w, err := CellQuality(mesh.UnitWedge(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, w, volTol)

	p, err := CellQuality(mesh.UnitPyramid(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt(1.5), p, volTol)

	// flat pyramid: apex dropped into the base plane
	flat := mesh.UnitPyramid()
	flat.Points[4] = r3.Vec{X: 0.5, Y: 0.5, Z: 0}
	q, err := CellQuality(flat, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, q, volTol)

	// collapsed edge
	collapsed := mesh.UnitWedge()
	collapsed.Points[4] = collapsed.Points[3]
	q, err = CellQuality(collapsed, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, q)

	// inverted wedge goes negative
	inv := mesh.UnitWedge()
	inv.Cells[0].Nodes = []int{3, 4, 5, 0, 1, 2}
	q, err = CellQuality(inv, 0)
	require.NoError(t, err)
	assert.Less(t, q, 0.0)

	_, err = CellQuality(mesh.UnitTet(), 0)
	assert.ErrorIs(t, err, ErrNoResult)
}
