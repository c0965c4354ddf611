package meshio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, m *mesh.Mesh, binary bool) *mesh.Mesh {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.vtk")
	require.NoError(t, WriteMesh(m, WriteSpec{Path: path, Binary: binary}))
	got, err := ReadMesh(path)
	require.NoError(t, err)
	return got
}

func assertMeshEqual(t *testing.T, want, got *mesh.Mesh) {
	t.Helper()
	require.Len(t, got.Points, len(want.Points))
	for i := range want.Points {
		assert.InDelta(t, want.Points[i].X, got.Points[i].X, 0)
		assert.InDelta(t, want.Points[i].Y, got.Points[i].Y, 0)
		assert.InDelta(t, want.Points[i].Z, got.Points[i].Z, 0)
	}
	require.Len(t, got.Cells, len(want.Cells))
	for i, wc := range want.Cells {
		gc := got.Cells[i]
		assert.Equal(t, wc.Type, gc.Type, "cell %d", i)
		if wc.Type == mesh.Polyhedron {
			require.NotNil(t, gc.Stream, "cell %d", i)
			assert.True(t, wc.Stream.Equal(*gc.Stream), "cell %d stream", i)
		} else {
			assert.Equal(t, wc.Nodes, gc.Nodes, "cell %d", i)
		}
	}
	assert.Equal(t, want.PointData, got.PointData)
	assert.Equal(t, want.CellData, got.CellData)
}

func TestRoundTripMixedMesh(t *testing.T) {
	m := mesh.MixedMesh()
	m.CellData["Region"] = mesh.Field{Ints: []int64{1, 1, 2}}
	m.PointData["Temperature"] = mesh.Field{
		Floats: []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2, 2.25},
	}

	for _, binary := range []bool{false, true} {
		name := "ascii"
		if binary {
			name = "binary"
		}
		t.Run(name, func(t *testing.T) {
			assertMeshEqual(t, m, roundTrip(t, m, binary))
		})
	}
}

func TestRoundTripPolyhedron(t *testing.T) {
	m := mesh.PolyCube()
	for _, binary := range []bool{false, true} {
		got := roundTrip(t, m, binary)
		require.Len(t, got.Cells, 1)
		require.Equal(t, mesh.Polyhedron, got.Cells[0].Type)
		assert.True(t, m.Cells[0].Stream.Equal(*got.Cells[0].Stream))
	}
}

func TestWriteRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vtk")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0644))

	err := WriteMesh(mesh.UnitTet(), WriteSpec{Path: path})
	assert.ErrorIs(t, err, ErrDestinationExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := ReadMesh("grid.cgns")
	assert.Error(t, err)

	err = WriteMesh(mesh.UnitTet(), WriteSpec{Path: filepath.Join(t.TempDir(), "grid.cgns")})
	assert.Error(t, err)
}

func TestReadRejectsMalformed(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"not_vtk":   "hello\n",
		"bad_mode":  "# vtk DataFile Version 3.0\nt\nEBCDIC\nDATASET UNSTRUCTURED_GRID\n",
		"bad_set":   "# vtk DataFile Version 3.0\nt\nASCII\nDATASET POLYDATA\n",
		"bad_count": "# vtk DataFile Version 3.0\nt\nASCII\nDATASET UNSTRUCTURED_GRID\nPOINTS 2 double\n0 0 0\n",
		"orphan_cells": "# vtk DataFile Version 3.0\nt\nASCII\nDATASET UNSTRUCTURED_GRID\n" +
			"POINTS 1 double\n0 0 0\nCELLS 1 2\n1 0\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".vtk")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := ReadMesh(path)
			assert.Error(t, err)
		})
	}
}
