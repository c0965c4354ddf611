package checks

import (
	"testing"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyInvalidCells(t *testing.T) {
	defects, err := ClassifyInvalidCells(mesh.MixedMesh(), 1e-9, nil)
	require.NoError(t, err)
	assert.Empty(t, defects)

	m := mesh.MixedMesh()
	m.Cells[2].Nodes = []int{4, 7, 9} // truncated tet
	m.Cells = append(m.Cells, mesh.Cell{Type: mesh.Tet, Nodes: []int{0, 2, 1, 4}})
	defects, err = ClassifyInvalidCells(m, 1e-9, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, defects["WrongNumberOfPoints"])
	assert.Contains(t, defects["FacesOrientedIncorrectly"], 3)
}

func TestClassifyInvalidCellsNegativeDistance(t *testing.T) {
	_, err := ClassifyInvalidCells(mesh.UnitTet(), -0.1, nil)
	assert.Error(t, err)
}
