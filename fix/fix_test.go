package fix

import (
	"testing"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestApplyOrdering(t *testing.T) {
	m := mesh.MixedMesh()
	// reverse the tet support order, leave everything else alone
	perms := map[mesh.CellType][]int{
		mesh.Tet: {3, 2, 1, 0},
	}
	out, unchanged, err := ApplyOrdering(m, perms)
	require.NoError(t, err)

	assert.Equal(t, []int{8, 9, 7, 4}, out.Cells[2].Nodes)
	assert.Equal(t, m.Cells[0].Nodes, out.Cells[0].Nodes)
	assert.Equal(t, []mesh.CellType{mesh.Hex, mesh.Pyramid}, unchanged)

	// input mesh never mutated
	assert.Equal(t, []int{4, 7, 9, 8}, m.Cells[2].Nodes)
}

func TestApplyOrderingIdentityTwice(t *testing.T) {
	m := mesh.MixedMesh()
	m.CellData["tag"] = mesh.Field{Ints: []int64{1, 2, 3}}
	identity := map[mesh.CellType][]int{
		mesh.Tet:     {0, 1, 2, 3},
		mesh.Hex:     {0, 1, 2, 3, 4, 5, 6, 7},
		mesh.Pyramid: {0, 1, 2, 3, 4},
	}
	once, _, err := ApplyOrdering(m, identity)
	require.NoError(t, err)
	twice, _, err := ApplyOrdering(once, identity)
	require.NoError(t, err)

	assert.Equal(t, m.Points, twice.Points)
	assert.Equal(t, m.Cells, twice.Cells)
	assert.Equal(t, m.CellData, twice.CellData)
	assert.Equal(t, m.PointData, twice.PointData)
}

func TestApplyOrderingRejectsBadPermutations(t *testing.T) {
	m := mesh.UnitTet()
	cases := map[string][]int{
		"too short":    {0, 1, 2},
		"out of range": {0, 1, 2, 4},
		"repeated":     {0, 1, 1, 3},
		"negative":     {0, 1, 2, -1},
	}
	for name, perm := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ApplyOrdering(m, map[mesh.CellType][]int{mesh.Tet: perm})
			assert.ErrorIs(t, err, ErrBadPermutation)
		})
	}

	_, _, err := ApplyOrdering(m, map[mesh.CellType][]int{mesh.Polyhedron: {0}})
	assert.Error(t, err)
}

func TestAssignGlobalIDs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	m := mesh.MixedMesh()
	AssignGlobalIDs(m, true, true, log)
	require.Equal(t, []int64{0, 1, 2}, m.CellData[GlobalCellIDs].Ints)
	require.Len(t, m.PointData[GlobalPointIDs].Ints, m.NumPoints())
	assert.Zero(t, logs.FilterLevelExact(zap.ErrorLevel).Len())

	// second run is a refusal no-op with an error-level message
	before := append([]int64(nil), m.CellData[GlobalCellIDs].Ints...)
	AssignGlobalIDs(m, true, true, log)
	assert.Equal(t, before, m.CellData[GlobalCellIDs].Ints)
	assert.Equal(t, 2, logs.FilterLevelExact(zap.ErrorLevel).Len())
}
