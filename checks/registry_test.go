package checks

import (
	"errors"
	"testing"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRegistryLoadsAllKnownChecks(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	assert.Equal(t, []string{
		CheckCollocatedPoints,
		CheckDuplicateSupportNodes,
		CheckSmallVolumes,
		CheckInvalidCells,
		CheckSupportedElements,
	}, r.Names())
	for _, name := range r.Names() {
		def, ok := r.Lookup(name)
		require.True(t, ok)
		assert.Equal(t, name, def.Name)
	}
}

func TestRegistrySkipsBrokenCheck(t *testing.T) {
	table := DefaultTable()
	// sabotage the middle entry; registration of the rest must survive
	table[2].Build = func(*zap.Logger) (Definition, error) {
		return Definition{}, errors.New("deliberately broken")
	}
	r := NewRegistryFromTable(zap.NewNop(), table)
	assert.Equal(t, []string{
		CheckCollocatedPoints,
		CheckDuplicateSupportNodes,
		CheckInvalidCells,
		CheckSupportedElements,
	}, r.Names())
	_, ok := r.Lookup(CheckSmallVolumes)
	assert.False(t, ok)
}

func TestRunChecksAggregates(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	m := mesh.CollocatedPair(1e-6)

	names := []string{CheckDuplicateSupportNodes, CheckCollocatedPoints}
	results, err := r.RunChecks(m, names, map[string]map[string]any{
		CheckCollocatedPoints: {"tolerance": 1e-5},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	coll, ok := results[CheckCollocatedPoints].(CollocatedResult)
	require.True(t, ok)
	assert.Equal(t, [][]int{{0, 4}, {1, 5}}, coll.Buckets)

	dup, ok := results[CheckDuplicateSupportNodes].(DuplicateSupportResult)
	require.True(t, ok)
	assert.Empty(t, dup.Cells)
}

func TestRunChecksUnknownName(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	_, err := r.RunChecks(mesh.UnitTet(), []string{"no-such-check"}, nil)
	assert.ErrorIs(t, err, ErrUnknownCheck)
}

func TestRunChecksRejectsBadOptions(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	_, err := r.RunChecks(mesh.UnitTet(), []string{CheckSmallVolumes},
		map[string]map[string]any{
			CheckSmallVolumes: {"min_volme": 1.0}, // typo must surface
		})
	assert.Error(t, err)
}

func TestCheckDisplay(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	def, ok := r.Lookup(CheckCollocatedPoints)
	require.True(t, ok)
	s := def.Display(CollocatedResult{Buckets: [][]int{{0, 4}}})
	assert.Contains(t, s, "1 collocated point")
}
