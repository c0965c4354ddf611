package checks

import (
	"math/rand"
	"testing"

	"github.com/meshkit/meshdoctor/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFindCollocatedBuckets(t *testing.T) {
	m := mesh.CollocatedPair(1e-6)
	buckets, err := FindCollocatedBuckets(m.Points, 1e-5, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 4}, {1, 5}}, buckets)
}

func TestFindCollocatedBucketsZeroTolerance(t *testing.T) {
	m := mesh.CollocatedPair(1e-6)
	// only the exact duplicate collapses at tolerance 0
	buckets, err := FindCollocatedBuckets(m.Points, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 5}}, buckets)
}

func TestFindCollocatedBucketsNegativeTolerance(t *testing.T) {
	_, err := FindCollocatedBuckets(mesh.UnitTet().Points, -1, nil)
	assert.Error(t, err)
}

func TestFindCollocatedBucketsSeparatedPoints(t *testing.T) {
	buckets, err := FindCollocatedBuckets(mesh.UnitTet().Points, 0.5, nil)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestFindCollocatedBucketsInvariants(t *testing.T) {
	const tol = 0.08
	rng := rand.New(rand.NewSource(7))
	points := make([]r3.Vec, 500)
	for i := range points {
		points[i] = r3.Vec{
			X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64(),
		}
	}
	buckets, err := FindCollocatedBuckets(points, tol, nil)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, b := range buckets {
		require.GreaterOrEqual(t, len(b), 2)
		// canonical member is the lowest original index, kept first
		for _, idx := range b[1:] {
			assert.Greater(t, idx, b[0])
		}
		// disjoint
		for _, idx := range b {
			assert.False(t, seen[idx], "index %d in two buckets", idx)
			seen[idx] = true
		}
	}
}
