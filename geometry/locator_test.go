package geometry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestInsertUniqueBasic(t *testing.T) {
	min := r3.Vec{}
	max := r3.Vec{X: 1, Y: 1, Z: 1}
	loc, err := NewPointLocator(min, max, 0.25)
	require.NoError(t, err)

	id, inserted := loc.InsertUnique(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	assert.True(t, inserted)
	assert.Equal(t, 0, id)

	// within tolerance of the first point
	id, inserted = loc.InsertUnique(r3.Vec{X: 0.625, Y: 0.5, Z: 0.5})
	assert.False(t, inserted)
	assert.Equal(t, 0, id)

	// exactly at tolerance: a new unique location
	id, inserted = loc.InsertUnique(r3.Vec{X: 0.75, Y: 0.5, Z: 0.5})
	assert.True(t, inserted)
	assert.Equal(t, 1, id)

	assert.Equal(t, 2, loc.NumPoints())
}

func TestInsertUniqueZeroTolerance(t *testing.T) {
	loc, err := NewPointLocator(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 0)
	require.NoError(t, err)

	p := r3.Vec{X: 0.25, Y: 0.75, Z: 0.5}
	id0, inserted := loc.InsertUnique(p)
	assert.True(t, inserted)

	// nearby but distinct points stay unique at tol == 0
	_, inserted = loc.InsertUnique(r3.Vec{X: 0.25 + 1e-14, Y: 0.75, Z: 0.5})
	assert.True(t, inserted)

	// the exact coordinates still collide
	id, inserted := loc.InsertUnique(p)
	assert.False(t, inserted)
	assert.Equal(t, id0, id)
}

func TestNewPointLocatorRejectsNegativeTolerance(t *testing.T) {
	_, err := NewPointLocator(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, -0.5)
	assert.Error(t, err)
}

// TestInsertUniqueAgainstBruteForce cross-checks the octree against a
// quadratic scan on clustered random points, which forces deep octant
// splits around the cluster sites.
func TestInsertUniqueAgainstBruteForce(t *testing.T) {
	const (
		nSites  = 40
		nPoints = 2000
		tol     = 0.05
	)
	rng := rand.New(rand.NewSource(1))
	sites := make([]r3.Vec, nSites)
	for i := range sites {
		sites[i] = r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	}
	points := make([]r3.Vec, nPoints)
	for i := range points {
		s := sites[rng.Intn(nSites)]
		points[i] = r3.Vec{
			X: s.X + 0.2*(rng.Float64()-0.5),
			Y: s.Y + 0.2*(rng.Float64()-0.5),
			Z: s.Z + 0.2*(rng.Float64()-0.5),
		}
	}

	loc, err := NewPointLocator(
		r3.Vec{X: -0.5, Y: -0.5, Z: -0.5}, r3.Vec{X: 1.5, Y: 1.5, Z: 1.5}, tol)
	require.NoError(t, err)

	var accepted []r3.Vec
	for i, p := range points {
		wantInserted := true
		for _, q := range accepted {
			if r3.Norm(r3.Sub(p, q)) < tol {
				wantInserted = false
				break
			}
		}
		_, inserted := loc.InsertUnique(p)
		require.Equal(t, wantInserted, inserted, "point %d", i)
		if inserted {
			accepted = append(accepted, p)
		}
	}
	assert.Equal(t, len(accepted), loc.NumPoints())
}
