package checks

import (
	"fmt"

	"github.com/meshkit/meshdoctor/geometry"
	"github.com/meshkit/meshdoctor/mesh"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// CollocatedOptions configures the collocated-points check.
type CollocatedOptions struct {
	// Tolerance is the distance below which two points count as the
	// same location; 0 detects exact coincidence only.
	Tolerance float64 `mapstructure:"tolerance"`
}

// DefaultCollocatedOptions matches the common case of exactly
// duplicated nodes from mesh concatenation.
func DefaultCollocatedOptions() CollocatedOptions {
	return CollocatedOptions{Tolerance: 1e-9}
}

// FindCollocatedBuckets reports all buckets of point indices that
// coincide within tolerance. Points are inserted in original index
// order, so each bucket's first member is the lowest original index
// and is the canonical kept point. Buckets always have at least two
// members and are pairwise disjoint.
func FindCollocatedBuckets(points []r3.Vec, tolerance float64, log *zap.Logger) ([][]int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("collocation: %w: got %v", geometry.ErrNegativeTolerance, tolerance)
	}
	if tolerance == 0 {
		log.Warn("collocation tolerance is 0, only exactly coincident points are found")
	}
	if len(points) == 0 {
		return nil, nil
	}

	min, max := pointBounds(points)
	loc, err := geometry.NewPointLocator(min, max, tolerance)
	if err != nil {
		return nil, err
	}

	// slot -> original index of the canonical point, and its bucket
	canonical := make([]int, 0, len(points))
	buckets := make(map[int][]int)
	for i, p := range points {
		slot, inserted := loc.InsertUnique(p)
		if inserted {
			canonical = append(canonical, i)
			continue
		}
		keep := canonical[slot]
		if buckets[keep] == nil {
			buckets[keep] = []int{keep}
		}
		buckets[keep] = append(buckets[keep], i)
	}

	// report in canonical-index order
	var out [][]int
	for _, keep := range canonical {
		if b := buckets[keep]; b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func pointBounds(points []r3.Vec) (min, max r3.Vec) {
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return
}

func newCollocatedCheck(log *zap.Logger) (Definition, error) {
	return Definition{
		Name: CheckCollocatedPoints,
		Options: func(flat map[string]any) (any, error) {
			o := DefaultCollocatedOptions()
			if err := decodeOptions(flat, &o); err != nil {
				return nil, err
			}
			return o, nil
		},
		Action: func(m *mesh.Mesh, opts any) (Result, error) {
			o := opts.(CollocatedOptions)
			buckets, err := FindCollocatedBuckets(m.Points, o.Tolerance, log)
			if err != nil {
				return nil, err
			}
			return CollocatedResult{Buckets: buckets}, nil
		},
		Display: summaryDisplay,
	}, nil
}
