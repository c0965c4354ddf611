package geometry

import (
	"fmt"
	"math"

	"github.com/meshkit/meshdoctor/mesh"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// DegenerateVolumeTypes lists the cell types whose raw volume is
// numerically unstable near degeneracy; checks substitute CellQuality
// for these.
var DegenerateVolumeTypes = map[mesh.CellType]bool{
	mesh.Pyramid: true,
	mesh.Prism:   true,
}

// CellQuality returns a normalized scaled-Jacobian metric in [-1,1]
// for cell i: the minimum over the cell corners of the corner Jacobian
// determinant scaled by the corner edge lengths. A fully collapsed
// corner yields 0; inverted corners go negative.
func CellQuality(m *mesh.Mesh, i int) (float64, error) {
	c := m.Cells[i]
	if err := checkSupport(m, c.Nodes, i); err != nil {
		return 0, err
	}
	var corners [][3]r3.Vec
	switch c.Type {
	case mesh.Pyramid:
		corners = pyramidCornerEdges(m, c.Nodes)
	case mesh.Prism:
		corners = prismCornerEdges(m, c.Nodes)
	default:
		return 0, fmt.Errorf("%w: no quality metric for cell %d of type %s",
			ErrNoResult, i, c.Type)
	}

	q := math.Inf(1)
	for _, e := range corners {
		sj := scaledJacobian(e[0], e[1], e[2])
		if math.IsNaN(sj) {
			return 0, fmt.Errorf("%w: cell %d corner Jacobian is NaN", ErrNoResult, i)
		}
		if sj < q {
			q = sj
		}
	}
	return q, nil
}

// scaledJacobian is det[u v w] normalized by the edge lengths, clamped
// to [-1,1]. Zero-length edges report 0 (collapsed corner).
func scaledJacobian(u, v, w r3.Vec) float64 {
	scale := r3.Norm(u) * r3.Norm(v) * r3.Norm(w)
	if scale == 0 {
		return 0
	}
	j := mat.NewDense(3, 3, []float64{
		u.X, u.Y, u.Z,
		v.X, v.Y, v.Z,
		w.X, w.Y, w.Z,
	})
	sj := mat.Det(j) / scale
	return math.Max(-1, math.Min(1, sj))
}

// pyramidCornerEdges returns the edge triads at the four base corners.
// The apex corner has no well-defined Jacobian and is skipped, as is
// conventional for pyramid quality metrics.
func pyramidCornerEdges(m *mesh.Mesh, n []int) [][3]r3.Vec {
	p := m.Points
	apex := p[n[4]]
	out := make([][3]r3.Vec, 0, 4)
	for k := 0; k < 4; k++ {
		at := p[n[k]]
		out = append(out, [3]r3.Vec{
			r3.Sub(p[n[(k+1)%4]], at),
			r3.Sub(p[n[(k+3)%4]], at),
			r3.Sub(apex, at),
		})
	}
	return out
}

// prismCornerEdges returns the edge triads at all six wedge corners,
// ordered so a right-handed wedge yields positive determinants on both
// triangles.
func prismCornerEdges(m *mesh.Mesh, n []int) [][3]r3.Vec {
	p := m.Points
	out := make([][3]r3.Vec, 0, 6)
	for k := 0; k < 3; k++ {
		at := p[n[k]]
		out = append(out, [3]r3.Vec{
			r3.Sub(p[n[(k+1)%3]], at),
			r3.Sub(p[n[(k+2)%3]], at),
			r3.Sub(p[n[k+3]], at),
		})
	}
	for k := 0; k < 3; k++ {
		at := p[n[k+3]]
		out = append(out, [3]r3.Vec{
			r3.Sub(p[n[(k+2)%3+3]], at),
			r3.Sub(p[n[(k+1)%3+3]], at),
			r3.Sub(p[n[k]], at),
		})
	}
	return out
}
