// Package geometry supplies the numerical kernels the mesh checks rely
// on: per-cell volume and quality, cell-validity bit flags, and an
// incremental spatial point locator.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/meshkit/meshdoctor/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoResult reports that a volume or quality computation produced no
// usable value at all. Callers must treat this as fatal, not as zero.
var ErrNoResult = errors.New("geometry kernel produced no result")

// CellVolume returns the signed volume of cell i. Faces of the cell
// are taken with outward orientation, so inverted cells come out
// negative.
func CellVolume(m *mesh.Mesh, i int) (float64, error) {
	c := m.Cells[i]
	if c.Type == mesh.Tet {
		if err := checkSupport(m, c.Nodes, i); err != nil {
			return 0, err
		}
		p := m.Points
		v := tetVolume(p[c.Nodes[0]], p[c.Nodes[1]], p[c.Nodes[2]], p[c.Nodes[3]])
		return finite(v, i)
	}

	faces := m.Faces(i)
	if faces == nil {
		return 0, fmt.Errorf("%w: cell %d of type %s has no face definition",
			ErrNoResult, i, c.Type)
	}
	var flat []int
	for _, f := range faces {
		flat = append(flat, f...)
	}
	if err := checkSupport(m, flat, i); err != nil {
		return 0, err
	}
	// Divergence theorem over fan-triangulated outward faces
	v := 0.0
	for _, f := range faces {
		if len(f) < 3 {
			return 0, fmt.Errorf("%w: cell %d has a %d-point face", ErrNoResult, i, len(f))
		}
		a := m.Points[f[0]]
		for j := 1; j < len(f)-1; j++ {
			b, c := m.Points[f[j]], m.Points[f[j+1]]
			v += r3.Dot(a, r3.Cross(b, c))
		}
	}
	return finite(v/6, i)
}

func tetVolume(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)), r3.Sub(d, a)) / 6
}

func checkSupport(m *mesh.Mesh, nodes []int, cell int) error {
	for _, n := range nodes {
		if n < 0 || n >= m.NumPoints() {
			return fmt.Errorf("cell %d references point %d outside [0,%d)",
				cell, n, m.NumPoints())
		}
	}
	return nil
}

func finite(v float64, cell int) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: cell %d volume is %v", ErrNoResult, cell, v)
	}
	return v, nil
}
