package checks

import (
	"github.com/meshkit/meshdoctor/mesh"
	"go.uber.org/zap"
)

// FindDuplicateSupportNodes flags every cell whose support-node list
// uses the same point index more than once. This is a per-cell check,
// orthogonal to cross-cell collocation.
func FindDuplicateSupportNodes(m *mesh.Mesh) []int {
	var cells []int
	seen := make(map[int]bool)
	for i := 0; i < m.NumCells(); i++ {
		nodes := m.SupportNodes(i)
		if m.Cells[i].Type == mesh.Polyhedron {
			// stream nodes repeat across faces by construction; a
			// duplicate means reuse within one face
			if polyhedronFaceDuplicates(m.Cells[i]) {
				cells = append(cells, i)
			}
			continue
		}
		for k := range seen {
			delete(seen, k)
		}
		dup := false
		for _, n := range nodes {
			if seen[n] {
				dup = true
				break
			}
			seen[n] = true
		}
		if dup {
			cells = append(cells, i)
		}
	}
	return cells
}

func polyhedronFaceDuplicates(c mesh.Cell) bool {
	if c.Stream == nil {
		return false
	}
	for fi := 0; fi < c.Stream.NumFaces(); fi++ {
		f := c.Stream.Face(fi)
		seen := make(map[int]bool, len(f))
		for _, n := range f {
			if seen[n] {
				return true
			}
			seen[n] = true
		}
	}
	return false
}

func newDuplicateSupportCheck(_ *zap.Logger) (Definition, error) {
	return Definition{
		Name: CheckDuplicateSupportNodes,
		Options: func(flat map[string]any) (any, error) {
			var o struct{}
			if err := decodeOptions(flat, &o); err != nil {
				return nil, err
			}
			return o, nil
		},
		Action: func(m *mesh.Mesh, _ any) (Result, error) {
			return DuplicateSupportResult{Cells: FindDuplicateSupportNodes(m)}, nil
		},
		Display: summaryDisplay,
	}, nil
}
