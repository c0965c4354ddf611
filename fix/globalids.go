package fix

import (
	"github.com/meshkit/meshdoctor/mesh"
	"go.uber.org/zap"
)

// Field names for the dense identifier arrays.
const (
	GlobalCellIDs  = "GlobalCellIds"
	GlobalPointIDs = "GlobalPointIds"
)

// AssignGlobalIDs writes a dense 0..n-1 identifier array for cells
// and/or points, in original index order. A kind that already carries
// an identifier array is left untouched and reported at error level;
// the rest of the run continues.
func AssignGlobalIDs(m *mesh.Mesh, doCells, doPoints bool, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	if doCells {
		if _, exists := m.CellData[GlobalCellIDs]; exists {
			log.Error("mesh already carries global cell ids, not overwriting",
				zap.String("field", GlobalCellIDs))
		} else {
			m.CellData[GlobalCellIDs] = mesh.Field{Ints: denseIDs(m.NumCells())}
			log.Info("assigned global cell ids", zap.Int("cells", m.NumCells()))
		}
	}
	if doPoints {
		if _, exists := m.PointData[GlobalPointIDs]; exists {
			log.Error("mesh already carries global point ids, not overwriting",
				zap.String("field", GlobalPointIDs))
		} else {
			m.PointData[GlobalPointIDs] = mesh.Field{Ints: denseIDs(m.NumPoints())}
			log.Info("assigned global point ids", zap.Int("points", m.NumPoints()))
		}
	}
}

func denseIDs(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i)
	}
	return ids
}
