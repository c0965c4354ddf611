package checks

import (
	"fmt"

	"github.com/meshkit/meshdoctor/geometry"
	"github.com/meshkit/meshdoctor/mesh"
	"go.uber.org/zap"
)

// InvalidCellOptions configures the invalid-cells check.
type InvalidCellOptions struct {
	// MinDistance is the tolerance below which two cell features count
	// as touching/intersecting. 0 is valid but prone to false
	// positives on adjacent faces.
	MinDistance float64 `mapstructure:"min_distance"`
}

// DefaultInvalidCellOptions uses a tight touch tolerance.
func DefaultInvalidCellOptions() InvalidCellOptions {
	return InvalidCellOptions{MinDistance: 1e-9}
}

// ClassifyInvalidCells runs the geometric validity predicates over
// every cell and groups the offenders by defect name. Cells with no
// set bits are omitted entirely. Negative minDistance fails before any
// computation runs.
func ClassifyInvalidCells(m *mesh.Mesh, minDistance float64, log *zap.Logger) (map[string][]int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if minDistance < 0 {
		return nil, fmt.Errorf("minDistance must be >= 0, got %v", minDistance)
	}
	if minDistance == 0 {
		log.Warn("minDistance is 0, adjacent faces may register as intersecting")
	}
	defects := make(map[string][]int)
	for i := 0; i < m.NumCells(); i++ {
		flags, err := geometry.CheckCell(m, i, minDistance)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		for _, name := range flags.Names() {
			defects[name] = append(defects[name], i)
		}
	}
	return defects, nil
}

func newInvalidCellCheck(log *zap.Logger) (Definition, error) {
	return Definition{
		Name: CheckInvalidCells,
		Options: func(flat map[string]any) (any, error) {
			o := DefaultInvalidCellOptions()
			if err := decodeOptions(flat, &o); err != nil {
				return nil, err
			}
			if o.MinDistance < 0 {
				return nil, fmt.Errorf("min_distance must be >= 0, got %v", o.MinDistance)
			}
			return o, nil
		},
		Action: func(m *mesh.Mesh, opts any) (Result, error) {
			o := opts.(InvalidCellOptions)
			defects, err := ClassifyInvalidCells(m, o.MinDistance, log)
			if err != nil {
				return nil, err
			}
			return InvalidCellResult{Defects: defects}, nil
		},
		Display: summaryDisplay,
	}, nil
}
