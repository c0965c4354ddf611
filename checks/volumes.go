package checks

import (
	"fmt"

	"github.com/meshkit/meshdoctor/geometry"
	"github.com/meshkit/meshdoctor/mesh"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// SmallVolumeOptions configures the small-volumes check.
type SmallVolumeOptions struct {
	// MinVolume reports every cell whose evaluated scalar is strictly
	// below it; the default 0 catches only negative/degenerate cells.
	MinVolume float64 `mapstructure:"min_volume"`
}

// DefaultSmallVolumeOptions reports only inverted or degenerate cells.
func DefaultSmallVolumeOptions() SmallVolumeOptions {
	return SmallVolumeOptions{MinVolume: 0}
}

// EvaluateVolumes computes one scalar per cell: the signed volume, or
// for the easily degenerate types (pyramid, wedge) a normalized
// quality metric with degenerate = 0. A kernel that produces no result
// at all is a fatal error, never a silent zero.
func EvaluateVolumes(m *mesh.Mesh) ([]float64, error) {
	out := make([]float64, m.NumCells())
	for i := range out {
		var (
			v   float64
			err error
		)
		if geometry.DegenerateVolumeTypes[m.Cells[i].Type] {
			v, err = geometry.CellQuality(m, i)
		} else {
			v, err = geometry.CellVolume(m, i)
		}
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// ReportSmallVolumes lists every cell whose evaluated scalar is
// strictly below minVolume, with the value.
func ReportSmallVolumes(m *mesh.Mesh, minVolume float64) ([]CellValue, error) {
	values, err := EvaluateVolumes(m)
	if err != nil {
		return nil, err
	}
	var small []CellValue
	for i, v := range values {
		if v < minVolume {
			small = append(small, CellValue{Cell: i, Value: v})
		}
	}
	return small, nil
}

func newSmallVolumeCheck(log *zap.Logger) (Definition, error) {
	return Definition{
		Name: CheckSmallVolumes,
		Options: func(flat map[string]any) (any, error) {
			o := DefaultSmallVolumeOptions()
			if err := decodeOptions(flat, &o); err != nil {
				return nil, err
			}
			return o, nil
		},
		Action: func(m *mesh.Mesh, opts any) (Result, error) {
			o := opts.(SmallVolumeOptions)
			values, err := EvaluateVolumes(m)
			if err != nil {
				return nil, err
			}
			if len(values) > 0 {
				log.Debug("cell scalars evaluated",
					zap.Float64("min", floats.Min(values)),
					zap.Float64("max", floats.Max(values)))
			}
			var small []CellValue
			for i, v := range values {
				if v < o.MinVolume {
					small = append(small, CellValue{Cell: i, Value: v})
				}
			}
			return SmallVolumeResult{MinVolume: o.MinVolume, Cells: small}, nil
		},
		Display: summaryDisplay,
	}, nil
}
