package checks

import (
	"runtime"
	"sort"
	"sync"

	"github.com/meshkit/meshdoctor/mesh"
	"go.uber.org/zap"
)

// SupportedOptions configures the supported-elements check. The
// per-cell predicate is embarrassingly parallel, so the check fans the
// cells out over a worker pool purely as a throughput optimization;
// there are no ordering or cancellation semantics beyond waiting for
// all chunks.
type SupportedOptions struct {
	Workers   int `mapstructure:"workers"`
	ChunkSize int `mapstructure:"chunk_size"`
}

// DefaultSupportedOptions sizes the pool to the machine.
func DefaultSupportedOptions() SupportedOptions {
	return SupportedOptions{Workers: runtime.NumCPU(), ChunkSize: 1024}
}

// CellSupported reports whether the engine can process cell i: a known
// fixed-template type with the full support-node list, or a polyhedron
// with at least four faces of at least three points each.
func CellSupported(m *mesh.Mesh, i int) bool {
	c := m.Cells[i]
	switch c.Type {
	case mesh.Tet, mesh.Hex, mesh.Prism, mesh.Pyramid:
		if len(c.Nodes) != c.Type.NumNodes() {
			return false
		}
		for _, n := range c.Nodes {
			if n < 0 || n >= m.NumPoints() {
				return false
			}
		}
		return true
	case mesh.Polyhedron:
		if c.Stream == nil || c.Stream.NumFaces() < 4 {
			return false
		}
		for fi := 0; fi < c.Stream.NumFaces(); fi++ {
			f := c.Stream.Face(fi)
			if len(f) < 3 {
				return false
			}
			for _, n := range f {
				if n < 0 || n >= m.NumPoints() {
					return false
				}
			}
		}
		return true
	default:
		return false
	}
}

// FindUnsupportedCells runs CellSupported over every cell, fanning
// chunks of cells across workers, and returns the offenders in index
// order.
func FindUnsupportedCells(m *mesh.Mesh, opts SupportedOptions) []int {
	chunks := PartitionBySize(m.NumCells(), opts.ChunkSize)
	if len(chunks) == 0 {
		return nil
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	var (
		mu  sync.Mutex
		bad []int
		wg  sync.WaitGroup
	)
	work := make(chan [2]int, len(chunks))
	for _, c := range chunks {
		work <- c
	}
	close(work)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			var local []int
			for c := range work {
				for i := c[0]; i < c[1]; i++ {
					if !CellSupported(m, i) {
						local = append(local, i)
					}
				}
			}
			if len(local) > 0 {
				mu.Lock()
				bad = append(bad, local...)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	sort.Ints(bad)
	return bad
}

func newSupportedCheck(_ *zap.Logger) (Definition, error) {
	return Definition{
		Name: CheckSupportedElements,
		Options: func(flat map[string]any) (any, error) {
			o := DefaultSupportedOptions()
			if err := decodeOptions(flat, &o); err != nil {
				return nil, err
			}
			return o, nil
		},
		Action: func(m *mesh.Mesh, opts any) (Result, error) {
			o := opts.(SupportedOptions)
			return SupportedResult{Unsupported: FindUnsupportedCells(m, o)}, nil
		},
		Display: summaryDisplay,
	}, nil
}
