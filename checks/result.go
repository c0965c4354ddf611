package checks

import (
	"fmt"
	"sort"
	"strings"
)

// Result is the outcome of one check. The concrete types below are the
// full set; callers decode per check name.
type Result interface {
	// Summary is a one-line human-readable report with counts
	Summary() string
	// Clean reports whether the check found nothing to flag.
	Clean() bool
	sealed()
}

// CellValue pairs a cell index with its evaluated scalar.
type CellValue struct {
	Cell  int
	Value float64
}

// CollocatedResult lists buckets of point indices that coincide within
// the tolerance. The first member of each bucket is the canonical
// index.
type CollocatedResult struct {
	Buckets [][]int
}

func (r CollocatedResult) Summary() string {
	n := 0
	for _, b := range r.Buckets {
		n += len(b) - 1
	}
	return fmt.Sprintf("%d collocated point(s) in %d bucket(s)", n, len(r.Buckets))
}
func (r CollocatedResult) Clean() bool { return len(r.Buckets) == 0 }
func (CollocatedResult) sealed()       {}

// DuplicateSupportResult lists cells that use the same support point
// more than once.
type DuplicateSupportResult struct {
	Cells []int
}

func (r DuplicateSupportResult) Summary() string {
	return fmt.Sprintf("%d cell(s) with duplicate support nodes %v", len(r.Cells), r.Cells)
}
func (r DuplicateSupportResult) Clean() bool { return len(r.Cells) == 0 }
func (DuplicateSupportResult) sealed()       {}

// SmallVolumeResult lists cells whose evaluated scalar fell strictly
// below the threshold, with the value.
type SmallVolumeResult struct {
	MinVolume float64
	Cells     []CellValue
}

func (r SmallVolumeResult) Summary() string {
	return fmt.Sprintf("%d cell(s) below volume/quality threshold %g", len(r.Cells), r.MinVolume)
}
func (r SmallVolumeResult) Clean() bool { return len(r.Cells) == 0 }
func (SmallVolumeResult) sealed()       {}

// InvalidCellResult maps each defect name to the cells exhibiting it.
// Defect-free cells are omitted entirely.
type InvalidCellResult struct {
	Defects map[string][]int
}

func (r InvalidCellResult) Summary() string {
	if len(r.Defects) == 0 {
		return "no invalid cells"
	}
	names := make([]string, 0, len(r.Defects))
	for name := range r.Defects {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%d", name, len(r.Defects[name]))
	}
	return "invalid cells by defect: " + strings.Join(parts, " ")
}
func (r InvalidCellResult) Clean() bool { return len(r.Defects) == 0 }
func (InvalidCellResult) sealed()       {}

// SupportedResult lists cells whose shape the engine cannot process.
type SupportedResult struct {
	Unsupported []int
}

func (r SupportedResult) Summary() string {
	return fmt.Sprintf("%d unsupported cell(s) %v", len(r.Unsupported), r.Unsupported)
}
func (r SupportedResult) Clean() bool { return len(r.Unsupported) == 0 }
func (SupportedResult) sealed()       {}
