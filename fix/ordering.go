// Package fix holds the in-place mesh repairs: support-node ordering
// rewrites and dense global-ID assignment.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meshkit/meshdoctor/mesh"
)

// ErrBadPermutation marks a reordering that is not a bijection over a
// cell type's support positions.
var ErrBadPermutation = errors.New("invalid node permutation")

// ApplyOrdering rewrites the support-node order of every cell whose
// type has a registered permutation: newNodes[i] = oldNodes[perm[i]].
// Cell types without a registered permutation are left untouched and
// returned in unchangedTypes. The result is always a structurally
// independent copy; the input mesh is never mutated.
func ApplyOrdering(m *mesh.Mesh, perms map[mesh.CellType][]int) (*mesh.Mesh, []mesh.CellType, error) {
	for t, perm := range perms {
		n := t.NumNodes()
		if n < 0 {
			return nil, nil, fmt.Errorf("cell type %s has no fixed support size to permute", t)
		}
		if err := validatePermutation(perm, n); err != nil {
			return nil, nil, fmt.Errorf("permutation for %s: %w", t, err)
		}
	}

	out := m.Copy()
	unchangedSet := make(map[mesh.CellType]bool)
	for i := range out.Cells {
		c := &out.Cells[i]
		perm, ok := perms[c.Type]
		if !ok {
			unchangedSet[c.Type] = true
			continue
		}
		if len(c.Nodes) != len(perm) {
			return nil, nil, fmt.Errorf("cell %d of type %s has %d support nodes, permutation covers %d",
				i, c.Type, len(c.Nodes), len(perm))
		}
		old := c.Nodes
		remapped := make([]int, len(old))
		for j, p := range perm {
			remapped[j] = old[p]
		}
		c.Nodes = remapped
	}

	unchanged := make([]mesh.CellType, 0, len(unchangedSet))
	for t := range unchangedSet {
		unchanged = append(unchanged, t)
	}
	sort.Slice(unchanged, func(i, j int) bool { return unchanged[i] < unchanged[j] })
	return out, unchanged, nil
}

// validatePermutation rejects anything that is not a bijection on
// [0, size).
func validatePermutation(perm []int, size int) error {
	if len(perm) != size {
		return fmt.Errorf("%w: length %d, want %d", ErrBadPermutation, len(perm), size)
	}
	seen := make([]bool, size)
	for _, p := range perm {
		if p < 0 || p >= size {
			return fmt.Errorf("%w: entry %d outside [0,%d)", ErrBadPermutation, p, size)
		}
		if seen[p] {
			return fmt.Errorf("%w: entry %d repeated", ErrBadPermutation, p)
		}
		seen[p] = true
	}
	return nil
}
