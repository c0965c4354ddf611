package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// CellType represents the supported cell shapes
type CellType int

const (
	Tet CellType = iota
	Hex
	Prism
	Pyramid
	Polyhedron
)

func (c CellType) String() string {
	return [...]string{"Tet", "Hex", "Prism", "Pyramid", "Polyhedron"}[c]
}

// NumNodes returns the support-node count for fixed-template cell types.
// Polyhedron cells carry a face stream instead and return -1.
func (c CellType) NumNodes() int {
	switch c {
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	default:
		return -1
	}
}

// CellTypeByName maps config/file spellings to cell types
var CellTypeByName = map[string]CellType{
	"tet":        Tet,
	"tetra":      Tet,
	"hex":        Hex,
	"prism":      Prism,
	"wedge":      Prism,
	"pyramid":    Pyramid,
	"polyhedron": Polyhedron,
}

// Cell is a (type, support nodes) pair. Polyhedron cells use Stream in
// place of Nodes; for all other types Stream is nil.
type Cell struct {
	Type   CellType
	Nodes  []int
	Stream *FaceStream
}

// Field is a per-point or per-cell tagged value array. Exactly one of
// Ints or Floats is populated.
type Field struct {
	Ints   []int64
	Floats []float64
}

// Mesh represents an unstructured mesh of mixed cell types
type Mesh struct {
	Points []r3.Vec
	Cells  []Cell

	// Tagged value arrays, one entry per point / per cell
	PointData map[string]Field
	CellData  map[string]Field
}

// NewMesh creates an empty mesh with initialized field maps
func NewMesh() *Mesh {
	return &Mesh{
		PointData: make(map[string]Field),
		CellData:  make(map[string]Field),
	}
}

func (m *Mesh) NumPoints() int { return len(m.Points) }
func (m *Mesh) NumCells() int  { return len(m.Cells) }

// Bounds returns the axis-aligned bounding box of the point set. An
// empty point set yields a zero box.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.Points) == 0 {
		return
	}
	min, max = m.Points[0], m.Points[0]
	for _, p := range m.Points[1:] {
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

// Copy returns a structurally independent deep copy of the mesh,
// including all tagged field arrays.
func (m *Mesh) Copy() *Mesh {
	out := NewMesh()
	out.Points = make([]r3.Vec, len(m.Points))
	copy(out.Points, m.Points)
	out.Cells = make([]Cell, len(m.Cells))
	for i, c := range m.Cells {
		nc := Cell{Type: c.Type}
		if c.Nodes != nil {
			nc.Nodes = make([]int, len(c.Nodes))
			copy(nc.Nodes, c.Nodes)
		}
		if c.Stream != nil {
			fs := c.Stream.Clone()
			nc.Stream = &fs
		}
		out.Cells[i] = nc
	}
	for name, f := range m.PointData {
		out.PointData[name] = copyField(f)
	}
	for name, f := range m.CellData {
		out.CellData[name] = copyField(f)
	}
	return out
}

func copyField(f Field) Field {
	var out Field
	if f.Ints != nil {
		out.Ints = make([]int64, len(f.Ints))
		copy(out.Ints, f.Ints)
	}
	if f.Floats != nil {
		out.Floats = make([]float64, len(f.Floats))
		copy(out.Floats, f.Floats)
	}
	return out
}

// CellFaces returns the outward-oriented faces of a fixed-template cell
// type as lists of point indices. Polyhedron cells are face-stream
// defined and return nil here; use Cell.Stream.
func CellFaces(cellType CellType, nodes []int) [][]int {
	switch cellType {
	case Tet:
		return [][]int{
			{nodes[0], nodes[2], nodes[1]},
			{nodes[0], nodes[1], nodes[3]},
			{nodes[1], nodes[2], nodes[3]},
			{nodes[0], nodes[3], nodes[2]},
		}
	case Hex:
		return [][]int{
			{nodes[0], nodes[3], nodes[2], nodes[1]}, // bottom
			{nodes[4], nodes[5], nodes[6], nodes[7]}, // top
			{nodes[0], nodes[1], nodes[5], nodes[4]},
			{nodes[1], nodes[2], nodes[6], nodes[5]},
			{nodes[2], nodes[3], nodes[7], nodes[6]},
			{nodes[3], nodes[0], nodes[4], nodes[7]},
		}
	case Prism:
		return [][]int{
			{nodes[0], nodes[2], nodes[1]}, // bottom tri
			{nodes[3], nodes[4], nodes[5]}, // top tri
			{nodes[0], nodes[1], nodes[4], nodes[3]},
			{nodes[1], nodes[2], nodes[5], nodes[4]},
			{nodes[2], nodes[0], nodes[3], nodes[5]},
		}
	case Pyramid:
		return [][]int{
			{nodes[0], nodes[3], nodes[2], nodes[1]}, // base quad
			{nodes[0], nodes[1], nodes[4]},
			{nodes[1], nodes[2], nodes[4]},
			{nodes[2], nodes[3], nodes[4]},
			{nodes[3], nodes[0], nodes[4]},
		}
	default:
		return nil
	}
}

// Faces returns the outward-oriented faces of cell i, regardless of
// whether it is a fixed-template cell or a polyhedron.
func (m *Mesh) Faces(i int) [][]int {
	c := m.Cells[i]
	if c.Type == Polyhedron {
		if c.Stream == nil {
			return nil
		}
		return c.Stream.Faces()
	}
	return CellFaces(c.Type, c.Nodes)
}

// SupportNodes returns the support-node index list of cell i. For
// polyhedra this is the face stream read flat, duplicates included.
func (m *Mesh) SupportNodes(i int) []int {
	c := m.Cells[i]
	if c.Type == Polyhedron {
		if c.Stream == nil {
			return nil
		}
		var nodes []int
		for _, f := range c.Stream.faces {
			nodes = append(nodes, f...)
		}
		return nodes
	}
	return c.Nodes
}
