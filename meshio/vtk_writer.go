package meshio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/meshkit/meshdoctor/mesh"
)

// Legacy VTK unstructured-grid cell type codes.
const (
	vtkTetra      = 10
	vtkHexahedron = 12
	vtkWedge      = 13
	vtkPyramid    = 14
	vtkPolyhedron = 42
)

var vtkTypeByCell = map[mesh.CellType]int{
	mesh.Tet:        vtkTetra,
	mesh.Hex:        vtkHexahedron,
	mesh.Prism:      vtkWedge,
	mesh.Pyramid:    vtkPyramid,
	mesh.Polyhedron: vtkPolyhedron,
}

var cellByVTKType = map[int]mesh.CellType{
	vtkTetra:      mesh.Tet,
	vtkHexahedron: mesh.Hex,
	vtkWedge:      mesh.Prism,
	vtkPyramid:    mesh.Pyramid,
	vtkPolyhedron: mesh.Polyhedron,
}

// WriteVTK writes a legacy VTK unstructured grid. Polyhedra are
// written as face streams (VTK cell type 42).
func WriteVTK(m *mesh.Mesh, spec WriteSpec) error {
	if _, err := os.Stat(spec.Path); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, spec.Path)
	} else if !os.IsNotExist(err) {
		return err
	}
	f, err := os.Create(spec.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	vw := &vtkWriter{w: w, binary: spec.Binary}

	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, "meshdoctor output")
	if spec.Binary {
		fmt.Fprintln(w, "BINARY")
	} else {
		fmt.Fprintln(w, "ASCII")
	}
	fmt.Fprintln(w, "DATASET UNSTRUCTURED_GRID")

	fmt.Fprintf(w, "POINTS %d double\n", m.NumPoints())
	coords := make([]float64, 0, 3*m.NumPoints())
	for _, p := range m.Points {
		coords = append(coords, p.X, p.Y, p.Z)
	}
	vw.writeFloats(coords, 3)

	conn := make([][]int, m.NumCells())
	total := 0
	for i := range m.Cells {
		conn[i] = cellConnectivity(m.Cells[i])
		total += 1 + len(conn[i])
	}
	fmt.Fprintf(w, "CELLS %d %d\n", m.NumCells(), total)
	if spec.Binary {
		// binary sections are contiguous, no per-cell separators
		flat := make([]int, 0, total)
		for _, c := range conn {
			flat = append(flat, len(c))
			flat = append(flat, c...)
		}
		vw.writeInts(flat)
	} else {
		for _, c := range conn {
			vw.writeInts(append([]int{len(c)}, c...))
		}
	}

	fmt.Fprintf(w, "CELL_TYPES %d\n", m.NumCells())
	types := make([]int, m.NumCells())
	for i, c := range m.Cells {
		types[i] = vtkTypeByCell[c.Type]
	}
	vw.writeInts(types)

	if len(m.PointData) > 0 {
		fmt.Fprintf(w, "POINT_DATA %d\n", m.NumPoints())
		vw.writeFields(m.PointData)
	}
	if len(m.CellData) > 0 {
		fmt.Fprintf(w, "CELL_DATA %d\n", m.NumCells())
		vw.writeFields(m.CellData)
	}
	if vw.err != nil {
		return vw.err
	}
	return w.Flush()
}

// cellConnectivity is the flat per-cell entry body: the support list
// for fixed-template cells, the dumped face stream for polyhedra.
func cellConnectivity(c mesh.Cell) []int {
	if c.Type == mesh.Polyhedron && c.Stream != nil {
		return c.Stream.Dump()
	}
	return c.Nodes
}

type vtkWriter struct {
	w      *bufio.Writer
	binary bool
	err    error
}

func (vw *vtkWriter) writeFloats(vals []float64, perLine int) {
	if vw.err != nil {
		return
	}
	if vw.binary {
		vw.err = binary.Write(vw.w, binary.BigEndian, vals)
		fmt.Fprintln(vw.w)
		return
	}
	for i, v := range vals {
		sep := " "
		if (i+1)%perLine == 0 || i == len(vals)-1 {
			sep = "\n"
		}
		fmt.Fprintf(vw.w, "%.17g%s", v, sep)
	}
}

func (vw *vtkWriter) writeInts(vals []int) {
	if vw.err != nil {
		return
	}
	if vw.binary {
		out := make([]int32, len(vals))
		for i, v := range vals {
			out[i] = int32(v)
		}
		vw.err = binary.Write(vw.w, binary.BigEndian, out)
		fmt.Fprintln(vw.w)
		return
	}
	for i, v := range vals {
		if i > 0 {
			fmt.Fprint(vw.w, " ")
		}
		fmt.Fprintf(vw.w, "%d", v)
	}
	fmt.Fprintln(vw.w)
}

func (vw *vtkWriter) writeInt64s(vals []int64) {
	if vw.err != nil {
		return
	}
	if vw.binary {
		vw.err = binary.Write(vw.w, binary.BigEndian, vals)
		fmt.Fprintln(vw.w)
		return
	}
	for i, v := range vals {
		if i > 0 {
			fmt.Fprint(vw.w, " ")
		}
		fmt.Fprintf(vw.w, "%d", v)
	}
	fmt.Fprintln(vw.w)
}

func (vw *vtkWriter) writeFields(fields map[string]mesh.Field) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(vw.w, "FIELD FieldData %d\n", len(names))
	for _, name := range names {
		f := fields[name]
		if f.Ints != nil {
			fmt.Fprintf(vw.w, "%s 1 %d vtktypeint64\n", name, len(f.Ints))
			vw.writeInt64s(f.Ints)
		} else {
			fmt.Fprintf(vw.w, "%s 1 %d double\n", name, len(f.Floats))
			vw.writeFloats(f.Floats, 9)
		}
	}
}
