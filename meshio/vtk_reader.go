package meshio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/meshkit/meshdoctor/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadVTK reads a legacy VTK unstructured grid, ASCII or binary.
func ReadVTK(filename string) (*mesh.Mesh, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &vtkParser{r: bufio.NewReader(f)}
	if err := p.header(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	m, err := p.body()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

type vtkParser struct {
	r      *bufio.Reader
	binary bool

	conn [][]int // raw CELLS entries, pending CELL_TYPES
	m    *mesh.Mesh
}

func (p *vtkParser) header() error {
	version, err := p.line()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(version, "# vtk DataFile") {
		return fmt.Errorf("not a legacy VTK file: %q", version)
	}
	if _, err := p.line(); err != nil { // title, ignored
		return err
	}
	enc, err := p.line()
	if err != nil {
		return err
	}
	switch strings.TrimSpace(enc) {
	case "ASCII":
	case "BINARY":
		p.binary = true
	default:
		return fmt.Errorf("unknown encoding %q", enc)
	}
	ds, err := p.line()
	if err != nil {
		return err
	}
	if strings.TrimSpace(ds) != "DATASET UNSTRUCTURED_GRID" {
		return fmt.Errorf("unsupported dataset %q", ds)
	}
	return nil
}

func (p *vtkParser) body() (*mesh.Mesh, error) {
	p.m = mesh.NewMesh()
	for {
		keyword, err := p.token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch keyword {
		case "POINTS":
			err = p.points()
		case "CELLS":
			err = p.cells()
		case "CELL_TYPES":
			err = p.cellTypes()
		case "POINT_DATA":
			err = p.fieldData(p.m.PointData)
		case "CELL_DATA":
			err = p.fieldData(p.m.CellData)
		default:
			err = fmt.Errorf("unexpected section %q", keyword)
		}
		if err != nil {
			return nil, err
		}
	}
	if p.conn != nil {
		return nil, errors.New("CELLS section without CELL_TYPES")
	}
	return p.m, nil
}

func (p *vtkParser) points() error {
	n, err := p.intToken()
	if err != nil {
		return err
	}
	dtype, err := p.token()
	if err != nil {
		return err
	}
	vals, err := p.floats(3*n, dtype)
	if err != nil {
		return fmt.Errorf("reading %d points: %w", n, err)
	}
	p.m.Points = make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		p.m.Points[i] = r3.Vec{X: vals[3*i], Y: vals[3*i+1], Z: vals[3*i+2]}
	}
	return nil
}

func (p *vtkParser) cells() error {
	n, err := p.intToken()
	if err != nil {
		return err
	}
	size, err := p.intToken()
	if err != nil {
		return err
	}
	vals, err := p.ints(size)
	if err != nil {
		return fmt.Errorf("reading %d cell entries: %w", size, err)
	}
	p.conn = make([][]int, n)
	pos := 0
	for i := 0; i < n; i++ {
		if pos >= len(vals) {
			return fmt.Errorf("CELLS section ends before cell %d of %d", i, n)
		}
		k := vals[pos]
		pos++
		if k < 0 || pos+k > len(vals) {
			return fmt.Errorf("cell %d declares %d entries, %d remain", i, k, len(vals)-pos)
		}
		p.conn[i] = vals[pos : pos+k]
		pos += k
	}
	if pos != len(vals) {
		return fmt.Errorf("%d trailing values in CELLS section", len(vals)-pos)
	}
	return nil
}

func (p *vtkParser) cellTypes() error {
	n, err := p.intToken()
	if err != nil {
		return err
	}
	if p.conn == nil || len(p.conn) != n {
		return fmt.Errorf("CELL_TYPES count %d does not match CELLS", n)
	}
	types, err := p.ints(n)
	if err != nil {
		return err
	}
	p.m.Cells = make([]mesh.Cell, n)
	for i, vt := range types {
		ct, ok := cellByVTKType[vt]
		if !ok {
			return fmt.Errorf("cell %d has unsupported VTK type %d", i, vt)
		}
		if ct == mesh.Polyhedron {
			fs, err := mesh.ParseFaceStream(p.conn[i])
			if err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
			p.m.Cells[i] = mesh.Cell{Type: ct, Stream: &fs}
			continue
		}
		if len(p.conn[i]) != ct.NumNodes() {
			return fmt.Errorf("cell %d of type %s has %d nodes, want %d",
				i, ct, len(p.conn[i]), ct.NumNodes())
		}
		p.m.Cells[i] = mesh.Cell{Type: ct, Nodes: p.conn[i]}
	}
	p.conn = nil
	return nil
}

func (p *vtkParser) fieldData(into map[string]mesh.Field) error {
	if _, err := p.intToken(); err != nil { // entity count, implied by mesh
		return err
	}
	keyword, err := p.token()
	if err != nil {
		return err
	}
	if keyword != "FIELD" {
		return fmt.Errorf("expected FIELD, got %q", keyword)
	}
	if _, err := p.token(); err != nil { // field-data block name
		return err
	}
	k, err := p.intToken()
	if err != nil {
		return err
	}
	for j := 0; j < k; j++ {
		name, err := p.token()
		if err != nil {
			return err
		}
		comps, err := p.intToken()
		if err != nil {
			return err
		}
		if comps != 1 {
			return fmt.Errorf("field %q has %d components, only 1 supported", name, comps)
		}
		count, err := p.intToken()
		if err != nil {
			return err
		}
		dtype, err := p.token()
		if err != nil {
			return err
		}
		switch dtype {
		case "vtktypeint64", "int", "long":
			vals, err := p.int64s(count, dtype)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			into[name] = mesh.Field{Ints: vals}
		case "double", "float":
			vals, err := p.floats(count, dtype)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			into[name] = mesh.Field{Floats: vals}
		default:
			return fmt.Errorf("field %q has unsupported type %q", name, dtype)
		}
	}
	return nil
}

// line reads through the next newline.
func (p *vtkParser) line() (string, error) {
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// token skips whitespace and reads one whitespace-delimited word.
func (p *vtkParser) token() (string, error) {
	var sb strings.Builder
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if sb.Len() > 0 && errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(b)
	}
}

func (p *vtkParser) intToken() (int, error) {
	t, err := p.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", t)
	}
	return v, nil
}

func (p *vtkParser) floats(n int, dtype string) ([]float64, error) {
	if p.binary {
		switch dtype {
		case "double":
			out := make([]float64, n)
			err := binary.Read(p.r, binary.BigEndian, out)
			return out, err
		case "float":
			raw := make([]float32, n)
			if err := binary.Read(p.r, binary.BigEndian, raw); err != nil {
				return nil, err
			}
			out := make([]float64, n)
			for i, v := range raw {
				out[i] = float64(v)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unsupported float type %q", dtype)
		}
	}
	out := make([]float64, n)
	for i := range out {
		t, err := p.token()
		if err != nil {
			return nil, err
		}
		out[i], err = strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", t)
		}
	}
	return out, nil
}

func (p *vtkParser) ints(n int) ([]int, error) {
	if p.binary {
		raw := make([]int32, n)
		if err := binary.Read(p.r, binary.BigEndian, raw); err != nil {
			return nil, err
		}
		out := make([]int, n)
		for i, v := range raw {
			out[i] = int(v)
		}
		return out, nil
	}
	out := make([]int, n)
	for i := range out {
		v, err := p.intToken()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (p *vtkParser) int64s(n int, dtype string) ([]int64, error) {
	if p.binary {
		switch dtype {
		case "vtktypeint64", "long":
			out := make([]int64, n)
			err := binary.Read(p.r, binary.BigEndian, out)
			return out, err
		default:
			raw := make([]int32, n)
			if err := binary.Read(p.r, binary.BigEndian, raw); err != nil {
				return nil, err
			}
			out := make([]int64, n)
			for i, v := range raw {
				out[i] = int64(v)
			}
			return out, nil
		}
	}
	out := make([]int64, n)
	for i := range out {
		t, err := p.token()
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", t)
		}
		out[i] = v
	}
	return out, nil
}
