package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/meshkit/meshdoctor/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Invalidity is the bit-set of geometric defects a cell can exhibit.
type Invalidity uint32

const (
	WrongNumberOfPoints Invalidity = 1 << iota // 0x01
	IntersectingEdges                          // 0x02
	IntersectingFaces                          // 0x04
	NoncontiguousEdges                         // 0x08
	Nonconvex                                  // 0x10
	FacesOrientedIncorrectly                   // 0x20
	NonPlanarFaces                             // 0x40
	DegenerateFaces                            // 0x80
)

var invalidityNames = []struct {
	flag Invalidity
	name string
}{
	{WrongNumberOfPoints, "WrongNumberOfPoints"},
	{IntersectingEdges, "IntersectingEdges"},
	{IntersectingFaces, "IntersectingFaces"},
	{NoncontiguousEdges, "NoncontiguousEdges"},
	{Nonconvex, "Nonconvex"},
	{FacesOrientedIncorrectly, "FacesOrientedIncorrectly"},
	{NonPlanarFaces, "NonPlanarFaces"},
	{DegenerateFaces, "DegenerateFaces"},
}

// InvalidityFlagNames lists every defect name in bit order.
func InvalidityFlagNames() []string {
	out := make([]string, len(invalidityNames))
	for i, e := range invalidityNames {
		out[i] = e.name
	}
	return out
}

// Names decodes the set bits into defect names, in bit order.
func (v Invalidity) Names() []string {
	var out []string
	for _, e := range invalidityNames {
		if v&e.flag != 0 {
			out = append(out, e.name)
		}
	}
	return out
}

func (v Invalidity) String() string {
	if v == 0 {
		return "Valid"
	}
	return strings.Join(v.Names(), "|")
}

// CheckCell evaluates every validity predicate for cell i and returns
// the combined bit-set. minDistance is the tolerance below which two
// features count as touching; zero is accepted but prone to false
// positives on adjacent faces, negative is an input error.
func CheckCell(m *mesh.Mesh, i int, minDistance float64) (Invalidity, error) {
	if minDistance < 0 || math.IsNaN(minDistance) {
		return 0, fmt.Errorf("minDistance must be >= 0, got %v", minDistance)
	}
	c := m.Cells[i]

	var flags Invalidity
	if c.Type == mesh.Polyhedron {
		if c.Stream == nil || c.Stream.NumFaces() < 4 {
			return WrongNumberOfPoints, nil
		}
	} else if len(c.Nodes) != c.Type.NumNodes() {
		// Geometric predicates need the full support list
		return WrongNumberOfPoints, nil
	}

	faces := m.Faces(i)
	var flat []int
	for _, f := range faces {
		flat = append(flat, f...)
	}
	if err := checkSupport(m, flat, i); err != nil {
		return 0, err
	}

	if degenerateFaces(m, faces) {
		flags |= DegenerateFaces
	}
	if nonPlanarFaces(m, faces, minDistance) {
		flags |= NonPlanarFaces
	}
	if noncontiguousEdges(faces) {
		flags |= NoncontiguousEdges
	}
	if intersectingEdges(m, faces, minDistance) {
		flags |= IntersectingEdges
	}
	if intersectingFaces(m, faces, minDistance) {
		flags |= IntersectingFaces
	}
	if nonconvex(m, faces, flat, minDistance) {
		flags |= Nonconvex
	}
	if misorientedFaces(m, faces, flat) {
		flags |= FacesOrientedIncorrectly
	}
	return flags, nil
}

// within reports d closer than the touch tolerance; with tol == 0 only
// exact contact registers.
func within(d, tol float64) bool {
	return d < tol || (tol == 0 && d == 0)
}

func degenerateFaces(m *mesh.Mesh, faces [][]int) bool {
	for _, f := range faces {
		if len(f) < 3 {
			return true
		}
		seen := make(map[int]bool, len(f))
		dup := false
		for _, id := range f {
			if seen[id] {
				dup = true
				break
			}
			seen[id] = true
		}
		if dup {
			return true
		}
		if r3.Norm(newellNormal(facePoints(m, f))) == 0 {
			return true
		}
	}
	return false
}

func nonPlanarFaces(m *mesh.Mesh, faces [][]int, tol float64) bool {
	for _, f := range faces {
		if len(f) <= 3 {
			continue
		}
		pts := facePoints(m, f)
		n := newellNormal(pts)
		nn := r3.Norm(n)
		if nn == 0 {
			continue // degenerate, reported separately
		}
		n = r3.Scale(1/nn, n)
		c := centroid(pts)
		for _, p := range pts {
			if math.Abs(r3.Dot(r3.Sub(p, c), n)) > tol {
				return true
			}
		}
	}
	return false
}

// noncontiguousEdges verifies the cell's face set is edge-closed:
// every undirected edge used by exactly two faces.
func noncontiguousEdges(faces [][]int) bool {
	use := make(map[[2]int]int)
	for _, f := range faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			use[[2]int{a, b}]++
		}
	}
	for _, n := range use {
		if n != 2 {
			return true
		}
	}
	return false
}

func uniqueEdges(faces [][]int) [][2]int {
	seen := make(map[[2]int]bool)
	var out [][2]int
	for _, f := range faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			if !seen[[2]int{a, b}] {
				seen[[2]int{a, b}] = true
				out = append(out, [2]int{a, b})
			}
		}
	}
	return out
}

func intersectingEdges(m *mesh.Mesh, faces [][]int, tol float64) bool {
	edges := uniqueEdges(faces)
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			e, g := edges[i], edges[j]
			if e[0] == g[0] || e[0] == g[1] || e[1] == g[0] || e[1] == g[1] {
				continue // shared endpoint, adjacency not intersection
			}
			d := segSegDistance(m.Points[e[0]], m.Points[e[1]],
				m.Points[g[0]], m.Points[g[1]])
			if within(d, tol) {
				return true
			}
		}
	}
	return false
}

type triangle struct {
	a, b, c r3.Vec
	ids     [3]int
	face    int
}

func fanTriangles(m *mesh.Mesh, faces [][]int) []triangle {
	var out []triangle
	for fi, f := range faces {
		for j := 1; j < len(f)-1; j++ {
			out = append(out, triangle{
				a:    m.Points[f[0]],
				b:    m.Points[f[j]],
				c:    m.Points[f[j+1]],
				ids:  [3]int{f[0], f[j], f[j+1]},
				face: fi,
			})
		}
	}
	return out
}

func sharesVertex(t, u triangle) bool {
	for _, a := range t.ids {
		for _, b := range u.ids {
			if a == b {
				return true
			}
		}
	}
	return false
}

func intersectingFaces(m *mesh.Mesh, faces [][]int, tol float64) bool {
	tris := fanTriangles(m, faces)
	for i := 0; i < len(tris); i++ {
		for j := i + 1; j < len(tris); j++ {
			if tris[i].face == tris[j].face || sharesVertex(tris[i], tris[j]) {
				continue
			}
			if within(triTriDistance(tris[i], tris[j]), tol) {
				return true
			}
		}
	}
	return false
}

// nonconvex tests the half-space property: every cell point must lie
// on the inner side of every face plane, within the touch tolerance.
func nonconvex(m *mesh.Mesh, faces [][]int, flat []int, tol float64) bool {
	cellPts := uniquePoints(m, flat)
	for _, f := range faces {
		pts := facePoints(m, f)
		n := newellNormal(pts)
		nn := r3.Norm(n)
		if nn == 0 {
			continue
		}
		n = r3.Scale(1/nn, n)
		c := centroid(pts)
		for _, p := range cellPts {
			if r3.Dot(r3.Sub(p, c), n) > tol {
				return true
			}
		}
	}
	return false
}

// misorientedFaces flags any face whose signed volume contribution
// relative to the cell centroid is negative, i.e. whose normal points
// at the centroid instead of away from it.
func misorientedFaces(m *mesh.Mesh, faces [][]int, flat []int) bool {
	cc := centroid(uniquePoints(m, flat))
	for _, f := range faces {
		if len(f) < 3 {
			continue
		}
		v := 0.0
		a := r3.Sub(m.Points[f[0]], cc)
		for j := 1; j < len(f)-1; j++ {
			b := r3.Sub(m.Points[f[j]], cc)
			c := r3.Sub(m.Points[f[j+1]], cc)
			v += r3.Dot(a, r3.Cross(b, c))
		}
		if v < 0 {
			return true
		}
	}
	return false
}

func facePoints(m *mesh.Mesh, f []int) []r3.Vec {
	pts := make([]r3.Vec, len(f))
	for i, id := range f {
		pts[i] = m.Points[id]
	}
	return pts
}

func uniquePoints(m *mesh.Mesh, ids []int) []r3.Vec {
	seen := make(map[int]bool, len(ids))
	var out []r3.Vec
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, m.Points[id])
		}
	}
	return out
}

func centroid(pts []r3.Vec) r3.Vec {
	var c r3.Vec
	for _, p := range pts {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(pts)), c)
}

// newellNormal computes the area-weighted polygon normal; robust for
// non-planar polygons.
func newellNormal(pts []r3.Vec) r3.Vec {
	var n r3.Vec
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return r3.Scale(0.5, n)
}
