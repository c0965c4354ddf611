package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	octantLeafCap  = 32
	octantMaxDepth = 21
)

// ErrNegativeTolerance rejects tolerances below zero up front.
var ErrNegativeTolerance = errors.New("tolerance must be >= 0")

// PointLocator is an incremental spatial index over inserted points,
// seeded with a bounding box. Insertion either accepts a point as a new
// unique location or reports the existing point within tolerance.
type PointLocator struct {
	tol    float64
	points []r3.Vec
	root   *octant
}

type octant struct {
	min, max r3.Vec
	children []*octant // nil for leaves, length 8 otherwise
	ids      []int
	depth    int
}

// NewPointLocator builds a locator over the given bounding box. The
// tolerance is the minimum separation between accepted points; zero
// means exact-coincidence detection. Negative tolerances are rejected.
func NewPointLocator(min, max r3.Vec, tol float64) (*PointLocator, error) {
	if tol < 0 || math.IsNaN(tol) {
		return nil, fmt.Errorf("%w: got %v", ErrNegativeTolerance, tol)
	}
	// Pad the box so boundary points and the tolerance ball stay inside
	pad := tol
	if pad == 0 {
		pad = 1e-10 * (1 + boxDiagonal(min, max))
	}
	min = r3.Vec{X: min.X - pad, Y: min.Y - pad, Z: min.Z - pad}
	max = r3.Vec{X: max.X + pad, Y: max.Y + pad, Z: max.Z + pad}
	return &PointLocator{
		tol:  tol,
		root: &octant{min: min, max: max},
	}, nil
}

func boxDiagonal(min, max r3.Vec) float64 {
	return r3.Norm(r3.Sub(max, min))
}

// NumPoints returns the number of accepted unique points.
func (l *PointLocator) NumPoints() int { return len(l.points) }

// Point returns accepted point id.
func (l *PointLocator) Point(id int) r3.Vec { return l.points[id] }

// InsertUnique inserts p if no previously accepted point lies within
// tolerance. It returns the accepted slot and true, or the colliding
// existing slot and false.
func (l *PointLocator) InsertUnique(p r3.Vec) (id int, inserted bool) {
	if id = l.findWithin(p); id >= 0 {
		return id, false
	}
	id = len(l.points)
	l.points = append(l.points, p)
	l.root.insert(l, p, id)
	return id, true
}

// findWithin returns the first accepted point within tolerance of p
// (exact coincidence when tol == 0), or -1.
func (l *PointLocator) findWithin(p r3.Vec) int {
	best := -1
	l.root.search(l, p, &best)
	return best
}

func (o *octant) search(l *PointLocator, p r3.Vec, best *int) {
	if !o.ballIntersects(p, l.tol) {
		return
	}
	if o.children != nil {
		for _, c := range o.children {
			c.search(l, p, best)
		}
		return
	}
	for _, id := range o.ids {
		d := r3.Norm(r3.Sub(l.points[id], p))
		collides := d < l.tol || (l.tol == 0 && d == 0)
		if collides && (*best < 0 || id < *best) {
			*best = id
		}
	}
}

func (o *octant) ballIntersects(p r3.Vec, r float64) bool {
	d2 := 0.0
	for _, a := range [3][3]float64{
		{p.X, o.min.X, o.max.X},
		{p.Y, o.min.Y, o.max.Y},
		{p.Z, o.min.Z, o.max.Z},
	} {
		if a[0] < a[1] {
			d2 += (a[1] - a[0]) * (a[1] - a[0])
		} else if a[0] > a[2] {
			d2 += (a[0] - a[2]) * (a[0] - a[2])
		}
	}
	return d2 <= r*r
}

func (o *octant) insert(l *PointLocator, p r3.Vec, id int) {
	if o.children != nil {
		o.children[o.childIndex(p)].insert(l, p, id)
		return
	}
	o.ids = append(o.ids, id)
	if len(o.ids) > octantLeafCap && o.depth < octantMaxDepth {
		o.split(l)
	}
}

func (o *octant) childIndex(p r3.Vec) int {
	mid := r3.Scale(0.5, r3.Add(o.min, o.max))
	idx := 0
	if p.X >= mid.X {
		idx |= 1
	}
	if p.Y >= mid.Y {
		idx |= 2
	}
	if p.Z >= mid.Z {
		idx |= 4
	}
	return idx
}

func (o *octant) split(l *PointLocator) {
	mid := r3.Scale(0.5, r3.Add(o.min, o.max))
	o.children = make([]*octant, 8)
	for i := range o.children {
		min, max := o.min, o.max
		if i&1 != 0 {
			min.X = mid.X
		} else {
			max.X = mid.X
		}
		if i&2 != 0 {
			min.Y = mid.Y
		} else {
			max.Y = mid.Y
		}
		if i&4 != 0 {
			min.Z = mid.Z
		} else {
			max.Z = mid.Z
		}
		o.children[i] = &octant{min: min, max: max, depth: o.depth + 1}
	}
	for _, id := range o.ids {
		p := l.points[id]
		c := o.children[o.childIndex(p)]
		c.ids = append(c.ids, id)
	}
	o.ids = nil
}
