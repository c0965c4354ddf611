package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Closest-distance primitives behind the validity predicates.

// segSegDistance returns the minimum distance between segments [p1,q1]
// and [p2,q2].
func segSegDistance(p1, q1, p2, q2 r3.Vec) float64 {
	d1 := r3.Sub(q1, p1)
	d2 := r3.Sub(q2, p2)
	r := r3.Sub(p1, p2)
	a := r3.Dot(d1, d1)
	e := r3.Dot(d2, d2)
	f := r3.Dot(d2, r)

	var s, t float64
	switch {
	case a == 0 && e == 0:
		return r3.Norm(r)
	case a == 0:
		t = clamp01(f / e)
	default:
		c := r3.Dot(d1, r)
		if e == 0 {
			s = clamp01(-c / a)
		} else {
			b := r3.Dot(d1, d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	c1 := r3.Add(p1, r3.Scale(s, d1))
	c2 := r3.Add(p2, r3.Scale(t, d2))
	return r3.Norm(r3.Sub(c1, c2))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// pointTriDistance returns the distance from p to triangle abc.
func pointTriDistance(p, a, b, c r3.Vec) float64 {
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	ap := r3.Sub(p, a)

	d1 := r3.Dot(ab, ap)
	d2 := r3.Dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return r3.Norm(ap)
	}

	bp := r3.Sub(p, b)
	d3 := r3.Dot(ab, bp)
	d4 := r3.Dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return r3.Norm(bp)
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return r3.Norm(r3.Sub(p, r3.Add(a, r3.Scale(v, ab))))
	}

	cp := r3.Sub(p, c)
	d5 := r3.Dot(ab, cp)
	d6 := r3.Dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return r3.Norm(cp)
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return r3.Norm(r3.Sub(p, r3.Add(a, r3.Scale(w, ac))))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return r3.Norm(r3.Sub(p, r3.Add(b, r3.Scale(w, r3.Sub(c, b)))))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	closest := r3.Add(a, r3.Add(r3.Scale(v, ab), r3.Scale(w, ac)))
	return r3.Norm(r3.Sub(p, closest))
}

// segTriIntersects reports whether segment [p,q] passes through
// triangle abc.
func segTriIntersects(p, q, a, b, c r3.Vec) bool {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	dp := r3.Dot(r3.Sub(p, a), n)
	dq := r3.Dot(r3.Sub(q, a), n)
	if dp*dq > 0 || (dp == 0 && dq == 0) {
		return false // same side or coplanar; coplanar contact is caught by distances
	}
	denom := dp - dq
	if denom == 0 {
		return false
	}
	t := dp / denom
	x := r3.Add(p, r3.Scale(t, r3.Sub(q, p)))
	// Inside test via consistent signed areas
	s1 := r3.Dot(r3.Cross(r3.Sub(b, a), r3.Sub(x, a)), n)
	s2 := r3.Dot(r3.Cross(r3.Sub(c, b), r3.Sub(x, b)), n)
	s3 := r3.Dot(r3.Cross(r3.Sub(a, c), r3.Sub(x, c)), n)
	return s1 >= 0 && s2 >= 0 && s3 >= 0
}

// triTriDistance returns the minimum distance between two triangles,
// 0 when they intersect.
func triTriDistance(t, u triangle) float64 {
	ev1 := [3][2]r3.Vec{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}}
	ev2 := [3][2]r3.Vec{{u.a, u.b}, {u.b, u.c}, {u.c, u.a}}
	for _, e := range ev1 {
		if segTriIntersects(e[0], e[1], u.a, u.b, u.c) {
			return 0
		}
	}
	for _, e := range ev2 {
		if segTriIntersects(e[0], e[1], t.a, t.b, t.c) {
			return 0
		}
	}
	d := math.Inf(1)
	for _, e1 := range ev1 {
		for _, e2 := range ev2 {
			d = math.Min(d, segSegDistance(e1[0], e1[1], e2[0], e2[1]))
		}
	}
	for _, p := range []r3.Vec{t.a, t.b, t.c} {
		d = math.Min(d, pointTriDistance(p, u.a, u.b, u.c))
	}
	for _, p := range []r3.Vec{u.a, u.b, u.c} {
		d = math.Min(d, pointTriDistance(p, t.a, t.b, t.c))
	}
	return d
}
