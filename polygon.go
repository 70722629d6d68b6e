package ink

import (
	"slices"

	"golang.org/x/image/math/f64"
)

// Polygon is a closed polygon given by its vertices. The closing edge from
// the last vertex back to the first is implicit.
type Polygon []Point

// Bounds returns the bounding box of p tagged with space.
func (p Polygon) Bounds(space Space) Rect {
	return BoundsOf(p, space)
}

// Clone returns an independent copy of p.
func (p Polygon) Clone() Polygon {
	return slices.Clone(p)
}

// Transform returns p with every vertex transformed by m.
func (p Polygon) Transform(m Matrix) Polygon {
	return m.TransformPoints(p)
}

// Translate returns p moved by d.
func (p Polygon) Translate(d Point) Polygon {
	return p.Transform(Translate(d.X, d.Y))
}

// Area returns the unsigned area of p.
func (p Polygon) Area() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].Cross(p[j])
	}
	if a < 0 {
		a = -a
	}
	return a / 2
}

// Contains reports whether pt lies inside p using the even-odd rule.
func (p Polygon) Contains(pt Point) bool {
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// vecs converts p for the internal rasterizer.
func (p Polygon) vecs() []f64.Vec2 {
	out := make([]f64.Vec2, len(p))
	for i, v := range p {
		out[i] = f64.Vec2{v.X, v.Y}
	}
	return out
}

// ConvexHull returns the convex hull of points in counter-clockwise order
// (in a y-down frame it appears clockwise on screen), using Andrew's
// monotone chain. Collinear points on the hull edges are dropped.
// Fewer than three distinct points produce a degenerate hull with zero area.
func ConvexHull(points []Point) Polygon {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b Point) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		case a.Y < b.Y:
			return -1
		case a.Y > b.Y:
			return 1
		}
		return 0
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return Polygon(pts)
	}

	cross := func(o, a, b Point) float64 {
		return a.Sub(o).Cross(b.Sub(o))
	}

	hull := make(Polygon, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
