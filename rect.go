package ink

import (
	"fmt"
	"image"
	"math"
)

// Space identifies the coordinate space a [Rect] is expressed in.
type Space uint8

const (
	// SpaceView is canvas pixel space.
	SpaceView Space = iota
	// SpaceModel is stroke storage space.
	SpaceModel
)

// String returns the space name.
func (s Space) String() string {
	if s == SpaceModel {
		return "model"
	}
	return "view"
}

// Rect is an axis-aligned rectangle tagged with its coordinate space.
// It doubles as a dirty area: the minimal region that needs recompositing.
//
// A Rect with Min >= Max on either axis is empty. The zero value is an empty
// view-space rectangle.
type Rect struct {
	Min, Max Point
	Space    Space
}

// R returns a normalized view-space rectangle.
func R(x0, y0, x1, y1 float64) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)}
}

// FromImageRect converts an integer rectangle into a view-space Rect.
func FromImageRect(r image.Rectangle) Rect {
	return R(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y))
}

// BoundsOf returns the bounding box of points in the given space.
// It returns an empty Rect for an empty slice.
func BoundsOf(points []Point, space Space) Rect {
	if len(points) == 0 {
		return Rect{Space: space}
	}
	r := Rect{Min: points[0], Max: points[0], Space: space}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// In returns r retagged with space. The coordinates are not converted;
// use [Lens] for that.
func (r Rect) In(space Space) Rect {
	r.Space = space
	return r
}

// Empty reports whether r contains no area.
func (r Rect) Empty() bool {
	return !(r.Min.X < r.Max.X && r.Min.Y < r.Max.Y)
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Intersect returns the overlap of r and s, keeping r's space.
// Disjoint rectangles produce an empty Rect.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min:   Pt(math.Max(r.Min.X, s.Min.X), math.Max(r.Min.Y, s.Min.Y)),
		Max:   Pt(math.Min(r.Max.X, s.Max.X), math.Min(r.Max.Y, s.Max.Y)),
		Space: r.Space,
	}
	if out.Empty() {
		return Rect{Space: r.Space}
	}
	return out
}

// Overlaps reports whether r and s share any area.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Intersect(s).Empty()
}

// Union returns the smallest rectangle containing r and s.
// An empty operand is ignored.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		if s.Empty() {
			return Rect{Space: r.Space}
		}
		return s
	}
	if s.Empty() {
		return r
	}
	return Rect{
		Min:   Pt(math.Min(r.Min.X, s.Min.X), math.Min(r.Min.Y, s.Min.Y)),
		Max:   Pt(math.Max(r.Max.X, s.Max.X), math.Max(r.Max.Y, s.Max.Y)),
		Space: r.Space,
	}
}

// Contains reports whether p lies inside r (max edges exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	r.Min = r.Min.Add(d)
	r.Max = r.Max.Add(d)
	return r
}

// Outset grows r by d on every side. Degenerate rectangles, such as the
// bounds of a single point, grow into squares.
func (r Rect) Outset(d float64) Rect {
	r.Min = r.Min.Sub(Pt(d, d))
	r.Max = r.Max.Add(Pt(d, d))
	if r.Empty() {
		return Rect{Space: r.Space}
	}
	return r
}

// Corners returns the four corners clockwise from Min.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.Min, Pt(r.Max.X, r.Min.Y), r.Max, Pt(r.Min.X, r.Max.Y)}
}

// Transform returns the bounding box of r's corners under m.
func (r Rect) Transform(m Matrix) Rect {
	if r.Empty() {
		return Rect{Space: r.Space}
	}
	c := r.Corners()
	for i := range c {
		c[i] = m.TransformPoint(c[i])
	}
	return BoundsOf(c[:], r.Space)
}

// Ceil rounds r outward to integer coordinates.
func (r Rect) Ceil() Rect {
	if r.Empty() {
		return Rect{Space: r.Space}
	}
	return Rect{
		Min:   Pt(math.Floor(r.Min.X), math.Floor(r.Min.Y)),
		Max:   Pt(math.Ceil(r.Max.X), math.Ceil(r.Max.Y)),
		Space: r.Space,
	}
}

// Floor rounds the origin and the size of r down to integers.
// It is used to place content of a known pixel size.
func (r Rect) Floor() Rect {
	x, y := math.Floor(r.Min.X), math.Floor(r.Min.Y)
	return Rect{
		Min:   Pt(x, y),
		Max:   Pt(x+math.Floor(r.Width()), y+math.Floor(r.Height())),
		Space: r.Space,
	}
}

// Pixels converts r into the integer rectangle it touches, rounding outward.
func (r Rect) Pixels() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	c := r.Ceil()
	return image.Rect(int(c.Min.X), int(c.Min.Y), int(c.Max.X), int(c.Max.Y))
}

// String formats r as "space(x0,y0)-(x1,y1)".
func (r Rect) String() string {
	return fmt.Sprintf("%s(%g,%g)-(%g,%g)", r.Space, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
