package ink

import (
	"image"
	"math"
)

// Matrix is a 2D affine transform between model and view space, or within
// one of them:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
//
// Lens transforms map model to view. Selection transforms are model-space
// moves applied before the lens.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// singularDet is the determinant below which a matrix is not inverted.
const singularDet = 1e-10

// Identity returns the transform that changes nothing.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate moves by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale scales around the origin.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate rotates around the origin by angle radians.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: -sin, D: sin, E: cos}
}

// Multiply returns m * other, the transform applying other first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Conjugate returns m * t * m^-1. With m a lens transform, it turns the
// model-space move t into the matching view-space move.
func (m Matrix) Conjugate(t Matrix) Matrix {
	return m.Multiply(t).Multiply(m.Invert())
}

// TransformPoint maps p.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformPoints maps every point into a new slice.
func (m Matrix) TransformPoints(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = m.TransformPoint(p)
	}
	return out
}

// Invert returns the inverse. A singular matrix, such as the zero scale of
// a collapsed selection, inverts to the identity.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < singularDet {
		return Identity()
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
}

// IsIdentity reports whether m changes nothing.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation reports whether m only moves.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// PixelOffset returns the whole-pixel move of m. It reports false unless m
// is a translation by integer amounts, which layers blend without
// resampling.
func (m Matrix) PixelOffset() (image.Point, bool) {
	if !m.IsTranslation() || m.C != math.Trunc(m.C) || m.F != math.Trunc(m.F) {
		return image.Point{}, false
	}
	return image.Pt(int(m.C), int(m.F)), true
}

// ScaleFactor returns the geometric mean of the axis scale factors.
// Stroke widths given in view pixels are divided by it to get model widths.
func (m Matrix) ScaleFactor() float64 {
	det := math.Abs(m.A*m.E - m.B*m.D)
	if det == 0 {
		return 1
	}
	return math.Sqrt(det)
}
