package ink

// Lens holds the model to view transform of a surface.
//
// The zero value is not usable; create lenses with [NewLens].
type Lens struct {
	transform Matrix
	inverse   Matrix

	width, height float64
}

// NewLens returns a lens with the identity transform.
func NewLens() *Lens {
	return &Lens{transform: Identity(), inverse: Identity()}
}

// Transform returns the model to view transform.
func (l *Lens) Transform() Matrix {
	return l.transform
}

// SetTransform replaces the model to view transform.
func (l *Lens) SetTransform(m Matrix) {
	l.transform = m
	l.inverse = m.Invert()
}

// Inverse returns the view to model transform.
func (l *Lens) Inverse() Matrix {
	return l.inverse
}

// Scale returns the uniform scale factor of the lens.
func (l *Lens) Scale() float64 {
	return l.transform.ScaleFactor()
}

// ViewToModel converts a view-space rect into model space.
// A rect already in model space is returned unchanged.
func (l *Lens) ViewToModel(r Rect) Rect {
	if r.Space == SpaceModel {
		return r
	}
	return r.Transform(l.inverse).In(SpaceModel)
}

// ModelToView converts a model-space rect into view space.
// A rect already in view space is returned unchanged.
func (l *Lens) ModelToView(r Rect) Rect {
	if r.Space == SpaceView {
		return r
	}
	return r.Transform(l.transform).In(SpaceView)
}

// PointToModel converts a view point into model space.
func (l *Lens) PointToModel(p Point) Point {
	return l.inverse.TransformPoint(p)
}

// PointToView converts a model point into view space.
func (l *Lens) PointToView(p Point) Point {
	return l.transform.TransformPoint(p)
}

// PointsToModel converts view points into model space.
func (l *Lens) PointsToModel(points []Point) []Point {
	return l.inverse.TransformPoints(points)
}

// PointsToView converts model points into view space.
func (l *Lens) PointsToView(points []Point) []Point {
	return l.transform.TransformPoints(points)
}

// Focus records a new viewport size. The transform is kept, so content
// stays at the same view pixels and only the visible extent changes.
func (l *Lens) Focus(width, height int) {
	l.width, l.height = float64(width), float64(height)
}

// Recenter adapts the lens to a new viewport size keeping the model point
// at the center of the previous viewport at the center of the new one. It
// reports whether the transform changed. Without a previous size it only
// records the new one.
func (l *Lens) Recenter(width, height int) bool {
	w, h := float64(width), float64(height)
	moved := false
	if l.width > 0 && l.height > 0 {
		dx, dy := (w-l.width)/2, (h-l.height)/2
		if dx != 0 || dy != 0 {
			l.SetTransform(Translate(dx, dy).Multiply(l.transform))
			moved = true
		}
	}
	l.width, l.height = w, h
	return moved
}

// Zoom scales the view by factor around the view point at.
func (l *Lens) Zoom(factor float64, at Point) {
	if factor <= 0 {
		return
	}
	m := Translate(at.X, at.Y).Multiply(Scale(factor, factor)).Multiply(Translate(-at.X, -at.Y))
	l.SetTransform(m.Multiply(l.transform))
}

// Pan moves the view by (dx, dy) view pixels.
func (l *Lens) Pan(dx, dy float64) {
	l.SetTransform(Translate(dx, dy).Multiply(l.transform))
}

// Reset restores the identity transform. The viewport size is kept.
func (l *Lens) Reset() {
	l.SetTransform(Identity())
}
