package ink

import "image/color"

// BuilderOptions configures a [PathBuilder] for one session.
type BuilderOptions struct {
	// Prediction enables predicted points in built path parts.
	Prediction bool
	// Device names the input device ("mouse", "pen", "touch").
	Device string
}

// PathBuilder accumulates raw input samples into path parts.
// One builder owns one ink-building session per pointer.
type PathBuilder interface {
	Configure(opts BuilderOptions)
	// Add records a sample for phase. predicted may be nil.
	Add(phase Phase, p InputPoint, predicted []Point)
	// Ignore drops a sample that arrived while a build was pending.
	Ignore(p InputPoint)
	// Build returns the points added since the previous build.
	Build() PathPart
	Abort()
	// Phase returns the phase of the last added sample, or PhaseNone.
	Phase() Phase
	// Path returns every point of the session, optionally followed by the
	// current prediction.
	Path(includePredicted bool) []Point

	// PointerID returns the pointer owning the session, if assigned.
	PointerID() (int, bool)
	// SetPointerID assigns the pointer once per session. It reports
	// whether the assignment happened.
	SetPointerID(id int) bool
	// Matches reports whether the builder serves any of ids. An empty id
	// list matches every builder.
	Matches(ids ...int) bool
}

// RendererOptions configures a [StrokeRenderer] for one session.
type RendererOptions struct {
	// Width is the brush diameter in view pixels.
	Width float64
	Color color.NRGBA
}

// BlendStrokesOptions restricts a [StrokeRenderer.BlendStrokes] call.
type BlendStrokesOptions struct {
	// Rect is the target area. An empty Rect blends nothing; pass the
	// target bounds for a full composite.
	Rect Rect
	// Transform maps stroke points into target pixels.
	Transform Matrix
}

// StrokeRenderer rasterizes path parts incrementally and composites
// finished strokes.
type StrokeRenderer interface {
	Configure(opts RendererOptions)
	// Draw rasterizes points into the live stroke. final marks the last
	// part of the session.
	Draw(points []Point, final bool)
	// DrawPreliminary rasterizes predicted points into the preview only.
	DrawPreliminary(points []Point)
	// UpdatedArea returns the view area changed by the last draw calls.
	UpdatedArea() Rect
	// StrokeBounds returns the view area of the whole live stroke, or an
	// empty Rect when nothing was drawn.
	StrokeBounds() Rect
	// BlendStroke composites the finished live stroke onto target.
	BlendStroke(target *Layer)
	// BlendUpdatedArea composites the live stroke with its prediction onto
	// target, restricted to UpdatedArea.
	BlendUpdatedArea(target *Layer)
	// BlendStrokes composites stored strokes onto target in order.
	BlendStrokes(strokes []*Stroke, target *Layer, opts BlendStrokesOptions)
	// ToStroke converts a view-space path into a model-space stroke.
	ToStroke(path []Point, lens *Lens) *Stroke
	Resize(width, height int)
	Abort()
}

// Intersection is the result of segmenting existing strokes against a path.
type Intersection struct {
	// Intersected lists the strokes the path touched.
	Intersected []*Stroke
	// Selected lists the strokes replacing them: eraser fragments, or the
	// selected strokes themselves for selectors.
	Selected []*Stroke
}

// Empty reports whether the intersection touched nothing.
func (i Intersection) Empty() bool {
	return len(i.Intersected) == 0 && len(i.Selected) == 0
}

// Segmenter decomposes existing strokes against a new path. Erasers and
// lasso selectors implement it.
type Segmenter interface {
	// Reset starts a session against the current stroke collection. lens
	// converts view-space path points into model space.
	Reset(strokes []*Stroke, lens *Lens)
	// UpdateSegmentation accumulates view-space path points.
	UpdateSegmentation(added []Point)
	// Intersect segments strokes against added points only.
	Intersect(added []Point) Intersection
	// IntersectSegmentation segments strokes against a whole path.
	IntersectSegmentation(path []Point) Intersection
}

// DataModel is the authoritative ordered stroke collection.
type DataModel interface {
	Content() []*Stroke
	Add(s *Stroke)
	// Update replaces removed strokes by added ones and returns the
	// model-space dirty area, empty when nothing changed.
	Update(removed, added []*Stroke) Rect
	Reset()
}
