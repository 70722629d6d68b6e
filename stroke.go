package ink

import (
	"image/color"
	"slices"

	"github.com/google/uuid"
)

// Phase is the stage of one continuous input session.
type Phase uint8

const (
	// PhaseNone means no session is in progress.
	PhaseNone Phase = iota
	// PhaseBegin is the first sample of a session.
	PhaseBegin
	// PhaseUpdate covers every sample between begin and end.
	PhaseUpdate
	// PhaseEnd is the last sample of a session.
	PhaseEnd
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "begin"
	case PhaseUpdate:
		return "update"
	case PhaseEnd:
		return "end"
	default:
		return "none"
	}
}

// InputPoint is one raw pointer sample in view space.
type InputPoint struct {
	Point
	PointerID int
	Device    string
}

// PathPart is the output of one path build: the points added since the
// previous build and the current prediction. It is never modified after
// creation.
type PathPart struct {
	Phase     Phase
	Added     []Point
	Predicted []Point
}

// Style describes how a stroke is painted.
type Style struct {
	// Width is the brush diameter in model units.
	Width   float64
	Color   color.NRGBA
	Visible bool
}

// Stroke is a finished ink stroke stored in model space.
type Stroke struct {
	ID     string
	Points []Point
	Style  Style

	bounds Rect
}

// NewStroke creates a stroke with a fresh id. points are in model space.
func NewStroke(points []Point, style Style) *Stroke {
	return newStroke(uuid.NewString(), points, style)
}

func newStroke(id string, points []Point, style Style) *Stroke {
	return &Stroke{
		ID:     id,
		Points: points,
		Style:  style,
		bounds: StrokeBounds(points, style.Width),
	}
}

// StrokeBounds returns the model-space area painted by a brush of the given
// width along points, with one unit of slack for anti-aliasing.
func StrokeBounds(points []Point, width float64) Rect {
	if len(points) == 0 {
		return Rect{Space: SpaceModel}
	}
	return BoundsOf(points, SpaceModel).Outset(width/2 + 1)
}

// Bounds returns the model-space area covered by the stroke.
func (s *Stroke) Bounds() Rect {
	return s.bounds
}

// Fragment returns a new stroke made of a sub-run of s's points, sharing its
// style.
func (s *Stroke) Fragment(points []Point) *Stroke {
	return NewStroke(slices.Clone(points), s.Style)
}

// Clone returns a deep copy of s with the same id.
func (s *Stroke) Clone() *Stroke {
	return newStroke(s.ID, slices.Clone(s.Points), s.Style)
}
