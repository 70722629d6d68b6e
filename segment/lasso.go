// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package segment

import (
	"slices"

	"github.com/gogpu/ink"
)

// Lasso selects the strokes enclosed by a closed path.
//
// A stroke is enclosed when at least Coverage of its points lie inside the
// path polygon. Strokes are never modified, so Selected equals Intersected.
type Lasso struct {
	// Coverage is the fraction of points that must be inside, in (0, 1].
	Coverage float64

	lens    *ink.Lens
	strokes []*ink.Stroke
	path    ink.Polygon
}

var _ ink.Segmenter = (*Lasso)(nil)

// NewLasso returns a lasso that requires every point to be enclosed.
func NewLasso() *Lasso {
	return &Lasso{Coverage: 1, lens: ink.NewLens()}
}

// Reset starts a session against strokes.
func (l *Lasso) Reset(strokes []*ink.Stroke, lens *ink.Lens) {
	l.strokes = slices.Clone(strokes)
	if lens != nil {
		l.lens = lens
	}
	l.path = nil
}

// UpdateSegmentation extends the lasso with view-space points.
func (l *Lasso) UpdateSegmentation(added []ink.Point) {
	l.path = append(l.path, l.lens.PointsToModel(added)...)
}

// Intersect extends the lasso and returns the strokes it now encloses.
func (l *Lasso) Intersect(added []ink.Point) ink.Intersection {
	l.UpdateSegmentation(added)
	return l.enclosed(l.path)
}

// IntersectSegmentation returns the strokes enclosed by a whole view-space
// path.
func (l *Lasso) IntersectSegmentation(path []ink.Point) ink.Intersection {
	return l.enclosed(ink.Polygon(l.lens.PointsToModel(path)))
}

func (l *Lasso) enclosed(poly ink.Polygon) ink.Intersection {
	if len(poly) < 3 || poly.Area() == 0 {
		return ink.Intersection{}
	}
	need := l.Coverage
	if need <= 0 || need > 1 {
		need = 1
	}
	area := poly.Bounds(ink.SpaceModel)

	var sel []*ink.Stroke
	for _, s := range l.strokes {
		if !s.Style.Visible || len(s.Points) == 0 || !area.Overlaps(s.Bounds()) {
			continue
		}
		inside := 0
		for _, p := range s.Points {
			if poly.Contains(p) {
				inside++
			}
		}
		if float64(inside) >= need*float64(len(s.Points)) {
			sel = append(sel, s)
		}
	}
	return ink.Intersection{Intersected: sel, Selected: slices.Clone(sel)}
}
