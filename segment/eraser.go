// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package segment decomposes existing strokes against a new input path.
//
// An [Eraser] cuts the parts of strokes within reach of the path and returns
// the surviving fragments. A [Lasso] reports the strokes enclosed by the path.
// Both implement [ink.Segmenter].
package segment

import (
	"math"
	"slices"

	"github.com/gogpu/ink"
)

// Eraser splits strokes where a round eraser of the given radius passes.
type Eraser struct {
	// Radius is the eraser radius in view pixels.
	Radius float64

	lens    *ink.Lens
	strokes []*ink.Stroke
	path    []ink.Point
	last    ink.Point
	hasLast bool
}

var _ ink.Segmenter = (*Eraser)(nil)

// NewEraser returns an eraser with the given view-space radius.
func NewEraser(radius float64) *Eraser {
	return &Eraser{Radius: radius, lens: ink.NewLens()}
}

// Reset starts a session against strokes.
func (e *Eraser) Reset(strokes []*ink.Stroke, lens *ink.Lens) {
	e.strokes = slices.Clone(strokes)
	if lens != nil {
		e.lens = lens
	}
	e.path = nil
	e.hasLast = false
}

// UpdateSegmentation accumulates view-space path points.
func (e *Eraser) UpdateSegmentation(added []ink.Point) {
	e.path = append(e.path, e.lens.PointsToModel(added)...)
}

// Path returns the accumulated model-space path.
func (e *Eraser) Path() []ink.Point {
	return slices.Clone(e.path)
}

// Intersect erases along the added view-space points only, continuing from
// the last point of the previous call.
func (e *Eraser) Intersect(added []ink.Point) ink.Intersection {
	if len(added) == 0 {
		return ink.Intersection{}
	}
	model := e.lens.PointsToModel(added)
	if e.hasLast {
		model = append([]ink.Point{e.last}, model...)
	}
	e.last, e.hasLast = model[len(model)-1], true
	return e.cut(model)
}

// IntersectSegmentation erases along a whole view-space path.
func (e *Eraser) IntersectSegmentation(path []ink.Point) ink.Intersection {
	if len(path) == 0 {
		return ink.Intersection{}
	}
	return e.cut(e.lens.PointsToModel(path))
}

// cut splits every stroke touched by the model-space eraser polyline and
// updates the session snapshot with the result.
func (e *Eraser) cut(path []ink.Point) ink.Intersection {
	var res ink.Intersection
	reach := ink.BoundsOf(path, ink.SpaceModel)
	radius := e.Radius / e.lens.Scale()

	next := make([]*ink.Stroke, 0, len(e.strokes))
	for _, s := range e.strokes {
		r := radius + s.Style.Width/2
		if !s.Style.Visible || !s.Bounds().Overlaps(reach.Outset(r+1)) {
			next = append(next, s)
			continue
		}
		pieces, touched := splitStroke(s.Points, path, r)
		if !touched {
			next = append(next, s)
			continue
		}
		res.Intersected = append(res.Intersected, s)
		for _, p := range pieces {
			f := s.Fragment(p)
			res.Selected = append(res.Selected, f)
			next = append(next, f)
		}
	}
	e.strokes = next
	if !res.Empty() {
		ink.Logger().Debug("segment: strokes erased", "intersected", len(res.Intersected), "fragments", len(res.Selected))
	}
	return res
}

// interval is a parameter range [t0, t1] on a segment.
type interval struct{ t0, t1 float64 }

// grace keeps cut points from registering as hits on the next pass.
const grace = 1e-6

// splitStroke removes the parts of points within r of the eraser path.
// It returns the surviving runs with at least two points and whether any
// part was removed.
func splitStroke(points, eraser []ink.Point, r float64) ([][]ink.Point, bool) {
	erased := func(p ink.Point) bool { return polylineDistance(p, eraser) < r-grace }

	if len(points) == 1 {
		if erased(points[0]) {
			return nil, true
		}
		return [][]ink.Point{points}, false
	}

	var pieces [][]ink.Point
	var cur []ink.Point
	touched := false
	flush := func() {
		if len(cur) >= 2 {
			pieces = append(pieces, cur)
		}
		cur = nil
	}

	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		if cur == nil && !erased(a) {
			cur = []ink.Point{a}
		}
		for _, iv := range hitIntervals(a, b, eraser, r) {
			touched = true
			if cur != nil {
				if iv.t0 > 0 {
					cur = append(cur, a.Lerp(b, iv.t0))
				}
				flush()
			}
			if iv.t1 < 1 {
				cur = []ink.Point{a.Lerp(b, iv.t1)}
			}
		}
		if cur != nil {
			cur = append(cur, b)
		}
	}
	flush()

	if !touched {
		return [][]ink.Point{points}, false
	}
	return pieces, true
}

func polylineDistance(p ink.Point, line []ink.Point) float64 {
	if len(line) == 1 {
		return p.Distance(line[0])
	}
	d := math.Inf(1)
	for i := 0; i+1 < len(line); i++ {
		sd, _ := ink.SegmentDistance(p, line[i], line[i+1])
		d = math.Min(d, sd)
	}
	return d
}

// hitIntervals returns the merged, sorted parameter ranges of segment ab
// lying within r of the eraser polyline.
func hitIntervals(a, b ink.Point, eraser []ink.Point, r float64) []interval {
	var ivs []interval
	segBox := ink.BoundsOf([]ink.Point{a, b}, ink.SpaceModel).Outset(r)
	for i := range eraser {
		c, d := eraser[i], eraser[i]
		if i+1 < len(eraser) {
			d = eraser[i+1]
		} else if len(eraser) > 1 {
			break
		}
		if !segBox.Overlaps(ink.BoundsOf([]ink.Point{c, d}, ink.SpaceModel).Outset(1e-9)) {
			continue
		}
		if iv, ok := capsuleInterval(a, b, c, d, r); ok {
			ivs = append(ivs, iv)
		}
	}
	if len(ivs) == 0 {
		return nil
	}

	slices.SortFunc(ivs, func(x, y interval) int {
		switch {
		case x.t0 < y.t0:
			return -1
		case x.t0 > y.t0:
			return 1
		}
		return 0
	})
	merged := ivs[:1]
	for _, iv := range ivs[1:] {
		top := &merged[len(merged)-1]
		if iv.t0 <= top.t1 {
			top.t1 = math.Max(top.t1, iv.t1)
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// capsuleInterval finds where segment ab enters and leaves the capsule of
// radius r around cd. The distance to a convex set is convex along a line,
// so the inside part is a single interval found by search.
func capsuleInterval(a, b, c, d ink.Point, r float64) (interval, bool) {
	f := func(t float64) float64 {
		dist, _ := ink.SegmentDistance(a.Lerp(b, t), c, d)
		return dist - r
	}

	lo, hi := 0.0, 1.0
	for range 60 {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if f(m1) <= f(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	tmin := (lo + hi) / 2
	if f(tmin) > -grace {
		return interval{}, false
	}

	// edge returns the first parameter outside the capsule, so cut points
	// stay on the surviving side.
	edge := func(in, out float64) float64 {
		for range 50 {
			mid := (in + out) / 2
			if f(mid) <= 0 {
				in = mid
			} else {
				out = mid
			}
		}
		return out
	}

	iv := interval{t0: 0, t1: 1}
	if f(0) > 0 {
		iv.t0 = edge(tmin, 0)
	}
	if f(1) > 0 {
		iv.t1 = edge(tmin, 1)
	}
	return iv, true
}
