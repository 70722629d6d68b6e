// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package brush rasterizes ink strokes with a round-capped solid brush.
//
// A stroke is painted as a dot at its first point followed by one capsule per
// segment. Segment coverages are combined with a per-pixel maximum and then
// colorized, so overlapping segments of a translucent stroke never darken
// each other. Live drawing and [Renderer.BlendStrokes] share this code path,
// which makes a full redraw pixel-identical to incremental drawing.
package brush

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/raster"
)

// Renderer is the default [ink.StrokeRenderer].
//
// It keeps the coverage of the live stroke in view space and two layers of
// the surface size: the colorized live stroke and a preview that adds the
// predicted tail on top of it.
type Renderer struct {
	opts   ink.RendererOptions
	radius float64

	cov     *image.Alpha
	live    *ink.Layer
	preview *ink.Layer

	last    ink.Point
	hasLast bool

	bounds      image.Rectangle
	updated     image.Rectangle
	predCov     *image.Alpha
	previewArea image.Rectangle
}

var _ ink.StrokeRenderer = (*Renderer)(nil)

// New returns a renderer for a surface of the given pixel size.
func New(width, height int) *Renderer {
	r := &Renderer{
		opts:   ink.RendererOptions{Width: 1, Color: color.NRGBA{A: 255}},
		radius: 0.5,
	}
	r.Resize(width, height)
	return r
}

// Configure sets brush width and color and discards any live stroke.
func (r *Renderer) Configure(opts ink.RendererOptions) {
	r.Abort()
	r.opts = opts
	r.radius = opts.Width / 2
}

// Options returns the current brush options.
func (r *Renderer) Options() ink.RendererOptions {
	return r.opts
}

// Resize reallocates the live buffers. Any live stroke is discarded.
func (r *Renderer) Resize(width, height int) {
	rect := image.Rect(0, 0, max(width, 0), max(height, 0))
	r.cov = image.NewAlpha(rect)
	r.live = ink.NewLayer(rect.Dx(), rect.Dy())
	r.preview = ink.NewLayer(rect.Dx(), rect.Dy())
	r.reset()
}

// Draw adds points to the live stroke.
func (r *Renderer) Draw(points []ink.Point, final bool) {
	var area image.Rectangle
	for _, p := range points {
		a := p
		if r.hasLast {
			a = r.last
		}
		area = area.Union(raster.Accumulate(r.cov, capsule(a, p, r.radius)))
		r.last, r.hasLast = p, true
	}
	colorize(r.live, r.cov, area, r.opts.Color)

	r.bounds = r.bounds.Union(area)
	r.updated = area.Union(r.previewArea)
	if final {
		r.predCov = nil
		r.previewArea = image.Rectangle{}
	}
}

// DrawPreliminary replaces the predicted tail of the live stroke.
func (r *Renderer) DrawPreliminary(points []ink.Point) {
	stale := r.previewArea
	r.predCov = nil
	r.previewArea = image.Rectangle{}

	if len(points) > 0 && r.hasLast {
		polys := make([][]f64.Vec2, 0, len(points))
		a := r.last
		for _, p := range points {
			polys = append(polys, capsule(a, p, r.radius))
			a = p
		}
		var box image.Rectangle
		for _, poly := range polys {
			box = box.Union(raster.Bounds(poly))
		}
		box = box.Intersect(r.cov.Rect)
		if !box.Empty() {
			r.predCov = image.NewAlpha(box)
			for _, poly := range polys {
				raster.Accumulate(r.predCov, poly)
			}
			r.previewArea = box
		}
	}
	r.updated = r.updated.Union(stale).Union(r.previewArea)
}

// UpdatedArea returns the view area touched by the last draw calls.
func (r *Renderer) UpdatedArea() ink.Rect {
	return ink.FromImageRect(r.updated)
}

// StrokeBounds returns the view area of the live stroke.
func (r *Renderer) StrokeBounds() ink.Rect {
	return ink.FromImageRect(r.bounds)
}

// BlendStroke composites the live stroke, without prediction, onto target.
func (r *Renderer) BlendStroke(target *ink.Layer) {
	if r.bounds.Empty() {
		return
	}
	target.Blend(r.live, ink.WithRect(ink.FromImageRect(r.bounds)))
}

// BlendUpdatedArea composites the live stroke and its prediction onto target
// inside the updated area.
func (r *Renderer) BlendUpdatedArea(target *ink.Layer) {
	if r.updated.Empty() {
		return
	}
	area := ink.FromImageRect(r.updated)
	r.preview.Blend(r.live, ink.WithRect(area), ink.WithMode(ink.BlendCopy))
	if r.predCov != nil {
		merged := image.NewAlpha(r.previewArea)
		for y := r.previewArea.Min.Y; y < r.previewArea.Max.Y; y++ {
			for x := r.previewArea.Min.X; x < r.previewArea.Max.X; x++ {
				merged.SetAlpha(x, y, color.Alpha{A: max(r.cov.AlphaAt(x, y).A, r.predCov.AlphaAt(x, y).A)})
			}
		}
		colorize(r.preview, merged, r.previewArea, r.opts.Color)
	}
	target.Blend(r.preview, ink.WithRect(area))
}

// BlendStrokes composites strokes onto target in order, restricted to
// opts.Rect.
func (r *Renderer) BlendStrokes(strokes []*ink.Stroke, target *ink.Layer, opts ink.BlendStrokesOptions) {
	area := opts.Rect.Pixels().Intersect(target.Image().Rect)
	if area.Empty() || len(strokes) == 0 {
		return
	}
	scale := opts.Transform.ScaleFactor()
	scratch := ink.ScratchLayer(target.Width(), target.Height())
	defer ink.ReleaseLayer(scratch)

	for _, s := range strokes {
		points := make([]ink.Point, len(s.Points))
		for i, p := range s.Points {
			points[i] = opts.Transform.TransformPoint(p)
		}
		radius := s.Style.Width * scale / 2

		box := strokeBox(points, radius).Intersect(area)
		if box.Empty() {
			continue
		}
		cov := image.NewAlpha(box)
		paint(cov, points, radius)
		colorize(scratch, cov, box, s.Style.Color)

		boxRect := ink.FromImageRect(box)
		target.Blend(scratch, ink.WithRect(boxRect))
		scratch.Clear(boxRect)
	}
}

// ToStroke converts the view-space path into a model-space stroke with the
// current brush. It returns nil for an empty path.
func (r *Renderer) ToStroke(path []ink.Point, lens *ink.Lens) *ink.Stroke {
	if len(path) == 0 {
		return nil
	}
	return ink.NewStroke(lens.PointsToModel(path), ink.Style{
		Width:   r.opts.Width / lens.Scale(),
		Color:   r.opts.Color,
		Visible: true,
	})
}

// Abort discards the live stroke.
func (r *Renderer) Abort() {
	dirty := r.bounds.Union(r.previewArea)
	if !dirty.Empty() {
		area := ink.FromImageRect(dirty)
		r.live.Clear(area)
		r.preview.Clear(area)
		clearAlpha(r.cov, dirty)
	}
	r.reset()
}

func (r *Renderer) reset() {
	r.hasLast = false
	r.bounds = image.Rectangle{}
	r.updated = image.Rectangle{}
	r.predCov = nil
	r.previewArea = image.Rectangle{}
}

// paint accumulates the full stroke coverage into cov.
func paint(cov *image.Alpha, points []ink.Point, radius float64) {
	for i, p := range points {
		a := p
		if i > 0 {
			a = points[i-1]
		}
		raster.Accumulate(cov, capsule(a, p, radius))
	}
}

// strokeBox returns the pixel area a stroke along points can touch.
func strokeBox(points []ink.Point, radius float64) image.Rectangle {
	if len(points) == 0 || radius <= 0 {
		return image.Rectangle{}
	}
	return ink.BoundsOf(points, ink.SpaceView).Outset(radius + 1).Pixels()
}

func capsule(a, b ink.Point, radius float64) []f64.Vec2 {
	return raster.Capsule(f64.Vec2{a.X, a.Y}, f64.Vec2{b.X, b.Y}, radius)
}

// colorize writes c scaled by coverage into dst over area, replacing the
// previous pixels.
func colorize(dst *ink.Layer, cov *image.Alpha, area image.Rectangle, c color.NRGBA) {
	img := dst.Image()
	area = area.Intersect(img.Rect).Intersect(cov.Rect)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		src := cov.Pix[cov.PixOffset(area.Min.X, y):]
		out := img.Pix[img.PixOffset(area.Min.X, y):]
		for x := 0; x < area.Dx(); x++ {
			o := out[x*4 : x*4+4 : x*4+4]
			o[0], o[1], o[2], o[3] = ink.Premultiply(c, src[x])
		}
	}
}

func clearAlpha(m *image.Alpha, r image.Rectangle) {
	r = r.Intersect(m.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.PixOffset(r.Min.X, y)
		clear(m.Pix[i : i+r.Dx()])
	}
}
