// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster computes anti-aliased polygon coverage for ink strokes and
// selection masks.
//
// Every polygon is rasterized in its own integer-aligned bounding box and
// then combined into the destination with a per-pixel maximum. The coverage
// of a pixel therefore depends only on the polygon, never on how the
// destination was clipped, which keeps incremental drawing and full redraws
// pixel-identical.
package raster

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// Bounds returns the integer bounding box of a polygon, rounded outward.
func Bounds(poly []f64.Vec2) image.Rectangle {
	if len(poly) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// Accumulate rasterizes poly and max-combines its coverage into dst.
// It returns the part of dst that the polygon's box overlaps.
func Accumulate(dst *image.Alpha, poly []f64.Vec2) image.Rectangle {
	box := Bounds(poly)
	if box.Empty() {
		return image.Rectangle{}
	}
	clip := box.Intersect(dst.Rect)
	if clip.Empty() {
		return image.Rectangle{}
	}

	cov := rasterize(box, poly)
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		src := cov.Pix[cov.PixOffset(clip.Min.X, y):]
		out := dst.Pix[dst.PixOffset(clip.Min.X, y):]
		for x := 0; x < clip.Dx(); x++ {
			if src[x] > out[x] {
				out[x] = src[x]
			}
		}
	}
	return clip
}

// rasterize draws poly into a fresh coverage buffer covering box.
func rasterize(box image.Rectangle, poly []f64.Vec2) *image.Alpha {
	w, h := box.Dx(), box.Dy()
	z := vector.NewRasterizer(w, h)
	ox, oy := float64(box.Min.X), float64(box.Min.Y)

	z.MoveTo(float32(poly[0][0]-ox), float32(poly[0][1]-oy))
	for _, p := range poly[1:] {
		z.LineTo(float32(p[0]-ox), float32(p[1]-oy))
	}
	z.ClosePath()

	cov := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(cov, cov.Bounds(), image.Opaque, image.Point{})
	cov.Rect = box
	return cov
}

// Threshold turns coverage inside r into a binary mask: pixels whose center
// is covered (coverage of at least one half) become opaque, the rest clear.
// It returns the tight bounding box of the opaque pixels.
func Threshold(m *image.Alpha, r image.Rectangle) image.Rectangle {
	r = r.Intersect(m.Rect)
	var tight image.Rectangle
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Pix[m.PixOffset(r.Min.X, y):]
		for x := 0; x < r.Dx(); x++ {
			if row[x] >= 0x80 {
				row[x] = 0xff
				tight = tight.Union(image.Rect(r.Min.X+x, y, r.Min.X+x+1, y+1))
			} else {
				row[x] = 0
			}
		}
	}
	return tight
}

// Capsule returns a polygon approximating the round-capped segment from a
// to b with the given radius. A zero-length segment yields a circle.
func Capsule(a, b f64.Vec2, radius float64) []f64.Vec2 {
	if radius <= 0 {
		return nil
	}
	steps := arcSteps(radius)
	dx, dy := b[0]-a[0], b[1]-a[1]
	if dx == 0 && dy == 0 {
		poly := make([]f64.Vec2, 0, 2*steps)
		for i := 0; i < 2*steps; i++ {
			t := math.Pi * float64(i) / float64(steps)
			poly = append(poly, f64.Vec2{a[0] + radius*math.Cos(t), a[1] + radius*math.Sin(t)})
		}
		return poly
	}

	dir := math.Atan2(dy, dx)
	poly := make([]f64.Vec2, 0, 2*(steps+1))
	// Cap around b sweeps from the left normal to the right normal.
	for i := 0; i <= steps; i++ {
		t := dir - math.Pi/2 + math.Pi*float64(i)/float64(steps)
		poly = append(poly, f64.Vec2{b[0] + radius*math.Cos(t), b[1] + radius*math.Sin(t)})
	}
	for i := 0; i <= steps; i++ {
		t := dir + math.Pi/2 + math.Pi*float64(i)/float64(steps)
		poly = append(poly, f64.Vec2{a[0] + radius*math.Cos(t), a[1] + radius*math.Sin(t)})
	}
	return poly
}

// arcSteps picks the number of segments for a half circle.
func arcSteps(radius float64) int {
	return max(4, min(32, int(math.Ceil(radius*2))))
}
