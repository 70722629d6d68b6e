// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"slices"

	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/ink"
)

// Redraw re-renders the strokes layer from the model inside dirty and
// refreshes the canvas. An empty dirty rect redraws everything. Excluded
// strokes are left out, for example while they are being transformed.
func (c *Controller) Redraw(dirty ink.Rect, excluded ...*ink.Stroke) {
	full := dirty.Empty()
	viewArea := c.canvas.Bounds()
	if !full {
		viewArea = c.lens.ModelToView(dirty).Ceil().Intersect(viewArea)
		if viewArea.Empty() {
			return
		}
	}
	// The model area covers every pixel of the view area, so strokes that
	// only touch its rounded edges are redrawn too.
	modelArea := c.lens.ViewToModel(viewArea)
	originArea := modelArea
	if full {
		originArea = ink.Rect{}
	}

	c.strokes.Clear(viewArea)
	c.clearOrigin(originArea)

	strokes := make([]*ink.Stroke, 0, len(c.model.Content()))
	for _, s := range c.model.Content() {
		if !s.Style.Visible || slices.Contains(excluded, s) {
			continue
		}
		if !full && !s.Bounds().Overlaps(modelArea) {
			continue
		}
		strokes = append(strokes, s)
	}

	c.renderer.BlendStrokes(strokes, c.strokes, ink.BlendStrokesOptions{
		Rect:      viewArea,
		Transform: c.lens.Transform(),
	})
	c.drawOrigin(strokes, originArea)
	c.Refresh(viewArea)

	ink.Logger().Debug("surface: redraw", "area", viewArea, "strokes", len(strokes))
}

// Refresh recomposites the canvas inside area from the strokes layer. A
// model-space area is converted first. An empty area refreshes nothing.
func (c *Controller) Refresh(area ink.Rect) {
	area = c.lens.ModelToView(area).Ceil().Intersect(c.canvas.Bounds())
	if area.Empty() {
		return
	}
	c.canvas.Clear(area)
	c.canvas.Blend(c.strokes, ink.WithRect(area))
}

// RefreshAll recomposites the whole canvas.
func (c *Controller) RefreshAll() {
	c.Refresh(c.canvas.Bounds())
}

// clearOrigin clears the origin layer inside the model area, or entirely
// for an empty area. Raster documents and a locked origin keep it.
func (c *Controller) clearOrigin(modelArea ink.Rect) {
	if c.origin == nil || c.cfg.Type == ink.TypeRaster || c.cfg.PreventOriginRedraw {
		return
	}
	if modelArea.Empty() {
		c.origin.ClearAll()
		return
	}
	c.origin.Clear(modelArea.Ceil())
}

// drawOrigin mirrors strokes into the origin layer inside the model area,
// or everywhere for an empty area.
func (c *Controller) drawOrigin(strokes []*ink.Stroke, modelArea ink.Rect) {
	if c.origin == nil || c.cfg.PreventOriginRedraw {
		return
	}
	if modelArea.Empty() {
		modelArea = c.origin.Bounds()
	}
	c.originRenderer.BlendStrokes(strokes, c.origin, ink.BlendStrokesOptions{
		Rect:      modelArea.Ceil(),
		Transform: ink.Identity(),
	})
}

// Resize adapts the canvas and every co-located layer to the container
// size. A window resize keeps the view origin and only refreshes the
// canvas from the strokes layer. Zoom-out and orientation changes recenter
// the lens and redraw from the model, since view-space content is no longer
// valid.
func (c *Controller) Resize(reason ResizeReason) {
	w, h := c.container.Size()
	c.Abort()
	c.selection.Resize(w, h)

	c.canvas.Resize(w, h)
	c.strokes.Resize(w, h)
	for _, l := range c.layers {
		l.Resize(w, h)
	}
	c.renderer.Resize(w, h)

	ink.Logger().Debug("surface: resize", "width", w, "height", h, "reason", reason)
	if reason == ResizeZoomOut || reason == ResizeOrientation {
		c.lens.Recenter(w, h)
		c.Redraw(ink.Rect{})
		return
	}
	c.lens.Focus(w, h)
	c.RefreshAll()
}

// Clear starts a fresh document: the model, the lens, the selection and
// every layer are reset.
func (c *Controller) Clear() {
	c.Abort()
	c.clearOrigin(ink.Rect{})
	c.strokes.ClearAll()
	c.canvas.ClearAll()
	c.selection.Reset()
	c.model.Reset()
	c.lens.Reset()
	c.selected = nil
}

// Thumbnail returns the document scaled to width x height. It uses the
// origin layer when configured and the strokes layer otherwise.
func (c *Controller) Thumbnail(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, ink.ErrEmptyRegion
	}
	src := c.strokes
	if c.origin != nil {
		src = c.origin
	}
	return transform.Resize(src.Image(), width, height, transform.Linear), nil
}
