// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/ink"
)

// RegisterInputProvider assigns the builder to a pointer before a session
// starts. With several ids, as for a multi-touch event, the first one is
// taken when no pointer is assigned yet. A single id is taken only when it
// belongs to the primary pointer.
func (c *Controller) RegisterInputProvider(primary bool, ids ...int) {
	switch {
	case len(ids) > 1:
		if _, ok := c.builder.PointerID(); !ok {
			c.builder.SetPointerID(ids[0])
		}
	case len(ids) == 1 && primary:
		c.builder.SetPointerID(ids[0])
	}
}

// InkBuilder returns the builder serving any of ids, or nil.
func (c *Controller) InkBuilder(ids ...int) ink.PathBuilder {
	if !c.builder.Matches(ids...) {
		return nil
	}
	return c.builder
}

// Reset configures the builder and the renderer for a session of the active
// tool started by p. Erase sessions run without prediction.
func (c *Controller) Reset(p ink.InputPoint) {
	prediction := c.cfg.Prediction
	switch m := c.mode.(type) {
	case ToolErase:
		prediction = false
		m.Intersector.Reset(c.model.Content(), c.lens)
	case ToolSelect:
		m.Selector.Reset(c.model.Content(), c.lens)
	}
	c.builder.Configure(ink.BuilderOptions{Prediction: prediction, Device: p.Device})
	c.renderer.Configure(ink.RendererOptions{Width: c.tool.Width, Color: c.toolColor()})
}

// Begin starts a session. A begin from a pointer other than the assigned
// one is ignored; a repeated begin from the same pointer restarts the
// session.
func (c *Controller) Begin(p ink.InputPoint) {
	if id, ok := c.builder.PointerID(); ok && id != p.PointerID {
		return
	}
	c.Abort()

	c.Reset(p)
	c.builder.SetPointerID(p.PointerID)
	c.session = &session{pointerID: p.PointerID, device: p.Device}
	c.builder.Add(ink.PhaseBegin, p, nil)
	c.build()
}

// Move feeds one sample. The first sample of a display frame builds and
// schedules the frame; later samples of the same frame are merged into the
// next build, or dropped when downsampling is enabled.
func (c *Controller) Move(p ink.InputPoint, predicted []ink.Point) {
	if c.session == nil || !c.builder.Matches(p.PointerID) {
		return
	}
	if c.cfg.Downsampling && c.requested {
		c.builder.Ignore(p)
		return
	}
	if !c.cfg.PointerPrediction {
		predicted = nil
	}
	c.builder.Add(ink.PhaseUpdate, p, predicted)
	if c.requested {
		return
	}
	c.requested = true
	c.build()
	c.frames.RequestFrame(func() { c.requested = false })
}

// End finishes the session with the last sample.
func (c *Controller) End(p ink.InputPoint) {
	if c.session == nil || !c.builder.Matches(p.PointerID) {
		return
	}
	c.builder.Add(ink.PhaseEnd, p, nil)
	c.build()
	c.session = nil
}

// Abort discards the session and refreshes what it had drawn. It is a
// no-op without an active session.
func (c *Controller) Abort() {
	if c.session == nil {
		return
	}
	dirty := c.renderer.StrokeBounds()
	if !dirty.Empty() {
		dirty = dirty.Union(c.renderer.UpdatedArea())
	}
	c.renderer.Abort()
	c.builder.Abort()
	c.session = nil
	c.Refresh(dirty)
}

func (c *Controller) build() {
	part := c.builder.Build()
	switch m := c.mode.(type) {
	case ToolErase:
		c.erase(part, m)
	case ToolSelect:
		c.selectPath(part, m)
	default:
		c.draw(part)
	}
}

// draw renders the part and persists the stroke when the session ends.
func (c *Controller) draw(part ink.PathPart) {
	c.drawPath(part)
	if part.Phase != ink.PhaseEnd || c.renderer.StrokeBounds().Empty() {
		return
	}
	stroke := c.renderer.ToStroke(c.builder.Path(false), c.lens)
	if stroke == nil {
		return
	}
	c.model.Add(stroke)
	c.drawOrigin([]*ink.Stroke{stroke}, stroke.Bounds())
	ink.Logger().Debug("surface: stroke added", "id", stroke.ID, "points", len(stroke.Points))
}

// drawPath renders the part and composites the area it changed. The end
// of an erase or select session is left to the tool.
func (c *Controller) drawPath(part ink.PathPart) {
	c.renderer.Draw(part.Added, part.Phase == ink.PhaseEnd)

	switch part.Phase {
	case ink.PhaseUpdate:
		c.renderer.DrawPreliminary(part.Predicted)
		if dirty := c.renderer.UpdatedArea().Intersect(c.canvas.Bounds()); !dirty.Empty() {
			c.present(dirty, part.Phase)
		}
	case ink.PhaseEnd:
		bounds := c.renderer.StrokeBounds()
		if bounds.Empty() {
			return
		}
		if _, ok := c.mode.(ToolDraw); !ok {
			return
		}
		if dirty := bounds.Union(c.renderer.UpdatedArea()).Intersect(c.canvas.Bounds()); !dirty.Empty() {
			c.present(dirty, part.Phase)
		}
	}
}

// present composites dirty onto the canvas. The finished stroke goes into
// the strokes layer first; a live stroke is blended over the canvas only.
func (c *Controller) present(dirty ink.Rect, phase ink.Phase) {
	if phase == ink.PhaseEnd {
		c.renderer.BlendStroke(c.strokes)
	}
	c.canvas.Clear(dirty)
	c.canvas.Blend(c.strokes, ink.WithRect(dirty))
	if phase == ink.PhaseUpdate {
		c.renderer.BlendUpdatedArea(c.canvas)
	}
}

// erase splits strokes along the part. The whole-path eraser shows its path
// and intersects it once at the end; the drag eraser cuts each segment as
// it arrives.
func (c *Controller) erase(part ink.PathPart, m ToolErase) {
	if !m.WholePath {
		c.Split(m.Intersector.Intersect(part.Added))
		return
	}
	c.drawPath(part)
	m.Intersector.UpdateSegmentation(part.Added)
	if part.Phase == ink.PhaseEnd {
		c.Split(m.Intersector.IntersectSegmentation(c.builder.Path(true)))
		c.Abort()
	}
}

// Split applies a segmentation result to the model and redraws the model
// area it reports.
func (c *Controller) Split(in ink.Intersection) {
	if in.Empty() {
		return
	}
	dirty := c.model.Update(in.Intersected, in.Selected)
	if dirty.Empty() {
		return
	}
	c.Redraw(dirty.In(ink.SpaceModel))
}

// selectPath shows the outline and opens a selection from it at the end.
func (c *Controller) selectPath(part ink.PathPart, m ToolSelect) {
	c.drawPath(part)
	m.Selector.UpdateSegmentation(part.Added)
	if part.Phase != ink.PhaseEnd {
		return
	}

	path := c.builder.Path(true)
	stroke := c.renderer.ToStroke(path, c.lens)
	c.selected = m.Selector.IntersectSegmentation(path).Selected
	c.Abort()

	if stroke == nil {
		return
	}
	if err := c.selection.Open(stroke); err != nil {
		ink.Logger().Debug("surface: selection not opened", "err", err)
	}
}
