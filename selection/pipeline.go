// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package selection

import (
	"image/color"
	"math"
	"sync/atomic"

	"github.com/gogpu/ink"
)

// Pipeline is the raster selection of one surface.
//
// Pipeline is not safe for concurrent use, except that a concurrent
// [Pipeline.Export] or [Pipeline.Import] fails with [ink.ErrBusy].
type Pipeline struct {
	bridge Bridge
	layer  *ink.Layer
	mask   *ink.Layer

	state State
	sel   Selection
	// detached is set while the selected pixels live only in layer and
	// not in the strokes layer.
	detached bool
	// preview is the canvas area showing the detached pixels.
	preview ink.Rect

	clipboard *Clipboard
	busy      atomic.Bool
}

// New creates a closed pipeline drawing on bridge.
func New(bridge Bridge) *Pipeline {
	c := bridge.Canvas()
	return &Pipeline{
		bridge: bridge,
		layer:  bridge.NewLayer(c.Width(), c.Height()),
		mask:   bridge.NewLayer(c.Width(), c.Height()),
	}
}

// State returns the lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Selection returns a copy of the open selection.
func (p *Pipeline) Selection() (Selection, bool) {
	if p.state == StateClosed {
		return Selection{}, false
	}
	s := p.sel
	s.Path = s.Path.Clone()
	if s.Origin != nil {
		o := *s.Origin
		s.Origin = &o
	}
	return s, true
}

// Clipboard returns the last copied content, or nil.
func (p *Pipeline) Clipboard() *Clipboard {
	return p.clipboard
}

// Layer returns the selection layer.
func (p *Pipeline) Layer() *ink.Layer {
	return p.layer
}

// Mask returns the mask layer.
func (p *Pipeline) Mask() *ink.Layer {
	return p.mask
}

// Open selects the pixels inside the convex hull of the stroke points.
// Degenerate hulls are rejected before any layer is touched.
func (p *Pipeline) Open(stroke *ink.Stroke) error {
	if stroke == nil {
		return ink.ErrEmptySelection
	}
	hull := ink.ConvexHull(stroke.Points)
	bounds := hull.Bounds(ink.SpaceModel)
	if len(hull) < 3 || hull.Area() == 0 || bounds.Empty() {
		return ink.ErrEmptySelection
	}

	p.Close()
	p.place(Selection{Type: TypePath, Bounds: bounds, Path: hull}, nil)
	return p.createRasterSelection(PathSource{}, ink.Rect{})
}

// OpenRect opens a rectangle of the size of bounds with its top-left corner
// at the view position pos. src is a [RectSource] to select existing
// pixels, or [RasterBytes] or [LayerSource] to place new content.
func (p *Pipeline) OpenRect(pos ink.Point, bounds ink.Rect, src Source) error {
	pos = floorPoint(pos)
	view := ink.R(pos.X, pos.Y, pos.X+math.Floor(bounds.Width()), pos.Y+math.Floor(bounds.Height()))
	if view.Empty() {
		return ink.ErrEmptySelection
	}
	if err := validate(src, view); err != nil {
		return err
	}

	lens := p.bridge.Lens()
	corners := view.Corners()
	path := ink.Polygon(lens.PointsToModel(corners[:]))

	p.Close()
	var origin *ink.Point
	if _, ok := src.(RectSource); !ok {
		o := lens.PointToModel(pos)
		origin = &o
	}
	p.place(Selection{Type: TypeRect, Bounds: path.Bounds(ink.SpaceModel), Path: path, Origin: origin}, nil)
	return p.createRasterSelection(src, view)
}

// OpenPath opens a path selection. path is in model units relative to the
// view position pos, which receives the top-left pixel of src. state
// restores the placement of a previous copy: its origin offset from pos and
// its committed transform. state may be nil.
func (p *Pipeline) OpenPath(pos ink.Point, path ink.Polygon, src Source, state *PlacementState) error {
	pos = floorPoint(pos)
	lens := p.bridge.Lens()
	anchor := lens.PointToModel(pos)
	placed := path.Translate(anchor)
	bounds := placed.Bounds(ink.SpaceModel)
	if len(placed) < 3 || placed.Area() == 0 || bounds.Empty() {
		return ink.ErrEmptySelection
	}

	var view ink.Rect
	switch s := src.(type) {
	case RasterBytes:
		view = ink.R(pos.X, pos.Y, pos.X+float64(s.Size.X), pos.Y+float64(s.Size.Y))
	case LayerSource:
		if s.Layer != nil {
			view = s.Layer.Bounds().Translate(pos)
		}
	}
	if err := validate(src, view); err != nil {
		return err
	}

	origin := anchor
	if state != nil {
		origin = anchor.Add(state.Origin)
	}
	p.Close()
	p.place(Selection{Type: TypePath, Bounds: bounds, Path: placed, Origin: &origin}, state)
	return p.createRasterSelection(src, view)
}

func validate(src Source, view ink.Rect) error {
	switch s := src.(type) {
	case RasterBytes:
		if err := s.validate(); err != nil {
			return err
		}
		if view.Pixels().Size() != s.Size {
			return ink.ErrEmptySelection
		}
	case LayerSource:
		if s.Layer == nil || s.Layer.Bounds().Empty() {
			return ink.ErrEmptySelection
		}
	case PathSource, RectSource:
	default:
		return ink.ErrUnsupportedImage
	}
	return nil
}

func (p *Pipeline) place(s Selection, state *PlacementState) {
	s.Transform = ink.Identity()
	s.Applied = ink.Identity()
	if state != nil {
		s.Applied = state.Transform
	}
	p.sel = s
	p.state = StateOpen
	p.detached = false
	p.preview = ink.Rect{}
	p.layer.ClearAll()
	p.mask.ClearAll()
}

// createRasterSelection fills the mask from the selection path and loads
// the content of src. A mask without pixels closes the selection.
func (p *Pipeline) createRasterSelection(src Source, view ink.Rect) error {
	lens := p.bridge.Lens()
	filled := p.mask.FillPolygon(ink.Polygon(lens.PointsToView(p.sel.Path)), color.White)
	if filled.Empty() {
		ink.Logger().Warn("selection: no pixels selected, closing", "bounds", p.sel.Bounds)
		p.Close()
		return nil
	}

	switch s := src.(type) {
	case PathSource, RectSource:
		ink.Logger().Info("selection: opened", "type", p.sel.Type, "bounds", p.sel.Bounds)
		return nil
	case RasterBytes:
		if err := p.layer.WritePixels(s.Pix, view); err != nil {
			p.Reset()
			return err
		}
	case LayerSource:
		p.layer.Blend(s.Layer, ink.WithSourceRect(s.Layer.Bounds(), view.Floor()))
	}
	p.detached = true
	ink.Logger().Info("selection: placed", "type", p.sel.Type, "bounds", p.sel.Bounds)
	p.show()
	return nil
}

// viewArea returns the pixel area of the selection at its pending
// transform, clipped to the layer.
func (p *Pipeline) viewArea() ink.Rect {
	moved := p.sel.Bounds.Transform(p.sel.Transform)
	return p.bridge.Lens().ModelToView(moved).Ceil().Intersect(p.layer.Bounds())
}

// viewTransform maps the selection layer onto the canvas.
func (p *Pipeline) viewTransform() ink.Matrix {
	return p.bridge.Lens().Transform().Conjugate(p.sel.Transform)
}

// show recomposites the canvas under the previous and current preview and
// draws the detached pixels on top.
func (p *Pipeline) show() {
	area := p.viewArea()
	p.bridge.Refresh(area.Union(p.preview))
	p.bridge.Canvas().Blend(p.layer, ink.WithRect(area), ink.WithTransform(p.viewTransform()))
	p.preview = area
}

// extract copies the selected strokes pixels into the selection layer.
func (p *Pipeline) extract() ink.Rect {
	r := p.viewArea()
	p.layer.ClearAll()
	p.layer.Blend(p.bridge.StrokesLayer(), ink.WithRect(r), ink.WithMode(ink.BlendCopy))
	p.layer.Blend(p.mask, ink.WithRect(r), ink.WithMode(ink.BlendDestinationIn))
	return r
}

// BeginTransform detaches the selected pixels from the strokes layer. It
// runs once per transform session and is a no-op while transforming.
func (p *Pipeline) BeginTransform() error {
	switch p.state {
	case StateClosed:
		return ink.ErrNotOpen
	case StateTransforming:
		return nil
	}
	if !p.detached {
		r := p.extract()
		p.bridge.StrokesLayer().Blend(p.mask, ink.WithRect(r), ink.WithMode(ink.BlendDestinationOut))
		p.detached = true
	}
	p.state = StateTransforming
	p.show()
	ink.Logger().Debug("selection: transform started", "bounds", p.sel.Bounds)
	return nil
}

// Transform sets the pending model-space transform, relative to the
// committed placement, and refreshes the preview. The strokes layer is not
// modified. An open selection starts a transform session first.
func (p *Pipeline) Transform(m ink.Matrix) error {
	if p.state == StateOpen {
		if err := p.BeginTransform(); err != nil {
			return err
		}
	}
	if p.state != StateTransforming {
		return ink.ErrNotOpen
	}
	p.sel.Transform = m
	p.show()
	return nil
}

// CompleteTransform commits the pending transform into the strokes layer
// and returns the view-space area that changed. Outside a transform session
// it returns an empty Rect and changes nothing.
func (p *Pipeline) CompleteTransform() ink.Rect {
	if p.state != StateTransforming {
		return ink.Rect{}
	}
	return p.commit()
}

// commit resamples the detached pixels and the mask at the pending
// transform, blends them into the strokes layer and folds the transform
// into the selection.
func (p *Pipeline) commit() ink.Rect {
	dirty := p.viewArea()
	if t := p.sel.Transform; !t.IsIdentity() {
		v := p.viewTransform()
		remap(p.layer, v, dirty)
		remap(p.mask, v, dirty)

		p.sel.Bounds = p.sel.Bounds.Transform(t)
		p.sel.Path = p.sel.Path.Transform(t)
		p.sel.Applied = t.Multiply(p.sel.Applied)
		if p.sel.Origin != nil {
			o := t.TransformPoint(*p.sel.Origin)
			p.sel.Origin = &o
		}
		p.sel.Transform = ink.Identity()
	}

	p.bridge.StrokesLayer().Blend(p.layer, ink.WithRect(dirty))
	p.bridge.Refresh(dirty.Union(p.preview))
	p.preview = ink.Rect{}
	p.detached = false
	p.state = StateOpen

	ink.Logger().Debug("selection: transform committed", "dirty", dirty)
	return dirty
}

// remap replaces the content of l by itself under v, restricted to area.
func remap(l *ink.Layer, v ink.Matrix, area ink.Rect) {
	scratch := ink.ScratchLayer(l.Width(), l.Height())
	defer ink.ReleaseLayer(scratch)

	scratch.Blend(l, ink.WithRect(area), ink.WithMode(ink.BlendCopy), ink.WithTransform(v))
	l.ClearAll()
	l.Blend(scratch, ink.WithRect(area), ink.WithMode(ink.BlendCopy))
}

// Copy stores the selected pixels and outline, at their current placement,
// in the clipboard. With cut the selection is deleted afterwards. Otherwise
// it closes without writing to the strokes layer, so pasted or moved
// pixels that were never committed are dropped.
func (p *Pipeline) Copy(cut bool) error {
	if p.state == StateClosed {
		return ink.ErrNotOpen
	}
	pix, area := p.readPlaced()
	defer ink.ReleaseLayer(pix)
	if area.Empty() {
		return ink.ErrEmptySelection
	}

	t := p.sel.Transform
	anchor := p.bridge.Lens().PointToModel(area.Min)
	clip := &Clipboard{
		Path: p.sel.Path.Transform(t).Translate(anchor.Mul(-1)),
		Data: pix.ReadPixels(area),
		Size: area.Pixels().Size(),
	}
	if p.sel.Origin != nil {
		clip.State = &PlacementState{
			Origin:    t.TransformPoint(*p.sel.Origin).Sub(anchor),
			Transform: t.Multiply(p.sel.Applied),
		}
	}
	p.clipboard = clip
	ink.Logger().Info("selection: copied", "cut", cut, "size", clip.Size)

	if cut {
		p.Delete()
	} else {
		p.discard()
	}
	return nil
}

// readPlaced copies the selected pixels at the pending transform into a
// scratch layer and returns it with their view area. Neither the strokes
// layer nor the selection layer is modified. Release the layer with
// [ink.ReleaseLayer].
func (p *Pipeline) readPlaced() (*ink.Layer, ink.Rect) {
	area := p.viewArea()
	out := ink.ScratchLayer(p.layer.Width(), p.layer.Height())
	src, v := p.bridge.StrokesLayer(), ink.Identity()
	if p.detached {
		src, v = p.layer, p.viewTransform()
	}
	out.Blend(src, ink.WithRect(area), ink.WithMode(ink.BlendCopy), ink.WithTransform(v))
	out.Blend(p.mask, ink.WithRect(area), ink.WithMode(ink.BlendDestinationIn), ink.WithTransform(v))
	return out, area
}

// Paste opens a new path selection from the clipboard with its top-left
// pixel at the view position pos. Each paste works on its own copy.
func (p *Pipeline) Paste(pos ink.Point) error {
	if p.clipboard == nil {
		return ink.ErrEmptyClipboard
	}
	c, err := p.clipboard.Clone()
	if err != nil {
		return err
	}
	return p.OpenPath(pos, c.Path, RasterBytes{Pix: c.Data, Size: c.Size}, c.State)
}

// Delete discards the selected pixels and closes the selection.
func (p *Pipeline) Delete() {
	if p.state == StateClosed {
		return
	}
	dirty := p.viewArea()
	p.layer.ClearAll()
	if !p.detached {
		p.bridge.StrokesLayer().Blend(p.mask, ink.WithRect(dirty), ink.WithMode(ink.BlendDestinationOut))
	}
	p.bridge.Refresh(dirty.Union(p.preview))
	p.detached = false
	p.preview = ink.Rect{}
	p.Close()
}

// Close ends the selection. Detached pixels are committed into the strokes
// layer first; a selection of existing strokes closes without touching it.
func (p *Pipeline) Close() {
	if p.state == StateClosed {
		return
	}
	if p.state == StateTransforming || p.detached {
		p.commit()
	}
	p.clear()
	ink.Logger().Info("selection: closed")
}

// discard ends the selection without committing detached pixels and
// restores the canvas under their preview.
func (p *Pipeline) discard() {
	if p.state == StateClosed {
		return
	}
	p.bridge.Refresh(p.preview)
	p.clear()
	ink.Logger().Info("selection: closed", "committed", false)
}

// Reset discards the selection and any detached pixels regardless of state.
func (p *Pipeline) Reset() {
	p.clear()
}

// Resize closes the selection and adapts the layers to a new surface size.
func (p *Pipeline) Resize(width, height int) {
	p.Close()
	p.layer.Resize(width, height)
	p.mask.Resize(width, height)
}

func (p *Pipeline) clear() {
	p.layer.ClearAll()
	p.mask.ClearAll()
	p.sel = Selection{}
	p.state = StateClosed
	p.detached = false
	p.preview = ink.Rect{}
}

func floorPoint(p ink.Point) ink.Point {
	return ink.Pt(math.Floor(p.X), math.Floor(p.Y))
}
