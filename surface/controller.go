// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image/color"
	"maps"
	"slices"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/brush"
	"github.com/gogpu/ink/builder"
	"github.com/gogpu/ink/model"
	"github.com/gogpu/ink/selection"
)

// DefaultTool is the tool a new controller starts with when configured.
const DefaultTool = "pen"

// Controller owns the canvas and its layer stack and routes input sessions
// through the active tool.
//
// A Controller is not safe for concurrent use. All calls are expected on
// the thread that drives the frame scheduler.
type Controller struct {
	cfg *ink.Config

	toolID string
	tool   ink.ToolConfig
	mode   ToolMode
	color  *color.NRGBA

	builder        ink.PathBuilder
	renderer       ink.StrokeRenderer
	originRenderer ink.StrokeRenderer
	model          ink.DataModel
	intersector    ink.Segmenter
	selector       ink.Segmenter
	selection      *selection.Pipeline
	frames         FrameScheduler
	container      Container

	lens    *ink.Lens
	canvas  *ink.Layer
	strokes *ink.Layer
	origin  *ink.Layer
	layers  []*ink.Layer

	session   *session
	requested bool
	selected  []*ink.Stroke
}

// session is the input session between Begin and End or Abort.
type session struct {
	pointerID int
	device    string
}

var _ selection.Bridge = (*Controller)(nil)

// New creates a controller sized to the container. A nil cfg uses
// [ink.DefaultConfig]. The initial tool is [DefaultTool] if configured,
// otherwise the first tool id in sorted order.
func New(cfg *ink.Config, opts ...Option) (*Controller, error) {
	if cfg == nil {
		cfg = ink.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Tools) == 0 {
		return nil, fmt.Errorf("%w: no tools configured", ink.ErrUnknownTool)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	w, h := o.container.Size()
	c := &Controller{
		cfg:            cfg,
		builder:        o.builder,
		renderer:       o.renderer,
		originRenderer: o.originRenderer,
		model:          o.model,
		intersector:    o.intersector,
		selector:       o.selector,
		frames:         o.frames,
		container:      o.container,
		lens:           ink.NewLens(),
		canvas:         ink.NewLayer(w, h),
		strokes:        ink.NewLayer(w, h),
		origin:         o.origin,
	}
	c.lens.Focus(w, h)

	if c.builder == nil {
		c.builder = builder.New()
	}
	if c.renderer == nil {
		c.renderer = brush.New(w, h)
	}
	if c.originRenderer == nil {
		c.originRenderer = c.renderer
	}
	if c.model == nil {
		c.model = model.New()
	}
	if c.frames == nil {
		c.frames = NewFrameQueue()
	}
	newSelection := o.selection
	if newSelection == nil {
		newSelection = selection.New
	}
	c.selection = newSelection(c)

	id := DefaultTool
	if _, ok := cfg.Tools[id]; !ok {
		id = slices.Sorted(maps.Keys(cfg.Tools))[0]
	}
	if err := c.SetTool(id); err != nil {
		return nil, err
	}
	return c, nil
}

// SetTool activates a configured tool. It fails while a session is active.
func (c *Controller) SetTool(id string) error {
	if c.session != nil {
		return ink.ErrSessionActive
	}
	t, err := c.cfg.Tool(id)
	if err != nil {
		return err
	}
	c.toolID = id
	c.tool = t
	c.mode = modeFor(t, c.intersector, c.selector)
	ink.Logger().Debug("surface: tool changed", "tool", id, "mode", t.Mode)
	return nil
}

// SetColor overrides the color of every tool. Nil restores the configured
// colors.
func (c *Controller) SetColor(col *color.NRGBA) {
	c.color = col
}

// ToolID returns the active tool id.
func (c *Controller) ToolID() string { return c.toolID }

// Mode returns the behavior of the active tool.
func (c *Controller) Mode() ToolMode { return c.mode }

// Config returns the configuration the controller was created with.
func (c *Controller) Config() *ink.Config { return c.cfg }

// Lens returns the view transform.
func (c *Controller) Lens() *ink.Lens { return c.lens }

// Canvas returns the presented layer.
func (c *Controller) Canvas() *ink.Layer { return c.canvas }

// StrokesLayer returns the persisted ink pixels.
func (c *Controller) StrokesLayer() *ink.Layer { return c.strokes }

// OriginLayer returns the model-space origin layer, or nil.
func (c *Controller) OriginLayer() *ink.Layer { return c.origin }

// Model returns the stroke collection.
func (c *Controller) Model() ink.DataModel { return c.model }

// Selection returns the selection pipeline.
func (c *Controller) Selection() *selection.Pipeline { return c.selection }

// Strokes returns the strokes of the model in paint order.
func (c *Controller) Strokes() []*ink.Stroke { return c.model.Content() }

// SelectedStrokes returns the strokes enclosed by the last select session.
func (c *Controller) SelectedStrokes() []*ink.Stroke { return slices.Clone(c.selected) }

// Transform returns the view transform.
func (c *Controller) Transform() ink.Matrix { return c.lens.Transform() }

// SetTransform replaces the view transform. Callers redraw afterwards.
func (c *Controller) SetTransform(m ink.Matrix) { c.lens.SetTransform(m) }

// Active reports whether an input session is in progress.
func (c *Controller) Active() bool { return c.session != nil }

// NewLayer creates a transparent layer co-located with the canvas. The
// layer follows every Resize.
func (c *Controller) NewLayer(width, height int) *ink.Layer {
	l := ink.NewLayer(width, height)
	c.layers = append(c.layers, l)
	return l
}

func (c *Controller) toolColor() color.NRGBA {
	if c.color != nil {
		return *c.color
	}
	col, _ := c.tool.RGBA()
	return col
}
