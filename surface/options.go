// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/ink"
	"github.com/gogpu/ink/selection"
)

// Option configures a Controller during creation.
//
// Example:
//
//	// Default collaborators, fixed 800x600 surface
//	c, err := surface.New(cfg)
//
//	// Host-driven size and frame loop
//	c, err := surface.New(cfg, surface.WithContainer(win), surface.WithFrames(loop))
type Option func(*options)

// options holds optional configuration for Controller creation.
type options struct {
	builder        ink.PathBuilder
	renderer       ink.StrokeRenderer
	model          ink.DataModel
	intersector    ink.Segmenter
	selector       ink.Segmenter
	selection      func(selection.Bridge) *selection.Pipeline
	frames         FrameScheduler
	container      Container
	origin         *ink.Layer
	originRenderer ink.StrokeRenderer
}

// defaultOptions returns the options of a standalone 800x600 surface. Nil
// collaborators are created in New.
func defaultOptions() options {
	return options{
		container: NewFixedContainer(800, 600),
	}
}

// WithBuilder sets the path builder.
func WithBuilder(b ink.PathBuilder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// WithRenderer sets the renderer of live strokes and redraws.
func WithRenderer(r ink.StrokeRenderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithModel sets the stroke collection.
func WithModel(m ink.DataModel) Option {
	return func(o *options) {
		o.model = m
	}
}

// WithIntersector sets the segmenter used by every erase tool.
func WithIntersector(s ink.Segmenter) Option {
	return func(o *options) {
		o.intersector = s
	}
}

// WithSelector sets the segmenter used by every select tool.
func WithSelector(s ink.Segmenter) Option {
	return func(o *options) {
		o.selector = s
	}
}

// WithSelection sets how the selection pipeline is created. The factory
// receives the controller once its layers exist.
func WithSelection(fn func(selection.Bridge) *selection.Pipeline) Option {
	return func(o *options) {
		o.selection = fn
	}
}

// WithFrames sets the display frame scheduler.
func WithFrames(f FrameScheduler) Option {
	return func(o *options) {
		o.frames = f
	}
}

// WithContainer sets where the surface size comes from.
func WithContainer(c Container) Option {
	return func(o *options) {
		o.container = c
	}
}

// WithSize is shorthand for a fixed container of the given size.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.container = NewFixedContainer(width, height)
	}
}

// WithOriginLayer enables the origin layer, a model-space copy of the
// document. Every finished stroke and every redraw is mirrored into it.
func WithOriginLayer(l *ink.Layer) Option {
	return func(o *options) {
		o.origin = l
	}
}

// WithOriginRenderer sets the renderer of the origin layer. It defaults to
// the main renderer.
func WithOriginRenderer(r ink.StrokeRenderer) Option {
	return func(o *options) {
		o.originRenderer = r
	}
}
