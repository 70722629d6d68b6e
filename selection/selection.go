// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package selection extracts a raster region of a surface into a detached
// layer, transforms it interactively and composites it back.
//
// A [Pipeline] owns two canvas-sized layers: the selection layer holding the
// detached pixels and a binary mask layer marking the selected shape. The
// lifecycle is
//
//	StateClosed -> StateOpen -> StateTransforming -> StateOpen -> StateClosed
//
// Every change to the strokes layer is followed by a refresh of exactly the
// rectangle that changed.
package selection

import (
	"context"
	"fmt"
	"image"

	"github.com/jinzhu/copier"

	"github.com/gogpu/ink"
)

// State is the lifecycle state of a [Pipeline].
type State uint8

const (
	// StateClosed means no selection exists.
	StateClosed State = iota
	// StateOpen means a selection exists and is not being transformed.
	StateOpen
	// StateTransforming means the selected pixels are detached and follow
	// the pending transform.
	StateTransforming
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateTransforming:
		return "transforming"
	default:
		return "closed"
	}
}

// Type is the kind of selection outline.
type Type uint8

const (
	// TypePath selections follow a polygon, such as a lasso hull or a
	// pasted outline.
	TypePath Type = iota
	// TypeRect selections are axis-aligned rectangles placed from raw
	// pixels or an imported image.
	TypeRect
)

// String returns the type name.
func (t Type) String() string {
	if t == TypeRect {
		return "rect"
	}
	return "path"
}

// Selection describes the open selection. Bounds and Path are in model
// space and include every committed transform.
type Selection struct {
	Type   Type
	Bounds ink.Rect
	// Path is the selection outline; for rectangles its four corners.
	Path ink.Polygon
	// Transform is the pending model-space transform of an interactive
	// session. It is the identity outside StateTransforming.
	Transform ink.Matrix
	// Applied accumulates the transforms committed since the selection
	// was placed.
	Applied ink.Matrix
	// Origin is the model-space placement anchor of pasted or imported
	// content. It is nil for selections of existing strokes.
	Origin *ink.Point
}

// Source is the content of a new selection. It is one of [PathSource],
// [RectSource], [RasterBytes] or [LayerSource].
type Source interface {
	source()
}

// PathSource selects the pixels of the strokes layer inside the selection
// path.
type PathSource struct{}

// RectSource selects the pixels of the strokes layer inside the selection
// rectangle.
type RectSource struct{}

// RasterBytes places premultiplied RGBA pixels of the given size.
type RasterBytes struct {
	Pix  []byte
	Size image.Point
}

// LayerSource places the whole content of a layer, scaled to the selection
// rectangle when the sizes differ.
type LayerSource struct {
	Layer *ink.Layer
}

func (PathSource) source()  {}
func (RectSource) source()  {}
func (RasterBytes) source() {}
func (LayerSource) source() {}

func (r RasterBytes) validate() error {
	if r.Size.X <= 0 || r.Size.Y <= 0 {
		return ink.ErrEmptySelection
	}
	if want := r.Size.X * r.Size.Y * 4; len(r.Pix) != want {
		return fmt.Errorf("selection: raster has %d bytes, want %d", len(r.Pix), want)
	}
	return nil
}

// PlacementState restores where pasted content came from.
type PlacementState struct {
	// Origin is the placement anchor relative to the top-left pixel of the
	// copied data, in model units.
	Origin ink.Point
	// Transform is the transform committed before the copy.
	Transform ink.Matrix
}

// Clipboard holds copied selection content.
type Clipboard struct {
	// Path is the model-space outline relative to the top-left pixel of
	// Data.
	Path ink.Polygon
	// Data holds premultiplied RGBA pixels of Size.
	Data  []byte
	Size  image.Point
	State *PlacementState
}

// Clone returns a deep copy of c.
func (c *Clipboard) Clone() (*Clipboard, error) {
	out := new(Clipboard)
	if err := copier.CopyWithOption(out, c, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("selection: clone clipboard: %w", err)
	}
	return out, nil
}

// Bridge is the view of the owning surface a [Pipeline] works against.
type Bridge interface {
	Lens() *ink.Lens
	// Canvas is the visible composite.
	Canvas() *ink.Layer
	// StrokesLayer holds the persisted ink pixels.
	StrokesLayer() *ink.Layer
	// NewLayer creates a transparent layer co-located with the canvas.
	NewLayer(width, height int) *ink.Layer
	// Refresh recomposites the canvas inside the view-space area.
	Refresh(area ink.Rect)
}

// Saver stores exported data.
type Saver interface {
	Save(ctx context.Context, name, mime string, data []byte) error
}
