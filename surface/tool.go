// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/ink"
	"github.com/gogpu/ink/segment"
)

// ToolMode is the behavior of the active tool. It is one of [ToolDraw],
// [ToolErase] or [ToolSelect].
type ToolMode interface {
	toolMode()
}

// ToolDraw renders ink and persists it as a stroke.
type ToolDraw struct{}

// ToolErase splits existing strokes along the input path.
type ToolErase struct {
	Intersector ink.Segmenter
	// WholePath intersects the complete path once the session ends instead
	// of each added segment as it arrives.
	WholePath bool
}

// ToolSelect opens a selection from the input outline.
type ToolSelect struct {
	Selector ink.Segmenter
}

func (ToolDraw) toolMode()   {}
func (ToolErase) toolMode()  {}
func (ToolSelect) toolMode() {}

// modeFor builds the tool mode of a configured tool. Injected segmenters
// take precedence over the defaults.
func modeFor(t ink.ToolConfig, intersector, selector ink.Segmenter) ToolMode {
	switch t.Mode {
	case ink.ModeErase:
		if intersector == nil {
			intersector = segment.NewEraser(t.Width / 2)
		}
		return ToolErase{Intersector: intersector, WholePath: t.Eraser == ink.EraserStroke}
	case ink.ModeSelect:
		if selector == nil {
			selector = segment.NewLasso()
		}
		return ToolSelect{Selector: selector}
	default:
		return ToolDraw{}
	}
}

// ResizeReason tells [Controller.Resize] whether view-space content is
// still valid after the size change.
type ResizeReason uint8

const (
	// ResizeWindow is a plain size change. The strokes layer is kept and the
	// canvas refreshed.
	ResizeWindow ResizeReason = iota
	// ResizeZoomOut exposes area that was never rendered.
	ResizeZoomOut
	// ResizeOrientation rotates the viewport.
	ResizeOrientation
)

// String returns the reason name.
func (r ResizeReason) String() string {
	switch r {
	case ResizeZoomOut:
		return "zoom-out"
	case ResizeOrientation:
		return "orientation"
	default:
		return "window"
	}
}
