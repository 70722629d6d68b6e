// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface routes pointer input through the active ink tool and keeps
// the visible canvas in sync with the stroke collection.
//
// A [Controller] owns three view-space layers of the container size:
//
//   - the canvas, which is what the host presents
//   - the strokes layer, holding the persisted ink pixels
//   - co-located layers created through [Controller.NewLayer], such as the
//     selection and mask layers of the [selection.Pipeline]
//
// and optionally an origin layer in model pixels that mirrors the document
// at full resolution for thumbnails.
//
// # Input sessions
//
// A session runs from [Controller.Begin] to [Controller.End] or
// [Controller.Abort]. The active tool decides where each built path part
// goes:
//
//   - [ToolDraw] renders ink and appends a stroke at the end
//   - [ToolErase] splits existing strokes along the path
//   - [ToolSelect] opens a selection from the drawn outline
//
// Move samples are coalesced per display frame: at most one path build is
// scheduled per frame through the [FrameScheduler], regardless of the input
// sampling rate.
//
// # Compositing
//
// Every composite clears the target region first and then blends the
// sources in z-order: origin, strokes, live preview. All areas are
// intersected with the target layer bounds before use.
//
// # Usage
//
//	frames := surface.NewFrameQueue()
//	c, err := surface.New(ink.DefaultConfig(), surface.WithSize(800, 600), surface.WithFrames(frames))
//	if err != nil {
//		return err
//	}
//	c.Begin(ink.InputPoint{Point: ink.Pt(10, 10)})
//	c.Move(ink.InputPoint{Point: ink.Pt(50, 40)}, nil)
//	frames.Tick()
//	c.End(ink.InputPoint{Point: ink.Pt(90, 60)})
package surface
