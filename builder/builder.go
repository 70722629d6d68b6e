// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package builder turns raw pointer samples into ink path parts.
//
// A [Builder] accumulates the samples of one input session and hands out the
// points added since the previous build, together with the most recent
// prediction. Consecutive duplicate samples are collapsed so every pair of
// adjacent points forms a real segment.
package builder

import (
	"slices"

	"github.com/gogpu/ink"
)

// Builder is the default [ink.PathBuilder].
type Builder struct {
	opts ink.BuilderOptions

	phase     ink.Phase
	points    []ink.Point
	pending   []ink.Point
	predicted []ink.Point
	ignored   int

	pointerID  int
	hasPointer bool
}

var _ ink.PathBuilder = (*Builder)(nil)

// New returns an idle builder.
func New() *Builder {
	return &Builder{}
}

// Configure sets the session options.
func (b *Builder) Configure(opts ink.BuilderOptions) {
	b.opts = opts
}

// Options returns the current session options.
func (b *Builder) Options() ink.BuilderOptions {
	return b.opts
}

// Add records one sample. A begin sample starts a fresh session.
func (b *Builder) Add(phase ink.Phase, p ink.InputPoint, predicted []ink.Point) {
	if phase == ink.PhaseBegin {
		b.points = b.points[:0]
		b.pending = nil
		b.predicted = nil
		b.ignored = 0
	}
	b.phase = phase

	if n := len(b.points); n == 0 || b.points[n-1] != p.Point {
		b.points = append(b.points, p.Point)
		b.pending = append(b.pending, p.Point)
	}

	if b.opts.Prediction && phase != ink.PhaseEnd {
		b.predicted = slices.Clone(predicted)
	} else {
		b.predicted = nil
	}
}

// Ignore drops a sample. Dropped samples never reach the path.
func (b *Builder) Ignore(ink.InputPoint) {
	b.ignored++
	ink.Logger().Debug("builder: sample dropped", "dropped", b.ignored)
}

// Ignored returns how many samples were dropped in the current session.
func (b *Builder) Ignored() int {
	return b.ignored
}

// Build returns the points added since the previous build. Building the end
// phase releases the pointer assignment.
func (b *Builder) Build() ink.PathPart {
	part := ink.PathPart{
		Phase:     b.phase,
		Added:     b.pending,
		Predicted: b.predicted,
	}
	b.pending = nil
	if b.phase == ink.PhaseEnd {
		b.hasPointer = false
	}
	return part
}

// Abort discards the session.
func (b *Builder) Abort() {
	b.phase = ink.PhaseNone
	b.points = b.points[:0]
	b.pending = nil
	b.predicted = nil
	b.hasPointer = false
}

// Phase returns the phase of the last sample.
func (b *Builder) Phase() ink.Phase {
	return b.phase
}

// Path returns a copy of all session points, optionally with the current
// prediction appended.
func (b *Builder) Path(includePredicted bool) []ink.Point {
	out := slices.Clone(b.points)
	if includePredicted {
		out = append(out, b.predicted...)
	}
	return out
}

// PointerID returns the assigned pointer.
func (b *Builder) PointerID() (int, bool) {
	return b.pointerID, b.hasPointer
}

// SetPointerID assigns the pointer unless one is already assigned.
func (b *Builder) SetPointerID(id int) bool {
	if b.hasPointer {
		return false
	}
	b.pointerID = id
	b.hasPointer = true
	return true
}

// Matches reports whether the builder serves any of ids. With no ids it
// always matches; with ids but no assigned pointer it never does.
func (b *Builder) Matches(ids ...int) bool {
	if len(ids) == 0 {
		return true
	}
	return b.hasPointer && slices.Contains(ids, b.pointerID)
}
