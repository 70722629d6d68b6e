// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "sync"

// FrameScheduler runs callbacks on the next display frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// FrameQueue is a [FrameScheduler] driven by explicit ticks. Hosts call Tick
// from their frame loop; tests call it to advance time.
//
// Thread safety: All methods are safe for concurrent use.
type FrameQueue struct {
	mu      sync.Mutex
	pending []func()
	frames  uint64
}

var _ FrameScheduler = (*FrameQueue)(nil)

// NewFrameQueue returns an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// RequestFrame queues fn for the next Tick.
func (q *FrameQueue) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Tick runs the callbacks queued before the call and returns how many ran.
// Callbacks queued while ticking wait for the next frame.
func (q *FrameQueue) Tick() int {
	q.mu.Lock()
	fns := q.pending
	q.pending = nil
	q.frames++
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending returns the number of callbacks waiting for the next frame.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Frames returns the number of ticks so far.
func (q *FrameQueue) Frames() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frames
}

// Container reports the pixel size the surface should fill.
type Container interface {
	Size() (width, height int)
}

// FixedContainer is a [Container] with a settable size.
type FixedContainer struct {
	mu   sync.Mutex
	w, h int
}

// NewFixedContainer returns a container of the given size.
func NewFixedContainer(width, height int) *FixedContainer {
	return &FixedContainer{w: width, h: height}
}

// Size returns the current size.
func (c *FixedContainer) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w, c.h
}

// SetSize changes the size reported by the next Size call.
func (c *FixedContainer) SetSize(width, height int) {
	c.mu.Lock()
	c.w, c.h = width, height
	c.mu.Unlock()
}
