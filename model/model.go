// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package model holds the authoritative, ordered stroke collection of a
// surface.
package model

import (
	"slices"
	"sync"

	"github.com/gogpu/ink"
)

// Model is the default [ink.DataModel]. Strokes keep their insertion order,
// which is also their paint order.
type Model struct {
	mu      sync.RWMutex
	strokes []*ink.Stroke
	index   map[string]int
}

var _ ink.DataModel = (*Model)(nil)

// New returns an empty model.
func New() *Model {
	return &Model{index: make(map[string]int)}
}

// Content returns a snapshot of the strokes in paint order.
func (m *Model) Content() []*ink.Stroke {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.strokes)
}

// Len returns the number of strokes.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.strokes)
}

// Stroke returns the stroke with the given id.
func (m *Model) Stroke(id string) (*ink.Stroke, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return m.strokes[i], true
}

// Add appends s on top of the existing strokes.
func (m *Model) Add(s *ink.Stroke) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.index[s.ID]; dup {
		return
	}
	m.index[s.ID] = len(m.strokes)
	m.strokes = append(m.strokes, s)
	ink.Logger().Debug("model: stroke added", "id", s.ID, "points", len(s.Points))
}

// Update removes the removed strokes and inserts the added ones where the
// first removed stroke was, so fragments keep their paint order. Without a
// removed stroke the added ones are appended. It returns the model-space
// union of the bounds of every stroke that was removed or added.
func (m *Model) Update(removed, added []*ink.Stroke) ink.Rect {
	m.mu.Lock()
	defer m.mu.Unlock()

	dirty := ink.Rect{Space: ink.SpaceModel}
	drop := make(map[string]bool, len(removed))
	at := len(m.strokes)
	for _, s := range removed {
		i, ok := m.index[s.ID]
		if !ok {
			continue
		}
		drop[s.ID] = true
		at = min(at, i)
		dirty = dirty.Union(s.Bounds())
	}

	fresh := make([]*ink.Stroke, 0, len(added))
	for _, s := range added {
		if s == nil {
			continue
		}
		if _, exists := m.index[s.ID]; exists && !drop[s.ID] {
			continue
		}
		fresh = append(fresh, s)
		dirty = dirty.Union(s.Bounds())
	}
	if len(drop) == 0 && len(fresh) == 0 {
		return ink.Rect{Space: ink.SpaceModel}
	}

	next := make([]*ink.Stroke, 0, len(m.strokes)-len(drop)+len(fresh))
	for i, s := range m.strokes {
		if i == at {
			next = append(next, fresh...)
		}
		if !drop[s.ID] {
			next = append(next, s)
		}
	}
	if at == len(m.strokes) {
		next = append(next, fresh...)
	}
	m.strokes = next
	m.reindex()

	ink.Logger().Debug("model: updated", "removed", len(drop), "added", len(fresh), "dirty", dirty)
	return dirty.In(ink.SpaceModel)
}

// Reset removes every stroke.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strokes = nil
	clear(m.index)
}

func (m *Model) reindex() {
	clear(m.index)
	for i, s := range m.strokes {
		m.index[s.ID] = i
	}
}
