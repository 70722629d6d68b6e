// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"errors"
	"sort"
	"sync"

	"github.com/gogpu/ink/selection"
)

// Factory creates a saver writing into dir.
type Factory func(dir string) (selection.Saver, error)

// Entry is a registered export format.
type Entry struct {
	// Name is the unique format identifier, such as "png" or "pdf".
	Name string

	// Priority orders formats in List; higher comes first.
	Priority int

	Factory Factory

	// Available reports whether the format can be used on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages export formats by name.
//
// Example:
//
//	func init() {
//	    export.Register("svg", 20, newSVGSaver, nil)
//	}
//
//	saver, err := export.New("svg", dir)
//
// Thread safety: All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register adds a format to the global registry. A nil available means the
// format is always available. Registering an existing name replaces it.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a format from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns the registered format names, highest priority first.
func List() []string {
	return globalRegistry.List()
}

// Get returns a registered format.
func Get(name string) (*Entry, bool) {
	return globalRegistry.Get(name)
}

// New creates a saver of the named format writing into dir.
func New(name, dir string) (selection.Saver, error) {
	return globalRegistry.New(name, dir)
}

// Register adds a format to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*Entry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a format from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns the registered format names, highest priority first. Equal
// priorities are ordered by name.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Get returns a copy of a registered format.
func (r *Registry) Get(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// New creates a saver of the named format writing into dir.
func (r *Registry) New(name, dir string) (selection.Saver, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &FormatNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &FormatUnavailableError{Name: name}
	}
	return entry.Factory(dir)
}

// Errors.
var (
	// ErrMIMEMismatch is returned when saved data does not match its
	// declared media type.
	ErrMIMEMismatch = errors.New("export: data does not match media type")
)

// FormatNotFoundError indicates a named format is not registered.
type FormatNotFoundError struct {
	Name string
}

func (e *FormatNotFoundError) Error() string {
	return "export: format not found: " + e.Name
}

// FormatUnavailableError indicates a format exists but cannot be used.
type FormatUnavailableError struct {
	Name string
}

func (e *FormatUnavailableError) Error() string {
	return "export: format unavailable: " + e.Name
}

// init registers the built-in formats.
func init() {
	Register("png", 20, func(dir string) (selection.Saver, error) {
		return NewFileSaver(dir)
	}, nil)
	Register("pdf", 10, func(dir string) (selection.Saver, error) {
		return NewPDFSaver(dir)
	}, nil)
}
