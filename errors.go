package ink

import "errors"

// Sentinel errors returned by ink and its sub-packages.
var (
	// ErrEmptySelection is returned when a selection would cover no area.
	ErrEmptySelection = errors.New("ink: empty selection")

	// ErrEmptyClipboard is returned by paste when nothing was copied.
	ErrEmptyClipboard = errors.New("ink: clipboard is empty")

	// ErrEmptyRegion is returned when encoding an area outside a layer.
	ErrEmptyRegion = errors.New("ink: empty region")

	// ErrUnsupportedImage is returned by import for data that is not a
	// decodable image.
	ErrUnsupportedImage = errors.New("ink: unsupported image format")

	// ErrBusy is returned while an export or import is in flight.
	ErrBusy = errors.New("ink: selection busy with export or import")

	// ErrUnknownTool is returned for tool ids missing from the configuration.
	ErrUnknownTool = errors.New("ink: unknown tool")

	// ErrSessionActive is returned when switching tools mid-session.
	ErrSessionActive = errors.New("ink: input session active")

	// ErrNotOpen is returned for selection operations without an open
	// selection.
	ErrNotOpen = errors.New("ink: no open selection")
)
