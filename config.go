package ink

import (
	"fmt"
	"image/color"
	"maps"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Tool modes.
const (
	ModeDraw   = "draw"
	ModeErase  = "erase"
	ModeSelect = "select"
)

// Eraser kinds for erase tools.
const (
	// EraserStroke segments against the whole path when the session ends.
	EraserStroke = "stroke"
	// EraserDrag segments incrementally against every added part.
	EraserDrag = "drag"
)

// Surface types.
const (
	TypeVector = "vector"
	TypeRaster = "raster"
)

// ToolConfig is one entry of the tool table.
type ToolConfig struct {
	Mode   string  `toml:"mode"`
	Eraser string  `toml:"eraser,omitempty"`
	Width  float64 `toml:"width"`
	Color  string  `toml:"color"`
}

// RGBA parses the tool color.
func (t ToolConfig) RGBA() (color.NRGBA, error) {
	return ParseHex(t.Color)
}

// Config is the explicit configuration passed to a surface at construction.
type Config struct {
	// Type selects vector (strokes are authoritative and redrawn) or raster
	// (pixels are authoritative and the origin layer is never cleared).
	Type string `toml:"type"`
	// Prediction enables motion prediction for drawing tools.
	Prediction bool `toml:"prediction"`
	// PointerPrediction forwards host-provided predicted points.
	PointerPrediction bool `toml:"pointer_prediction"`
	// Downsampling drops samples that arrive while a build is pending
	// instead of merging them.
	Downsampling bool `toml:"downsampling"`
	// PreventOriginRedraw disables drawing into the origin layer.
	PreventOriginRedraw bool `toml:"prevent_origin_redraw"`

	Tools map[string]ToolConfig `toml:"tools"`
}

// DefaultTools returns the built-in tool table.
func DefaultTools() map[string]ToolConfig {
	return map[string]ToolConfig{
		"pen":          {Mode: ModeDraw, Width: 3, Color: "#1e1e1e"},
		"marker":       {Mode: ModeDraw, Width: 12, Color: "#ffd70080"},
		"eraser":       {Mode: ModeErase, Eraser: EraserDrag, Width: 16, Color: "#ffffff"},
		"eraserStroke": {Mode: ModeErase, Eraser: EraserStroke, Width: 4, Color: "#ff000080"},
		"selector":     {Mode: ModeSelect, Width: 1, Color: "#2b7fff"},
	}
}

// DefaultConfig returns a vector configuration with the built-in tools.
func DefaultConfig() *Config {
	return &Config{
		Type:              TypeVector,
		Prediction:        true,
		PointerPrediction: true,
		Tools:             DefaultTools(),
	}
}

// ParseConfig decodes a TOML configuration. Missing fields fall back to
// the defaults of [DefaultConfig]; an empty tool table uses [DefaultTools].
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Tools = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ink: parse config: %w", err)
	}
	if len(cfg.Tools) == 0 {
		cfg.Tools = DefaultTools()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ink: load config: %w", err)
	}
	return ParseConfig(data)
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks the surface type and every tool entry.
func (c *Config) Validate() error {
	if c.Type != TypeVector && c.Type != TypeRaster {
		return fmt.Errorf("ink: config: invalid type %q", c.Type)
	}
	for _, id := range slices.Sorted(maps.Keys(c.Tools)) {
		t := c.Tools[id]
		switch t.Mode {
		case ModeDraw, ModeSelect:
		case ModeErase:
			if t.Eraser != EraserStroke && t.Eraser != EraserDrag {
				return fmt.Errorf("ink: config: tool %q: invalid eraser %q", id, t.Eraser)
			}
		default:
			return fmt.Errorf("ink: config: tool %q: invalid mode %q", id, t.Mode)
		}
		if t.Width <= 0 {
			return fmt.Errorf("ink: config: tool %q: width must be positive", id)
		}
		if _, err := t.RGBA(); err != nil {
			return fmt.Errorf("ink: config: tool %q: %w", id, err)
		}
	}
	return nil
}

// Tool returns the configuration of tool id.
func (c *Config) Tool(id string) (ToolConfig, error) {
	t, ok := c.Tools[id]
	if !ok {
		return ToolConfig{}, fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return t, nil
}
