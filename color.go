package ink

import (
	"fmt"
	"image/color"
	"strconv"
)

// ParseHex parses a hex color string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without '#'.
func ParseHex(hex string) (color.NRGBA, error) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var digits int
	switch len(hex) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	default:
		return color.NRGBA{}, fmt.Errorf("ink: invalid hex color %q", hex)
	}

	ch := [4]uint8{0, 0, 0, 255}
	for i := 0; i*digits < len(hex); i++ {
		v, err := strconv.ParseUint(hex[i*digits:(i+1)*digits], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("ink: invalid hex color %q: %w", hex, err)
		}
		if digits == 1 {
			v *= 17
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// Hex formats c as "#RRGGBBAA".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Premultiply converts a straight-alpha color scaled by coverage (0-255) into
// premultiplied 8-bit components.
func Premultiply(c color.NRGBA, coverage uint8) (r, g, b, a uint8) {
	a = mul255(c.A, coverage)
	return mul255(c.R, a), mul255(c.G, a), mul255(c.B, a), a
}

func mul255(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}
