// Package blend implements the Porter-Duff compositing operators used by ink
// layers.
//
// All blend operations work with premultiplied alpha values in the range 0-255,
// the same layout as image.RGBA.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode represents a Porter-Duff compositing operation.
type Mode uint8

const (
	SourceOver     Mode = iota // Result: S + D*(1-Sa) [default]
	Source                     // Result: S (replace with source)
	DestinationIn              // Result: D*Sa
	DestinationOut             // Result: D*(1-Sa)
	Clear                      // Result: 0 (clear destination)
)

// Func is the signature for blend operations.
// All values are premultiplied alpha, 0-255.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// Get returns the blend function for the given mode.
// Returns source-over for unknown modes.
func Get(mode Mode) Func {
	switch mode {
	case Source:
		return blendSource
	case DestinationIn:
		return blendDestinationIn
	case DestinationOut:
		return blendDestinationOut
	case Clear:
		return blendClear
	default:
		return blendSourceOver
	}
}

// Span blends n pixels of src onto dst. Both slices hold RGBA quadruplets.
func Span(dst, src []byte, mode Mode) {
	n := min(len(dst), len(src)) / 4
	switch mode {
	case Source:
		copy(dst[:n*4], src[:n*4])
		return
	case Clear:
		clear(dst[:n*4])
		return
	}
	fn := Get(mode)
	for i := 0; i < n*4; i += 4 {
		s := src[i : i+4 : i+4]
		d := dst[i : i+4 : i+4]
		d[0], d[1], d[2], d[3] = fn(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3])
	}
}

// Transparent blends a fully transparent source onto n pixels of dst.
// It is used for destination pixels that map outside the source bounds.
func Transparent(dst []byte, mode Mode) {
	switch mode {
	case SourceOver, DestinationOut:
		// D*(1-0) = D
	default:
		// Source, Clear and DestinationIn all produce transparent black.
		clear(dst)
	}
}

// blendClear clears the destination to transparent black.
func blendClear(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

// blendSource replaces destination with source.
func blendSource(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	if sa == 255 {
		return sr, sg, sb, sa
	}
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}

// blendDestinationIn keeps destination where source is opaque.
// Formula: D * Sa
func blendDestinationIn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return mulDiv255(dr, sa), mulDiv255(dg, sa), mulDiv255(db, sa), mulDiv255(da, sa)
}

// blendDestinationOut keeps destination where source is transparent.
// Formula: D * (1 - Sa)
func blendDestinationOut(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return mulDiv255(dr, invSa), mulDiv255(dg, invSa), mulDiv255(db, invSa), mulDiv255(da, invSa)
}

// mulDiv255 multiplies two byte values and divides by 255 with rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// addDiv255 adds two byte values with clamping to 255.
func addDiv255(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}
