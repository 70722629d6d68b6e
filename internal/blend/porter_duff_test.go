package blend

import (
	"bytes"
	"testing"
)

func TestMulDiv255(t *testing.T) {
	tests := []struct {
		name string
		a, b byte
		want byte
	}{
		{"zero * zero", 0, 0, 0},
		{"zero * max", 0, 255, 0},
		{"max * zero", 255, 0, 0},
		{"max * max", 255, 255, 255},
		{"half * half", 128, 128, 64},
		{"255 * 128", 255, 128, 128},
		{"1 * 1", 1, 1, 0},
		{"100 * 100", 100, 100, 39},
		{"200 * 200", 200, 200, 157},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mulDiv255(tt.a, tt.b); got != tt.want {
				t.Errorf("mulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMulDiv255Identity(t *testing.T) {
	// Opaque masks must keep and cut pixels exactly.
	for v := 0; v < 256; v++ {
		if got := mulDiv255(byte(v), 255); got != byte(v) {
			t.Fatalf("mulDiv255(%d, 255) = %d", v, got)
		}
		if got := mulDiv255(byte(v), 0); got != 0 {
			t.Fatalf("mulDiv255(%d, 0) = %d", v, got)
		}
	}
}

func TestAddDiv255(t *testing.T) {
	tests := []struct {
		name string
		a, b byte
		want byte
	}{
		{"zero + zero", 0, 0, 0},
		{"max + max (clamped)", 255, 255, 255},
		{"100 + 100", 100, 100, 200},
		{"200 + 100 (clamped)", 200, 100, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := addDiv255(tt.a, tt.b); got != tt.want {
				t.Errorf("addDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestModes(t *testing.T) {
	src := [4]byte{100, 50, 0, 200}
	dst := [4]byte{10, 20, 30, 255}

	tests := []struct {
		name string
		mode Mode
		want [4]byte
	}{
		{"source over", SourceOver, [4]byte{102, 54, 6, 255}},
		{"source", Source, src},
		{"destination in", DestinationIn, [4]byte{8, 16, 24, 200}},
		{"destination out", DestinationOut, [4]byte{2, 4, 6, 55}},
		{"clear", Clear, [4]byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := Get(tt.mode)(src[0], src[1], src[2], src[3], dst[0], dst[1], dst[2], dst[3])
			if got := [4]byte{r, g, b, a}; got != tt.want {
				t.Errorf("%v = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestSourceOverOpaqueShortcut(t *testing.T) {
	r, g, b, a := blendSourceOver(1, 2, 3, 255, 200, 200, 200, 255)
	if r != 1 || g != 2 || b != 3 || a != 255 {
		t.Errorf("opaque source over = %d,%d,%d,%d", r, g, b, a)
	}
}

func TestSpan(t *testing.T) {
	src := []byte{255, 0, 0, 255, 0, 0, 0, 0}

	tests := []struct {
		name string
		mode Mode
		want []byte
	}{
		{"source over", SourceOver, []byte{255, 0, 0, 255, 9, 9, 9, 9}},
		{"source", Source, []byte{255, 0, 0, 255, 0, 0, 0, 0}},
		{"destination in", DestinationIn, []byte{9, 9, 9, 9, 0, 0, 0, 0}},
		{"destination out", DestinationOut, []byte{0, 0, 0, 0, 9, 9, 9, 9}},
		{"clear", Clear, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := bytes.Repeat([]byte{9}, 8)
			Span(dst, src, tt.mode)
			if !bytes.Equal(dst, tt.want) {
				t.Errorf("Span = %v, want %v", dst, tt.want)
			}
		})
	}
}

func TestTransparent(t *testing.T) {
	tests := []struct {
		mode Mode
		kept bool
	}{
		{SourceOver, true},
		{DestinationOut, true},
		{Source, false},
		{DestinationIn, false},
		{Clear, false},
	}
	for _, tt := range tests {
		dst := []byte{1, 2, 3, 4}
		Transparent(dst, tt.mode)
		if kept := dst[3] == 4; kept != tt.kept {
			t.Errorf("Transparent(mode %d) kept = %v, want %v", tt.mode, kept, tt.kept)
		}
	}
}
