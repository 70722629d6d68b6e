package ink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ink/internal/raster"
)

// LayerObserver is notified with the exact pixel rectangle of every layer
// mutation. Rectangles are always inside the layer bounds and never empty.
type LayerObserver interface {
	OnLayerDirtyRect(layer *Layer, r image.Rectangle)
}

// Layer is an addressable premultiplied RGBA pixel buffer in view space.
//
// Every area passed to a mutating method is intersected with the layer
// bounds first. An empty intersection turns the call into a no-op.
type Layer struct {
	img      *image.RGBA
	observer LayerObserver
	// used bounds the pixels written through layer methods since the last
	// clear covering all of them.
	used image.Rectangle
}

// NewLayer creates a transparent layer of the given pixel size.
func NewLayer(width, height int) *Layer {
	return &Layer{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Bounds returns the layer rectangle in view space.
func (l *Layer) Bounds() Rect {
	return FromImageRect(l.img.Rect)
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int { return l.img.Rect.Dx() }

// Height returns the layer height in pixels.
func (l *Layer) Height() int { return l.img.Rect.Dy() }

// Image returns the backing image. Callers must not retain it across Resize.
func (l *Layer) Image() *image.RGBA { return l.img }

// Format returns the GPU texture format matching the pixel layout, so hosts
// can upload layers without conversion.
func (l *Layer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// SetObserver installs o as the mutation observer. Pass nil to remove it.
func (l *Layer) SetObserver(o LayerObserver) {
	l.observer = o
}

// clip converts r into pixels and intersects it with the layer.
func (l *Layer) clip(r Rect) image.Rectangle {
	return r.Pixels().Intersect(l.img.Rect)
}

func (l *Layer) touched(r image.Rectangle) {
	l.used = l.used.Union(r)
	l.notify(r)
}

func (l *Layer) notify(r image.Rectangle) {
	if l.observer != nil {
		l.observer.OnLayerDirtyRect(l, r)
	}
}

// Clear makes the pixels inside r transparent.
func (l *Layer) Clear(r Rect) {
	area := l.clip(r)
	if area.Empty() {
		return
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		i := l.img.PixOffset(area.Min.X, y)
		clear(l.img.Pix[i : i+area.Dx()*4])
	}
	if l.used.In(area) {
		l.used = image.Rectangle{}
	}
	l.notify(area)
}

// ClearAll makes the whole layer transparent.
func (l *Layer) ClearAll() {
	l.Clear(l.Bounds())
}

// Fill paints the pixels inside r with c, replacing their content.
func (l *Layer) Fill(r Rect, c color.Color) {
	area := l.clip(r)
	if area.Empty() {
		return
	}
	xdraw.Draw(l.img, area, image.NewUniform(c), image.Point{}, xdraw.Src)
	l.touched(area)
}

// WritePixels copies premultiplied RGBA bytes into the pixel rectangle of r.
// buf must hold exactly width*height*4 bytes of r's pixel rectangle. Rows
// and columns falling outside the layer are skipped.
func (l *Layer) WritePixels(buf []byte, r Rect) error {
	pr := r.Pixels()
	if want := pr.Dx() * pr.Dy() * 4; len(buf) != want {
		return fmt.Errorf("ink: write pixels: buffer has %d bytes, want %d", len(buf), want)
	}
	area := pr.Intersect(l.img.Rect)
	if area.Empty() {
		return nil
	}
	stride := pr.Dx() * 4
	for y := area.Min.Y; y < area.Max.Y; y++ {
		src := buf[(y-pr.Min.Y)*stride+(area.Min.X-pr.Min.X)*4:]
		i := l.img.PixOffset(area.Min.X, y)
		copy(l.img.Pix[i:i+area.Dx()*4], src)
	}
	l.touched(area)
	return nil
}

// ReadPixels returns the premultiplied RGBA bytes of r's pixel rectangle.
// Pixels outside the layer read as transparent.
func (l *Layer) ReadPixels(r Rect) []byte {
	pr := r.Pixels()
	buf := make([]byte, pr.Dx()*pr.Dy()*4)
	area := pr.Intersect(l.img.Rect)
	stride := pr.Dx() * 4
	for y := area.Min.Y; y < area.Max.Y; y++ {
		i := l.img.PixOffset(area.Min.X, y)
		copy(buf[(y-pr.Min.Y)*stride+(area.Min.X-pr.Min.X)*4:], l.img.Pix[i:i+area.Dx()*4])
	}
	return buf
}

// FillTexture replaces the layer content with img, anchored at the top-left.
func (l *Layer) FillTexture(img image.Image) {
	b := img.Bounds()
	area := image.Rect(0, 0, b.Dx(), b.Dy()).Intersect(l.img.Rect)
	if area.Empty() {
		return
	}
	xdraw.Draw(l.img, l.img.Rect, image.Transparent, image.Point{}, xdraw.Src)
	xdraw.Draw(l.img, area, img, b.Min, xdraw.Src)
	l.touched(l.img.Rect)
}

// FillPolygon fills the view-space polygon with the opaque color c using a
// binary (aliased) coverage, so the result can serve as a selection mask.
// It returns the pixel area that was filled, or an empty Rect if the
// polygon covers no pixel center.
func (l *Layer) FillPolygon(poly Polygon, c color.Color) Rect {
	if len(poly) < 3 {
		return Rect{}
	}
	vecs := poly.vecs()
	box := raster.Bounds(vecs).Intersect(l.img.Rect)
	if box.Empty() {
		return Rect{}
	}
	cov := image.NewAlpha(box)
	raster.Accumulate(cov, vecs)
	filled := raster.Threshold(cov, box)
	if filled.Empty() {
		return Rect{}
	}
	xdraw.DrawMask(l.img, filled, image.NewUniform(c), image.Point{}, cov, filled.Min, xdraw.Over)
	l.touched(filled)
	return FromImageRect(filled)
}

// Resize changes the layer size, keeping the overlapping top-left content.
func (l *Layer) Resize(width, height int) {
	r := image.Rect(0, 0, max(width, 0), max(height, 0))
	if r == l.img.Rect {
		return
	}
	img := image.NewRGBA(r)
	xdraw.Draw(img, r.Intersect(l.img.Rect), l.img, image.Point{}, xdraw.Src)
	l.img = img
	l.used = l.used.Intersect(r)
	l.notify(r)
}

// EncodePNG encodes the pixels inside r as a PNG image.
func (l *Layer) EncodePNG(r Rect) ([]byte, error) {
	area := l.clip(r)
	if area.Empty() {
		return nil, ErrEmptyRegion
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, l.img.SubImage(area)); err != nil {
		return nil, fmt.Errorf("ink: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Equal reports whether two layers have the same size and pixels.
func (l *Layer) Equal(other *Layer) bool {
	return l.img.Rect == other.img.Rect && bytes.Equal(l.img.Pix, other.img.Pix)
}

// Clone returns an independent copy of the layer without its observer.
func (l *Layer) Clone() *Layer {
	img := image.NewRGBA(l.img.Rect)
	copy(img.Pix, l.img.Pix)
	return &Layer{img: img, used: img.Rect}
}
