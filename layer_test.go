package ink

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/gputypes"
)

// recordingObserver collects every dirty rect reported by a layer.
type recordingObserver struct {
	rects []image.Rectangle
}

func (o *recordingObserver) OnLayerDirtyRect(_ *Layer, r image.Rectangle) {
	o.rects = append(o.rects, r)
}

var red = color.RGBA{R: 255, A: 255}

func TestLayerMutationsStayInBounds(t *testing.T) {
	dst := NewLayer(64, 48)
	src := NewLayer(64, 48)
	src.Fill(src.Bounds(), red)
	obs := &recordingObserver{}
	dst.SetObserver(obs)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		x0, y0 := rng.Float64()*200-100, rng.Float64()*200-100
		r := R(x0, y0, x0+rng.Float64()*120, y0+rng.Float64()*120)
		switch i % 3 {
		case 0:
			dst.Clear(r)
		case 1:
			dst.Blend(src, WithRect(r))
		case 2:
			dst.Blend(src, WithRect(r), WithTransform(Rotate(rng.Float64())))
		}
	}

	if len(obs.rects) == 0 {
		t.Fatal("observer saw no mutations")
	}
	for _, r := range obs.rects {
		if r.Empty() || !r.In(dst.Image().Rect) {
			t.Fatalf("dirty rect %v outside layer bounds %v", r, dst.Image().Rect)
		}
	}
}

func TestLayerEmptyAreaIsNoop(t *testing.T) {
	l := NewLayer(10, 10)
	obs := &recordingObserver{}
	l.SetObserver(obs)

	l.Clear(R(20, 20, 30, 30))
	l.Clear(Rect{})
	l.Blend(NewLayer(10, 10), WithRect(R(-5, -5, 0, 0)))
	l.Blend(NewLayer(10, 10), WithRect(Rect{}))

	if len(obs.rects) != 0 {
		t.Errorf("empty areas produced mutations: %v", obs.rects)
	}
}

func TestLayerBlendTranslation(t *testing.T) {
	src := NewLayer(20, 20)
	src.Fill(R(2, 3, 6, 5), red)

	dst := NewLayer(20, 20)
	dst.Blend(src, WithTransform(Translate(5, 7)))

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			want := color.RGBA{}
			if image.Pt(x, y).In(image.Rect(7, 10, 11, 12)) {
				want = red
			}
			if got := dst.Image().RGBAAt(x, y); got != want {
				t.Fatalf("pixel(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestLayerBlendFractionalTransformMatchesNearest(t *testing.T) {
	src := NewLayer(10, 10)
	src.Fill(R(0, 0, 4, 4), red)

	dst := NewLayer(10, 10)
	dst.Blend(src, WithTransform(Translate(2.25, 0)))
	// Pixel centers 2.5..5.5 map to 0.25..3.25.
	if got := dst.Image().RGBAAt(2, 0); got != red {
		t.Errorf("pixel(2,0) = %v, want red", got)
	}
	if got := dst.Image().RGBAAt(6, 0); got != (color.RGBA{}) {
		t.Errorf("pixel(6,0) = %v, want clear", got)
	}
}

func TestLayerBlendModes(t *testing.T) {
	mask := NewLayer(4, 1)
	mask.Fill(R(1, 0, 3, 1), color.White)

	tests := []struct {
		name string
		mode BlendMode
		want []uint8 // alpha per pixel
	}{
		{"destination in", BlendDestinationIn, []uint8{0, 255, 255, 0}},
		{"destination out", BlendDestinationOut, []uint8{255, 0, 0, 255}},
		{"copy", BlendCopy, []uint8{0, 255, 255, 0}},
		{"clear", BlendClear, []uint8{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayer(4, 1)
			l.Fill(l.Bounds(), red)
			l.Blend(mask, WithMode(tt.mode))
			for x, a := range tt.want {
				if got := l.Image().RGBAAt(x, 0).A; got != a {
					t.Errorf("alpha(%d) = %d, want %d", x, got, a)
				}
			}
		})
	}
}

func TestLayerBlendSourceRect(t *testing.T) {
	src := NewLayer(8, 8)
	src.Fill(R(0, 0, 2, 2), red)

	dst := NewLayer(16, 16)
	dst.Blend(src, WithSourceRect(R(0, 0, 2, 2), R(10, 10, 12, 12)))
	if got := dst.Image().RGBAAt(11, 11); got != red {
		t.Errorf("copied pixel = %v", got)
	}
	if got := dst.Image().RGBAAt(9, 9); got != (color.RGBA{}) {
		t.Errorf("pixel outside destination = %v", got)
	}

	scaled := NewLayer(16, 16)
	scaled.Blend(src, WithSourceRect(R(0, 0, 2, 2), R(0, 0, 8, 8)))
	if got := scaled.Image().RGBAAt(4, 4); got != red {
		t.Errorf("scaled pixel = %v", got)
	}
	if got := scaled.Image().RGBAAt(8, 8); got != (color.RGBA{}) {
		t.Errorf("pixel past scaled area = %v", got)
	}
}

func TestLayerPixelsRoundTrip(t *testing.T) {
	l := NewLayer(10, 10)
	buf := bytes.Repeat([]byte{1, 2, 3, 4}, 3*2)
	if err := l.WritePixels(buf, R(4, 5, 7, 7)); err != nil {
		t.Fatal(err)
	}
	if got := l.ReadPixels(R(4, 5, 7, 7)); !bytes.Equal(got, buf) {
		t.Errorf("ReadPixels = %v", got)
	}
	if err := l.WritePixels(buf[:4], R(0, 0, 2, 2)); err == nil {
		t.Error("WritePixels with short buffer should fail")
	}
}

func TestLayerPixelsPartiallyOutside(t *testing.T) {
	l := NewLayer(4, 4)
	buf := bytes.Repeat([]byte{9, 9, 9, 255}, 4)
	if err := l.WritePixels(buf, R(3, 3, 5, 5)); err != nil {
		t.Fatal(err)
	}
	if got := l.Image().RGBAAt(3, 3); got != (color.RGBA{9, 9, 9, 255}) {
		t.Errorf("in-bounds pixel = %v", got)
	}
	got := l.ReadPixels(R(3, 3, 5, 5))
	want := append(bytes.Repeat([]byte{9, 9, 9, 255}, 1), make([]byte, 12)...)
	if !bytes.Equal(got, want) {
		t.Errorf("ReadPixels = %v, want %v", got, want)
	}
}

func TestLayerFillPolygon(t *testing.T) {
	l := NewLayer(20, 20)
	area := l.FillPolygon(Polygon{Pt(4, 4), Pt(12, 4), Pt(12, 9), Pt(4, 9)}, color.White)
	if area != R(4, 4, 12, 9) {
		t.Fatalf("area = %v", area)
	}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			want := uint8(0)
			if image.Pt(x, y).In(image.Rect(4, 4, 12, 9)) {
				want = 255
			}
			if got := l.Image().RGBAAt(x, y).A; got != want {
				t.Fatalf("alpha(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}

	if got := l.FillPolygon(Polygon{Pt(1, 1), Pt(5, 1), Pt(9, 1)}, color.White); !got.Empty() {
		t.Errorf("degenerate polygon area = %v", got)
	}
	if got := l.FillPolygon(Polygon{Pt(40, 40), Pt(50, 40), Pt(50, 50)}, color.White); !got.Empty() {
		t.Errorf("outside polygon area = %v", got)
	}
}

func TestLayerEncodePNG(t *testing.T) {
	l := NewLayer(10, 10)
	l.Fill(R(2, 2, 5, 5), red)
	data, err := l.EncodePNG(R(2, 2, 5, 5))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
		t.Errorf("decoded bounds = %v", b)
	}
	if _, err := l.EncodePNG(R(50, 50, 60, 60)); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("EncodePNG outside error = %v", err)
	}
}

func TestLayerResizeKeepsContent(t *testing.T) {
	l := NewLayer(10, 10)
	l.Fill(R(1, 1, 2, 2), red)
	l.Resize(20, 5)
	if l.Width() != 20 || l.Height() != 5 {
		t.Fatalf("size = %dx%d", l.Width(), l.Height())
	}
	if got := l.Image().RGBAAt(1, 1); got != red {
		t.Errorf("pixel after resize = %v", got)
	}
}

func TestLayerFillTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	l := NewLayer(4, 4)
	l.Fill(l.Bounds(), red)
	l.FillTexture(img)
	if got := l.Image().RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("texture pixel = %v", got)
	}
	if got := l.Image().RGBAAt(3, 3); got != (color.RGBA{}) {
		t.Errorf("pixel outside texture = %v", got)
	}
}

func TestLayerFormat(t *testing.T) {
	if got := NewLayer(1, 1).Format(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", got)
	}
}

func TestLayerPool(t *testing.T) {
	p := NewLayerPool(1)
	a := p.Get(8, 8)
	a.Fill(a.Bounds(), red)
	p.Put(a)

	b := p.Get(8, 8)
	if b != a {
		t.Fatal("pool did not reuse the layer")
	}
	if !b.Equal(NewLayer(8, 8)) {
		t.Error("reused layer is not transparent")
	}

	p.Put(b)
	p.Put(NewLayer(8, 8)) // over capacity, discarded
	if p.Get(8, 8) != b {
		t.Error("pool lost the retained layer")
	}
	p.Put(nil)
}

func TestLayerPoolClearsTouchedArea(t *testing.T) {
	p := NewLayerPool(1)
	l := p.Get(16, 16)
	l.Fill(R(2, 2, 6, 6), red)
	l.Blend(NewLayer(16, 16), WithRect(R(10, 0, 12, 2)))
	// Written behind the layer's back; the pool leaves it alone.
	l.Image().SetRGBA(15, 15, color.RGBA{A: 255})
	p.Put(l)

	got := p.Get(16, 16)
	img := got.Image()
	if img.RGBAAt(3, 3) != (color.RGBA{}) {
		t.Error("filled area not cleared")
	}
	if img.RGBAAt(15, 15).A != 255 {
		t.Error("pool cleared pixels outside the touched area")
	}

	// A clear covering everything touched leaves nothing to clear.
	got.Fill(R(0, 0, 4, 4), red)
	got.ClearAll()
	if !got.used.Empty() {
		t.Errorf("used = %v after ClearAll", got.used)
	}
}
