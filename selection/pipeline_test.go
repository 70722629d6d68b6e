// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package selection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/gogpu/ink"
)

const (
	testWidth  = 80
	testHeight = 60
)

// testBridge is a minimal surface: the canvas shows the strokes layer.
type testBridge struct {
	lens      *ink.Lens
	canvas    *ink.Layer
	strokes   *ink.Layer
	refreshed []ink.Rect
}

func newTestBridge(t *testing.T) *testBridge {
	t.Helper()
	b := &testBridge{
		lens:    ink.NewLens(),
		canvas:  ink.NewLayer(testWidth, testHeight),
		strokes: ink.NewLayer(testWidth, testHeight),
	}
	img := b.strokes.Image()
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			img.SetRGBA(x, y, pattern(x, y))
		}
	}
	b.Refresh(b.canvas.Bounds())
	b.refreshed = nil
	return b
}

func pattern(x, y int) color.RGBA {
	return color.RGBA{R: uint8(x * 3), G: uint8(y * 4), B: uint8(x + y), A: 255}
}

func (b *testBridge) Lens() *ink.Lens              { return b.lens }
func (b *testBridge) Canvas() *ink.Layer           { return b.canvas }
func (b *testBridge) StrokesLayer() *ink.Layer     { return b.strokes }
func (b *testBridge) NewLayer(w, h int) *ink.Layer { return ink.NewLayer(w, h) }
func (b *testBridge) Refresh(area ink.Rect) {
	b.refreshed = append(b.refreshed, area)
	b.canvas.Clear(area)
	b.canvas.Blend(b.strokes, ink.WithRect(area))
}

func square(x0, y0, x1, y1 float64) *ink.Stroke {
	return ink.NewStroke([]ink.Point{
		ink.Pt(x0, y0), ink.Pt(x1, y0), ink.Pt(x1, y1), ink.Pt(x0, y1),
	}, ink.Style{Width: 1, Visible: true})
}

func inRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}

func TestTranslateMovesPixelsExactly(t *testing.T) {
	tests := []struct {
		name  string
		lens  ink.Matrix
		shape *ink.Stroke
		move  ink.Matrix
		from  image.Rectangle
		shift image.Point
	}{
		{
			name:  "identity lens",
			lens:  ink.Identity(),
			shape: square(10, 10, 30, 30),
			move:  ink.Translate(25, 5),
			from:  image.Rect(10, 10, 30, 30),
			shift: image.Pt(25, 5),
		},
		{
			name:  "zoomed lens",
			lens:  ink.Scale(2, 2),
			shape: square(5, 5, 15, 15),
			move:  ink.Translate(5, 0),
			from:  image.Rect(10, 10, 30, 30),
			shift: image.Pt(10, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t)
			b.lens.SetTransform(tt.lens)
			p := New(b)

			if err := p.Open(tt.shape); err != nil {
				t.Fatalf("Open: %v", err)
			}
			if err := p.BeginTransform(); err != nil {
				t.Fatalf("BeginTransform: %v", err)
			}
			if err := p.Transform(tt.move); err != nil {
				t.Fatalf("Transform: %v", err)
			}
			dirty := p.CompleteTransform()

			to := tt.from.Add(tt.shift)
			if dirty.Pixels() != to {
				t.Errorf("dirty = %v, want %v", dirty.Pixels(), to)
			}

			img := b.strokes.Image()
			for y := 0; y < testHeight; y++ {
				for x := 0; x < testWidth; x++ {
					var want color.RGBA
					switch {
					case inRect(x, y, to):
						want = pattern(x-tt.shift.X, y-tt.shift.Y)
					case inRect(x, y, tt.from):
						want = color.RGBA{}
					default:
						want = pattern(x, y)
					}
					if got := img.RGBAAt(x, y); got != want {
						t.Fatalf("strokes(%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
			if !b.canvas.Equal(b.strokes) {
				t.Error("canvas out of sync with the strokes layer")
			}
			if p.State() != StateOpen {
				t.Errorf("state = %v, want open", p.State())
			}
		})
	}
}

func TestCompleteTransformIdempotent(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}
	if err := p.Transform(ink.Translate(7, 3)); err != nil {
		t.Fatal(err)
	}
	if first := p.CompleteTransform(); first.Empty() {
		t.Fatal("first CompleteTransform returned an empty area")
	}
	before := b.strokes.Clone()
	refreshes := len(b.refreshed)

	if second := p.CompleteTransform(); !second.Empty() {
		t.Errorf("second CompleteTransform = %v, want empty", second)
	}
	if !b.strokes.Equal(before) {
		t.Error("second CompleteTransform changed the strokes layer")
	}
	if len(b.refreshed) != refreshes {
		t.Error("second CompleteTransform refreshed the canvas")
	}
}

func TestCommitFoldsTransform(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}
	_ = p.Transform(ink.Translate(5, 5))
	p.CompleteTransform()

	sel, ok := p.Selection()
	if !ok {
		t.Fatal("selection closed after commit")
	}
	if want := ink.R(15, 15, 35, 35).In(ink.SpaceModel); sel.Bounds != want {
		t.Errorf("bounds = %v, want %v", sel.Bounds, want)
	}
	if !sel.Transform.IsIdentity() {
		t.Errorf("pending transform = %v, want identity", sel.Transform)
	}
	if sel.Applied != ink.Translate(5, 5) {
		t.Errorf("applied = %v", sel.Applied)
	}
}

func TestCopyThenCloseKeepsStrokes(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	before := b.strokes.Clone()

	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}
	if err := p.Copy(false); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	p.Close()

	if !b.strokes.Equal(before) {
		t.Error("copy without cut changed the strokes layer")
	}
	c := p.Clipboard()
	if c == nil || c.Size != image.Pt(20, 20) || len(c.Data) != 20*20*4 {
		t.Fatalf("clipboard = %+v", c)
	}
	if p.State() != StateClosed {
		t.Errorf("state = %v, want closed", p.State())
	}
}

func TestCutAndPaste(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)

	if err := p.Paste(ink.Pt(0, 0)); !errors.Is(err, ink.ErrEmptyClipboard) {
		t.Fatalf("Paste without clipboard = %v", err)
	}

	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}
	if err := p.Copy(true); err != nil {
		t.Fatal(err)
	}
	img := b.strokes.Image()
	if img.RGBAAt(15, 15) != (color.RGBA{}) {
		t.Fatal("cut left pixels behind")
	}

	if err := p.Paste(ink.Pt(50, 20)); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if p.State() != StateOpen {
		t.Fatalf("state after paste = %v", p.State())
	}
	if sel, _ := p.Selection(); sel.Origin == nil || *sel.Origin != ink.Pt(50, 20) {
		t.Errorf("origin = %v", sel.Origin)
	}
	// Pasted pixels are previewed on the canvas only.
	if img.RGBAAt(55, 25) != pattern(55, 25) {
		t.Error("paste wrote into the strokes layer before closing")
	}
	if got := b.canvas.Image().RGBAAt(55, 25); got != pattern(15, 15) {
		t.Errorf("canvas preview = %v, want %v", got, pattern(15, 15))
	}

	p.Close()
	for y := 20; y < 40; y++ {
		for x := 50; x < 70; x++ {
			if got, want := img.RGBAAt(x, y), pattern(x-40, y-10); got != want {
				t.Fatalf("strokes(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	// A second paste gets its own copy of the clipboard.
	data := bytes.Clone(p.Clipboard().Data)
	if err := p.Paste(ink.Pt(0, 40)); err != nil {
		t.Fatal(err)
	}
	p.Delete()
	if !bytes.Equal(p.Clipboard().Data, data) {
		t.Error("paste modified the clipboard")
	}
}

func TestClipboardClone(t *testing.T) {
	c := &Clipboard{
		Path:  ink.Polygon{ink.Pt(0, 0), ink.Pt(4, 0), ink.Pt(0, 4)},
		Data:  []byte{1, 2, 3, 4},
		Size:  image.Pt(1, 1),
		State: &PlacementState{Origin: ink.Pt(1, 2), Transform: ink.Translate(3, 4)},
	}
	d, err := c.Clone()
	if err != nil {
		t.Fatal(err)
	}
	d.Data[0] = 9
	d.Path[0] = ink.Pt(7, 7)
	d.State.Origin = ink.Pt(0, 0)

	if c.Data[0] != 1 || c.Path[0] != ink.Pt(0, 0) || c.State.Origin != ink.Pt(1, 2) {
		t.Error("clone shares memory with the original")
	}
	if d.Size != c.Size || d.State.Transform != c.State.Transform {
		t.Error("clone lost values")
	}
}

func TestDelete(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}
	p.Delete()

	img := b.strokes.Image()
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			want := pattern(x, y)
			if inRect(x, y, image.Rect(10, 10, 30, 30)) {
				want = color.RGBA{}
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("strokes(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if len(b.refreshed) == 0 || b.refreshed[len(b.refreshed)-1].Pixels() != image.Rect(10, 10, 30, 30) {
		t.Errorf("refreshed = %v", b.refreshed)
	}
	if p.State() != StateClosed {
		t.Errorf("state = %v", p.State())
	}
}

func TestOpenDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		stroke *ink.Stroke
		err    error
	}{
		{"nil", nil, ink.ErrEmptySelection},
		{"collinear", ink.NewStroke([]ink.Point{ink.Pt(0, 0), ink.Pt(10, 10), ink.Pt(20, 20)}, ink.Style{}), ink.ErrEmptySelection},
		{"single point", ink.NewStroke([]ink.Point{ink.Pt(5, 5)}, ink.Style{}), ink.ErrEmptySelection},
		{"off canvas", square(-50, -50, -30, -30), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t)
			p := New(b)
			before := b.strokes.Clone()

			if err := p.Open(tt.stroke); !errors.Is(err, tt.err) {
				t.Fatalf("Open = %v, want %v", err, tt.err)
			}
			if p.State() != StateClosed {
				t.Errorf("state = %v, want closed", p.State())
			}
			if !p.Mask().Equal(ink.NewLayer(testWidth, testHeight)) {
				t.Error("mask not empty")
			}
			if !b.strokes.Equal(before) {
				t.Error("strokes layer changed")
			}
		})
	}
}

func TestOperationsWithoutSelection(t *testing.T) {
	p := New(newTestBridge(t))
	if err := p.BeginTransform(); !errors.Is(err, ink.ErrNotOpen) {
		t.Errorf("BeginTransform = %v", err)
	}
	if err := p.Transform(ink.Translate(1, 1)); !errors.Is(err, ink.ErrNotOpen) {
		t.Errorf("Transform = %v", err)
	}
	if err := p.Copy(false); !errors.Is(err, ink.ErrNotOpen) {
		t.Errorf("Copy = %v", err)
	}
	if got := p.CompleteTransform(); !got.Empty() {
		t.Errorf("CompleteTransform = %v", got)
	}
	p.Delete()
	p.Close()
}

func TestRefreshStaysInsideCanvas(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	if err := p.Open(square(-10, -10, 20, 20)); err != nil {
		t.Fatal(err)
	}
	moves := []ink.Matrix{
		ink.Translate(70, 50),
		ink.Translate(-40, 10),
		ink.Rotate(0.3),
		ink.Scale(3, 3),
	}
	for _, m := range moves {
		if err := p.Transform(m); err != nil {
			t.Fatal(err)
		}
	}
	p.CompleteTransform()
	p.Close()

	bounds := b.canvas.Bounds()
	for _, r := range b.refreshed {
		if !r.Empty() && r.Intersect(bounds) != r {
			t.Errorf("refresh %v leaves the canvas %v", r, bounds)
		}
	}
}

func TestResetDiscards(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}
	_ = p.BeginTransform()
	p.Reset()
	if p.State() != StateClosed {
		t.Errorf("state = %v", p.State())
	}
	if !p.Layer().Equal(ink.NewLayer(testWidth, testHeight)) {
		t.Error("selection layer not cleared")
	}
}

type memSaver struct {
	name, mime string
	data       []byte
	err        error
}

func (s *memSaver) Save(_ context.Context, name, mime string, data []byte) error {
	s.name, s.mime, s.data = name, mime, data
	return s.err
}

func TestExport(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	before := b.strokes.Clone()
	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}

	s := &memSaver{}
	if err := p.Export(context.Background(), s); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if s.name != ExportName || s.mime != ExportMIME {
		t.Errorf("saved as %q (%s)", s.name, s.mime)
	}
	img, err := png.Decode(bytes.NewReader(s.data))
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(20, 20) {
		t.Errorf("exported size = %v", got)
	}
	if p.State() != StateClosed {
		t.Errorf("state = %v, want closed", p.State())
	}
	if !b.strokes.Equal(before) {
		t.Error("export changed the strokes layer")
	}

	if err := p.Export(context.Background(), s); !errors.Is(err, ink.ErrNotOpen) {
		t.Errorf("Export without selection = %v", err)
	}
}

func TestExportSaverError(t *testing.T) {
	p := New(newTestBridge(t))
	if err := p.Open(square(10, 10, 30, 30)); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("disk full")
	if err := p.Export(context.Background(), &memSaver{err: boom}); !errors.Is(err, boom) {
		t.Errorf("Export = %v, want wrapped saver error", err)
	}
}

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImport(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	red := color.NRGBA{R: 255, A: 255}

	if err := p.Import(context.Background(), bytes.NewReader(encodePNG(t, 4, 3, red)), ink.Pt(10.7, 10.2)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	sel, ok := p.Selection()
	if !ok || sel.Type != TypeRect {
		t.Fatalf("selection = %+v, open = %v", sel, ok)
	}
	if want := ink.R(10, 10, 14, 13).In(ink.SpaceModel); sel.Bounds != want {
		t.Errorf("bounds = %v, want %v", sel.Bounds, want)
	}
	if got := b.canvas.Image().RGBAAt(12, 11); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("canvas preview = %v", got)
	}

	p.Close()
	img := b.strokes.Image()
	for y := 10; y < 13; y++ {
		for x := 10; x < 14; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{R: 255, A: 255}) {
				t.Fatalf("strokes(%d,%d) = %v", x, y, got)
			}
		}
	}
	if img.RGBAAt(14, 10) != pattern(14, 10) {
		t.Error("import spilled outside its rectangle")
	}
}

func TestImportRejectsNonImage(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	before := b.strokes.Clone()

	err := p.Import(context.Background(), strings.NewReader("definitely not an image"), ink.Pt(0, 0))
	if !errors.Is(err, ink.ErrUnsupportedImage) {
		t.Fatalf("Import = %v, want ErrUnsupportedImage", err)
	}
	if p.State() != StateClosed || !b.strokes.Equal(before) {
		t.Error("failed import changed state")
	}
}

func TestBusy(t *testing.T) {
	p := New(newTestBridge(t))
	p.busy.Store(true)
	t.Cleanup(func() { p.busy.Store(false) })

	if err := p.Export(context.Background(), &memSaver{}); !errors.Is(err, ink.ErrBusy) {
		t.Errorf("Export = %v, want ErrBusy", err)
	}
	if err := p.Import(context.Background(), strings.NewReader(""), ink.Pt(0, 0)); !errors.Is(err, ink.ErrBusy) {
		t.Errorf("Import = %v, want ErrBusy", err)
	}
}

func TestOpenRectRaster(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)

	pix := bytes.Repeat([]byte{0, 0, 255, 255}, 2*2)
	if err := p.OpenRect(ink.Pt(1, 1), ink.R(0, 0, 2, 2), RasterBytes{Pix: pix[:4], Size: image.Pt(2, 2)}); err == nil {
		t.Fatal("short raster accepted")
	}
	if p.State() != StateClosed {
		t.Fatal("invalid raster opened a selection")
	}

	if err := p.OpenRect(ink.Pt(1, 1), ink.R(0, 0, 2, 2), RasterBytes{Pix: pix, Size: image.Pt(2, 2)}); err != nil {
		t.Fatal(err)
	}
	p.Close()
	if got := b.strokes.Image().RGBAAt(2, 2); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("strokes(2,2) = %v", got)
	}
}

func TestOpenRectSelectsExistingPixels(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)
	if err := p.OpenRect(ink.Pt(20, 20), ink.R(0, 0, 10, 10), RectSource{}); err != nil {
		t.Fatal(err)
	}
	sel, _ := p.Selection()
	if sel.Origin != nil {
		t.Error("selection of existing pixels has an origin")
	}
	if err := p.Transform(ink.Translate(-20, -20)); err != nil {
		t.Fatal(err)
	}
	p.CompleteTransform()
	p.Close()

	img := b.strokes.Image()
	if got := img.RGBAAt(3, 4); got != pattern(23, 24) {
		t.Errorf("moved pixel = %v, want %v", got, pattern(23, 24))
	}
	if got := img.RGBAAt(25, 25); got != (color.RGBA{}) {
		t.Errorf("source pixel = %v, want transparent", got)
	}
}

func TestCopyAndExportNeverCommit(t *testing.T) {
	pasted := func(t *testing.T, p *Pipeline) {
		t.Helper()
		if err := p.Open(square(10, 10, 30, 30)); err != nil {
			t.Fatal(err)
		}
		if err := p.Copy(false); err != nil {
			t.Fatal(err)
		}
		if err := p.Paste(ink.Pt(50, 20)); err != nil {
			t.Fatal(err)
		}
	}
	moving := func(t *testing.T, p *Pipeline) {
		t.Helper()
		if err := p.Open(square(10, 10, 30, 30)); err != nil {
			t.Fatal(err)
		}
		if err := p.Transform(ink.Translate(30, 0)); err != nil {
			t.Fatal(err)
		}
	}
	copyAndClose := func(p *Pipeline) ([]byte, error) {
		if err := p.Copy(false); err != nil {
			return nil, err
		}
		p.Close()
		return p.Clipboard().Data[:4], nil
	}
	export := func(p *Pipeline) ([]byte, error) {
		s := &memSaver{}
		if err := p.Export(context.Background(), s); err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(s.data))
		if err != nil {
			return nil, err
		}
		if got := img.Bounds().Size(); got != image.Pt(20, 20) {
			return nil, fmt.Errorf("exported size %v", got)
		}
		c := color.RGBAModel.Convert(img.At(img.Bounds().Min.X, img.Bounds().Min.Y)).(color.RGBA)
		return []byte{c.R, c.G, c.B, c.A}, nil
	}

	first := pattern(10, 10)
	wantPixel := []byte{first.R, first.G, first.B, first.A}
	tests := []struct {
		name  string
		setup func(*testing.T, *Pipeline)
		run   func(*Pipeline) ([]byte, error)
	}{
		{"copy pasted", pasted, copyAndClose},
		{"copy while transforming", moving, copyAndClose},
		{"export pasted", pasted, export},
		{"export while transforming", moving, export},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBridge(t)
			p := New(b)
			tt.setup(t, p)
			before := b.strokes.Clone()

			px, err := tt.run(p)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(px, wantPixel) {
				t.Errorf("first pixel = %v, want %v", px, wantPixel)
			}
			if !b.strokes.Equal(before) {
				t.Error("strokes layer changed")
			}
			if p.State() != StateClosed {
				t.Errorf("state = %v, want closed", p.State())
			}
			if !b.canvas.Equal(b.strokes) {
				t.Error("canvas still shows the uncommitted pixels")
			}
		})
	}
}

func TestPasteRestoresOrigin(t *testing.T) {
	b := newTestBridge(t)
	p := New(b)

	pix := bytes.Repeat([]byte{0, 0, 255, 255}, 10*10)
	path := ink.Polygon{ink.Pt(2, 2), ink.Pt(8, 2), ink.Pt(8, 8), ink.Pt(2, 8)}
	if err := p.OpenPath(ink.Pt(10, 10), path, RasterBytes{Pix: pix, Size: image.Pt(10, 10)}, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.Copy(false); err != nil {
		t.Fatal(err)
	}

	c := p.Clipboard()
	if c.Size != image.Pt(6, 6) || !bytes.Equal(c.Data[:4], []byte{0, 0, 255, 255}) {
		t.Fatalf("clipboard = %v, first pixel %v", c.Size, c.Data[:4])
	}
	// The content was placed at (10,10) but its pixels start at (12,12).
	if c.State == nil || c.State.Origin != ink.Pt(-2, -2) {
		t.Fatalf("placement = %+v", c.State)
	}

	if err := p.Paste(ink.Pt(40, 30)); err != nil {
		t.Fatal(err)
	}
	sel, ok := p.Selection()
	if !ok || sel.Origin == nil || *sel.Origin != ink.Pt(38, 28) {
		t.Errorf("origin = %v, want (38,28)", sel.Origin)
	}
	if want := ink.R(40, 30, 46, 36).In(ink.SpaceModel); sel.Bounds != want {
		t.Errorf("bounds = %v, want %v", sel.Bounds, want)
	}
}
