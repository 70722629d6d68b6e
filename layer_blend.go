package ink

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ink/internal/blend"
)

// BlendMode selects the compositing operator of [Layer.Blend].
// All operators work on premultiplied alpha.
type BlendMode uint8

const (
	// BlendSourceOver draws the source over the destination (default).
	BlendSourceOver BlendMode = iota
	// BlendCopy replaces the destination with the source.
	BlendCopy
	// BlendDestinationIn keeps the destination where the source is opaque.
	BlendDestinationIn
	// BlendDestinationOut keeps the destination where the source is transparent.
	BlendDestinationOut
	// BlendClear clears the destination.
	BlendClear
)

// String returns the mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendCopy:
		return "copy"
	case BlendDestinationIn:
		return "destination-in"
	case BlendDestinationOut:
		return "destination-out"
	case BlendClear:
		return "clear"
	default:
		return "source-over"
	}
}

func (m BlendMode) internal() blend.Mode {
	switch m {
	case BlendCopy:
		return blend.Source
	case BlendDestinationIn:
		return blend.DestinationIn
	case BlendDestinationOut:
		return blend.DestinationOut
	case BlendClear:
		return blend.Clear
	default:
		return blend.SourceOver
	}
}

// blendOptions holds the optional parameters of [Layer.Blend].
type blendOptions struct {
	rect      Rect
	hasRect   bool
	mode      BlendMode
	transform Matrix
	srcRect   image.Rectangle
	dstRect   image.Rectangle
	scaled    bool
}

// BlendOption configures a [Layer.Blend] call.
type BlendOption func(*blendOptions)

// WithRect restricts the blend to the destination area r.
// An empty r turns the blend into a no-op.
func WithRect(r Rect) BlendOption {
	return func(o *blendOptions) {
		o.rect = r
		o.hasRect = true
	}
}

// WithMode selects the compositing operator.
func WithMode(m BlendMode) BlendOption {
	return func(o *blendOptions) {
		o.mode = m
	}
}

// WithTransform maps source pixels into the destination through m.
// Pixels are sampled nearest-neighbour at destination pixel centers.
func WithTransform(m Matrix) BlendOption {
	return func(o *blendOptions) {
		o.transform = m
	}
}

// WithSourceRect maps the source sub-rectangle src onto the destination
// rectangle dst, scaling bilinearly when their sizes differ.
func WithSourceRect(src, dst Rect) BlendOption {
	return func(o *blendOptions) {
		o.srcRect = src.Pixels()
		o.dstRect = dst.Pixels()
		o.scaled = true
	}
}

// Blend composites src onto l.
func (l *Layer) Blend(src *Layer, opts ...BlendOption) {
	o := blendOptions{transform: Identity()}
	for _, opt := range opts {
		opt(&o)
	}

	area := l.img.Rect
	if o.hasRect {
		area = l.clip(o.rect)
	}
	if o.scaled {
		area = area.Intersect(o.dstRect)
	}
	if area.Empty() || src == nil {
		return
	}

	mode := o.mode.internal()
	off, whole := o.transform.PixelOffset()
	switch {
	case o.scaled:
		l.blendScaled(src, area, o.srcRect, o.dstRect, mode)
	case whole:
		l.blendOffset(src.img, area, off, mode)
	default:
		l.blendTransformed(src.img, area, o.transform.Invert(), mode)
	}
	l.touched(area)
}

// blendOffset blends src translated by off onto area of l.
// Destination pixels that map outside src blend a transparent source.
func (l *Layer) blendOffset(src *image.RGBA, area image.Rectangle, off image.Point, mode blend.Mode) {
	covered := src.Rect.Add(off).Intersect(area)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := l.img.Pix[l.img.PixOffset(area.Min.X, y):l.img.PixOffset(area.Max.X, y)]
		if covered.Empty() || y < covered.Min.Y || y >= covered.Max.Y {
			blend.Transparent(row, mode)
			continue
		}
		left := (covered.Min.X - area.Min.X) * 4
		right := (covered.Max.X - area.Min.X) * 4
		blend.Transparent(row[:left], mode)
		blend.Transparent(row[right:], mode)
		s := src.PixOffset(covered.Min.X-off.X, y-off.Y)
		blend.Span(row[left:right], src.Pix[s:s+right-left], mode)
	}
}

// blendTransformed blends src through a general affine transform.
// inv maps destination coordinates back into source coordinates.
func (l *Layer) blendTransformed(src *image.RGBA, area image.Rectangle, inv Matrix, mode blend.Mode) {
	fn := blend.Get(mode)
	var clearPx [4]byte
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			p := inv.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
			sx, sy := int(math.Floor(p.X)), int(math.Floor(p.Y))
			s := clearPx[:]
			if image.Pt(sx, sy).In(src.Rect) {
				i := src.PixOffset(sx, sy)
				s = src.Pix[i : i+4]
			}
			d := l.img.Pix[l.img.PixOffset(x, y):]
			d[0], d[1], d[2], d[3] = fn(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3])
		}
	}
}

// blendScaled maps srcRect of src onto dstRect, restricted to area.
func (l *Layer) blendScaled(src *Layer, area, srcRect, dstRect image.Rectangle, mode blend.Mode) {
	if srcRect.Size() == dstRect.Size() {
		l.blendOffset(src.img, area, dstRect.Min.Sub(srcRect.Min), mode)
		return
	}
	srcRect = srcRect.Intersect(src.img.Rect)
	if srcRect.Empty() {
		return
	}
	scratch := image.NewRGBA(dstRect)
	xdraw.ApproxBiLinear.Scale(scratch, dstRect, src.img, srcRect, xdraw.Src, nil)
	l.blendOffset(scratch, area, image.Point{}, mode)
}
