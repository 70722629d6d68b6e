// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package selection

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/anthonynsimon/bild/clone"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/ink"
)

// Export names used for the saved blob.
const (
	ExportName = "selection.png"
	ExportMIME = "image/png"
)

// Export encodes the selected pixels at their current placement as PNG,
// closes the selection and hands the image to saver. Like a copy, the
// export never writes to the strokes layer.
func (p *Pipeline) Export(ctx context.Context, saver Saver) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ink.ErrBusy
	}
	defer p.busy.Store(false)

	if p.state == StateClosed {
		return ink.ErrNotOpen
	}
	pix, area := p.readPlaced()
	data, err := pix.EncodePNG(area)
	ink.ReleaseLayer(pix)
	p.discard()
	if err != nil {
		return fmt.Errorf("selection: export: %w", err)
	}
	if err := saver.Save(ctx, ExportName, ExportMIME, data); err != nil {
		return fmt.Errorf("selection: export: %w", err)
	}
	ink.Logger().Info("selection: exported", "bytes", len(data))
	return nil
}

// Import decodes an image from r and places it as a rectangle selection
// with its top-left corner at the view position pos. Data that is not a
// decodable image fails with [ink.ErrUnsupportedImage] and leaves the
// pipeline unchanged.
func (p *Pipeline) Import(ctx context.Context, r io.Reader, pos ink.Point) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ink.ErrBusy
	}
	defer p.busy.Store(false)

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("selection: import: %w", err)
	}
	if !filetype.IsImage(data) {
		return ink.ErrUnsupportedImage
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ink.ErrUnsupportedImage, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rgba := clone.AsRGBA(img)
	size := rgba.Bounds().Size()
	layer := ink.NewLayer(size.X, size.Y)
	layer.FillTexture(rgba)

	ink.Logger().Debug("selection: image decoded", "format", format, "size", size)
	return p.OpenRect(pos, layer.Bounds(), LayerSource{Layer: layer})
}
