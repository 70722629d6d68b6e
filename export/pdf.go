// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // register PNG decoder for DecodeConfig
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/selection"
)

// PDFSaver places exported PNG images on a PDF page of the image size, one
// point per pixel.
type PDFSaver struct {
	Dir string
}

var _ selection.Saver = (*PDFSaver)(nil)

// NewPDFSaver returns a saver for dir, creating the directory if needed.
func NewPDFSaver(dir string) (*PDFSaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return &PDFSaver{Dir: dir}, nil
}

// Save writes data as Dir/name with a .pdf extension. Only PNG data is
// accepted.
func (s *PDFSaver) Save(ctx context.Context, name, mime string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mime != selection.ExportMIME {
		return fmt.Errorf("%w: pdf pages take %s, got %s", ErrMIMEMismatch, selection.ExportMIME, mime)
	}
	if err := checkMIME(data, mime); err != nil {
		return err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: gofpdf.SizeType{Wd: w, Ht: h}})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")

	path := filepath.Join(s.Dir, pdfName(name))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	ink.Logger().Info("export: saved", "path", path, "width", cfg.Width, "height", cfg.Height)
	return nil
}

func pdfName(name string) string {
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".pdf"
}

// WriteStrokesPDF writes strokes as vector lines on a page covering the
// model-space area. Hidden strokes are skipped.
func WriteStrokesPDF(w io.Writer, strokes []*ink.Stroke, area ink.Rect) error {
	if area.Empty() {
		return ink.ErrEmptyRegion
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: gofpdf.SizeType{Wd: area.Width(), Ht: area.Height()}})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for _, s := range strokes {
		if !s.Style.Visible || len(s.Points) == 0 {
			continue
		}
		c := s.Style.Color
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		pdf.SetAlpha(float64(c.A)/255, "Normal")
		pdf.SetLineWidth(s.Style.Width)

		pts := s.Points
		if len(pts) == 1 {
			pts = []ink.Point{pts[0], pts[0]}
		}
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1].Sub(area.Min), pts[i].Sub(area.Min)
			pdf.Line(a.X, a.Y, b.X, b.Y)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: pdf: %w", err)
	}
	return nil
}
