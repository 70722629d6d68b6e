// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package export stores exported selections and documents on disk.
//
// Savers implement [selection.Saver] and are created by format name through
// a [Registry]:
//
//	saver, err := export.New("pdf", dir)
//	if err != nil {
//		return err
//	}
//	err = pipeline.Export(ctx, saver)
//
// The built-in formats are "png", which writes the encoded image as is, and
// "pdf", which places it on a page of the image size.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/selection"
)

// FileSaver writes exported data into a directory.
type FileSaver struct {
	Dir string
}

var _ selection.Saver = (*FileSaver)(nil)

// NewFileSaver returns a saver for dir, creating the directory if needed.
func NewFileSaver(dir string) (*FileSaver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return &FileSaver{Dir: dir}, nil
}

// Save writes data to Dir/name. Data whose detected type differs from mime
// is rejected with [ErrMIMEMismatch].
func (s *FileSaver) Save(ctx context.Context, name, mime string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkMIME(data, mime); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	ink.Logger().Info("export: saved", "path", path, "bytes", len(data))
	return nil
}

// checkMIME verifies data against mime for the types the detector knows.
func checkMIME(data []byte, mime string) error {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return fmt.Errorf("%w: unknown content, want %s", ErrMIMEMismatch, mime)
	}
	if kind.MIME.Value != mime {
		return fmt.Errorf("%w: got %s, want %s", ErrMIMEMismatch, kind.MIME.Value, mime)
	}
	return nil
}
