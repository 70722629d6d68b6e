// Package ink renders freehand ink strokes onto a layered raster surface.
//
// # Overview
//
// ink is a Pure Go engine for digital ink. A host application feeds pointer
// samples into a [surface.Controller], which turns them into path parts,
// rasterizes them through a [StrokeRenderer] and composites only the minimal
// dirty rectangle onto the visible canvas. Secondary tools erase existing
// strokes by segmentation, or lasso a raster region that the
// [selection.Pipeline] can move, copy, paste, delete, import and export.
//
// # Quick Start
//
//	cfg := ink.DefaultConfig()
//	ctrl, err := surface.New(cfg, surface.WithSize(800, 600))
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = ctrl.SetTool("pen")
//
//	ctrl.Begin(ink.InputPoint{Point: ink.Pt(10, 10)})
//	ctrl.Move(ink.InputPoint{Point: ink.Pt(80, 40)}, nil)
//	ctrl.End(ink.InputPoint{Point: ink.Pt(150, 90)})
//
//	png, _ := ctrl.Canvas().EncodePNG(ctrl.Canvas().Bounds())
//
// # Architecture
//
// The module is organized into:
//   - Root package: geometry (Point, Matrix, Rect, Polygon), Lens, Layer,
//     Stroke, collaborator interfaces, Config, logging
//   - Collaborators: builder (path building), brush (stroke rasterization),
//     segment (eraser and lasso segmentation), model (stroke collection)
//   - Core: surface (tool routing and compositing), selection (raster
//     selection lifecycle)
//   - I/O: export (file and PDF savers)
//   - Internal: blend (Porter-Duff kernels), raster (coverage fill)
//
// # Coordinate System
//
// Two coordinate spaces are used. Model space is where strokes are stored.
// View space is the pixel space of the canvas and all of its layers. The
// [Lens] holds the model to view transform. Every [Rect] carries the [Space]
// it is expressed in, so dirty areas can travel between spaces without
// losing track of which one they belong to.
//
// Origin (0,0) is at the top-left, X increases right and Y increases down.
//
// # Pixels
//
// Layers store premultiplied 8-bit RGBA, the same layout as [image.RGBA].
package ink

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
