// Command inkdemo replays an input script through an ink surface and saves
// the resulting canvas.
//
// A script is a TOML file of steps:
//
//	[[step]]
//	tool = "pen"
//	points = [[10, 10], [60, 40], [120, 30]]
//
//	[[step]]
//	tool = "selector"
//	points = [[0, 0], [200, 0], [200, 100], [0, 100]]
//
//	[[step]]
//	action = "translate"
//	dx = 40
//	dy = 20
//
// Actions are stroke (the default), translate, complete, copy, cut, paste,
// delete, close, export, import, redraw, zoom and clear.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/export"
	"github.com/gogpu/ink/selection"
	"github.com/gogpu/ink/surface"
)

type script struct {
	Steps []step `toml:"step"`
}

type step struct {
	Action string       `toml:"action"`
	Tool   string       `toml:"tool"`
	Points [][2]float64 `toml:"points"`
	DX     float64      `toml:"dx"`
	DY     float64      `toml:"dy"`
	X      float64      `toml:"x"`
	Y      float64      `toml:"y"`
	Factor float64      `toml:"factor"`
	File   string       `toml:"file"`
}

// defaultScript draws two strokes, moves a lasso selection and pastes a copy.
var defaultScript = script{Steps: []step{
	{Tool: "pen", Points: [][2]float64{{40, 60}, {120, 140}, {220, 90}, {320, 180}}},
	{Tool: "marker", Points: [][2]float64{{60, 200}, {200, 210}, {360, 190}}},
	{Tool: "selector", Points: [][2]float64{{20, 40}, {240, 40}, {240, 160}, {20, 160}}},
	{Action: "translate", DX: 200, DY: 150},
	{Action: "complete"},
	{Action: "copy"},
	{Action: "paste", X: 420, Y: 40},
	{Action: "close"},
	{Tool: "eraserStroke", Points: [][2]float64{{300, 150}, {300, 250}}},
}}

func main() {
	var (
		width      = flag.Int("width", 640, "surface width")
		height     = flag.Int("height", 400, "surface height")
		configPath = flag.String("config", "", "ink config (TOML); defaults apply when empty")
		scriptPath = flag.String("script", "", "input script (TOML); a built-in demo runs when empty")
		output     = flag.String("output", "ink.png", "output PNG of the canvas")
		pdfOutput  = flag.String("pdf", "", "optional vector PDF of the document")
		exportDir  = flag.String("export-dir", ".", "directory for export actions")
		format     = flag.String("format", "png", "export format: "+fmt.Sprint(export.List()))
	)
	flag.Parse()

	cfg := ink.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ink.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	sc := defaultScript
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatalf("Failed to read script: %v", err)
		}
		sc = script{}
		if err := toml.Unmarshal(data, &sc); err != nil {
			log.Fatalf("Failed to parse script: %v", err)
		}
	}

	saver, err := export.New(*format, *exportDir)
	if err != nil {
		log.Fatalf("Failed to create saver: %v", err)
	}

	frames := surface.NewFrameQueue()
	c, err := surface.New(cfg, surface.WithSize(*width, *height), surface.WithFrames(frames))
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}

	ctx := context.Background()
	for i, st := range sc.Steps {
		if err := run(ctx, c, frames, saver, st); err != nil {
			log.Fatalf("Step %d (%s): %v", i+1, actionOf(st), err)
		}
	}
	c.Selection().Close()

	data, err := c.Canvas().EncodePNG(c.Canvas().Bounds())
	if err != nil {
		log.Fatalf("Failed to encode canvas: %v", err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Canvas saved to %s (%dx%d, %d strokes)\n", *output, *width, *height, len(c.Strokes()))

	if *pdfOutput != "" {
		if err := writePDF(c, *pdfOutput); err != nil {
			log.Fatalf("Failed to save PDF: %v", err)
		}
		log.Printf("Document saved to %s\n", *pdfOutput)
	}
}

func actionOf(st step) string {
	if st.Action == "" {
		return "stroke"
	}
	return st.Action
}

func run(ctx context.Context, c *surface.Controller, frames *surface.FrameQueue, saver selection.Saver, st step) error {
	sel := c.Selection()
	switch actionOf(st) {
	case "stroke":
		return stroke(c, frames, st)
	case "translate":
		return sel.Transform(ink.Translate(st.DX, st.DY))
	case "complete":
		sel.CompleteTransform()
	case "copy":
		return sel.Copy(false)
	case "cut":
		return sel.Copy(true)
	case "paste":
		return sel.Paste(ink.Pt(st.X, st.Y))
	case "delete":
		sel.Delete()
	case "close":
		sel.Close()
	case "export":
		return sel.Export(ctx, saver)
	case "import":
		f, err := os.Open(st.File)
		if err != nil {
			return err
		}
		defer f.Close()
		return sel.Import(ctx, f, ink.Pt(st.X, st.Y))
	case "redraw":
		c.Redraw(ink.Rect{})
	case "zoom":
		c.Lens().Zoom(st.Factor, ink.Pt(st.X, st.Y))
		c.Redraw(ink.Rect{})
	case "clear":
		c.Clear()
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// stroke replays points as one input session, one frame per sample.
func stroke(c *surface.Controller, frames *surface.FrameQueue, st step) error {
	if len(st.Points) < 2 {
		return fmt.Errorf("stroke needs at least 2 points, got %d", len(st.Points))
	}
	if st.Tool != "" && st.Tool != c.ToolID() {
		if err := c.SetTool(st.Tool); err != nil {
			return err
		}
	}
	in := func(p [2]float64) ink.InputPoint {
		return ink.InputPoint{Point: ink.Pt(p[0], p[1]), PointerID: 1, Device: "script"}
	}
	c.Begin(in(st.Points[0]))
	for _, p := range st.Points[1 : len(st.Points)-1] {
		c.Move(in(p), nil)
		frames.Tick()
	}
	c.End(in(st.Points[len(st.Points)-1]))
	return nil
}

func writePDF(c *surface.Controller, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	area := c.Lens().ViewToModel(c.Canvas().Bounds())
	if err := export.WriteStrokesPDF(f, c.Strokes(), area); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
