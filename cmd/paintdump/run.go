package main

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/agiangrant/copper/internal/headless"
	"github.com/agiangrant/copper/retained"
)

// maxTurns bounds the event loop turns run after each step.
const maxTurns = 64

// Result summarizes one scene run.
type Result struct {
	Scene  string
	Output string // PNG path, empty when not written

	Steps       int
	Flushes     int
	FlushedArea int

	// Paints counts paint events per widget name, in scene order.
	Paints []PaintCount
	// Order lists the paint events of the last step in delivery order.
	Order []string
}

type PaintCount struct {
	Name  string
	Count int
	Area  int
}

// runScene builds the scene at path on a headless platform, applies its
// steps and writes the final window contents to outDir as PNG. An empty
// outDir skips the image.
func runScene(ctx context.Context, cfg retained.Config, logger *log.Logger, path, outDir string) (Result, error) {
	scene, err := LoadScene(path)
	if err != nil {
		return Result{}, err
	}
	name := sceneName(path)
	res := Result{Scene: name, Steps: len(scene.Steps)}

	cfg.App.QuitOnLastWindowClosed = false
	platform := headless.New()
	defer platform.Close()
	app := retained.NewApp(retained.WithConfig(cfg), retained.WithPlatform(platform), retained.WithLogger(logger))

	counts := map[string]*PaintCount{"window": {Name: "window"}}
	for _, w := range scene.Widgets {
		counts[w.Name] = &PaintCount{Name: w.Name}
	}
	var order []string
	onPaint := func(name string, e *retained.PaintEvent) {
		c := counts[name]
		c.Count++
		c.Area += e.Region().Area()
		order = append(order, name)
	}

	win, widgets, err := scene.build(app, onPaint)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	win.Show()
	settle(app)

	for i, st := range scene.Steps {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		order = order[:0]
		if err := st.apply(app, win, widgets); err != nil {
			return Result{}, fmt.Errorf("%s: step %d (%s): %w", path, i, st.Action, err)
		}
		settle(app)
	}

	res.Paints = append(res.Paints, *counts["window"])
	for _, w := range scene.Widgets {
		res.Paints = append(res.Paints, *counts[w.Name])
	}
	res.Order = append([]string(nil), order...)

	native := platform.WindowFor(win.ID())
	if native == nil {
		return res, fmt.Errorf("%s: window has no native surface", path)
	}
	for _, f := range native.Flushes() {
		res.Flushes++
		res.FlushedArea += f.Region.Area()
	}

	if outDir == "" {
		return res, nil
	}
	res.Output = filepath.Join(outDir, name+".png")
	if err := writePNG(res.Output, native); err != nil {
		return res, err
	}
	return res, nil
}

// sceneName is the file name of path without its extension. It names the
// scene in the report and its PNG snapshot.
func sceneName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// settle runs event loop turns until nothing is pending.
func settle(app *retained.App) {
	for i := 0; i < maxTurns && app.ProcessEvents() > 0; i++ {
	}
}

func writePNG(path string, w *headless.Window) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, w.Screen()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
