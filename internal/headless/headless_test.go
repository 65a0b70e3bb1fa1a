package headless

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/agiangrant/copper/region"
	"github.com/agiangrant/copper/retained"
)

func quietConfig() retained.Config {
	cfg := retained.DefaultConfig()
	cfg.Log.Quiet = true
	return cfg
}

func TestFlushReachesScreen(t *testing.T) {
	p := New()
	app := retained.NewApp(retained.WithPlatform(p), retained.WithConfig(quietConfig()))

	red := color.RGBA{0xff, 0, 0, 0xff}
	win := app.NewWindow("main")
	win.SetGeometry(image.Rect(0, 0, 40, 30))
	win.OnPaint(func(e *retained.PaintEvent) {
		e.Painter().FillRect(e.Rect(), red)
	})
	win.Show()
	app.ProcessEvents()

	nw := p.WindowFor(win.ID())
	if nw == nil {
		t.Fatal("no native window for the shown window")
	}
	if !nw.Visible() {
		t.Error("native window not visible after Show")
	}
	if nw.Title() != "main" {
		t.Errorf("Title() = %q, want %q", nw.Title(), "main")
	}
	flushes := nw.Flushes()
	if len(flushes) != 1 {
		t.Fatalf("len(Flushes()) = %d, want 1", len(flushes))
	}
	if !flushes[0].Region.Equal(region.FromRect(region.XYWH(0, 0, 40, 30))) {
		t.Errorf("flushed region = %v, want the whole window", flushes[0].Region)
	}
	if got := nw.Screen().RGBAAt(10, 10); got != red {
		t.Errorf("screen pixel = %v, want %v", got, red)
	}
}

func TestWindowIDsAreUnique(t *testing.T) {
	p := New()
	a, err := p.CreateWindow(1, image.Rect(0, 0, 10, 10), "a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.CreateWindow(2, image.Rect(0, 0, 10, 10), "b")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID() == b.ID() || a.ID() == "" {
		t.Errorf("window ids %q and %q, want distinct non-empty ids", a.ID(), b.ID())
	}
	if len(p.Windows()) != 2 {
		t.Errorf("len(Windows()) = %d, want 2", len(p.Windows()))
	}
}

func TestWindowLimit(t *testing.T) {
	p := New(WithWindowLimit(1))
	first, err := p.CreateWindow(1, image.Rect(0, 0, 10, 10), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.CreateWindow(2, image.Rect(0, 0, 10, 10), ""); !errors.Is(err, retained.ErrNoWindow) {
		t.Errorf("CreateWindow over the limit: err = %v, want ErrNoWindow", err)
	}
	first.Destroy()
	if _, err := p.CreateWindow(3, image.Rect(0, 0, 10, 10), ""); err != nil {
		t.Errorf("CreateWindow after Destroy: %v", err)
	}
}

func TestFlushToDestroyedWindow(t *testing.T) {
	p := New()
	w, _ := p.CreateWindow(1, image.Rect(0, 0, 10, 10), "")
	w.Destroy()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := w.Flush(img, region.FromRect(region.XYWH(0, 0, 10, 10))); err == nil {
		t.Error("Flush on a destroyed window succeeded")
	}
}

func TestFlushGrowsScreen(t *testing.T) {
	p := New()
	nw, _ := p.CreateWindow(1, image.Rect(0, 0, 10, 10), "")
	w := nw.(*Window)
	img := image.NewRGBA(image.Rect(0, 0, 20, 15))
	img.SetRGBA(15, 12, color.RGBA{0, 0, 0xff, 0xff})
	if err := w.Flush(img, region.FromRect(region.XYWH(10, 10, 10, 5))); err != nil {
		t.Fatal(err)
	}
	screen := w.Screen()
	if screen.Bounds() != img.Bounds() {
		t.Errorf("screen bounds = %v, want %v", screen.Bounds(), img.Bounds())
	}
	if got := screen.RGBAAt(15, 12); got.B != 0xff {
		t.Errorf("screen pixel = %v, want blue", got)
	}
}

func TestInjectedEventsReachApp(t *testing.T) {
	p := New()
	app := retained.NewApp(retained.WithPlatform(p), retained.WithConfig(quietConfig()))
	win := app.NewWindow("w")
	win.Show()
	app.ProcessEvents()

	pressed := 0
	win.OnMousePress(func(e *retained.MouseEvent) { pressed++ })

	p.Inject(retained.RawEvent{Kind: retained.RawMouseDown, Window: win.WinID(), Pos: image.Pt(5, 5), Button: retained.MouseButtonLeft, Buttons: retained.MouseButtonLeft})
	app.Dispatch(<-p.Events())
	if pressed != 1 {
		t.Errorf("press handler calls = %d, want 1", pressed)
	}
	p.Close()
	p.Close()
	if _, ok := <-p.Events(); ok {
		t.Error("Events() still open after Close")
	}
}
