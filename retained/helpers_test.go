package retained

import (
	"bytes"
	"image"
	"log"
	"testing"

	"github.com/agiangrant/copper/region"
)

// fakePlatform records native windows and their flushes.
type fakePlatform struct {
	windows []*fakeWindow
	fail    bool
	events  chan RawEvent
}

func (p *fakePlatform) CreateWindow(id WidgetID, geometry image.Rectangle, title string) (NativeWindow, error) {
	if p.fail {
		return nil, ErrNoWindow
	}
	w := &fakeWindow{id: "fake-" + string(rune('a'+len(p.windows))), geometry: geometry, title: title}
	p.windows = append(p.windows, w)
	return w, nil
}

func (p *fakePlatform) Events() <-chan RawEvent { return p.events }

type fakeWindow struct {
	id        string
	geometry  image.Rectangle
	title     string
	visible   bool
	destroyed bool
	flushes   []region.Region
}

func (w *fakeWindow) ID() string                    { return w.id }
func (w *fakeWindow) SetGeometry(r image.Rectangle) { w.geometry = r }
func (w *fakeWindow) SetVisible(visible bool)       { w.visible = visible }
func (w *fakeWindow) SetTitle(title string)         { w.title = title }
func (w *fakeWindow) Destroy()                      { w.destroyed = true }
func (w *fakeWindow) Flush(img *image.RGBA, rgn region.Region) error {
	w.flushes = append(w.flushes, rgn)
	return nil
}

// testApp bundles an App with its fake platform and captured log output.
type testApp struct {
	*App
	platform *fakePlatform
	log      *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	buf := &bytes.Buffer{}
	p := &fakePlatform{}
	a := NewApp(WithPlatform(p), WithLogger(log.New(buf, "", 0)))
	return &testApp{App: a, platform: p, log: buf}
}

// paintRecord is one paint event seen by a recorder.
type paintRecord struct {
	name string
	rgn  region.Region
}

// paintRecorder collects paint events of the widgets it watches.
type paintRecorder struct {
	paints []paintRecord
}

func (r *paintRecorder) watch(ws ...*Widget) {
	for _, w := range ws {
		name := w.Name()
		w.OnPaint(func(e *PaintEvent) {
			r.paints = append(r.paints, paintRecord{name: name, rgn: e.Region()})
		})
	}
}

func (r *paintRecorder) reset() { r.paints = nil }

func (r *paintRecorder) count(name string) int {
	n := 0
	for _, p := range r.paints {
		if p.name == name {
			n++
		}
	}
	return n
}

func (r *paintRecorder) region(name string) region.Region {
	var rgn region.Region
	for _, p := range r.paints {
		if p.name == name {
			rgn = rgn.Union(p.rgn)
		}
	}
	return rgn
}

// eventCounter counts events by type through OnEvent-independent hooks.
type eventCounter map[EventType]int

func (c eventCounter) hook(w *Widget) {
	w.OnShow(func(Event) { c[EventShow]++ })
	w.OnHide(func(Event) { c[EventHide]++ })
	w.OnChange(func(e Event) { c[e.Type()]++ })
}

// showWindow creates a shown window of the given size with its first
// update already flushed.
func (a *testApp) showWindow(name string, size image.Point) *Widget {
	win := a.NewWindow(name)
	win.SetName(name)
	win.SetGeometry(image.Rectangle{Max: size})
	win.Show()
	a.ProcessEvents()
	return win
}

// child creates a child of parent with the given name and geometry.
func (a *testApp) child(parent *Widget, name string, r image.Rectangle) *Widget {
	w := a.NewWidget(parent)
	w.SetName(name)
	w.SetGeometry(r)
	return w
}

func (a *testApp) flushesOf(win *Widget) []region.Region {
	for _, fw := range a.platform.windows {
		if fw.id == win.WinID() {
			return fw.flushes
		}
	}
	return nil
}
