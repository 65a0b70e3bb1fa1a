// Package headless implements retained.Platform in memory. Native windows
// are plain RGBA images; every flush is recorded so tests and tools can see
// exactly what reached the "screen".
package headless

import (
	"fmt"
	"image"
	"sync"

	uuid "github.com/satori/go.uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/agiangrant/copper/region"
	"github.com/agiangrant/copper/retained"
)

// Platform is an in-memory platform. CreateWindow and the Window methods
// are called from the App goroutine; Inject and the accessors may be used
// from any goroutine.
type Platform struct {
	mu      sync.Mutex
	events  chan retained.RawEvent
	windows []*Window
	limit   int // maximum live windows, 0 for unlimited
	closed  bool
}

// Option configures a Platform.
type Option func(*Platform)

// WithEventBuffer sets the capacity of the raw event channel.
func WithEventBuffer(n int) Option {
	return func(p *Platform) { p.events = make(chan retained.RawEvent, n) }
}

// WithWindowLimit makes CreateWindow fail once n windows are alive.
func WithWindowLimit(n int) Option {
	return func(p *Platform) { p.limit = n }
}

// New creates a headless platform.
func New(opts ...Option) *Platform {
	p := &Platform{events: make(chan retained.RawEvent, 64)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateWindow implements retained.Platform.
func (p *Platform) CreateWindow(id retained.WidgetID, geometry image.Rectangle, title string) (retained.NativeWindow, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.limit > 0 && p.liveLocked() >= p.limit {
		return nil, fmt.Errorf("headless: window for widget %d: %w", id, retained.ErrNoWindow)
	}
	u, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("headless: window id: %w", err)
	}
	w := &Window{
		platform: p,
		id:       u.String(),
		widget:   id,
		geometry: geometry,
		title:    title,
		screen:   image.NewRGBA(image.Rectangle{Max: geometry.Size()}),
	}
	p.windows = append(p.windows, w)
	return w, nil
}

func (p *Platform) liveLocked() int {
	n := 0
	for _, w := range p.windows {
		if !w.destroyed {
			n++
		}
	}
	return n
}

// Events implements retained.Platform.
func (p *Platform) Events() <-chan retained.RawEvent { return p.events }

// Inject queues a raw event as if the platform produced it.
func (p *Platform) Inject(ev retained.RawEvent) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if !closed {
		p.events <- ev
	}
}

// Close closes the event channel, which makes App.Run return.
func (p *Platform) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
}

// Windows returns every window created so far, destroyed ones included.
func (p *Platform) Windows() []*Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Window, len(p.windows))
	copy(out, p.windows)
	return out
}

// WindowFor returns the live window created for widget id, or nil.
func (p *Platform) WindowFor(id retained.WidgetID) *Window {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.windows {
		if w.widget == id && !w.destroyed {
			return w
		}
	}
	return nil
}

// ============================================================================
// Window
// ============================================================================

// FlushRecord is one flush received by a Window.
type FlushRecord struct {
	Seq    int
	Region region.Region
}

// Window is a headless native window.
type Window struct {
	platform *Platform

	id        string
	widget    retained.WidgetID
	geometry  image.Rectangle
	title     string
	visible   bool
	destroyed bool

	screen  *image.RGBA
	flushes []FlushRecord
}

// ID implements retained.NativeWindow.
func (w *Window) ID() string { return w.id }

// WidgetID returns the top-level widget the window was created for.
func (w *Window) WidgetID() retained.WidgetID { return w.widget }

func (w *Window) SetGeometry(r image.Rectangle) {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	w.geometry = r
}

func (w *Window) SetVisible(visible bool) {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	w.visible = visible
}

func (w *Window) SetTitle(title string) {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	w.title = title
}

// Flush copies the parts of img covered by rgn to the window's screen.
func (w *Window) Flush(img *image.RGBA, rgn region.Region) error {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	if w.destroyed {
		return fmt.Errorf("headless: flush to destroyed window %s", w.id)
	}
	if w.screen.Bounds() != img.Bounds() {
		screen := image.NewRGBA(img.Bounds())
		xdraw.Draw(screen, w.screen.Bounds(), w.screen, w.screen.Bounds().Min, xdraw.Src)
		w.screen = screen
	}
	for _, r := range rgn.Rects() {
		xdraw.Draw(w.screen, r, img, r.Min, xdraw.Src)
	}
	w.flushes = append(w.flushes, FlushRecord{Seq: len(w.flushes) + 1, Region: rgn})
	return nil
}

func (w *Window) Destroy() {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	w.destroyed = true
	w.visible = false
}

// Title returns the window title.
func (w *Window) Title() string {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	return w.title
}

// Visible reports whether the window is mapped.
func (w *Window) Visible() bool {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	return w.visible
}

// Destroyed reports whether the window was destroyed.
func (w *Window) Destroyed() bool {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	return w.destroyed
}

// Geometry returns the last geometry set by the App.
func (w *Window) Geometry() image.Rectangle {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	return w.geometry
}

// Flushes returns the flush log.
func (w *Window) Flushes() []FlushRecord {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	out := make([]FlushRecord, len(w.flushes))
	copy(out, w.flushes)
	return out
}

// Screen returns a copy of what has been flushed so far.
func (w *Window) Screen() *image.RGBA {
	w.platform.mu.Lock()
	defer w.platform.mu.Unlock()
	out := image.NewRGBA(w.screen.Bounds())
	copy(out.Pix, w.screen.Pix)
	return out
}
