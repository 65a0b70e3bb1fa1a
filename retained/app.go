package retained

import (
	"context"
	"image"
	"log"
	"slices"
	"time"
)

// App is the application context. It owns every widget it creates, the
// queue of posted events and the platform connection.
type App struct {
	cfg      Config
	platform Platform
	logger   *log.Logger

	style   Style
	palette Palette
	font    Font

	nextID     WidgetID
	allWidgets map[WidgetID]*Widget
	topLevels  []*Widget // back to front

	posted []postedEvent

	focusID   WidgetID
	hoveredID WidgetID
	grabID    WidgetID // implicit mouse grab between press and release
	lastPress pressRecord

	lastWindowClosed []func()
	quit             bool
}

type postedEvent struct {
	id WidgetID
	ev Event
}

type pressRecord struct {
	id     WidgetID
	button MouseButton
	at     time.Time
}

// Option configures an App.
type Option func(*App)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(a *App) {
		cfg.normalize()
		a.cfg = cfg
	}
}

// WithPlatform sets the platform windows are created on. Without one,
// windows are never shown on any screen.
func WithPlatform(p Platform) Option {
	return func(a *App) { a.platform = p }
}

// WithLogger sets the logger warnings are written to.
func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithStyle sets the application style.
func WithStyle(s Style) Option {
	return func(a *App) { a.style = s }
}

// WithPalette sets the application palette.
func WithPalette(p Palette) Option {
	return func(a *App) { a.palette = p }
}

// NewApp creates an application context.
func NewApp(opts ...Option) *App {
	a := &App{
		cfg:        DefaultConfig(),
		style:      BasicStyle{},
		palette:    DefaultPalette(),
		font:       DefaultFont(),
		allWidgets: make(map[WidgetID]*Widget),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.platform == nil {
		a.platform = nullPlatform{}
	}
	if a.logger == nil {
		a.logger = newLogger(a.cfg.Log)
	}
	return a
}

// Config returns the configuration in use.
func (a *App) Config() Config { return a.cfg }

// Platform returns the platform windows are created on.
func (a *App) Platform() Platform { return a.platform }

// ============================================================================
// Widget Registry
// ============================================================================

// NewWidget creates a hidden widget. A nil parent makes it a window.
func (a *App) NewWidget(parent *Widget) *Widget {
	if parent != nil && parent.app != a {
		a.warn("NewWidget: parent %v belongs to another application", parent)
		parent = nil
	}
	if parent != nil && (parent.inDestructor || parent.destroyed) {
		a.warn("NewWidget: parent %v is being destroyed", parent)
		parent = nil
	}
	w := a.newWidget(parent == nil)
	if parent != nil {
		w.SetParent(parent)
	}
	return w
}

// NewWindow creates a hidden parentless window. An empty title falls back
// to the application name.
func (a *App) NewWindow(title string) *Widget {
	w := a.newWidget(true)
	w.title = title
	if title == "" {
		w.title = a.cfg.App.Name
	}
	return w
}

// NewDialog creates a hidden window owned by parent. It is destroyed with
// parent but painted and focused independently.
func (a *App) NewDialog(parent *Widget, title string) *Widget {
	w := a.newWidget(true)
	w.title = title
	if parent == nil || parent.app != a || parent.inDestructor {
		return w
	}
	w.parent = parent
	parent.children = append(parent.children, w)
	return w
}

func (a *App) newWidget(window bool) *Widget {
	a.nextID++
	w := &Widget{
		app:                 a,
		id:                  a.nextID,
		isWindow:            window,
		maxSize:             image.Pt(maxWidgetSize, maxWidgetSize),
		dirtyOpaqueChildren: true,
		attrs:               AttrHidden,
	}
	w.focusNext, w.focusPrev = w.id, w.id
	if window {
		w.crect = image.Rect(0, 0, a.cfg.Paint.WindowWidth, a.cfg.Paint.WindowHeight)
		w.attrs |= AttrQuitOnClose
		a.topLevels = append(a.topLevels, w)
	} else {
		w.crect = image.Rect(0, 0, a.cfg.Paint.ChildWidth, a.cfg.Paint.ChildHeight)
	}
	a.allWidgets[w.id] = w
	w.updateIsOpaque()
	return w
}

// Widget returns the live widget with the given id, or nil.
func (a *App) Widget(id WidgetID) *Widget {
	return a.allWidgets[id]
}

// AllWidgets returns every live widget, in creation order.
func (a *App) AllWidgets() []*Widget {
	out := make([]*Widget, 0, len(a.allWidgets))
	for _, w := range a.allWidgets {
		out = append(out, w)
	}
	slices.SortFunc(out, func(x, y *Widget) int {
		switch {
		case x.id < y.id:
			return -1
		case x.id > y.id:
			return 1
		}
		return 0
	})
	return out
}

// TopLevelWidgets returns every window, back to front.
func (a *App) TopLevelWidgets() []*Widget {
	return slices.Clone(a.topLevels)
}

func (a *App) windowForNative(id string) *Widget {
	if id == "" {
		return nil
	}
	for _, w := range a.topLevels {
		if w.native != nil && w.native.ID() == id {
			return w
		}
	}
	return nil
}

// ============================================================================
// Event Delivery
// ============================================================================

// SendEvent delivers e to w synchronously and returns whether w
// recognized it. Destroyed widgets recognize nothing.
func (a *App) SendEvent(w *Widget, e Event) bool {
	if w == nil || w.destroyed || w.app != a {
		return false
	}
	return w.Event(e)
}

// PostEvent queues e for w. It is delivered by the next ProcessEvents
// call. UpdateRequest and LayoutRequest events are coalesced: posting one
// while another is queued for the same widget does nothing.
func (a *App) PostEvent(w *Widget, e Event) {
	if w == nil || w.destroyed || w.app != a {
		return
	}
	switch e.Type() {
	case EventUpdateRequest, EventLayoutRequest:
		for _, p := range a.posted {
			if p.id == w.id && p.ev.Type() == e.Type() {
				return
			}
		}
	}
	a.posted = append(a.posted, postedEvent{id: w.id, ev: e})
}

// RemovePostedEvents drops queued events for w. EventNone drops all of
// them.
func (a *App) RemovePostedEvents(w *Widget, t EventType) {
	a.posted = slices.DeleteFunc(a.posted, func(p postedEvent) bool {
		return p.id == w.id && (t == EventNone || p.ev.Type() == t)
	})
}

// HasPendingEvents reports whether posted events are queued.
func (a *App) HasPendingEvents() bool { return len(a.posted) > 0 }

// ProcessEvents delivers the events posted so far and returns how many
// were delivered. Events posted while processing wait for the next call.
// Update requests are delivered after all other events of the batch, so
// geometry changes reach the screen in the same turn.
func (a *App) ProcessEvents() int {
	if len(a.posted) == 0 {
		return 0
	}
	batch := a.posted
	a.posted = nil
	slices.SortStableFunc(batch, func(x, y postedEvent) int {
		return postPriority(x.ev.Type()) - postPriority(y.ev.Type())
	})
	n := 0
	for _, p := range batch {
		w := a.allWidgets[p.id]
		if w == nil || w.destroyed {
			continue
		}
		a.SendEvent(w, p.ev)
		n++
	}
	return n
}

func postPriority(t EventType) int {
	if t == EventUpdateRequest {
		return 1
	}
	return 0
}

// Run processes posted events and platform input until Quit is called, the
// last window is closed (see Config.App.QuitOnLastWindowClosed), or ctx is
// done.
func (a *App) Run(ctx context.Context) error {
	a.quit = false
	events := a.platform.Events()
	for {
		a.ProcessEvents()
		if a.quit {
			return nil
		}
		if len(a.posted) > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-events:
				if ok {
					a.Dispatch(ev)
				}
			default:
			}
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.Dispatch(ev)
		}
	}
}

// Quit makes Run return after the current event.
func (a *App) Quit() { a.quit = true }

// OnLastWindowClosed registers fn to be called when the last visible
// QuitOnClose window is closed.
func (a *App) OnLastWindowClosed(fn func()) {
	a.lastWindowClosed = append(a.lastWindowClosed, fn)
}

func (a *App) emitLastWindowClosed() {
	for _, fn := range a.lastWindowClosed {
		fn()
	}
	if a.cfg.App.QuitOnLastWindowClosed {
		a.Quit()
	}
}

// CloseAllWindows closes windows front to back, stopping at the first one
// that refuses.
func (a *App) CloseAllWindows() bool {
	for i := len(a.topLevels) - 1; i >= 0; i-- {
		if i >= len(a.topLevels) {
			continue
		}
		w := a.topLevels[i]
		if w.IsVisible() && !w.Close() {
			return false
		}
	}
	return true
}
