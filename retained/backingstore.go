package retained

import (
	"image"
	"slices"

	xdraw "golang.org/x/image/draw"

	"github.com/agiangrant/copper/region"
)

// BackingStoreState is the flush state of a BackingStore.
type BackingStoreState uint8

const (
	// StateIdle means nothing is waiting to be painted.
	StateIdle BackingStoreState = iota
	// StateDirty means dirty regions are waiting for the next sync.
	StateDirty
	// StateFlushing means a sync is painting and flushing.
	StateFlushing
)

func (s BackingStoreState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StateFlushing:
		return "flushing"
	}
	return "unknown"
}

// UpdateTime selects when a dirty mark is painted.
type UpdateTime uint8

const (
	// UpdateLater coalesces the mark into the next UpdateRequest.
	UpdateLater UpdateTime = iota
	// UpdateNow paints immediately.
	UpdateNow
)

type deferredMark struct {
	id  WidgetID
	rgn region.Region
}

// BackingStore accumulates the dirty regions of one window and paints them
// into an off-screen buffer that is then flushed to the native window.
type BackingStore struct {
	window *Widget
	native NativeWindow
	img    *image.RGBA

	// dirtyWidgets lists each widget with a pending contribution once;
	// the contribution itself lives in Widget.dirty.
	dirtyWidgets  []*Widget
	staticWidgets []*Widget

	// deferred holds marks made while flushing or while the window is
	// being resized. They are replayed afterwards.
	deferred []deferredMark

	updateRequestSent bool
	state             BackingStoreState

	flushCount int
	lastFlush  region.Region
}

func newBackingStore(window *Widget, native NativeWindow) *BackingStore {
	return &BackingStore{window: window, native: native}
}

// Window returns the window the store belongs to.
func (bs *BackingStore) Window() *Widget { return bs.window }

// Native returns the native window the store flushes to.
func (bs *BackingStore) Native() NativeWindow { return bs.native }

// State returns the flush state.
func (bs *BackingStore) State() BackingStoreState { return bs.state }

// FlushCount returns how many times the store has flushed.
func (bs *BackingStore) FlushCount() int { return bs.flushCount }

// LastFlush returns the region flushed by the latest sync, in window
// coordinates.
func (bs *BackingStore) LastFlush() region.Region { return bs.lastFlush }

// Image returns the off-screen buffer, or nil before the first sync.
func (bs *BackingStore) Image() *image.RGBA { return bs.img }

// StaticWidgets returns the widgets with static contents, in the order
// they were registered.
func (bs *BackingStore) StaticWidgets() []*Widget { return slices.Clone(bs.staticWidgets) }

// DirtyRegion returns the union of all pending contributions, in window
// coordinates.
func (bs *BackingStore) DirtyRegion() region.Region {
	var r region.Region
	for _, w := range bs.dirtyWidgets {
		r = r.Union(w.dirty.Translate(w.MapToWindow(image.Point{})))
	}
	return r
}

// DirtyWidgets returns the widgets with pending contributions.
func (bs *BackingStore) DirtyWidgets() []*Widget { return slices.Clone(bs.dirtyWidgets) }

// HasDeferred reports whether marks are waiting for the current flush or
// resize to end.
func (bs *BackingStore) HasDeferred() bool { return len(bs.deferred) > 0 }

// markDirty records that rgn, in w's coordinates, must be repainted.
func (bs *BackingStore) markDirty(rgn region.Region, w *Widget, when UpdateTime) {
	if w == nil || w.destroyed || w.inDestructor {
		return
	}
	rgn = rgn.IntersectRect(w.clipRect())
	if w.hasMask {
		rgn = rgn.Intersect(w.mask)
	}
	if rgn.IsEmpty() {
		return
	}
	if bs.state == StateFlushing || bs.window.inTopLevelResize {
		bs.deferred = append(bs.deferred, deferredMark{id: w.id, rgn: rgn})
		return
	}

	if !w.inDirtyList {
		w.inDirtyList = true
		bs.dirtyWidgets = append(bs.dirtyWidgets, w)
	}
	w.dirty = w.dirty.Union(rgn)
	bs.state = StateDirty

	if when == UpdateNow {
		bs.sync()
		return
	}
	bs.sendUpdateRequest()
}

func (bs *BackingStore) sendUpdateRequest() {
	if bs.updateRequestSent {
		return
	}
	bs.updateRequestSent = true
	bs.window.app.PostEvent(bs.window, NewEvent(EventUpdateRequest))
}

// sync paints every pending contribution and flushes the result.
func (bs *BackingStore) sync() {
	bs.updateRequestSent = false
	if bs.state == StateFlushing {
		return
	}
	win := bs.window
	if len(bs.dirtyWidgets) == 0 || !win.IsVisible() || win.inDestructor {
		bs.resetDirty()
		bs.state = StateIdle
		bs.replayDeferred()
		return
	}

	bs.state = StateFlushing

	var toClean region.Region
	for _, w := range bs.dirtyWidgets {
		toClean = toClean.Union(w.dirty.Translate(w.MapToWindow(image.Point{})))
	}
	toClean = toClean.IntersectRect(win.Rect())
	bs.resetDirty()

	win.sendPendingMoveAndResizeEvents(true)
	bs.ensureImage()

	if !toClean.IsEmpty() {
		win.drawWidget(bs.img, toClean, image.Point{}, drawAsRoot|drawRecursive)
		if err := bs.native.Flush(bs.img, toClean); err != nil {
			win.app.warn("flush of %v failed: %v", win, err)
		}
		bs.flushCount++
		bs.lastFlush = toClean
	}

	bs.state = StateIdle
	bs.replayDeferred()
}

func (bs *BackingStore) resetDirty() {
	for _, w := range bs.dirtyWidgets {
		w.dirty = region.Region{}
		w.inDirtyList = false
	}
	bs.dirtyWidgets = bs.dirtyWidgets[:0]
}

// replayDeferred re-marks the deferred regions, scheduling the next cycle.
func (bs *BackingStore) replayDeferred() {
	if len(bs.deferred) == 0 {
		return
	}
	marks := bs.deferred
	bs.deferred = nil
	for _, m := range marks {
		w := bs.window.app.allWidgets[m.id]
		if w == nil || w.Window() != bs.window {
			continue
		}
		bs.markDirty(m.rgn, w, UpdateLater)
	}
}

// ensureImage sizes the buffer to the window, keeping existing pixels.
func (bs *BackingStore) ensureImage() {
	want := bs.window.Rect()
	if bs.img != nil && bs.img.Bounds() == want {
		return
	}
	img := image.NewRGBA(want)
	if bs.img != nil {
		xdraw.Draw(img, bs.img.Bounds(), bs.img, image.Point{}, xdraw.Src)
	}
	bs.img = img
}

// removeDirtyWidget drops the pending work of w and its descendants.
func (bs *BackingStore) removeDirtyWidget(w *Widget) {
	ids := acquireIDSet()
	defer releaseIDSet(ids)
	w.Walk(func(x *Widget) bool {
		ids[x.id] = true
		x.dirty = region.Region{}
		x.inDirtyList = false
		return true
	})
	bs.dirtyWidgets = slices.DeleteFunc(bs.dirtyWidgets, func(x *Widget) bool { return ids[x.id] })
	bs.deferred = slices.DeleteFunc(bs.deferred, func(m deferredMark) bool { return ids[m.id] })
	if len(bs.dirtyWidgets) == 0 && bs.state == StateDirty {
		bs.state = StateIdle
	}
}

func (bs *BackingStore) addStaticWidget(w *Widget) {
	if indexOf(bs.staticWidgets, w) < 0 {
		bs.staticWidgets = append(bs.staticWidgets, w)
	}
}

func (bs *BackingStore) removeStaticWidget(w *Widget) {
	bs.staticWidgets = slices.DeleteFunc(bs.staticWidgets, func(x *Widget) bool { return x == w })
}

func (bs *BackingStore) removeStaticSubtree(w *Widget) {
	bs.staticWidgets = slices.DeleteFunc(bs.staticWidgets, func(x *Widget) bool { return w.IsAncestorOf(x) })
}

// staticContents returns the area of w's rect covered by static children,
// in w's coordinates. Those areas survive a resize that keeps the origin.
func (bs *BackingStore) staticContents(w *Widget, within image.Rectangle) region.Region {
	var r region.Region
	for _, s := range bs.staticWidgets {
		if s == w || !w.IsAncestorOf(s) || !s.IsVisible() {
			continue
		}
		sr := s.Rect().Add(s.MapTo(w, image.Point{})).Intersect(within)
		r = r.UnionRect(sr)
	}
	return r
}
