// Package retained provides a retained-mode widget tree with a per-window
// backing store.
//
// Widgets mark regions dirty instead of painting directly. Dirty regions
// are coalesced per top-level window and flushed on the next UpdateRequest,
// with areas hidden behind opaque children and siblings subtracted before
// any paint event is sent. Every event reaches a widget through one funnel,
// Widget.Event.
//
// An App and its widgets are not safe for concurrent use; they belong to the
// goroutine running App.Run or App.ProcessEvents.
package retained

import (
	"fmt"
	"image"

	"github.com/agiangrant/copper/region"
)

// WidgetID uniquely identifies a widget within its App.
// IDs are allocated in increasing order and never reused.
type WidgetID uint64

// Attribute is a widget state flag.
type Attribute uint32

const (
	// AttrHidden is set when the widget will not become visible with its
	// parent: it was hidden explicitly, or it is a child of a visible
	// parent that was never shown.
	AttrHidden Attribute = 1 << iota
	// AttrVisible is the effective visibility. It implies every ancestor
	// up to the window is visible too.
	AttrVisible
	// AttrExplicitShowHide records that Show or Hide was called.
	AttrExplicitShowHide
	// AttrCreated is set once the widget (and for windows the native
	// window) exists.
	AttrCreated
	// AttrOpaquePaintEvent promises the paint handler covers every pixel.
	AttrOpaquePaintEvent
	// AttrNoSystemBackground disables background filling.
	AttrNoSystemBackground
	// AttrStaticContents keeps painted content anchored at the top-left
	// corner, so growing the widget only exposes the new strip.
	AttrStaticContents
	// AttrDisabled is the effective disabled state.
	AttrDisabled
	// AttrForceDisabled records an explicit SetEnabled(false).
	AttrForceDisabled
	AttrQuitOnClose
	AttrDeleteOnClose
	AttrPendingMoveEvent
	AttrPendingResizeEvent
	// AttrResized and AttrMoved record explicit geometry changes.
	AttrResized
	AttrMoved
	AttrNativeWindow
	// AttrStyledBackground asks the style to draw the background.
	AttrStyledBackground
	AttrUpdatesDisabled
	AttrPolished
)

// FocusPolicy controls how a widget accepts keyboard focus.
type FocusPolicy uint8

const (
	NoFocus     FocusPolicy = 0
	TabFocus    FocusPolicy = 1 << 0
	ClickFocus  FocusPolicy = 1 << 1
	StrongFocus FocusPolicy = TabFocus | ClickFocus
	WheelFocus  FocusPolicy = StrongFocus | 1<<2
)

// maxWidgetSize bounds widget dimensions.
const maxWidgetSize = 1<<24 - 1

// Widget is a node of the widget tree. Create widgets with App.NewWidget or
// App.NewWindow.
type Widget struct {
	app  *App
	id   WidgetID
	name string
	data any

	parent   *Widget
	children []*Widget // back to front
	isWindow bool

	// crect is the geometry in parent coordinates. For windows it is the
	// position on screen.
	crect   image.Rectangle
	minSize image.Point
	maxSize image.Point

	sizeHint      image.Point
	sizeHintValid bool

	attrs       Attribute
	focusPolicy FocusPolicy
	focusNext   WidgetID
	focusPrev   WidgetID

	mask    region.Region
	hasMask bool

	opaque              bool
	opaqueChildren      region.Region
	dirtyOpaqueChildren bool

	// dirty is this widget's pending contribution to its window's
	// backing store, in widget coordinates.
	dirty       region.Region
	inDirtyList bool

	autoFill bool
	palette  *Palette
	font     *Font
	style    Style
	title    string

	// Window-only state
	bs               *BackingStore
	native           NativeWindow
	inTopLevelResize bool
	focusChild       WidgetID

	// State machine guards
	inDestructor bool
	destroyed    bool
	inPaintEvent bool
	inShow       bool
	isClosing    bool

	h handlers
}

type handlers struct {
	paint            PaintHandler
	mousePress       MouseHandler
	mouseRelease     MouseHandler
	mouseDoubleClick MouseHandler
	mouseMove        MouseHandler
	wheel            WheelHandler
	keyPress         KeyHandler
	keyRelease       KeyHandler
	tablet           EventHandler
	touch            EventHandler
	focusIn          FocusHandler
	focusOut         FocusHandler
	enter            EventHandler
	leave            EventHandler
	move             MoveHandler
	resize           ResizeHandler
	show             EventHandler
	hide             EventHandler
	close            EventHandler
	polish           EventHandler
	change           EventHandler
	layoutRequest    EventHandler
	timer            func(*TimerEvent)
	event            FilterHandler
	sizeHint         func() image.Point
}

// ============================================================================
// Identity and Tree Accessors
// ============================================================================

// ID returns the widget's identifier.
func (w *Widget) ID() WidgetID { return w.id }

// App returns the application the widget belongs to.
func (w *Widget) App() *App { return w.app }

// Name returns the debug name.
func (w *Widget) Name() string { return w.name }

// SetName sets the debug name used by Find and in warnings.
func (w *Widget) SetName(name string) *Widget {
	w.name = name
	return w
}

// Data returns the user data attached with SetData.
func (w *Widget) Data() any { return w.data }

// SetData attaches arbitrary user data.
func (w *Widget) SetData(data any) *Widget {
	w.data = data
	return w
}

// Parent returns the parent widget, or nil for a parentless window.
func (w *Widget) Parent() *Widget { return w.parent }

// Children returns a copy of the children in back-to-front order.
func (w *Widget) Children() []*Widget {
	out := make([]*Widget, len(w.children))
	copy(out, w.children)
	return out
}

// IsWindow reports whether the widget is a top-level window.
func (w *Widget) IsWindow() bool { return w.isWindow }

// Window returns the top-level window containing the widget.
func (w *Widget) Window() *Widget {
	x := w
	for !x.isWindow && x.parent != nil {
		x = x.parent
	}
	return x
}

// IsDestroyed reports whether Destroy has completed.
func (w *Widget) IsDestroyed() bool { return w.destroyed }

// IsAncestorOf reports whether w is an ancestor of child within the same
// window.
func (w *Widget) IsAncestorOf(child *Widget) bool {
	for child != nil {
		if child == w {
			return true
		}
		if child.isWindow {
			return false
		}
		child = child.parent
	}
	return false
}

func (w *Widget) String() string {
	if w.name != "" {
		return w.name
	}
	return fmt.Sprintf("widget#%d", w.id)
}

// ============================================================================
// Geometry Accessors
// ============================================================================

// Geometry returns the widget rectangle in parent coordinates.
func (w *Widget) Geometry() image.Rectangle { return w.crect }

// Pos returns the top-left corner in parent coordinates.
func (w *Widget) Pos() image.Point { return w.crect.Min }

// Size returns the widget size.
func (w *Widget) Size() image.Point { return w.crect.Size() }

// Width returns the widget width.
func (w *Widget) Width() int { return w.crect.Dx() }

// Height returns the widget height.
func (w *Widget) Height() int { return w.crect.Dy() }

// Rect returns the widget rectangle in its own coordinates.
func (w *Widget) Rect() image.Rectangle {
	return image.Rectangle{Max: w.crect.Size()}
}

// MinimumSize returns the lower size bound.
func (w *Widget) MinimumSize() image.Point { return w.minSize }

// MaximumSize returns the upper size bound.
func (w *Widget) MaximumSize() image.Point { return w.maxSize }

// MapTo translates p from w's coordinates to ancestor's.
func (w *Widget) MapTo(ancestor *Widget, p image.Point) image.Point {
	for x := w; x != nil && x != ancestor; x = x.parent {
		if x.isWindow {
			break
		}
		p = p.Add(x.crect.Min)
	}
	return p
}

// MapFrom translates p from ancestor's coordinates to w's.
func (w *Widget) MapFrom(ancestor *Widget, p image.Point) image.Point {
	return p.Sub(w.MapTo(ancestor, image.Point{}))
}

// MapToWindow translates p to the coordinates of the containing window.
func (w *Widget) MapToWindow(p image.Point) image.Point {
	return w.MapTo(w.Window(), p)
}

// MapToGlobal translates p to screen coordinates.
func (w *Widget) MapToGlobal(p image.Point) image.Point {
	return w.MapToWindow(p).Add(w.Window().crect.Min)
}

// clipRect returns the part of the widget not clipped away by its
// ancestors, in widget coordinates. Invisible widgets have an empty clip.
func (w *Widget) clipRect() image.Rectangle {
	if !w.IsVisible() {
		return image.Rectangle{}
	}
	r := w.Rect()
	var off image.Point
	x := w
	for x.IsVisible() && !x.isWindow && x.parent != nil {
		off = off.Sub(x.crect.Min)
		x = x.parent
		r = r.Intersect(x.Rect().Add(off))
	}
	return r
}

// ============================================================================
// Attributes and State
// ============================================================================

// TestAttribute reports whether a is set.
func (w *Widget) TestAttribute(a Attribute) bool { return w.attrs&a != 0 }

func (w *Widget) setAttr(a Attribute, on bool) {
	if on {
		w.attrs |= a
	} else {
		w.attrs &^= a
	}
}

// SetAttribute sets or clears a. State attributes maintained by the widget
// itself (visibility, creation, enabled state) should be changed through
// Show, Hide and SetEnabled instead.
func (w *Widget) SetAttribute(a Attribute, on bool) *Widget {
	if w.inDestructor || w.TestAttribute(a) == on {
		return w
	}
	w.setAttr(a, on)
	switch a {
	case AttrOpaquePaintEvent, AttrNoSystemBackground:
		w.updateIsOpaque()
	case AttrStaticContents:
		if bs := w.Window().bs; bs != nil {
			if on {
				bs.addStaticWidget(w)
			} else {
				bs.removeStaticWidget(w)
			}
		}
	case AttrStyledBackground:
		w.Update()
	}
	return w
}

// IsVisible reports the effective visibility.
func (w *Widget) IsVisible() bool { return w.attrs&AttrVisible != 0 }

// IsHidden reports whether the widget is hidden from its parent.
func (w *Widget) IsHidden() bool { return w.attrs&AttrHidden != 0 }

// IsEnabled reports the effective enabled state.
func (w *Widget) IsEnabled() bool { return w.attrs&AttrDisabled == 0 }

// UpdatesEnabled reports whether Update and Repaint have any effect.
func (w *Widget) UpdatesEnabled() bool { return w.attrs&AttrUpdatesDisabled == 0 }

// IsOpaque reports whether the widget paints every pixel of its rect.
func (w *Widget) IsOpaque() bool { return w.opaque }

// HasMask reports whether a mask is set.
func (w *Widget) HasMask() bool { return w.hasMask }

// Mask returns the mask, or an empty region.
func (w *Widget) Mask() region.Region { return w.mask }

// FocusPolicy returns how the widget accepts focus.
func (w *Widget) FocusPolicy() FocusPolicy { return w.focusPolicy }

// SetFocusPolicy sets how the widget accepts focus.
func (w *Widget) SetFocusPolicy(p FocusPolicy) *Widget {
	w.focusPolicy = p
	return w
}

// SetEnabled enables or disables the widget and, unless they were disabled
// explicitly, its descendants.
func (w *Widget) SetEnabled(enable bool) *Widget {
	if w.inDestructor {
		return w
	}
	w.setAttr(AttrForceDisabled, !enable)
	w.setEnabledHelper(enable)
	return w
}

func (w *Widget) setEnabledHelper(enable bool) {
	if enable && !w.isWindow && w.parent != nil && !w.parent.IsEnabled() {
		return // parent still disabled
	}
	if enable != w.TestAttribute(AttrDisabled) {
		return // nothing to do
	}
	w.setAttr(AttrDisabled, !enable)
	if !enable && w.IsAncestorOf(w.app.FocusWidget()) {
		if !w.focusNextPrevChild(true) || w.IsAncestorOf(w.app.FocusWidget()) {
			w.app.setFocusWidget(nil, OtherFocusReason)
		}
	}
	// enabling skips explicitly disabled children, disabling skips
	// children that are already disabled
	skip := AttrDisabled
	if enable {
		skip = AttrForceDisabled
	}
	children := w.childSnapshot()
	defer releaseWidgetSlice(children)
	for _, c := range children {
		if !c.isWindow && !c.TestAttribute(skip) {
			c.setEnabledHelper(enable)
		}
	}
	w.app.SendEvent(w, NewEvent(EventEnabledChange))
}

// SetUpdatesEnabled enables or disables painting of the widget and its
// descendants. Re-enabling schedules a full update.
func (w *Widget) SetUpdatesEnabled(enable bool) *Widget {
	if w.inDestructor {
		return w
	}
	w.setUpdatesEnabledHelper(enable)
	return w
}

func (w *Widget) setUpdatesEnabledHelper(enable bool) {
	if enable && !w.isWindow && w.parent != nil && !w.parent.UpdatesEnabled() {
		return
	}
	if enable == w.UpdatesEnabled() {
		return
	}
	w.setAttr(AttrUpdatesDisabled, !enable)
	if enable {
		w.Update()
	}
	for _, c := range w.children {
		if !c.isWindow {
			c.setUpdatesEnabledHelper(enable)
		}
	}
}

// ============================================================================
// Inherited Properties
// ============================================================================

// Palette returns the palette set on the widget or inherited from its
// ancestors, falling back to the application palette.
func (w *Widget) Palette() Palette {
	for x := w; x != nil; x = x.parent {
		if x.palette != nil {
			return *x.palette
		}
		if x.isWindow {
			break
		}
	}
	return w.app.palette
}

// SetPalette sets the palette for the widget and every descendant without
// a palette of its own.
func (w *Widget) SetPalette(p Palette) *Widget {
	if w.inDestructor {
		return w
	}
	w.palette = &p
	w.propagate(func(x *Widget) bool { return x == w || x.palette == nil }, func(x *Widget) {
		x.updateIsOpaque()
		x.app.SendEvent(x, NewEvent(EventPaletteChange))
	})
	return w
}

// Font returns the effective font.
func (w *Widget) Font() Font {
	for x := w; x != nil; x = x.parent {
		if x.font != nil {
			return *x.font
		}
		if x.isWindow {
			break
		}
	}
	return w.app.font
}

// SetFont sets the font for the widget and every descendant without a font
// of its own.
func (w *Widget) SetFont(f Font) *Widget {
	if w.inDestructor {
		return w
	}
	w.font = &f
	w.propagate(func(x *Widget) bool { return x == w || x.font == nil }, func(x *Widget) {
		x.sizeHintValid = false
		x.app.SendEvent(x, NewEvent(EventFontChange))
	})
	return w
}

// Style returns the effective style.
func (w *Widget) Style() Style {
	for x := w; x != nil; x = x.parent {
		if x.style != nil {
			return x.style
		}
		if x.isWindow {
			break
		}
	}
	return w.app.style
}

// SetStyle sets the style for the widget and every descendant without a
// style of its own. Polished widgets are polished again.
func (w *Widget) SetStyle(s Style) *Widget {
	if w.inDestructor {
		return w
	}
	w.style = s
	w.propagate(func(x *Widget) bool { return x == w || x.style == nil }, func(x *Widget) {
		if x.TestAttribute(AttrPolished) {
			x.Style().Polish(x)
		}
		x.app.SendEvent(x, NewEvent(EventStyleChange))
	})
	return w
}

// propagate applies fn to w and every descendant in the same window for
// which follow is true, skipping subtrees where it is false.
func (w *Widget) propagate(follow func(*Widget) bool, fn func(*Widget)) {
	if !follow(w) {
		return
	}
	fn(w)
	children := w.childSnapshot()
	defer releaseWidgetSlice(children)
	for _, c := range children {
		if !c.isWindow {
			c.propagate(follow, fn)
		}
	}
}

// AutoFillBackground reports whether the background is filled with the
// palette window brush before painting.
func (w *Widget) AutoFillBackground() bool { return w.autoFill }

// SetAutoFillBackground enables background filling.
func (w *Widget) SetAutoFillBackground(on bool) *Widget {
	if w.autoFill == on || w.inDestructor {
		return w
	}
	w.autoFill = on
	w.updateIsOpaque()
	w.Update()
	return w
}

// WindowTitle returns the title of the widget's window.
func (w *Widget) WindowTitle() string { return w.title }

// SetWindowTitle sets the title shown by the native window.
func (w *Widget) SetWindowTitle(title string) *Widget {
	if w.title == title || w.inDestructor {
		return w
	}
	w.title = title
	if w.native != nil {
		w.native.SetTitle(title)
	}
	w.app.SendEvent(w, NewEvent(EventWindowTitleChange))
	return w
}

// WinID returns the identifier of the native window backing the widget's
// window, creating it if needed.
func (w *Widget) WinID() string {
	win := w.Window()
	if win.inDestructor {
		return ""
	}
	win.create()
	return win.native.ID()
}

// BackingStore returns the backing store of the widget's window, or nil
// before the window is created.
func (w *Widget) BackingStore() *BackingStore { return w.Window().bs }

// ============================================================================
// Event Handlers (builder style)
// ============================================================================

// OnPaint sets the paint handler.
func (w *Widget) OnPaint(h PaintHandler) *Widget {
	w.h.paint = h
	return w
}

// OnMousePress sets the mouse press handler.
func (w *Widget) OnMousePress(h MouseHandler) *Widget {
	w.h.mousePress = h
	return w
}

// OnMouseRelease sets the mouse release handler.
func (w *Widget) OnMouseRelease(h MouseHandler) *Widget {
	w.h.mouseRelease = h
	return w
}

// OnMouseDoubleClick sets the double click handler. Without one, double
// clicks are delivered to the press handler.
func (w *Widget) OnMouseDoubleClick(h MouseHandler) *Widget {
	w.h.mouseDoubleClick = h
	return w
}

// OnMouseMove sets the mouse move handler.
func (w *Widget) OnMouseMove(h MouseHandler) *Widget {
	w.h.mouseMove = h
	return w
}

// OnWheel sets the wheel handler.
func (w *Widget) OnWheel(h WheelHandler) *Widget {
	w.h.wheel = h
	return w
}

// OnKeyPress sets the key press handler.
func (w *Widget) OnKeyPress(h KeyHandler) *Widget {
	w.h.keyPress = h
	return w
}

// OnKeyRelease sets the key release handler.
func (w *Widget) OnKeyRelease(h KeyHandler) *Widget {
	w.h.keyRelease = h
	return w
}

// OnTablet sets the handler for tablet events.
func (w *Widget) OnTablet(h EventHandler) *Widget {
	w.h.tablet = h
	return w
}

// OnTouch sets the handler for touch events.
func (w *Widget) OnTouch(h EventHandler) *Widget {
	w.h.touch = h
	return w
}

// OnFocusIn sets the focus-in handler.
func (w *Widget) OnFocusIn(h FocusHandler) *Widget {
	w.h.focusIn = h
	return w
}

// OnFocusOut sets the focus-out handler.
func (w *Widget) OnFocusOut(h FocusHandler) *Widget {
	w.h.focusOut = h
	return w
}

// OnEnter sets the handler called when the pointer enters the widget.
func (w *Widget) OnEnter(h EventHandler) *Widget {
	w.h.enter = h
	return w
}

// OnLeave sets the handler called when the pointer leaves the widget.
func (w *Widget) OnLeave(h EventHandler) *Widget {
	w.h.leave = h
	return w
}

// OnMove sets the move handler.
func (w *Widget) OnMove(h MoveHandler) *Widget {
	w.h.move = h
	return w
}

// OnResize sets the resize handler.
func (w *Widget) OnResize(h ResizeHandler) *Widget {
	w.h.resize = h
	return w
}

// OnShow sets the show handler.
func (w *Widget) OnShow(h EventHandler) *Widget {
	w.h.show = h
	return w
}

// OnHide sets the hide handler.
func (w *Widget) OnHide(h EventHandler) *Widget {
	w.h.hide = h
	return w
}

// OnClose sets the close handler. The event arrives accepted; ignoring it
// vetoes the close.
func (w *Widget) OnClose(h EventHandler) *Widget {
	w.h.close = h
	return w
}

// OnPolish sets the handler called when the widget is first polished.
func (w *Widget) OnPolish(h EventHandler) *Widget {
	w.h.polish = h
	return w
}

// OnChange sets the handler for change notifications (font, palette,
// style, enabled state, title, parent, z-order, language).
func (w *Widget) OnChange(h EventHandler) *Widget {
	w.h.change = h
	return w
}

// OnLayoutRequest sets the handler for LayoutRequest events posted when a
// child's geometry or size hint changes.
func (w *Widget) OnLayoutRequest(h EventHandler) *Widget {
	w.h.layoutRequest = h
	return w
}

// OnTimer sets the timer handler.
func (w *Widget) OnTimer(h func(*TimerEvent)) *Widget {
	w.h.timer = h
	return w
}

// OnEvent sets the handler for event types the widget does not know,
// including application-defined types.
func (w *Widget) OnEvent(h FilterHandler) *Widget {
	w.h.event = h
	return w
}

// OnSizeHint sets the function computing the preferred size.
func (w *Widget) OnSizeHint(fn func() image.Point) *Widget {
	w.h.sizeHint = fn
	w.UpdateGeometry()
	return w
}
