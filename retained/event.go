package retained

import (
	"image"
	"sync"

	"github.com/agiangrant/copper/region"
)

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of event.
type EventType uint8

const (
	EventNone EventType = iota

	// Input events. Disabled widgets never see these.
	EventMouseButtonPress
	EventMouseButtonRelease
	EventMouseButtonDblClick
	EventMouseMove
	EventWheel
	EventKeyPress
	EventKeyRelease
	EventTabletPress
	EventTabletMove
	EventTabletRelease
	EventTouchBegin
	EventTouchUpdate
	EventTouchEnd

	// Focus and hover
	EventFocusIn
	EventFocusOut
	EventEnter
	EventLeave

	// Painting, geometry and lifecycle
	EventPaint
	EventMove
	EventResize
	EventShow
	EventHide
	EventClose
	EventPolish
	EventUpdateRequest
	EventUpdateLater

	// Change notifications, all routed to the change handler
	EventFontChange
	EventPaletteChange
	EventStyleChange
	EventEnabledChange
	EventWindowTitleChange
	EventParentChange
	EventZOrderChange
	EventLanguageChange

	// Object-level events
	EventTimer
	EventDeferredDelete
	EventLayoutRequest

	// EventUser is the first value available for application-defined events.
	// The funnel forwards these to the widget's OnEvent handler.
	EventUser EventType = 128
)

var eventTypeNames = map[EventType]string{
	EventNone:                "None",
	EventMouseButtonPress:    "MouseButtonPress",
	EventMouseButtonRelease:  "MouseButtonRelease",
	EventMouseButtonDblClick: "MouseButtonDblClick",
	EventMouseMove:           "MouseMove",
	EventWheel:               "Wheel",
	EventKeyPress:            "KeyPress",
	EventKeyRelease:          "KeyRelease",
	EventTabletPress:         "TabletPress",
	EventTabletMove:          "TabletMove",
	EventTabletRelease:       "TabletRelease",
	EventTouchBegin:          "TouchBegin",
	EventTouchUpdate:         "TouchUpdate",
	EventTouchEnd:            "TouchEnd",
	EventFocusIn:             "FocusIn",
	EventFocusOut:            "FocusOut",
	EventEnter:               "Enter",
	EventLeave:               "Leave",
	EventPaint:               "Paint",
	EventMove:                "Move",
	EventResize:              "Resize",
	EventShow:                "Show",
	EventHide:                "Hide",
	EventClose:               "Close",
	EventPolish:              "Polish",
	EventUpdateRequest:       "UpdateRequest",
	EventUpdateLater:         "UpdateLater",
	EventFontChange:          "FontChange",
	EventPaletteChange:       "PaletteChange",
	EventStyleChange:         "StyleChange",
	EventEnabledChange:       "EnabledChange",
	EventWindowTitleChange:   "WindowTitleChange",
	EventParentChange:        "ParentChange",
	EventZOrderChange:        "ZOrderChange",
	EventLanguageChange:      "LanguageChange",
	EventTimer:               "Timer",
	EventDeferredDelete:      "DeferredDelete",
	EventLayoutRequest:       "LayoutRequest",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	if t >= EventUser {
		return "User"
	}
	return "Unknown"
}

// IsInput reports whether t is a pointer, key, tablet or touch event.
func (t EventType) IsInput() bool {
	return t >= EventMouseButtonPress && t <= EventTouchEnd
}

// IsChange reports whether t is delivered through the change handler.
func (t EventType) IsChange() bool {
	return t >= EventFontChange && t <= EventLanguageChange
}

// MouseButton identifies mouse buttons. Values are bit flags so that the
// set of held buttons can be reported alongside the button that changed.
type MouseButton uint8

const (
	MouseButtonNone   MouseButton = 0
	MouseButtonLeft   MouseButton = 1 << 0
	MouseButtonRight  MouseButton = 1 << 1
	MouseButtonMiddle MouseButton = 1 << 2
)

// Modifier keys
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper // Cmd on Mac, Win on Windows
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// Key is a logical key code. Printable keys use their upper-case rune value,
// special keys live above KeySpecial.
type Key uint32

const (
	KeySpecial Key = 0x01000000 + iota
	KeyEscape
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyReturn
	KeyEnter
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeyPageUp
	KeyPageDown
)

// KeySpace is the space bar.
const KeySpace Key = ' '

// FocusReason records why focus moved.
type FocusReason uint8

const (
	MouseFocusReason FocusReason = iota
	TabFocusReason
	BacktabFocusReason
	ActiveWindowFocusReason
	PopupFocusReason
	ShortcutFocusReason
	OtherFocusReason
)

// ============================================================================
// Event Interface and Base
// ============================================================================

// Event is the interface for all events delivered through Widget.Event.
type Event interface {
	// Type returns the event type.
	Type() EventType

	// Accept marks the event as handled. Events propagate to the parent
	// widget only while they are ignored.
	Accept()

	// Ignore marks the event as not handled.
	Ignore()

	// IsAccepted reports the accept flag.
	IsAccepted() bool

	// SetAccepted sets the accept flag.
	SetAccepted(accepted bool)

	// Spontaneous reports whether the event originated from the platform
	// rather than from the widget system itself.
	Spontaneous() bool

	base() *eventBase
}

// eventBase provides common event functionality.
type eventBase struct {
	eventType   EventType
	accepted    bool
	spontaneous bool
}

func (e *eventBase) Type() EventType    { return e.eventType }
func (e *eventBase) Accept()            { e.accepted = true }
func (e *eventBase) Ignore()            { e.accepted = false }
func (e *eventBase) IsAccepted() bool   { return e.accepted }
func (e *eventBase) SetAccepted(a bool) { e.accepted = a }
func (e *eventBase) Spontaneous() bool  { return e.spontaneous }
func (e *eventBase) base() *eventBase   { return e }
func (e *eventBase) reset(t EventType)  { *e = eventBase{eventType: t, accepted: true} }

// BaseEvent is an event without a payload: Show, Hide, Close, Polish,
// UpdateRequest, change notifications, DeferredDelete, LayoutRequest and
// application-defined types.
type BaseEvent struct {
	eventBase
}

// NewEvent creates a payload-free event of the given type. Events start
// accepted.
func NewEvent(t EventType) *BaseEvent {
	e := &BaseEvent{}
	e.reset(t)
	return e
}

// ============================================================================
// Mouse Event
// ============================================================================

// MouseEvent represents mouse button and motion events.
type MouseEvent struct {
	eventBase

	// Pos is relative to the receiving widget; it is rewritten as the event
	// propagates to parents.
	Pos image.Point

	// WindowPos is relative to the top-level window.
	WindowPos image.Point

	// Which button triggered the event (for press/release/double-click)
	Button MouseButton

	// Buttons held down while the event was generated
	Buttons MouseButton

	// Modifier keys held during the event
	Modifiers Modifiers
}

// NewMouseEvent creates a mouse event. Uses object pool for high-frequency events.
func NewMouseEvent(t EventType, pos, windowPos image.Point, button, buttons MouseButton, mods Modifiers) *MouseEvent {
	e := mouseEventPool.Get().(*MouseEvent)
	e.reset(t)
	e.Pos = pos
	e.WindowPos = windowPos
	e.Button = button
	e.Buttons = buttons
	e.Modifiers = mods
	return e
}

// Release returns the event to the pool. Call when done processing.
func (e *MouseEvent) Release() {
	mouseEventPool.Put(e)
}

// Object pool for mouse events to avoid allocations on every mouse move
var mouseEventPool = sync.Pool{
	New: func() any {
		return &MouseEvent{}
	},
}

// WheelEvent represents scroll wheel input.
type WheelEvent struct {
	eventBase
	Pos       image.Point
	WindowPos image.Point
	Delta     image.Point // in wheel notches, positive is away from the user
	Lines     image.Point // Delta scaled by the configured lines per notch
	Modifiers Modifiers
}

// NewWheelEvent creates a wheel event.
func NewWheelEvent(pos, windowPos, delta image.Point, mods Modifiers) *WheelEvent {
	e := &WheelEvent{Pos: pos, WindowPos: windowPos, Delta: delta, Modifiers: mods}
	e.reset(EventWheel)
	return e
}

// ============================================================================
// Keyboard, Tablet and Touch Events
// ============================================================================

// KeyEvent represents keyboard events.
type KeyEvent struct {
	eventBase

	// Logical key
	Key Key

	// Text produced by the key press, if any
	Text string

	// Modifier keys held during the event
	Modifiers Modifiers

	// True if this is a repeat event (key held down)
	Repeat bool
}

// NewKeyEvent creates a keyboard event.
func NewKeyEvent(t EventType, key Key, text string, mods Modifiers, repeat bool) *KeyEvent {
	e := &KeyEvent{Key: key, Text: text, Modifiers: mods, Repeat: repeat}
	e.reset(t)
	return e
}

// TabletEvent represents stylus input.
type TabletEvent struct {
	eventBase
	Pos      image.Point
	Pressure float64
}

// NewTabletEvent creates a tablet event.
func NewTabletEvent(t EventType, pos image.Point, pressure float64) *TabletEvent {
	e := &TabletEvent{Pos: pos, Pressure: pressure}
	e.reset(t)
	return e
}

// TouchEvent represents multi-point touch input.
type TouchEvent struct {
	eventBase
	Points []image.Point
}

// NewTouchEvent creates a touch event.
func NewTouchEvent(t EventType, points ...image.Point) *TouchEvent {
	e := &TouchEvent{Points: points}
	e.reset(t)
	return e
}

// ============================================================================
// Focus Event
// ============================================================================

// FocusEvent represents focus change events.
type FocusEvent struct {
	eventBase
	Reason FocusReason
}

// NewFocusEvent creates a focus event.
func NewFocusEvent(t EventType, reason FocusReason) *FocusEvent {
	e := &FocusEvent{Reason: reason}
	e.reset(t)
	return e
}

// ============================================================================
// Paint and Geometry Events
// ============================================================================

// PaintEvent asks a widget to paint the given region. The region is in the
// widget's own coordinates and never empty.
type PaintEvent struct {
	eventBase
	region  region.Region
	painter *Painter
}

// NewPaintEvent creates a paint event for rgn. painter may be nil when the
// event is delivered without a paint device.
func NewPaintEvent(rgn region.Region, painter *Painter) *PaintEvent {
	e := &PaintEvent{region: rgn, painter: painter}
	e.reset(EventPaint)
	return e
}

// Region returns the area to repaint, in widget coordinates.
func (e *PaintEvent) Region() region.Region { return e.region }

// Rect returns the bounding rectangle of Region.
func (e *PaintEvent) Rect() image.Rectangle { return e.region.Bounds() }

// Painter returns a painter clipped to Region, or nil.
func (e *PaintEvent) Painter() *Painter { return e.painter }

// MoveEvent reports a position change in parent coordinates.
type MoveEvent struct {
	eventBase
	Pos    image.Point
	OldPos image.Point
}

// NewMoveEvent creates a move event.
func NewMoveEvent(pos, oldPos image.Point) *MoveEvent {
	e := &MoveEvent{Pos: pos, OldPos: oldPos}
	e.reset(EventMove)
	return e
}

// ResizeEvent reports a size change.
type ResizeEvent struct {
	eventBase
	Size    image.Point
	OldSize image.Point
}

// NewResizeEvent creates a resize event.
func NewResizeEvent(size, oldSize image.Point) *ResizeEvent {
	e := &ResizeEvent{Size: size, OldSize: oldSize}
	e.reset(EventResize)
	return e
}

// UpdateLaterEvent carries an update requested while the widget was
// painting; it is replayed as Update on the next turn.
type UpdateLaterEvent struct {
	eventBase
	Region region.Region
}

func newUpdateLaterEvent(rgn region.Region) *UpdateLaterEvent {
	e := &UpdateLaterEvent{Region: rgn}
	e.reset(EventUpdateLater)
	return e
}

// TimerEvent is delivered for timers started by the application.
type TimerEvent struct {
	eventBase
	TimerID int
}

// NewTimerEvent creates a timer event.
func NewTimerEvent(id int) *TimerEvent {
	e := &TimerEvent{TimerID: id}
	e.reset(EventTimer)
	return e
}

// ============================================================================
// Event Handler Types (for simple callback API)
// ============================================================================

// PaintHandler is a callback for paint events.
type PaintHandler func(*PaintEvent)

// MouseHandler is a callback for mouse events.
type MouseHandler func(*MouseEvent)

// WheelHandler is a callback for wheel events.
type WheelHandler func(*WheelEvent)

// KeyHandler is a callback for keyboard events.
type KeyHandler func(*KeyEvent)

// FocusHandler is a callback for focus events.
type FocusHandler func(*FocusEvent)

// MoveHandler is a callback for move events.
type MoveHandler func(*MoveEvent)

// ResizeHandler is a callback for resize events.
type ResizeHandler func(*ResizeEvent)

// EventHandler is a callback for events without a dedicated payload type.
type EventHandler func(Event)

// FilterHandler receives events the funnel does not recognize. It returns
// true when it recognized the event.
type FilterHandler func(Event) bool
