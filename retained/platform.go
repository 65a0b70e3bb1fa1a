package retained

import (
	"errors"
	"image"
	"time"

	"github.com/agiangrant/copper/region"
)

// ErrNoWindow is returned by platforms that cannot create any more native
// windows.
var ErrNoWindow = errors.New("retained: native window unavailable")

// Platform creates native windows and delivers raw input for them.
type Platform interface {
	// CreateWindow creates a hidden native window for the top-level widget
	// id, positioned at geometry.
	CreateWindow(id WidgetID, geometry image.Rectangle, title string) (NativeWindow, error)

	// Events returns the channel raw platform events arrive on. A nil
	// channel means the platform never produces input.
	Events() <-chan RawEvent
}

// NativeWindow is the platform side of a top-level window.
type NativeWindow interface {
	// ID identifies the window in RawEvent.Window.
	ID() string
	SetGeometry(r image.Rectangle)
	SetVisible(visible bool)
	SetTitle(title string)

	// Flush presents the parts of img covered by rgn, in window
	// coordinates.
	Flush(img *image.RGBA, rgn region.Region) error

	Destroy()
}

// RawEventKind identifies a platform event.
type RawEventKind uint8

const (
	RawMouseDown RawEventKind = iota
	RawMouseUp
	RawMouseMove
	RawWheel
	RawKeyDown
	RawKeyUp
	RawResize
	RawExpose
	RawClose
)

// RawEvent is an untranslated platform event addressed to a native window.
// Positions are in window coordinates.
type RawEvent struct {
	Kind   RawEventKind
	Window string
	Time   time.Time

	Pos       image.Point
	Button    MouseButton
	Buttons   MouseButton
	Delta     image.Point
	Modifiers Modifiers

	Key    Key
	Text   string
	Repeat bool

	// Size for RawResize, Rect for RawExpose (empty means everything)
	Size image.Point
	Rect image.Rectangle
}

// nullWindow swallows everything. Windows whose native creation failed
// use it, so they keep working without ever reaching the screen.
type nullWindow struct{}

func (nullWindow) ID() string                             { return "" }
func (nullWindow) SetGeometry(image.Rectangle)            {}
func (nullWindow) SetVisible(bool)                        {}
func (nullWindow) SetTitle(string)                        {}
func (nullWindow) Flush(*image.RGBA, region.Region) error { return nil }
func (nullWindow) Destroy()                               {}

// nullPlatform is used when an App is created without a platform.
type nullPlatform struct{}

func (nullPlatform) CreateWindow(WidgetID, image.Rectangle, string) (NativeWindow, error) {
	return nullWindow{}, nil
}

func (nullPlatform) Events() <-chan RawEvent { return nil }
