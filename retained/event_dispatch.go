package retained

import (
	"image"
	"time"
)

// ============================================================================
// Event Funnel
// ============================================================================

// Event is the single entry point through which every event reaches the
// widget. It returns true when the widget recognized the event; whether it
// handled it is reported by the event's accept flag.
//
// Input events to disabled widgets are not recognized and never reach a
// handler. Input handlers that are not set ignore the event, so it
// propagates to the parent.
func (w *Widget) Event(e Event) bool {
	t := e.Type()
	if t.IsInput() && !w.IsEnabled() {
		return false
	}

	switch t {
	case EventMouseButtonPress:
		w.mouseEvent(w.h.mousePress, e)
	case EventMouseButtonRelease:
		w.mouseEvent(w.h.mouseRelease, e)
	case EventMouseButtonDblClick:
		if w.h.mouseDoubleClick != nil {
			w.mouseEvent(w.h.mouseDoubleClick, e)
		} else {
			w.mouseEvent(w.h.mousePress, e)
		}
	case EventMouseMove:
		w.mouseEvent(w.h.mouseMove, e)
	case EventWheel:
		if ev, ok := e.(*WheelEvent); ok && w.h.wheel != nil {
			w.h.wheel(ev)
		} else {
			e.Ignore()
		}
	case EventKeyPress:
		ev, ok := e.(*KeyEvent)
		if !ok {
			e.Ignore()
			break
		}
		if ev.Modifiers&(ModCtrl|ModAlt) == 0 {
			moved := false
			switch {
			case ev.Key == KeyBacktab, ev.Key == KeyTab && ev.Modifiers.Shift():
				moved = w.focusNextPrevChild(false)
			case ev.Key == KeyTab:
				moved = w.focusNextPrevChild(true)
			}
			if moved {
				break
			}
		}
		w.keyEvent(w.h.keyPress, ev)
	case EventKeyRelease:
		ev, ok := e.(*KeyEvent)
		if !ok {
			e.Ignore()
			break
		}
		w.keyEvent(w.h.keyRelease, ev)
	case EventTabletPress, EventTabletMove, EventTabletRelease:
		w.plainEvent(w.h.tablet, e, true)
	case EventTouchBegin, EventTouchUpdate, EventTouchEnd:
		w.plainEvent(w.h.touch, e, true)

	case EventFocusIn, EventFocusOut:
		h := w.h.focusIn
		if t == EventFocusOut {
			h = w.h.focusOut
		}
		if ev, ok := e.(*FocusEvent); ok && h != nil {
			h(ev)
		}
		if w.focusPolicy != NoFocus || !w.isWindow {
			w.Update()
		}
	case EventEnter:
		w.plainEvent(w.h.enter, e, false)
	case EventLeave:
		w.plainEvent(w.h.leave, e, false)

	case EventPaint:
		if ev, ok := e.(*PaintEvent); ok && w.h.paint != nil {
			w.h.paint(ev)
		}
	case EventMove:
		if ev, ok := e.(*MoveEvent); ok && w.h.move != nil {
			w.h.move(ev)
		}
	case EventResize:
		if ev, ok := e.(*ResizeEvent); ok && w.h.resize != nil {
			w.h.resize(ev)
		}
	case EventShow:
		w.plainEvent(w.h.show, e, false)
	case EventHide:
		w.plainEvent(w.h.hide, e, false)
	case EventClose:
		w.plainEvent(w.h.close, e, false)
	case EventPolish:
		w.Style().Polish(w)
		w.plainEvent(w.h.polish, e, false)

	case EventFontChange, EventPaletteChange, EventStyleChange, EventEnabledChange:
		w.Update()
		if t == EventFontChange || t == EventStyleChange {
			w.UpdateGeometry()
		}
		w.plainEvent(w.h.change, e, false)
	case EventWindowTitleChange, EventParentChange, EventZOrderChange, EventLanguageChange:
		w.plainEvent(w.h.change, e, false)

	case EventUpdateRequest:
		if w.isWindow && w.bs != nil {
			w.bs.sync()
		}
	case EventUpdateLater:
		if ev, ok := e.(*UpdateLaterEvent); ok {
			w.UpdateRegion(ev.Region)
		}
	case EventLayoutRequest:
		w.plainEvent(w.h.layoutRequest, e, false)

	default:
		return w.objectEvent(e)
	}
	return true
}

// objectEvent handles events that are not specific to widgets.
func (w *Widget) objectEvent(e Event) bool {
	switch e.Type() {
	case EventTimer:
		if ev, ok := e.(*TimerEvent); ok && w.h.timer != nil {
			w.h.timer(ev)
		}
		return true
	case EventDeferredDelete:
		w.Destroy()
		return true
	}
	if w.h.event != nil {
		return w.h.event(e)
	}
	return false
}

func (w *Widget) mouseEvent(h MouseHandler, e Event) {
	ev, ok := e.(*MouseEvent)
	if !ok || h == nil {
		e.Ignore()
		return
	}
	h(ev)
}

func (w *Widget) keyEvent(h KeyHandler, e *KeyEvent) {
	if h == nil {
		e.Ignore()
		return
	}
	h(e)
}

// plainEvent calls h, or ignores e when h is unset and ignoreUnhandled is
// true.
func (w *Widget) plainEvent(h EventHandler, e Event, ignoreUnhandled bool) {
	if h != nil {
		h(e)
	} else if ignoreUnhandled {
		e.Ignore()
	}
}

// ============================================================================
// Raw Platform Input
// ============================================================================

// Dispatch translates a raw platform event and delivers it to the widget
// it is addressed to. Mouse events go to the widget under the pointer,
// key events to the focus widget; both propagate towards the window while
// they are ignored.
func (a *App) Dispatch(ev RawEvent) {
	win := a.windowForNative(ev.Window)
	if win == nil || !win.IsVisible() && ev.Kind != RawResize {
		return
	}
	switch ev.Kind {
	case RawMouseDown, RawMouseUp, RawMouseMove:
		a.dispatchMouse(win, ev)
	case RawWheel:
		target := win.ChildAt(ev.Pos)
		if target == nil {
			target = win
		}
		lines := ev.Delta.Mul(a.cfg.Input.WheelScrollLines)
		a.propagate(target, func(w *Widget) Event {
			e := NewWheelEvent(w.MapFrom(win, ev.Pos), ev.Pos, ev.Delta, ev.Modifiers)
			e.Lines = lines
			return e
		})
	case RawKeyDown, RawKeyUp:
		target := a.FocusWidget()
		if target == nil || target.Window() != win {
			target = win
		}
		t := EventKeyPress
		if ev.Kind == RawKeyUp {
			t = EventKeyRelease
		}
		a.propagate(target, func(*Widget) Event {
			return NewKeyEvent(t, ev.Key, ev.Text, ev.Modifiers, ev.Repeat)
		})
	case RawResize:
		win.Resize(ev.Size)
	case RawExpose:
		if ev.Rect.Empty() {
			win.Update()
		} else {
			win.UpdateRect(ev.Rect)
		}
	case RawClose:
		win.Close()
	}
}

// propagate sends the event built by mk to w and its ancestors, stopping at
// the first one that recognizes and accepts it, or at the window.
func (a *App) propagate(w *Widget, mk func(*Widget) Event) {
	for w != nil && !w.destroyed {
		e := mk(w)
		e.base().spontaneous = true
		res := a.SendEvent(w, e)
		accepted := e.IsAccepted()
		if me, ok := e.(*MouseEvent); ok {
			me.Release()
		}
		if res && accepted {
			return
		}
		if w.isWindow {
			return
		}
		w = w.parent
	}
}

func (a *App) dispatchMouse(win *Widget, ev RawEvent) {
	target := win.ChildAt(ev.Pos)
	if target == nil {
		target = win
	}
	if g := a.Widget(a.grabID); g != nil && g.Window() == win && ev.Kind != RawMouseDown {
		target = g
	}

	var t EventType
	switch ev.Kind {
	case RawMouseDown:
		t = EventMouseButtonPress
		if a.isDoubleClick(target, ev) {
			t = EventMouseButtonDblClick
			a.lastPress = pressRecord{}
		} else {
			a.lastPress = pressRecord{id: target.id, button: ev.Button, at: ev.Time}
		}
		a.grabID = target.id
		a.giveClickFocus(win, target, ev.Pos)
	case RawMouseUp:
		t = EventMouseButtonRelease
		if ev.Buttons == MouseButtonNone {
			a.grabID = 0
		}
	default:
		t = EventMouseMove
		a.updateHover(win, ev.Pos)
	}

	a.propagate(target, func(w *Widget) Event {
		return NewMouseEvent(t, w.MapFrom(win, ev.Pos), ev.Pos, ev.Button, ev.Buttons, ev.Modifiers)
	})
}

func (a *App) isDoubleClick(target *Widget, ev RawEvent) bool {
	last := a.lastPress
	if last.id != target.id || last.button != ev.Button || last.at.IsZero() || ev.Time.IsZero() {
		return false
	}
	limit := time.Duration(a.cfg.Input.DoubleClickMS) * time.Millisecond
	d := ev.Time.Sub(last.at)
	return d >= 0 && d <= limit
}

// giveClickFocus focuses the innermost enabled widget under the press that
// accepts click focus.
func (a *App) giveClickFocus(win, target *Widget, windowPos image.Point) {
	for w := target; w != nil; w = w.parent {
		local := w.MapFrom(win, windowPos)
		if w.IsEnabled() && local.In(w.Rect()) && w.focusPolicy&ClickFocus == ClickFocus {
			w.SetFocusReason(MouseFocusReason)
			return
		}
		if w.isWindow {
			return
		}
	}
}

// updateHover sends Leave and Enter when the widget under the pointer
// changes.
func (a *App) updateHover(win *Widget, pos image.Point) {
	under := win.ChildAt(pos)
	if under == nil {
		under = win
	}
	if under.id == a.hoveredID {
		return
	}
	if old := a.Widget(a.hoveredID); old != nil {
		a.SendEvent(old, NewEvent(EventLeave))
	}
	a.hoveredID = under.id
	a.SendEvent(under, NewEvent(EventEnter))
}
