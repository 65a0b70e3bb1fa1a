package retained

// ============================================================================
// Focus Chain
// ============================================================================
//
// Every window owns a circular chain of its widgets, linked through
// focusNext and focusPrev. Links hold widget IDs so a destroyed widget can
// never be reached through a stale link; the chain is kept free of them
// anyway by unlinkFocus.

func (w *Widget) nextInChain() *Widget {
	if x := w.app.allWidgets[w.focusNext]; x != nil {
		return x
	}
	return w
}

func (w *Widget) prevInChain() *Widget {
	if x := w.app.allWidgets[w.focusPrev]; x != nil {
		return x
	}
	return w
}

// NextInFocusChain returns the widget after w in its window's focus chain.
func (w *Widget) NextInFocusChain() *Widget { return w.nextInChain() }

// PreviousInFocusChain returns the widget before w in its window's focus
// chain.
func (w *Widget) PreviousInFocusChain() *Widget { return w.prevInChain() }

func link(a, b *Widget) {
	a.focusNext = b.id
	b.focusPrev = a.id
}

// reparentFocusWidgets splits the subtree rooted at w out of the chain of
// oldWindow and splices it into the chain of w's current window. The
// relative order of both parts is preserved.
func (w *Widget) reparentFocusWidgets(oldWindow *Widget) {
	if oldWindow == w.Window() {
		return
	}
	if w.IsAncestorOf(w.app.FocusWidget()) {
		w.app.setFocusWidget(nil, OtherFocusReason)
	}

	// Separate the chain into the subtree (new) and the rest (old).
	var firstOld, lastOld *Widget
	lastNew := w
	prevWasNew := true
	for x := w.nextInChain(); x != w; {
		next := x.nextInChain()
		isNew := w.IsAncestorOf(x)
		if isNew {
			if !prevWasNew {
				link(lastNew, x)
			}
			lastNew = x
		} else {
			if prevWasNew {
				if lastOld != nil {
					link(lastOld, x)
				} else {
					firstOld = x
				}
			}
			lastOld = x
		}
		x = next
		prevWasNew = isNew
	}
	if firstOld != nil {
		link(lastOld, firstOld)
	}

	if !w.isWindow {
		// insert the subtree chain before the window, closing its ring
		win := w.Window()
		last := win.prevInChain()
		link(last, w)
		link(lastNew, win)
	} else {
		link(lastNew, w)
	}
}

// unlinkFocus removes w from its chain.
func (w *Widget) unlinkFocus() {
	next, prev := w.nextInChain(), w.prevInChain()
	if next != w {
		link(prev, next)
	}
	w.focusNext, w.focusPrev = w.id, w.id
}

// ============================================================================
// Keyboard Focus
// ============================================================================

// FocusWidget returns the widget holding keyboard focus, or nil.
func (a *App) FocusWidget() *Widget {
	return a.allWidgets[a.focusID]
}

// HasFocus reports whether w holds keyboard focus.
func (w *Widget) HasFocus() bool {
	return w.app.focusID == w.id && !w.destroyed
}

// FocusWidget returns the widget in w's window that holds or last held
// focus, or nil.
func (w *Widget) FocusWidget() *Widget {
	return w.app.allWidgets[w.Window().focusChild]
}

// SetFocus gives w keyboard focus. Disabled widgets cannot take focus.
func (w *Widget) SetFocus() {
	w.SetFocusReason(OtherFocusReason)
}

// SetFocusReason gives w keyboard focus, reporting reason in the focus
// events.
func (w *Widget) SetFocusReason(reason FocusReason) {
	if w.inDestructor || w.destroyed || !w.IsEnabled() {
		return
	}
	w.app.setFocusWidget(w, reason)
}

// ClearFocus takes keyboard focus away from w.
func (w *Widget) ClearFocus() {
	if w.HasFocus() {
		w.app.setFocusWidget(nil, OtherFocusReason)
	}
	if win := w.Window(); win.focusChild == w.id {
		win.focusChild = 0
	}
}

func (a *App) setFocusWidget(w *Widget, reason FocusReason) {
	prev := a.FocusWidget()
	if prev == w {
		return
	}
	if w != nil {
		a.focusID = w.id
		w.Window().focusChild = w.id
	} else {
		a.focusID = 0
	}
	if prev != nil && !prev.inDestructor {
		a.SendEvent(prev, NewFocusEvent(EventFocusOut, reason))
	}
	if w != nil && a.focusID == w.id {
		a.SendEvent(w, NewFocusEvent(EventFocusIn, reason))
	}
}

// FocusNextChild moves focus to the next widget in the chain that accepts
// tab focus.
func (w *Widget) FocusNextChild() bool { return w.focusNextPrevChild(true) }

// FocusPreviousChild moves focus to the previous widget in the chain that
// accepts tab focus.
func (w *Widget) FocusPreviousChild() bool { return w.focusNextPrevChild(false) }

// focusNextPrevChild moves focus within w's window. It reports whether
// focus moved.
func (w *Widget) focusNextPrevChild(next bool) bool {
	if !w.isWindow && w.parent != nil {
		return w.parent.focusNextPrevChild(next)
	}
	target := w.nextPrevFocusCandidate(next)
	if target == nil {
		return false
	}
	reason := TabFocusReason
	if !next {
		reason = BacktabFocusReason
	}
	target.SetFocusReason(reason)
	return true
}

// nextPrevFocusCandidate walks the chain of window w starting after the
// current focus widget. Going forward the first candidate wins; going
// backward the last one before wrapping around does.
func (w *Widget) nextPrevFocusCandidate(next bool) *Widget {
	f := w.app.FocusWidget()
	if f == nil || f.Window() != w {
		f = w
	}
	found := f
	for x := f.nextInChain(); x != f; x = x.nextInChain() {
		if x.focusPolicy&TabFocus == TabFocus && x.IsVisible() && x.IsEnabled() && x.Window() == w {
			found = x
			if next {
				break
			}
		}
	}
	if found == f {
		return nil
	}
	return found
}
