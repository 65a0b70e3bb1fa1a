package retained

// ============================================================================
// Show / Hide
// ============================================================================

// Show makes the widget visible, provided its parent is visible.
func (w *Widget) Show() { w.SetVisible(true) }

// Hide hides the widget and its descendants.
func (w *Widget) Hide() { w.SetVisible(false) }

// SetHidden is SetVisible(!hidden).
func (w *Widget) SetHidden(hidden bool) { w.SetVisible(!hidden) }

// SetVisible shows or hides the widget. Showing a shown widget, or hiding a
// hidden one, does nothing.
func (w *Widget) SetVisible(visible bool) {
	if w.inDestructor || w.destroyed {
		return
	}
	explicit := w.TestAttribute(AttrExplicitShowHide)
	if explicit && w.IsHidden() == !visible {
		return
	}
	if visible {
		w.show()
	} else {
		w.hide()
	}
}

func (w *Widget) show() {
	p := w.parent
	if !w.TestAttribute(AttrCreated) && (w.isWindow || p != nil && p.TestAttribute(AttrCreated)) {
		w.create()
	}
	wasResized := w.TestAttribute(AttrResized)
	w.ensurePolished()

	w.setAttr(AttrExplicitShowHide, true)
	w.setAttr(AttrHidden, false)
	if !w.isWindow && p != nil {
		p.setDirtyOpaqueRegion()
	}
	if !wasResized && w.isWindow {
		w.AdjustSize()
		w.setAttr(AttrResized, false)
	}

	if w.isWindow || p != nil && p.IsVisible() {
		w.showHelper()
	}
}

func (w *Widget) showHelper() {
	w.inShow = true
	w.sendPendingMoveAndResizeEvents(false)
	w.setAttr(AttrVisible, true)
	w.showChildren()
	w.app.SendEvent(w, NewEvent(EventShow))

	if w.isWindow {
		if w.native != nil {
			w.native.SetVisible(true)
		}
	}
	w.setDirtyOpaqueRegion()
	w.Update()
	w.inShow = false
}

func (w *Widget) showChildren() {
	children := w.childSnapshot()
	defer releaseWidgetSlice(children)
	for _, c := range children {
		if c.isWindow || c.IsHidden() || c.destroyed {
			continue
		}
		if c.TestAttribute(AttrExplicitShowHide) {
			c.showRecursive()
		} else {
			c.Show()
		}
	}
}

// showRecursive shows an explicitly shown child again after its parent
// became visible.
func (w *Widget) showRecursive() {
	if !w.TestAttribute(AttrCreated) {
		w.create()
	}
	w.ensurePolished()
	if !w.isWindow && w.parent.IsVisible() {
		w.showHelper()
	}
}

func (w *Widget) hide() {
	p := w.parent
	if !w.isWindow && p != nil {
		p.setDirtyOpaqueRegion()
	}
	w.setAttr(AttrHidden|AttrExplicitShowHide, true)
	if w.TestAttribute(AttrCreated) {
		w.hideHelper()
	}
}

func (w *Widget) hideHelper() {
	wasVisible := w.IsVisible()
	if wasVisible {
		if !w.isWindow && w.parent != nil {
			w.parent.UpdateRect(w.crect)
		}
		if w.isWindow && w.native != nil {
			w.native.SetVisible(false)
		}
	}
	w.setAttr(AttrVisible, false)
	w.app.SendEvent(w, NewEvent(EventHide))
	w.hideChildren()

	if wasVisible {
		a := w.app
		if w.IsAncestorOf(a.FocusWidget()) {
			w.focusNextPrevChild(true)
			if w.IsAncestorOf(a.FocusWidget()) {
				a.setFocusWidget(nil, OtherFocusReason)
			}
		}
		if a.hoveredID != 0 && w.IsAncestorOf(a.Widget(a.hoveredID)) {
			a.hoveredID = 0
		}
	}
	if bs := w.Window().bs; bs != nil {
		bs.removeDirtyWidget(w)
	}
}

func (w *Widget) hideChildren() {
	children := w.childSnapshot()
	defer releaseWidgetSlice(children)
	for _, c := range children {
		if c.isWindow || c.IsHidden() || c.destroyed {
			continue
		}
		c.setAttr(AttrVisible, false)
		c.hideChildren()
		c.app.SendEvent(c, NewEvent(EventHide))
	}
}

// create allocates the native side of a window and marks the subtree as
// created. Platforms that fail to create a window leave the widget with a
// window that never reaches the screen.
func (w *Widget) create() {
	if w.TestAttribute(AttrCreated) || w.inDestructor {
		return
	}
	if w.isWindow {
		native, err := w.app.platform.CreateWindow(w.id, w.crect, w.title)
		if err != nil || native == nil {
			w.app.warn("create %v: native window unavailable: %v", w, err)
			native = nullWindow{}
		}
		w.native = native
		w.setAttr(AttrNativeWindow, true)
		w.bs = newBackingStore(w, native)
		w.Walk(func(x *Widget) bool {
			if x.TestAttribute(AttrStaticContents) {
				w.bs.addStaticWidget(x)
			}
			return true
		})
	}
	w.setAttr(AttrCreated, true)
	for _, c := range w.children {
		if !c.isWindow {
			c.create()
		}
	}
}

// ensurePolished polishes the widget, then its children, once.
func (w *Widget) ensurePolished() {
	if w.TestAttribute(AttrPolished) {
		return
	}
	w.setAttr(AttrPolished, true)
	w.app.SendEvent(w, NewEvent(EventPolish))
	children := w.childSnapshot()
	defer releaseWidgetSlice(children)
	for _, c := range children {
		if !c.isWindow {
			c.ensurePolished()
		}
	}
}

// ============================================================================
// Close
// ============================================================================

// Close asks the widget to close by sending it a Close event. If the event
// stays accepted the widget is hidden, and destroyed later when it has
// AttrDeleteOnClose. Close reports whether the widget closed.
func (w *Widget) Close() bool {
	if w.inDestructor || w.destroyed {
		return false
	}
	return w.closeHelper(true)
}

func (w *Widget) closeHelper(sendEvent bool) bool {
	if w.isClosing {
		return false
	}
	w.isClosing = true
	a := w.app
	parent := w.parent
	quitOnClose := w.TestAttribute(AttrQuitOnClose)
	wasVisible := w.IsVisible()

	if sendEvent {
		e := NewEvent(EventClose)
		a.SendEvent(w, e)
		if !w.destroyed && !e.IsAccepted() {
			w.isClosing = false
			return false
		}
	}
	if !w.destroyed && !w.IsHidden() {
		w.hide()
	}

	quitOnClose = quitOnClose && wasVisible && w.isWindow && (parent == nil || !parent.IsVisible())
	if quitOnClose {
		last := true
		for _, t := range a.topLevels {
			if t.IsVisible() && t.parent == nil && t.TestAttribute(AttrQuitOnClose) {
				last = false
				break
			}
		}
		if last {
			a.emitLastWindowClosed()
		}
	}

	if !w.destroyed {
		w.isClosing = false
		if w.TestAttribute(AttrDeleteOnClose) && !w.inDestructor {
			w.setAttr(AttrDeleteOnClose, false)
			w.DeleteLater()
		}
	}
	return true
}
