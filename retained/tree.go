package retained

import (
	"image"
	"slices"
)

// ============================================================================
// Reparenting
// ============================================================================

// SetParent moves the widget under p. The widget is hidden in the process;
// it becomes visible again with p unless it was hidden explicitly. A nil p
// turns the widget into a window.
func (w *Widget) SetParent(p *Widget) {
	if w.inDestructor || w.destroyed {
		return
	}
	if p != nil {
		if p.app != w.app {
			w.app.warn("SetParent: %v belongs to another application", p)
			return
		}
		if p.inDestructor || p.destroyed {
			w.app.warn("SetParent: %v is being destroyed", p)
			return
		}
		if w.IsAncestorOf(p) || p == w {
			w.app.warn("SetParent: %v would become its own ancestor", w)
			return
		}
	}
	if p == w.parent && (p == nil) == w.isWindow {
		return
	}

	resized := w.TestAttribute(AttrResized)
	wasCreated := w.TestAttribute(AttrCreated)
	explicitlyHidden := w.TestAttribute(AttrHidden) && w.TestAttribute(AttrExplicitShowHide)
	oldWindow := w.Window()

	if wasCreated {
		if !w.IsHidden() {
			w.Hide()
			w.setAttr(AttrExplicitShowHide, false)
		}
		w.setAttr(AttrVisible, false)
	}
	if w.IsAncestorOf(w.app.FocusWidget()) {
		w.app.setFocusWidget(nil, OtherFocusReason)
	}
	if bs := oldWindow.bs; bs != nil && oldWindow != w {
		bs.removeDirtyWidget(w)
		bs.removeStaticSubtree(w)
	}

	old := w.parent
	if old != nil {
		old.children = slices.DeleteFunc(old.children, func(c *Widget) bool { return c == w })
		old.setDirtyOpaqueRegion()
	}
	if w.isWindow && p != nil {
		// window becomes a child: it loses its native window
		w.app.topLevels = slices.DeleteFunc(w.app.topLevels, func(c *Widget) bool { return c == w })
		w.releaseNative()
		w.isWindow = false
		w.setAttr(AttrCreated, false)
	}

	w.parent = p
	if p == nil {
		if !w.isWindow {
			w.isWindow = true
			w.setAttr(AttrCreated, false)
			w.app.topLevels = append(w.app.topLevels, w)
		}
	} else {
		p.children = append(p.children, w)
	}

	// A child of a hidden parent is hidden implicitly, so it shows with
	// the parent. Everywhere else a new widget waits for Show.
	hidden := w.isWindow || p == nil || p.IsVisible() || explicitlyHidden
	w.setAttr(AttrHidden, hidden)
	w.setAttr(AttrExplicitShowHide, explicitlyHidden)

	if p != nil && !w.isWindow && p.TestAttribute(AttrCreated) {
		w.create()
	}
	w.reparentFocusWidgets(oldWindow)
	w.setAttr(AttrResized, resized)

	if bs := w.Window().bs; bs != nil {
		w.Walk(func(x *Widget) bool {
			if x.TestAttribute(AttrStaticContents) {
				bs.addStaticWidget(x)
			}
			return true
		})
	}

	parentUpdates, parentEnabled := true, true
	if p != nil {
		parentUpdates, parentEnabled = p.UpdatesEnabled(), p.IsEnabled()
	}
	w.setUpdatesEnabledHelper(parentUpdates)
	w.setEnabledHelper(parentEnabled && !w.TestAttribute(AttrForceDisabled))
	w.setDirtyOpaqueRegion()
	w.updateIsOpaque()

	w.app.SendEvent(w, NewEvent(EventParentChange))
}

// ============================================================================
// Destruction
// ============================================================================

// Destroy tears the widget down together with its children. Children are
// destroyed first; the widget is then removed from its parent, the focus
// chain and the application. Destroying twice is a no-op.
func (w *Widget) Destroy() {
	if w.inDestructor || w.destroyed {
		return
	}
	w.inDestructor = true
	a := w.app

	if w.IsAncestorOf(a.FocusWidget()) {
		a.setFocusWidget(nil, OtherFocusReason)
	}
	w.setDirtyOpaqueRegion()
	if w.isWindow && w.IsVisible() {
		w.closeHelper(false)
	}
	win := w.Window()
	if bs := win.bs; bs != nil {
		bs.removeDirtyWidget(w)
		if w.TestAttribute(AttrStaticContents) {
			bs.removeStaticWidget(w)
		}
	}

	for len(w.children) > 0 {
		c := w.children[len(w.children)-1]
		c.Destroy()
		if len(w.children) > 0 && w.children[len(w.children)-1] == c {
			w.children = w.children[:len(w.children)-1]
		}
	}

	a.RemovePostedEvents(w, EventNone)
	oldGeometry := w.crect
	wasVisible := w.IsVisible()
	if w.isWindow {
		a.topLevels = slices.DeleteFunc(a.topLevels, func(c *Widget) bool { return c == w })
		w.releaseNative()
	}
	w.setAttr(AttrCreated|AttrVisible, false)
	delete(a.allWidgets, w.id)
	if a.hoveredID == w.id {
		a.hoveredID = 0
	}
	if a.grabID == w.id {
		a.grabID = 0
	}
	w.unlinkFocus()

	if p := w.parent; p != nil {
		p.children = slices.DeleteFunc(p.children, func(c *Widget) bool { return c == w })
		if !w.isWindow {
			p.setDirtyOpaqueRegion()
			if wasVisible {
				p.UpdateRect(oldGeometry)
			}
		}
		w.parent = nil
	}
	w.destroyed = true
}

// DeleteLater posts a DeferredDelete event; the widget is destroyed when
// the event is processed.
func (w *Widget) DeleteLater() {
	w.app.PostEvent(w, NewEvent(EventDeferredDelete))
}

func (w *Widget) releaseNative() {
	if w.native != nil {
		w.native.Destroy()
		w.native = nil
	}
	w.bs = nil
}

// ============================================================================
// Traversal
// ============================================================================

// Walk calls fn for w and its descendants in depth-first, back-to-front
// order, without descending into other windows. Returning false from fn
// skips the subtree.
func (w *Widget) Walk(fn func(*Widget) bool) {
	if !fn(w) {
		return
	}
	for _, c := range w.children {
		if !c.isWindow {
			c.Walk(fn)
		}
	}
}

// Find returns the first descendant (or w itself) with the given name.
func (w *Widget) Find(name string) *Widget {
	var found *Widget
	w.Walk(func(x *Widget) bool {
		if found != nil {
			return false
		}
		if x.name == name {
			found = x
			return false
		}
		return true
	})
	return found
}

// ChildAt returns the deepest visible descendant containing p, given in w's
// coordinates, or nil. Masked-out areas do not count.
func (w *Widget) ChildAt(p image.Point) *Widget {
	if !p.In(w.Rect()) {
		return nil
	}
	return w.childAt(p)
}

func (w *Widget) childAt(p image.Point) *Widget {
	for i := len(w.children) - 1; i >= 0; i-- {
		c := w.children[i]
		if c.isWindow || !c.IsVisible() || !p.In(c.crect) {
			continue
		}
		local := p.Sub(c.crect.Min)
		if c.hasMask && !c.mask.Contains(local) {
			continue
		}
		if x := c.childAt(local); x != nil {
			return x
		}
		return c
	}
	return nil
}
