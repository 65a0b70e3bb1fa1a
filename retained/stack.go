package retained

import (
	"slices"

	"github.com/agiangrant/copper/region"
)

// ============================================================================
// Stacking Order
// ============================================================================

// Raise moves the widget to the top of its parent's stack. Windows move to
// the front of the application's window list.
func (w *Widget) Raise() {
	if w.inDestructor || w.destroyed {
		return
	}
	if w.isWindow {
		top := w.app.topLevels
		if indexOf(top, w) == len(top)-1 {
			return
		}
		w.app.topLevels = moveWidget(top, w, len(top)-1)
	} else {
		p := w.parent
		n := len(p.children)
		if n < 2 {
			return
		}
		from := indexOf(p.children, w)
		if from != n-1 {
			p.children = moveWidget(p.children, w, n-1)
		}
		if !w.TestAttribute(AttrCreated) && p.TestAttribute(AttrCreated) {
			w.create()
		} else if from == n-1 {
			return
		}
		p.setDirtyOpaqueRegion()
		w.UpdateRegion(w.subtractOpaqueSiblings(region.FromRect(w.Rect()), false))
	}
	w.app.SendEvent(w, NewEvent(EventZOrderChange))
}

// Lower moves the widget to the bottom of its parent's stack. Windows move
// to the back of the application's window list.
func (w *Widget) Lower() {
	if w.inDestructor || w.destroyed {
		return
	}
	if w.isWindow {
		if indexOf(w.app.topLevels, w) == 0 {
			return
		}
		w.app.topLevels = moveWidget(w.app.topLevels, w, 0)
	} else {
		p := w.parent
		from := indexOf(p.children, w)
		if from != 0 {
			p.children = moveWidget(p.children, w, 0)
		}
		if !w.TestAttribute(AttrCreated) && p.TestAttribute(AttrCreated) {
			w.create()
		} else if from == 0 {
			return
		}
		p.setDirtyOpaqueRegion()
		if w.IsVisible() {
			p.UpdateRect(w.crect)
		}
	}
	w.app.SendEvent(w, NewEvent(EventZOrderChange))
}

// StackUnder places the widget directly below sibling. Both must share a
// parent.
func (w *Widget) StackUnder(sibling *Widget) {
	if w.inDestructor || w.destroyed || sibling == nil || sibling == w || w.isWindow {
		return
	}
	p := w.parent
	if p == nil || sibling.parent != p || sibling.isWindow {
		w.app.warn("StackUnder: %v and %v are not siblings", w, sibling)
		return
	}
	from := indexOf(p.children, w)
	to := indexOf(p.children, sibling)
	if from < to {
		to--
	}
	if from != to {
		p.children = moveWidget(p.children, w, to)
	}
	if !w.TestAttribute(AttrCreated) && p.TestAttribute(AttrCreated) {
		w.create()
	} else if from == to {
		return
	}
	p.setDirtyOpaqueRegion()
	if w.IsVisible() {
		p.UpdateRect(w.crect)
	}
	w.app.SendEvent(w, NewEvent(EventZOrderChange))
}

// moveWidget moves w within list to index to.
func moveWidget(list []*Widget, w *Widget, to int) []*Widget {
	from := indexOf(list, w)
	if from < 0 || from == to {
		return list
	}
	list = slices.Delete(list, from, from+1)
	return slices.Insert(list, to, w)
}
