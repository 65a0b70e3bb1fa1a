package retained

import "github.com/agiangrant/copper/region"

// SetMask restricts painting and input to mask, in widget coordinates. An
// empty mask clears it. Only the areas whose coverage changed are
// repainted: the parent gets what the widget stopped covering, the widget
// gets what it newly covers.
func (w *Widget) SetMask(mask region.Region) {
	if w.inDestructor || w.destroyed {
		return
	}
	if mask.IsEmpty() {
		w.ClearMask()
		return
	}
	if w.hasMask && w.mask.Equal(mask) {
		return
	}
	oldShape := w.shape()
	w.mask = mask
	w.hasMask = true
	w.maskChanged(oldShape)
}

// ClearMask removes the mask.
func (w *Widget) ClearMask() {
	if w.inDestructor || w.destroyed || !w.hasMask {
		return
	}
	oldShape := w.shape()
	w.mask = region.Region{}
	w.hasMask = false
	w.maskChanged(oldShape)
}

// shape returns the area the widget covers, in widget coordinates.
func (w *Widget) shape() region.Region {
	if w.hasMask {
		return w.mask.IntersectRect(w.Rect())
	}
	return region.FromRect(w.Rect())
}

func (w *Widget) maskChanged(oldShape region.Region) {
	w.setDirtyOpaqueRegion()
	if !w.TestAttribute(AttrCreated) || !w.IsVisible() {
		return
	}
	newShape := w.shape()
	if exposed := oldShape.Subtract(newShape); !exposed.IsEmpty() && !w.isWindow && w.parent != nil {
		w.parent.UpdateRegion(exposed.Translate(w.crect.Min))
	}
	if covered := newShape.Subtract(oldShape); !covered.IsEmpty() {
		w.UpdateRegion(covered)
	}
}
