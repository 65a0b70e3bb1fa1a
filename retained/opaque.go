package retained

import (
	"image"

	"github.com/agiangrant/copper/region"
)

// ============================================================================
// Opacity
// ============================================================================

// updateIsOpaque recomputes whether the widget covers every pixel of its
// rectangle when painted.
func (w *Widget) updateIsOpaque() {
	w.setDirtyOpaqueRegion()

	switch {
	case w.TestAttribute(AttrOpaquePaintEvent):
		w.opaque = true
	case w.autoFill && w.Palette().Window.IsOpaque():
		w.opaque = true
	case w.isWindow && !w.TestAttribute(AttrNoSystemBackground) && w.Palette().Window.IsOpaque():
		w.opaque = true
	default:
		w.opaque = false
	}
}

// setDirtyOpaqueRegion invalidates the cached opaque-children region of
// the widget and of every ancestor that depends on it. The walk stops at
// the window or at an ancestor whose cache is already invalid.
func (w *Widget) setDirtyOpaqueRegion() {
	w.dirtyOpaqueChildren = true
	if w.isWindow || w.parent == nil {
		return
	}
	if !w.parent.dirtyOpaqueChildren {
		w.parent.setDirtyOpaqueRegion()
	}
}

// opaqueChildRegion returns the area of w covered by opaque visible
// descendants, in w's coordinates. The result is cached until the next
// setDirtyOpaqueRegion.
func (w *Widget) opaqueChildRegion() region.Region {
	if !w.dirtyOpaqueChildren {
		return w.opaqueChildren
	}
	var r region.Region
	for _, c := range w.children {
		if c.isWindow || !c.IsVisible() {
			continue
		}
		var cr region.Region
		if c.opaque {
			cr = region.FromRect(c.Rect())
		} else {
			cr = c.opaqueChildRegion()
		}
		if c.hasMask {
			cr = cr.Intersect(c.mask)
		}
		if cr.IsEmpty() {
			continue
		}
		r = r.Union(cr.Translate(c.crect.Min))
	}
	w.opaqueChildren = r.IntersectRect(w.Rect())
	w.dirtyOpaqueChildren = false
	return w.opaqueChildren
}

// subtractOpaqueChildren removes the parts of rgn covered by opaque
// children, restricted to clip.
func (w *Widget) subtractOpaqueChildren(rgn region.Region, clip image.Rectangle) region.Region {
	if len(w.children) == 0 || clip.Empty() {
		return rgn
	}
	if oc := w.opaqueChildRegion(); !oc.IsEmpty() {
		rgn = rgn.Subtract(oc.IntersectRect(clip))
	}
	return rgn
}

// subtractOpaqueSiblings removes from rgn, given in w's coordinates, the
// parts covered by siblings stacked above w and above each of its
// ancestors up to the window. With alsoNonOpaque every sibling above
// counts, opaque or not.
func (w *Widget) subtractOpaqueSiblings(rgn region.Region, alsoNonOpaque bool) region.Region {
	if w.isWindow || !w.app.cfg.Paint.SubtractOpaqueSiblings {
		return rgn
	}
	var bounds image.Rectangle
	boundsValid := false
	offset := image.Point{} // origin of x's parent in w's coordinates
	for x := w; x != nil && !x.isWindow && x.parent != nil; x = x.parent {
		p := x.parent
		offset = offset.Sub(x.crect.Min)
		idx := indexOf(p.children, x)
		for _, s := range p.children[idx+1:] {
			if s.isWindow || !s.IsVisible() || !s.crect.Overlaps(x.crect) {
				continue
			}
			if !boundsValid {
				bounds = rgn.Bounds()
				boundsValid = true
			}
			if !s.crect.Add(offset).Overlaps(bounds) {
				continue
			}
			var sr region.Region
			if s.opaque || alsoNonOpaque {
				sr = region.FromRect(s.Rect())
			} else {
				sr = s.opaqueChildRegion()
			}
			if s.hasMask {
				sr = sr.Intersect(s.mask)
			}
			if sr.IsEmpty() {
				continue
			}
			rgn = rgn.Subtract(sr.Translate(s.crect.Min.Add(offset)))
			boundsValid = false
		}
		if rgn.IsEmpty() {
			break
		}
	}
	return rgn
}

// VisibleRegion returns the part of the widget that is neither clipped by
// its ancestors nor covered by opaque children or siblings, in widget
// coordinates.
func (w *Widget) VisibleRegion() region.Region {
	clip := w.clipRect()
	if clip.Empty() {
		return region.Region{}
	}
	r := region.FromRect(clip)
	r = w.subtractOpaqueChildren(r, clip)
	return w.subtractOpaqueSiblings(r, false)
}

// OpaqueChildren returns the area covered by opaque visible children, in
// widget coordinates.
func (w *Widget) OpaqueChildren() region.Region {
	return w.opaqueChildRegion()
}

func indexOf(list []*Widget, w *Widget) int {
	for i, x := range list {
		if x == w {
			return i
		}
	}
	return -1
}
