package retained

import (
	"image"

	"github.com/agiangrant/copper/region"
)

// ============================================================================
// Geometry
// ============================================================================

// SetGeometry moves and resizes the widget to r, in parent coordinates.
// The size is bounded by the minimum and maximum sizes.
func (w *Widget) SetGeometry(r image.Rectangle) {
	if w.inDestructor || w.destroyed {
		return
	}
	r = r.Canon()
	w.setAttr(AttrResized|AttrMoved, true)
	if !w.TestAttribute(AttrCreated) {
		w.crect = image.Rectangle{Min: r.Min, Max: r.Min.Add(w.boundSize(r.Size()))}
		w.setAttr(AttrPendingMoveEvent|AttrPendingResizeEvent, true)
		return
	}
	w.setGeometryHelper(r.Min, r.Size(), true)
	w.setDirtyOpaqueRegion()
}

// Move moves the widget to p, in parent coordinates.
func (w *Widget) Move(p image.Point) {
	if w.inDestructor || w.destroyed {
		return
	}
	w.setAttr(AttrMoved, true)
	if !w.TestAttribute(AttrCreated) {
		w.crect = w.crect.Add(p.Sub(w.crect.Min))
		w.setAttr(AttrPendingMoveEvent, true)
		return
	}
	w.setGeometryHelper(p, w.crect.Size(), true)
	w.setDirtyOpaqueRegion()
}

// Resize changes the widget size, keeping its position.
func (w *Widget) Resize(size image.Point) {
	if w.inDestructor || w.destroyed {
		return
	}
	w.setAttr(AttrResized, true)
	if !w.TestAttribute(AttrCreated) {
		w.crect.Max = w.crect.Min.Add(w.boundSize(size))
		w.setAttr(AttrPendingResizeEvent, true)
		return
	}
	w.setGeometryHelper(w.crect.Min, size, false)
	w.setDirtyOpaqueRegion()
}

func (w *Widget) boundSize(s image.Point) image.Point {
	s.X = min(max(s.X, w.minSize.X, 0), w.maxSize.X)
	s.Y = min(max(s.Y, w.minSize.Y, 0), w.maxSize.Y)
	return s
}

func (w *Widget) setGeometryHelper(pos, size image.Point, isMove bool) {
	size = w.boundSize(size)
	oldGeom := w.crect
	oldPos, oldSize := oldGeom.Min, oldGeom.Size()
	isResize := oldSize != size
	if !isMove {
		isMove = oldPos != pos
	}
	if !isResize && oldPos == pos {
		return
	}
	w.crect = image.Rectangle{Min: pos, Max: pos.Add(size)}

	if w.isWindow {
		w.setWindowGeometry(oldGeom, isMove, isResize)
		return
	}

	if w.IsVisible() {
		w.invalidateAfterGeometryChange(oldGeom)
	}
	if isResize {
		w.sizeHintValid = false
	}
	if w.parent != nil {
		w.app.PostEvent(w.parent, NewEvent(EventLayoutRequest))
	}
	w.setDirtyOpaqueRegion()

	batch := w.Window().inTopLevelResize
	if w.IsVisible() && !batch {
		if isMove && pos != oldPos {
			w.app.SendEvent(w, NewMoveEvent(pos, oldPos))
		}
		if isResize {
			w.app.SendEvent(w, NewResizeEvent(size, oldSize))
		}
		return
	}
	if isMove && pos != oldPos {
		w.setAttr(AttrPendingMoveEvent, true)
	}
	if isResize {
		w.setAttr(AttrPendingResizeEvent, true)
	}
}

// invalidateAfterGeometryChange marks the areas exposed or covered by a
// child's geometry change. oldGeom is in parent coordinates.
func (w *Widget) invalidateAfterGeometryChange(oldGeom image.Rectangle) {
	p := w.parent
	if p == nil {
		return
	}
	newRect := w.Rect()
	oldRect := image.Rectangle{Max: oldGeom.Size()}
	inPlace := oldGeom.Min == w.crect.Min

	if w.TestAttribute(AttrStaticContents) && !w.hasMask && inPlace &&
		oldRect.Dx() <= newRect.Dx() && oldRect.Dy() <= newRect.Dy() {
		// old pixels stay valid; only the new strip needs paint
		w.UpdateRegion(region.FromRect(newRect).SubtractRect(oldRect))
		return
	}

	oldArea, newArea := region.FromRect(oldGeom), region.FromRect(w.crect)
	if w.hasMask {
		oldArea = w.mask.Translate(oldGeom.Min).IntersectRect(oldGeom)
		newArea = w.mask.Translate(w.crect.Min).IntersectRect(w.crect)
	}

	var static region.Region
	if bs := w.Window().bs; bs != nil && inPlace {
		static = bs.staticContents(w, oldRect)
	}
	if static.IsEmpty() {
		p.UpdateRegion(oldArea.Union(newArea))
		return
	}
	// static children keep their pixels; repaint around them
	w.UpdateRegion(region.FromRect(newRect).Subtract(static))
	p.UpdateRegion(oldArea.SubtractRect(w.crect))
}

// setWindowGeometry applies a window geometry change. Everything the
// window's Move and Resize handlers do to the tree is batched: dirty marks
// wait for the resize to finish and child notifications are delivered
// before the next paint.
func (w *Widget) setWindowGeometry(oldGeom image.Rectangle, isMove, isResize bool) {
	if w.native != nil {
		w.native.SetGeometry(w.crect)
	}
	if isResize {
		w.sizeHintValid = false
	}
	if !w.IsVisible() {
		if isMove && oldGeom.Min != w.crect.Min {
			w.setAttr(AttrPendingMoveEvent, true)
		}
		if isResize {
			w.setAttr(AttrPendingResizeEvent, true)
		}
		return
	}

	w.inTopLevelResize = true
	if isMove && oldGeom.Min != w.crect.Min {
		w.app.SendEvent(w, NewMoveEvent(w.crect.Min, oldGeom.Min))
	}
	if isResize {
		w.app.SendEvent(w, NewResizeEvent(w.crect.Size(), oldGeom.Size()))
	}
	w.inTopLevelResize = false

	if bs := w.bs; bs != nil {
		if isResize {
			w.Update()
		}
		bs.replayDeferred()
	}
}

// sendPendingMoveAndResizeEvents delivers Move and Resize notifications
// queued while the widget was hidden or not yet created.
func (w *Widget) sendPendingMoveAndResizeEvents(recursive bool) {
	if w.TestAttribute(AttrPendingMoveEvent) {
		w.setAttr(AttrPendingMoveEvent, false)
		w.app.SendEvent(w, NewMoveEvent(w.crect.Min, w.crect.Min))
	}
	if w.TestAttribute(AttrPendingResizeEvent) {
		w.setAttr(AttrPendingResizeEvent, false)
		w.app.SendEvent(w, NewResizeEvent(w.crect.Size(), image.Point{}))
	}
	if !recursive {
		return
	}
	children := w.childSnapshot()
	defer releaseWidgetSlice(children)
	for _, c := range children {
		if !c.isWindow && !c.destroyed {
			c.sendPendingMoveAndResizeEvents(true)
		}
	}
}

// SetMinimumSize sets the lower size bound, growing the widget if needed.
func (w *Widget) SetMinimumSize(s image.Point) {
	w.minSize = image.Pt(max(s.X, 0), max(s.Y, 0))
	w.maxSize = image.Pt(max(w.maxSize.X, w.minSize.X), max(w.maxSize.Y, w.minSize.Y))
	if cur := w.crect.Size(); cur.X < w.minSize.X || cur.Y < w.minSize.Y {
		w.Resize(image.Pt(max(cur.X, w.minSize.X), max(cur.Y, w.minSize.Y)))
	}
}

// SetMaximumSize sets the upper size bound, shrinking the widget if needed.
func (w *Widget) SetMaximumSize(s image.Point) {
	w.maxSize = image.Pt(min(max(s.X, 0), maxWidgetSize), min(max(s.Y, 0), maxWidgetSize))
	w.minSize = image.Pt(min(w.minSize.X, w.maxSize.X), min(w.minSize.Y, w.maxSize.Y))
	if cur := w.crect.Size(); cur.X > w.maxSize.X || cur.Y > w.maxSize.Y {
		w.Resize(image.Pt(min(cur.X, w.maxSize.X), min(cur.Y, w.maxSize.Y)))
	}
}

// SizeHint returns the preferred size reported by the OnSizeHint function,
// or (-1, -1) without one. The value is cached until UpdateGeometry, a
// resize or a font change invalidates it.
func (w *Widget) SizeHint() image.Point {
	if !w.sizeHintValid {
		w.sizeHint = image.Pt(-1, -1)
		if w.h.sizeHint != nil {
			w.sizeHint = w.h.sizeHint()
		}
		w.sizeHintValid = true
	}
	return w.sizeHint
}

// UpdateGeometry tells the layout owner that the size hint changed by
// posting a LayoutRequest to the parent, or to the window itself.
func (w *Widget) UpdateGeometry() {
	w.sizeHintValid = false
	if w.inDestructor || w.destroyed {
		return
	}
	if w.parent != nil && !w.isWindow {
		w.app.PostEvent(w.parent, NewEvent(EventLayoutRequest))
	} else {
		w.app.PostEvent(w, NewEvent(EventLayoutRequest))
	}
}

// AdjustSize resizes the widget to its size hint, if it has one.
func (w *Widget) AdjustSize() {
	if s := w.SizeHint(); s.X > 0 && s.Y > 0 {
		w.Resize(s)
	}
}
