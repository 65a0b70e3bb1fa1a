package retained

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/agiangrant/copper/region"
)

// RenderFlags control Widget.Render.
type RenderFlags uint8

const (
	// DrawWindowBackground fills the background even for widgets that do
	// not auto-fill.
	DrawWindowBackground RenderFlags = 1 << iota
	// DrawChildren renders descendants too.
	DrawChildren
	// IgnoreMask renders the whole widget even when it has a mask.
	IgnoreMask
)

// drawFlags steer drawWidget.
type drawFlags uint8

const (
	drawAsRoot drawFlags = 1 << iota
	drawPaintOnScreen
	drawRecursive
	drawInvisible
	dontSubtractOpaqueChildren
)

// ============================================================================
// Scheduling
// ============================================================================

// Update schedules a repaint of the whole widget.
func (w *Widget) Update() { w.UpdateRegion(region.FromRect(w.Rect())) }

// UpdateRect schedules a repaint of r, in widget coordinates.
func (w *Widget) UpdateRect(r image.Rectangle) { w.UpdateRegion(region.FromRect(r)) }

// UpdateRegion schedules a repaint of rgn, in widget coordinates. Updates
// of invisible widgets are dropped. Updates requested while the widget is
// painting are posted and applied on the next turn.
func (w *Widget) UpdateRegion(rgn region.Region) {
	if w.inDestructor || w.destroyed || !w.IsVisible() || !w.UpdatesEnabled() {
		return
	}
	rgn = rgn.IntersectRect(w.Rect())
	if rgn.IsEmpty() {
		return
	}
	if w.inPaintEvent {
		w.app.PostEvent(w, newUpdateLaterEvent(rgn))
		return
	}
	if bs := w.Window().bs; bs != nil {
		bs.markDirty(rgn, w, UpdateLater)
	}
}

// Repaint paints the whole widget immediately.
func (w *Widget) Repaint() { w.RepaintRegion(region.FromRect(w.Rect())) }

// RepaintRegion paints rgn, in widget coordinates, immediately.
func (w *Widget) RepaintRegion(rgn region.Region) {
	if w.inDestructor || w.destroyed || !w.IsVisible() || !w.UpdatesEnabled() || rgn.IsEmpty() {
		return
	}
	if bs := w.Window().bs; bs != nil {
		bs.markDirty(rgn, w, UpdateNow)
	}
}

// ============================================================================
// Paint Dispatch
// ============================================================================

// drawWidget paints rgn, in widget coordinates, into dst where the widget
// origin lies at offset. With drawRecursive, children follow.
func (w *Widget) drawWidget(dst xdraw.Image, rgn region.Region, offset image.Point, flags drawFlags) {
	if rgn.IsEmpty() {
		return
	}
	asRoot := flags&drawAsRoot != 0

	toBePainted := rgn
	if asRoot && flags&drawInvisible == 0 {
		toBePainted = toBePainted.IntersectRect(w.clipRect())
	}
	if flags&dontSubtractOpaqueChildren == 0 {
		toBePainted = w.subtractOpaqueChildren(toBePainted, w.Rect())
	}

	if !toBePainted.IsEmpty() {
		if w.inPaintEvent {
			w.app.warn("repaint of %v while it is painting; skipped", w)
		} else {
			w.inPaintEvent = true
			if (asRoot || w.autoFill || w.TestAttribute(AttrStyledBackground)) &&
				!w.TestAttribute(AttrOpaquePaintEvent) && !w.TestAttribute(AttrNoSystemBackground) {
				w.paintBackground(dst, toBePainted, offset, asRoot)
			}
			e := NewPaintEvent(toBePainted, newPainter(dst, offset, toBePainted, w))
			w.app.SendEvent(w, e)
			w.inPaintEvent = false
		}
	}

	if flags&drawRecursive != 0 && len(w.children) > 0 {
		w.paintSiblings(dst, w.children, len(w.children)-1, rgn, offset, flags&^drawAsRoot)
	}
}

// paintSiblings paints the children siblings[:index+1] that intersect rgn,
// given in the parent's coordinates. The topmost intersecting child is
// found first; lower siblings are painted before it with the area it
// covers opaquely removed.
func (w *Widget) paintSiblings(dst xdraw.Image, siblings []*Widget, index int, rgn region.Region, offset image.Point, flags drawFlags) {
	var c *Widget
	bounds := rgn.Bounds()
	for ; index >= 0; index-- {
		x := siblings[index]
		if x.IsHidden() || x.isWindow {
			continue
		}
		if bounds.Overlaps(x.crect) {
			c = x
			break
		}
	}
	if c == nil {
		return
	}

	pos := c.crect.Min
	if index > 0 {
		lower := rgn
		if c.opaque {
			if c.hasMask {
				lower = lower.Subtract(c.mask.Translate(pos))
			} else {
				lower = lower.SubtractRect(c.crect)
			}
		}
		w.paintSiblings(dst, siblings, index-1, lower, offset, flags)
	}

	if c.UpdatesEnabled() && !c.destroyed {
		cr := rgn.IntersectRect(c.crect).Translate(pos.Mul(-1))
		if c.hasMask {
			cr = cr.Intersect(c.mask)
		}
		c.drawWidget(dst, cr, offset.Add(pos), flags)
	}
}

// paintBackground fills the background of rgn according to the widget's
// palette and style.
func (w *Widget) paintBackground(dst xdraw.Image, rgn region.Region, offset image.Point, asRoot bool) {
	pal := w.Palette()
	fill := pal.Window
	if asRoot && !(w.autoFill && fill.IsOpaque()) {
		p := newPainter(dst, offset, rgn, w)
		p.source = true
		p.FillRegion(rgn, pal.Window)
	}
	if w.autoFill {
		newPainter(dst, offset, rgn, w).FillRegion(rgn, fill)
	}
	if w.TestAttribute(AttrStyledBackground) {
		w.Style().DrawPrimitive(PrimitiveWidget, newPainter(dst, offset, rgn, w), w)
	}
}

// ============================================================================
// Off-screen Rendering
// ============================================================================

// Render paints the widget into dst with its origin at targetOffset. An
// empty source renders the whole widget. Hidden widgets render too.
func (w *Widget) Render(dst xdraw.Image, targetOffset image.Point, source region.Region, flags RenderFlags) {
	if dst == nil || w.inDestructor || w.destroyed {
		return
	}
	toBePainted := w.prepareToRender(source, flags)
	if toBePainted.IsEmpty() {
		return
	}
	df := drawPaintOnScreen | drawInvisible
	if flags&DrawWindowBackground != 0 {
		df |= drawAsRoot
	}
	if flags&DrawChildren != 0 {
		df |= drawRecursive
	} else {
		df |= dontSubtractOpaqueChildren
	}
	w.drawWidget(dst, toBePainted, targetOffset, df)
}

func (w *Widget) prepareToRender(source region.Region, flags RenderFlags) region.Region {
	toBePainted := source
	if toBePainted.IsEmpty() {
		toBePainted = region.FromRect(w.Rect())
	}
	if flags&IgnoreMask == 0 && w.hasMask {
		toBePainted = toBePainted.Intersect(w.mask)
	}
	w.ensurePolished()
	w.sendPendingMoveAndResizeEvents(true)
	return toBePainted.IntersectRect(w.Rect())
}

// Grab renders r, in widget coordinates, with children and background into
// a new image. An empty r grabs the whole widget.
func (w *Widget) Grab(r image.Rectangle) *image.RGBA {
	if r.Empty() {
		r = w.Rect()
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	w.Render(img, r.Min.Mul(-1), region.FromRect(r), DrawWindowBackground|DrawChildren|IgnoreMask)
	return img
}
