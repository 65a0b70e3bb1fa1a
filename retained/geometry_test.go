package retained

import (
	"image"
	"testing"

	"github.com/agiangrant/copper/region"
)

func TestPendingMoveResizeDeliveredOnShow(t *testing.T) {
	a := newTestApp(t)
	win := a.NewWindow("w")
	c := a.child(win, "c", image.Rect(5, 5, 25, 15))
	var moves, resizes []image.Point
	c.OnMove(func(e *MoveEvent) { moves = append(moves, e.Pos) })
	c.OnResize(func(e *ResizeEvent) { resizes = append(resizes, e.Size) })
	c.Move(image.Pt(10, 10))
	if len(moves)+len(resizes) != 0 {
		t.Fatal("geometry events delivered before the widget was shown")
	}
	win.Show()
	if len(moves) != 1 || moves[0] != image.Pt(10, 10) {
		t.Errorf("moves = %v, want [(10,10)]", moves)
	}
	if len(resizes) != 1 || resizes[0] != image.Pt(20, 10) {
		t.Errorf("resizes = %v, want [(20,10)]", resizes)
	}
	win.Hide()
	win.Show()
	if len(moves) != 1 || len(resizes) != 1 {
		t.Errorf("pending events delivered twice: %v %v", moves, resizes)
	}
}

func TestMoveRepaintsOldAndNewArea(t *testing.T) {
	a := newTestApp(t)
	win := a.showWindow("w", image.Pt(200, 100))
	c := a.child(win, "c", image.Rect(0, 0, 20, 20))
	c.Show()
	a.ProcessEvents()

	c.Move(image.Pt(50, 0))
	want := region.New(image.Rect(0, 0, 20, 20), image.Rect(50, 0, 70, 20))
	if got := win.BackingStore().DirtyRegion(); !got.Equal(want) {
		t.Errorf("DirtyRegion() = %v, want %v", got, want)
	}
}

func TestStaticContentsGrowInPlace(t *testing.T) {
	a := newTestApp(t)
	win := a.showWindow("w", image.Pt(200, 200))
	c := a.child(win, "c", image.Rect(10, 10, 60, 60))
	c.SetAttribute(AttrStaticContents, true)
	c.Show()
	a.ProcessEvents()
	if got := win.BackingStore().StaticWidgets(); len(got) != 1 || got[0] != c {
		t.Fatalf("StaticWidgets() = %v, want [c]", got)
	}

	c.Resize(image.Pt(80, 60))
	strip := region.FromRect(image.Rect(0, 0, 80, 60)).SubtractRect(image.Rect(0, 0, 50, 50))
	if got, want := win.BackingStore().DirtyRegion(), strip.Translate(c.Pos()); !got.Equal(want) {
		t.Errorf("DirtyRegion() = %v, want only the new strip %v", got, want)
	}

	a.ProcessEvents()
	c.Resize(image.Pt(30, 30))
	if got, want := win.BackingStore().DirtyRegion(), region.FromRect(image.Rect(10, 10, 90, 70)); !got.Equal(want) {
		t.Errorf("after shrink DirtyRegion() = %v, want %v", got, want)
	}

	c.Destroy()
	if n := len(win.BackingStore().StaticWidgets()); n != 0 {
		t.Errorf("destroyed widget still registered as static (%d)", n)
	}
}

func TestTopLevelResizeDefersMarks(t *testing.T) {
	a := newTestApp(t)
	win := a.showWindow("w", image.Pt(100, 100))
	c := a.child(win, "c", image.Rect(0, 0, 10, 10))
	c.Show()
	a.ProcessEvents()

	deferred := false
	win.OnResize(func(e *ResizeEvent) {
		c.Resize(image.Pt(e.Size.X/2, 10))
		deferred = win.BackingStore().HasDeferred()
	})
	win.Resize(image.Pt(160, 100))

	if !deferred {
		t.Error("marks made while resizing the window were not deferred")
	}
	bs := win.BackingStore()
	if bs.HasDeferred() {
		t.Error("deferred marks not replayed after the resize")
	}
	if got := c.Size(); got != image.Pt(80, 10) {
		t.Errorf("child Size() = %v, want (80,10)", got)
	}
	if !bs.DirtyRegion().ContainsRect(win.Rect()) {
		t.Errorf("DirtyRegion() = %v, want the whole resized window", bs.DirtyRegion())
	}

	rec := &paintRecorder{}
	rec.watch(c)
	a.ProcessEvents()
	if rec.count("c") != 1 {
		t.Errorf("child painted %d times after the resize, want 1", rec.count("c"))
	}
	if img := bs.Image(); img == nil || img.Bounds() != win.Rect() {
		t.Errorf("backing image not resized to %v", win.Rect())
	}
}

func TestSizeBounds(t *testing.T) {
	a := newTestApp(t)
	w := a.NewWidget(nil)
	w.SetMinimumSize(image.Pt(30, 30))
	w.Resize(image.Pt(10, 50))
	if got := w.Size(); got != image.Pt(30, 50) {
		t.Errorf("Size() = %v, want (30,50)", got)
	}
	w.SetMaximumSize(image.Pt(40, 40))
	if got := w.Size(); got != image.Pt(30, 40) {
		t.Errorf("Size() = %v, want (30,40) after SetMaximumSize", got)
	}
	w.SetGeometry(image.Rect(0, 0, 100, 100))
	if got := w.Size(); got != image.Pt(40, 40) {
		t.Errorf("Size() = %v, want (40,40)", got)
	}
}

func TestAdjustSizeOnFirstShow(t *testing.T) {
	a := newTestApp(t)
	hinted := a.NewWindow("hinted")
	hinted.OnSizeHint(func() image.Point { return image.Pt(120, 90) })
	hinted.Show()
	if got := hinted.Size(); got != image.Pt(120, 90) {
		t.Errorf("Size() = %v, want the size hint (120,90)", got)
	}

	sized := a.NewWindow("sized")
	sized.OnSizeHint(func() image.Point { return image.Pt(120, 90) })
	sized.Resize(image.Pt(50, 50))
	sized.Show()
	if got := sized.Size(); got != image.Pt(50, 50) {
		t.Errorf("Size() = %v, want the explicit size (50,50)", got)
	}

	plain := a.NewWindow("plain")
	if got := plain.SizeHint(); got != image.Pt(-1, -1) {
		t.Errorf("SizeHint() = %v, want (-1,-1)", got)
	}
}
