package retained

import (
	"image"
	"testing"

	"github.com/agiangrant/copper/region"
)

// disc approximates a circle of diameter 50 with three rectangles.
func disc() region.Region {
	return region.New(
		region.XYWH(15, 0, 20, 50),
		region.XYWH(0, 15, 50, 20),
		region.XYWH(5, 5, 40, 40),
	)
}

func maskFixture(t *testing.T) (*testApp, *Widget, *Widget) {
	t.Helper()
	a := newTestApp(t)
	win := a.showWindow("w", image.Pt(200, 200))
	m := a.child(win, "m", image.Rect(10, 10, 110, 110))
	m.Show()
	a.ProcessEvents()
	return a, win, m
}

func TestShrinkingMaskRepaintsDeltaOnly(t *testing.T) {
	_, win, m := maskFixture(t)
	m.SetMask(disc())

	bs := win.BackingStore()
	if got := bs.DirtyWidgets(); len(got) != 1 || got[0] != win {
		t.Fatalf("DirtyWidgets() = %v, want only the parent", names(got))
	}
	want := region.FromRect(image.Rect(0, 0, 100, 100)).Subtract(disc()).Translate(m.Pos())
	if got := bs.DirtyRegion(); !got.Equal(want) {
		t.Errorf("DirtyRegion() = %v, want %v", got, want)
	}
	if got := bs.DirtyRegion().Area(); got != 100*100-disc().Area() {
		t.Errorf("dirty area = %d, want %d", got, 100*100-disc().Area())
	}
}

func TestClearMaskRepaintsWidget(t *testing.T) {
	a, win, m := maskFixture(t)
	m.SetMask(disc())
	a.ProcessEvents()

	m.ClearMask()
	bs := win.BackingStore()
	if got := bs.DirtyWidgets(); len(got) != 1 || got[0] != m {
		t.Fatalf("DirtyWidgets() = %v, want only m", names(got))
	}
	want := region.FromRect(image.Rect(0, 0, 100, 100)).Subtract(disc()).Translate(m.Pos())
	if got := bs.DirtyRegion(); !got.Equal(want) {
		t.Errorf("DirtyRegion() = %v, want %v", got, want)
	}
}

func TestSetSameMaskIsNoop(t *testing.T) {
	a, win, m := maskFixture(t)
	m.SetMask(disc())
	a.ProcessEvents()
	m.SetMask(disc())
	if n := len(win.BackingStore().DirtyWidgets()); n != 0 {
		t.Errorf("setting an identical mask dirtied %d widgets", n)
	}
	m.SetMask(region.Region{})
	if m.HasMask() {
		t.Error("empty mask did not clear the mask")
	}
}

func TestMaskedWidgetPaintsInsideMask(t *testing.T) {
	a, _, m := maskFixture(t)
	m.SetMask(disc())
	a.ProcessEvents()

	rec := &paintRecorder{}
	rec.watch(m)
	m.Update()
	a.ProcessEvents()
	if got := rec.region("m"); !got.Equal(disc()) {
		t.Errorf("m painted %v, want its mask %v", got, disc())
	}
}
