package region

import (
	"image"
	"testing"
)

func TestNewIgnoresEmptyRects(t *testing.T) {
	g := New(image.Rect(5, 5, 5, 20), XYWH(0, 0, 0, 0), image.Rectangle{})
	if !g.IsEmpty() {
		t.Fatalf("expected empty region, got %v", g)
	}
	if got := g.Bounds(); got != (image.Rectangle{}) {
		t.Errorf("Bounds of empty region = %v, want zero rectangle", got)
	}
}

func TestCanonicalForm(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
	}{
		{
			name: "split horizontally",
			a:    New(XYWH(0, 0, 10, 10), XYWH(10, 0, 10, 10)),
			b:    New(XYWH(0, 0, 20, 10)),
		},
		{
			name: "split vertically",
			a:    New(XYWH(0, 0, 10, 5), XYWH(0, 5, 10, 5)),
			b:    New(XYWH(0, 0, 10, 10)),
		},
		{
			name: "overlapping input",
			a:    New(XYWH(0, 0, 15, 10), XYWH(5, 0, 15, 10)),
			b:    New(XYWH(0, 0, 20, 10)),
		},
		{
			name: "insertion order",
			a:    New(XYWH(0, 0, 5, 5), XYWH(20, 20, 5, 5)),
			b:    New(XYWH(20, 20, 5, 5), XYWH(0, 0, 5, 5)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.a.Equal(tt.b) {
				t.Errorf("regions differ: %v vs %v", tt.a, tt.b)
			}
		})
	}
}

func TestSubtractLeavesFrame(t *testing.T) {
	outer := New(XYWH(0, 0, 100, 100))
	inner := New(XYWH(25, 25, 50, 50))
	frame := outer.Subtract(inner)

	if got, want := frame.Area(), 100*100-50*50; got != want {
		t.Fatalf("area = %d, want %d", got, want)
	}
	// top band, two side strips, bottom band
	if got := frame.Len(); got != 4 {
		t.Errorf("rect count = %d, want 4 (%v)", got, frame)
	}
	if frame.Contains(image.Pt(50, 50)) {
		t.Error("hole should not be contained")
	}
	if !frame.Contains(image.Pt(10, 50)) {
		t.Error("left strip should be contained")
	}
	if got := frame.Bounds(); got != XYWH(0, 0, 100, 100) {
		t.Errorf("Bounds = %v", got)
	}
}

func TestLaws(t *testing.T) {
	samples := []Region{
		{},
		New(XYWH(0, 0, 10, 10)),
		New(XYWH(5, 5, 10, 10), XYWH(30, 0, 4, 40)),
		New(XYWH(-10, -10, 25, 5), XYWH(0, 0, 3, 3), XYWH(2, 2, 8, 1)),
	}
	d := image.Pt(7, -3)

	for i, a := range samples {
		if got := a.Subtract(a); !got.IsEmpty() {
			t.Errorf("[%d] A-A = %v, want empty", i, got)
		}
		for j, b := range samples {
			if got := a.Union(b).Intersect(a); !got.Equal(a) {
				t.Errorf("[%d,%d] (A∪B)∩A = %v, want %v", i, j, got, a)
			}
			if !a.Union(b).Equal(b.Union(a)) {
				t.Errorf("[%d,%d] union is not commutative", i, j)
			}
			if !a.Union(b).Translate(d).Equal(a.Translate(d).Union(b.Translate(d))) {
				t.Errorf("[%d,%d] translate does not distribute over union", i, j)
			}
			if !a.Intersect(b).Translate(d).Equal(a.Translate(d).Intersect(b.Translate(d))) {
				t.Errorf("[%d,%d] translate does not distribute over intersect", i, j)
			}
			if !a.Subtract(b).Translate(d).Equal(a.Translate(d).Subtract(b.Translate(d))) {
				t.Errorf("[%d,%d] translate does not distribute over subtract", i, j)
			}
			x := a.Xor(b)
			if !x.Equal(a.Union(b).Subtract(a.Intersect(b))) {
				t.Errorf("[%d,%d] xor = %v", i, j, x)
			}
		}
	}
}

func TestUnionOfStackedSiblingsSubtractsOnce(t *testing.T) {
	base := New(XYWH(0, 0, 100, 100))
	s1 := XYWH(50, 0, 50, 50)
	s2 := XYWH(50, 0, 50, 50)

	once := base.Subtract(New(s1, s2))
	twice := base.SubtractRect(s1).SubtractRect(s2)
	if !once.Equal(twice) {
		t.Errorf("subtracting the union differs from sequential subtraction: %v vs %v", once, twice)
	}
	if got, want := once.Area(), 100*100-50*50; got != want {
		t.Errorf("area = %d, want %d", got, want)
	}
}

func TestContainsRectAndIntersects(t *testing.T) {
	g := New(XYWH(0, 0, 10, 10), XYWH(10, 0, 10, 10))
	if !g.ContainsRect(XYWH(5, 2, 10, 5)) {
		t.Error("rect spanning both halves should be contained")
	}
	if g.ContainsRect(XYWH(15, 5, 10, 2)) {
		t.Error("rect leaving the region should not be contained")
	}
	if g.Intersects(XYWH(20, 0, 5, 5)) {
		t.Error("touching rect should not intersect")
	}
	if !g.Intersects(XYWH(19, 9, 5, 5)) {
		t.Error("corner overlap should intersect")
	}
}

func TestImmutability(t *testing.T) {
	a := New(XYWH(0, 0, 10, 10))
	rects := a.Rects()
	rects[0] = XYWH(99, 99, 1, 1)
	_ = a.Translate(image.Pt(3, 3))
	_ = a.Union(New(XYWH(20, 20, 5, 5)))

	if !a.Equal(New(XYWH(0, 0, 10, 10))) {
		t.Errorf("region was mutated: %v", a)
	}
}
