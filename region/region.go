// Package region implements set algebra over unions of axis-aligned
// rectangles.
//
// A Region is an immutable value. Every operation returns a new Region and
// never modifies its operands, so regions can be shared freely between
// widgets, backing stores and paint events without aliasing surprises.
//
// Internally a region is kept in canonical y-x banded form: the covered area
// is cut into horizontal bands sorted by Y, each band holds non-overlapping
// rectangles sorted by X, horizontally touching rectangles are merged and
// vertically adjacent bands with identical spans are merged. Two regions
// covering the same area therefore hold the same rectangles, which makes
// Equal a structural comparison.
package region

import (
	"fmt"
	"image"
	"sort"
	"strings"
)

// Region is a set of pixels described by non-overlapping rectangles.
// The zero value is the empty region.
type Region struct {
	rects []image.Rectangle
}

// XYWH returns the rectangle with top-left corner (x, y) and the given size.
func XYWH(x, y, w, h int) image.Rectangle {
	return image.Rect(x, y, x+w, y+h)
}

// New returns the union of the given rectangles. Empty rectangles are
// ignored.
func New(rects ...image.Rectangle) Region {
	in := make([]image.Rectangle, 0, len(rects))
	for _, r := range rects {
		r = r.Canon()
		if !r.Empty() {
			in = append(in, r)
		}
	}
	if len(in) == 0 {
		return Region{}
	}
	if len(in) == 1 {
		return Region{rects: in}
	}
	return Region{rects: combine(in, nil, opUnion)}
}

// FromRect returns the region covering r.
func FromRect(r image.Rectangle) Region {
	return New(r)
}

// IsEmpty reports whether the region covers no pixels.
func (g Region) IsEmpty() bool { return len(g.rects) == 0 }

// Rects returns a copy of the canonical rectangles of the region.
func (g Region) Rects() []image.Rectangle {
	out := make([]image.Rectangle, len(g.rects))
	copy(out, g.rects)
	return out
}

// Len returns the number of rectangles in the canonical form.
func (g Region) Len() int { return len(g.rects) }

// Bounds returns the smallest rectangle enclosing the region, or the zero
// rectangle for an empty region.
func (g Region) Bounds() image.Rectangle {
	if len(g.rects) == 0 {
		return image.Rectangle{}
	}
	b := g.rects[0]
	for _, r := range g.rects[1:] {
		b = b.Union(r)
	}
	return b
}

// Area returns the number of pixels covered.
func (g Region) Area() int {
	n := 0
	for _, r := range g.rects {
		n += r.Dx() * r.Dy()
	}
	return n
}

// Contains reports whether p lies inside the region.
func (g Region) Contains(p image.Point) bool {
	for _, r := range g.rects {
		if p.In(r) {
			return true
		}
	}
	return false
}

// ContainsRect reports whether every pixel of r lies inside the region.
func (g Region) ContainsRect(r image.Rectangle) bool {
	if r.Empty() {
		return true
	}
	return New(r).Subtract(g).IsEmpty()
}

// Intersects reports whether the region shares at least one pixel with r.
func (g Region) Intersects(r image.Rectangle) bool {
	for _, gr := range g.rects {
		if gr.Overlaps(r) {
			return true
		}
	}
	return false
}

// Equal reports whether both regions cover exactly the same pixels.
func (g Region) Equal(o Region) bool {
	if len(g.rects) != len(o.rects) {
		return false
	}
	for i := range g.rects {
		if g.rects[i] != o.rects[i] {
			return false
		}
	}
	return true
}

// Union returns g ∪ o.
func (g Region) Union(o Region) Region {
	switch {
	case o.IsEmpty():
		return g
	case g.IsEmpty():
		return o
	}
	return Region{rects: combine(g.rects, o.rects, opUnion)}
}

// UnionRect returns g ∪ r.
func (g Region) UnionRect(r image.Rectangle) Region {
	return g.Union(New(r))
}

// Intersect returns g ∩ o.
func (g Region) Intersect(o Region) Region {
	if g.IsEmpty() || o.IsEmpty() || !g.Bounds().Overlaps(o.Bounds()) {
		return Region{}
	}
	return Region{rects: combine(g.rects, o.rects, opIntersect)}
}

// IntersectRect returns g ∩ r.
func (g Region) IntersectRect(r image.Rectangle) Region {
	return g.Intersect(New(r))
}

// Subtract returns g − o.
func (g Region) Subtract(o Region) Region {
	if g.IsEmpty() || o.IsEmpty() || !g.Bounds().Overlaps(o.Bounds()) {
		return g
	}
	return Region{rects: combine(g.rects, o.rects, opSubtract)}
}

// SubtractRect returns g − r.
func (g Region) SubtractRect(r image.Rectangle) Region {
	return g.Subtract(New(r))
}

// Xor returns the pixels covered by exactly one of g and o.
func (g Region) Xor(o Region) Region {
	switch {
	case o.IsEmpty():
		return g
	case g.IsEmpty():
		return o
	}
	return Region{rects: combine(g.rects, o.rects, opXor)}
}

// Translate returns the region moved by d.
func (g Region) Translate(d image.Point) Region {
	if d == (image.Point{}) || g.IsEmpty() {
		return g
	}
	out := make([]image.Rectangle, len(g.rects))
	for i, r := range g.rects {
		out[i] = r.Add(d)
	}
	return Region{rects: out}
}

func (g Region) String() string {
	if g.IsEmpty() {
		return "Region{}"
	}
	parts := make([]string, len(g.rects))
	for i, r := range g.rects {
		parts[i] = fmt.Sprintf("(%d,%d %dx%d)", r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	}
	return "Region{" + strings.Join(parts, " ") + "}"
}

// ============================================================================
// Band sweep
// ============================================================================

type setOp func(inA, inB bool) bool

func opUnion(a, b bool) bool     { return a || b }
func opIntersect(a, b bool) bool { return a && b }
func opSubtract(a, b bool) bool  { return a && !b }
func opXor(a, b bool) bool       { return a != b }

// span is a half-open horizontal interval [x0, x1).
type span struct{ x0, x1 int }

// combine sweeps both rectangle lists band by band and keeps the pixels for
// which op holds. Inputs may overlap; the output is canonical.
func combine(a, b []image.Rectangle, op setOp) []image.Rectangle {
	ys := make([]int, 0, 2*(len(a)+len(b)))
	for _, r := range a {
		ys = append(ys, r.Min.Y, r.Max.Y)
	}
	for _, r := range b {
		ys = append(ys, r.Min.Y, r.Max.Y)
	}
	sort.Ints(ys)
	ys = uniqueInts(ys)

	var out []image.Rectangle
	var prev []span
	prevStart := 0 // index in out of the previous band's first rectangle

	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		spans := combineSpans(spansAt(a, y0, y1), spansAt(b, y0, y1), op)
		if len(spans) == 0 {
			prev = nil
			continue
		}

		// Extend the previous band downwards when it has identical spans and
		// touches this one.
		if prev != nil && len(out) > 0 && out[len(out)-1].Max.Y == y0 && spansEqual(prev, spans) {
			for j := prevStart; j < len(out); j++ {
				out[j].Max.Y = y1
			}
			continue
		}

		prevStart = len(out)
		for _, s := range spans {
			out = append(out, image.Rect(s.x0, y0, s.x1, y1))
		}
		prev = spans
	}
	return out
}

// spansAt returns the sorted, merged horizontal coverage of rects within the
// band [y0, y1). Band edges are taken from every rectangle edge, so a
// rectangle either covers the whole band or none of it.
func spansAt(rects []image.Rectangle, y0, y1 int) []span {
	var spans []span
	for _, r := range rects {
		if r.Min.Y <= y0 && r.Max.Y >= y1 {
			spans = append(spans, span{r.Min.X, r.Max.X})
		}
	}
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].x0 < spans[j].x0 })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.x0 <= last.x1 {
			if s.x1 > last.x1 {
				last.x1 = s.x1
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// combineSpans applies op to two sorted, disjoint span lists.
func combineSpans(a, b []span, op setOp) []span {
	xs := make([]int, 0, 2*(len(a)+len(b)))
	for _, s := range a {
		xs = append(xs, s.x0, s.x1)
	}
	for _, s := range b {
		xs = append(xs, s.x0, s.x1)
	}
	sort.Ints(xs)
	xs = uniqueInts(xs)

	var out []span
	ia, ib := 0, 0
	for i := 0; i+1 < len(xs); i++ {
		x0, x1 := xs[i], xs[i+1]
		for ia < len(a) && a[ia].x1 <= x0 {
			ia++
		}
		for ib < len(b) && b[ib].x1 <= x0 {
			ib++
		}
		inA := ia < len(a) && a[ia].x0 <= x0
		inB := ib < len(b) && b[ib].x0 <= x0
		if !op(inA, inB) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].x1 == x0 {
			out[n-1].x1 = x1
			continue
		}
		out = append(out, span{x0, x1})
	}
	return out
}

func spansEqual(a, b []span) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uniqueInts(s []int) []int {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
