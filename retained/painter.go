package retained

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/agiangrant/copper/region"
)

// ============================================================================
// Brushes and Palettes
// ============================================================================

// Brush describes how an area is filled. Exactly one of Color, Texture or
// Image is normally set; a Brush with none of them fills nothing.
type Brush struct {
	// Color fills with a solid colour.
	Color color.Color

	// Texture is tiled starting at the painted widget's origin.
	Texture image.Image

	// Image is scaled over the whole widget rectangle, so gradients rendered
	// to an image keep their geometry however the dirty region is split.
	Image image.Image
}

// SolidBrush returns a brush filling with c.
func SolidBrush(c color.Color) Brush { return Brush{Color: c} }

// TextureBrush returns a brush tiling img.
func TextureBrush(img image.Image) Brush { return Brush{Texture: img} }

// ImageBrush returns a brush stretching img over the widget rectangle.
func ImageBrush(img image.Image) Brush { return Brush{Image: img} }

// IsZero reports whether the brush paints nothing.
func (b Brush) IsZero() bool {
	return b.Color == nil && b.Texture == nil && b.Image == nil
}

// IsOpaque reports whether every pixel painted by the brush is fully opaque.
func (b Brush) IsOpaque() bool {
	switch {
	case b.Texture != nil:
		return imageOpaque(b.Texture)
	case b.Image != nil:
		return imageOpaque(b.Image)
	case b.Color != nil:
		_, _, _, a := b.Color.RGBA()
		return a == 0xffff
	}
	return false
}

func imageOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// Palette holds the colour roles used for default painting.
type Palette struct {
	Window     Brush
	WindowText color.Color
	Base       Brush
	Button     Brush
	Highlight  color.Color
}

// DefaultPalette returns the application default palette.
func DefaultPalette() Palette {
	return Palette{
		Window:     SolidBrush(color.RGBA{0xef, 0xef, 0xef, 0xff}),
		WindowText: color.Black,
		Base:       SolidBrush(color.White),
		Button:     SolidBrush(color.RGBA{0xe1, 0xe1, 0xe1, 0xff}),
		Highlight:  color.RGBA{0x30, 0x8c, 0xc6, 0xff},
	}
}

// Font describes the font a widget paints text with. The pipeline only
// resolves and propagates it; text shaping is left to paint handlers.
type Font struct {
	Family string
	Size   float64
	Bold   bool
}

// DefaultFont returns the application default font.
func DefaultFont() Font {
	return Font{Family: "sans-serif", Size: 10}
}

// ============================================================================
// Painter
// ============================================================================

// Painter draws into a paint device on behalf of one widget. Coordinates
// are widget-local; all output is clipped to the paint region.
type Painter struct {
	dst    xdraw.Image
	origin image.Point   // widget origin in device coordinates
	clip   region.Region // widget coordinates
	widget *Widget

	// source replaces destination pixels instead of blending
	source bool
}

func newPainter(dst xdraw.Image, origin image.Point, clip region.Region, w *Widget) *Painter {
	return &Painter{dst: dst, origin: origin, clip: clip, widget: w}
}

// Widget returns the widget being painted.
func (p *Painter) Widget() *Widget { return p.widget }

// Device returns the underlying paint device.
func (p *Painter) Device() xdraw.Image { return p.dst }

// Origin returns the widget origin in device coordinates.
func (p *Painter) Origin() image.Point { return p.origin }

// ClipRegion returns the region painting is restricted to, in widget
// coordinates.
func (p *Painter) ClipRegion() region.Region { return p.clip }

// FillRect fills r with c.
func (p *Painter) FillRect(r image.Rectangle, c color.Color) {
	p.FillRegion(region.New(r), SolidBrush(c))
}

// FillRegion fills rgn with b.
func (p *Painter) FillRegion(rgn region.Region, b Brush) {
	if p.dst == nil || b.IsZero() {
		return
	}
	rgn = rgn.Intersect(p.clip)
	if rgn.IsEmpty() {
		return
	}
	switch {
	case b.Texture != nil:
		p.tile(rgn, b.Texture)
	case b.Image != nil:
		p.stretch(rgn, b.Image)
	default:
		op := xdraw.Over
		if p.source || b.IsOpaque() {
			op = xdraw.Src
		}
		src := image.NewUniform(b.Color)
		for _, r := range rgn.Rects() {
			xdraw.Draw(p.dst, r.Add(p.origin), src, image.Point{}, op)
		}
	}
}

// DrawImage draws src with its top-left corner at at.
func (p *Painter) DrawImage(at image.Point, src image.Image) {
	if p.dst == nil || src == nil {
		return
	}
	sb := src.Bounds()
	target := sb.Sub(sb.Min).Add(at)
	for _, r := range p.clip.IntersectRect(target).Rects() {
		sp := sb.Min.Add(r.Min.Sub(at))
		xdraw.Draw(p.dst, r.Add(p.origin), src, sp, xdraw.Over)
	}
}

// DrawRect draws a one pixel outline along the inside of r.
func (p *Painter) DrawRect(r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	edges := region.New(r).SubtractRect(r.Inset(1))
	p.FillRegion(edges, SolidBrush(c))
}

// tile repeats tex across rgn, aligned to the widget origin.
func (p *Painter) tile(rgn region.Region, tex image.Image) {
	tb := tex.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw <= 0 || th <= 0 {
		return
	}
	for _, r := range rgn.Rects() {
		y0 := floorDiv(r.Min.Y, th) * th
		x0 := floorDiv(r.Min.X, tw) * tw
		for ty := y0; ty < r.Max.Y; ty += th {
			for tx := x0; tx < r.Max.X; tx += tw {
				cell := image.Rect(tx, ty, tx+tw, ty+th).Intersect(r)
				if cell.Empty() {
					continue
				}
				sp := tb.Min.Add(cell.Min.Sub(image.Pt(tx, ty)))
				xdraw.Draw(p.dst, cell.Add(p.origin), tex, sp, xdraw.Over)
			}
		}
	}
}

// stretch scales img over the widget rectangle and copies the parts inside
// rgn.
func (p *Painter) stretch(rgn region.Region, img image.Image) {
	var full image.Rectangle
	if p.widget != nil {
		full = p.widget.Rect()
	} else {
		full = rgn.Bounds()
	}
	if full.Empty() {
		return
	}
	scaled := image.NewRGBA(full)
	xdraw.BiLinear.Scale(scaled, full, img, img.Bounds(), xdraw.Src, nil)
	for _, r := range rgn.IntersectRect(full).Rects() {
		xdraw.Draw(p.dst, r.Add(p.origin), scaled, r.Min, xdraw.Over)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
