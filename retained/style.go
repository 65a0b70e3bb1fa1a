package retained

// PrimitiveElement names a piece of chrome a Style can draw.
type PrimitiveElement uint8

const (
	// PrimitiveWidget is the styled background of a widget.
	PrimitiveWidget PrimitiveElement = iota
	// PrimitiveFrame is a plain one pixel frame around the widget.
	PrimitiveFrame
	// PrimitiveFrameFocusRect marks the widget holding keyboard focus.
	PrimitiveFrameFocusRect
)

// Style is the pluggable look and feel. Widgets resolve their style through
// their ancestors up to the application default; Widget.SetStyle overrides it
// for one subtree.
type Style interface {
	// Name identifies the style.
	Name() string

	// Polish is called once before a widget is first shown, and again after
	// its style changes.
	Polish(w *Widget)

	// DrawPrimitive paints el for w with p.
	DrawPrimitive(el PrimitiveElement, p *Painter, w *Widget)
}

// BasicStyle is the default style: flat fills taken from the palette.
type BasicStyle struct{}

func (BasicStyle) Name() string { return "basic" }

func (BasicStyle) Polish(w *Widget) {}

func (BasicStyle) DrawPrimitive(el PrimitiveElement, p *Painter, w *Widget) {
	pal := w.Palette()
	switch el {
	case PrimitiveWidget:
		p.FillRegion(p.ClipRegion(), pal.Window)
	case PrimitiveFrame:
		p.DrawRect(w.Rect(), pal.WindowText)
	case PrimitiveFrameFocusRect:
		p.DrawRect(w.Rect(), pal.Highlight)
	}
}
