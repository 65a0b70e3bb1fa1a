package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/copper/region"
	"github.com/agiangrant/copper/retained"
)

// Scene describes a window, its widget tree and a list of steps applied
// to it once it is shown.
type Scene struct {
	Window  WindowSpec   `toml:"window"`
	Widgets []WidgetSpec `toml:"widget"`
	Steps   []StepSpec   `toml:"step"`
}

type WindowSpec struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type WidgetSpec struct {
	Name string `toml:"name"`

	// Parent names an earlier widget; empty means the window.
	Parent string `toml:"parent"`

	// Rect is x, y, width, height in parent coordinates.
	Rect []int `toml:"rect"`

	// Color fills the background, as #rgb, #rrggbb or #rrggbbaa.
	Color  string `toml:"color"`
	Border string `toml:"border"`

	// Opaque widgets fill their own background on paint.
	Opaque bool `toml:"opaque"`
	Static bool `toml:"static"`
	Hidden bool `toml:"hidden"`

	// Focus is one of none, tab, click, strong or wheel.
	Focus string  `toml:"focus"`
	Mask  [][]int `toml:"mask"`
}

// StepSpec is one action applied after the scene has been shown. Each
// step is followed by a full event loop turn.
type StepSpec struct {
	Action string  `toml:"action"`
	Target string  `toml:"target"`
	Rect   []int   `toml:"rect"`
	Key    string  `toml:"key"`
	Mask   [][]int `toml:"mask"`
}

// LoadScene reads a scene file.
func LoadScene(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s, err := ParseScene(data)
	if err != nil {
		return Scene{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// ParseScene decodes and validates a TOML scene.
func ParseScene(data []byte) (Scene, error) {
	var s Scene
	if err := toml.Unmarshal(data, &s); err != nil {
		return Scene{}, err
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return Scene{}, fmt.Errorf("window size %dx%d is not positive", s.Window.Width, s.Window.Height)
	}
	seen := map[string]bool{"": true}
	for i, w := range s.Widgets {
		if w.Name == "" {
			return Scene{}, fmt.Errorf("widget %d has no name", i)
		}
		if seen[w.Name] {
			return Scene{}, fmt.Errorf("widget %q defined twice", w.Name)
		}
		if !seen[w.Parent] {
			return Scene{}, fmt.Errorf("widget %q: parent %q must be defined before it", w.Name, w.Parent)
		}
		if _, err := toRect(w.Rect); err != nil {
			return Scene{}, fmt.Errorf("widget %q: %w", w.Name, err)
		}
		seen[w.Name] = true
	}
	for i, st := range s.Steps {
		if !seen[st.Target] {
			return Scene{}, fmt.Errorf("step %d: unknown target %q", i, st.Target)
		}
	}
	return s, nil
}

func toRect(v []int) (image.Rectangle, error) {
	if len(v) != 4 {
		return image.Rectangle{}, fmt.Errorf("rect needs 4 values, got %d", len(v))
	}
	return region.XYWH(v[0], v[1], v[2], v[3]), nil
}

func toRegion(vs [][]int) (region.Region, error) {
	rects := make([]image.Rectangle, 0, len(vs))
	for _, v := range vs {
		r, err := toRect(v)
		if err != nil {
			return region.Region{}, err
		}
		rects = append(rects, r)
	}
	return region.New(rects...), nil
}

// parseColor accepts #rgb, #rrggbb and #rrggbbaa.
func parseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func focusPolicy(s string) (retained.FocusPolicy, error) {
	switch s {
	case "", "none":
		return retained.NoFocus, nil
	case "tab":
		return retained.TabFocus, nil
	case "click":
		return retained.ClickFocus, nil
	case "strong":
		return retained.StrongFocus, nil
	case "wheel":
		return retained.WheelFocus, nil
	}
	return retained.NoFocus, fmt.Errorf("unknown focus policy %q", s)
}

func parseKey(s string) (retained.Key, retained.Modifiers, error) {
	var mods retained.Modifiers
	parts := strings.Split(strings.ToLower(s), "+")
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "shift":
			mods |= retained.ModShift
		case "ctrl":
			mods |= retained.ModCtrl
		case "alt":
			mods |= retained.ModAlt
		default:
			return 0, 0, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}
	switch name := parts[len(parts)-1]; name {
	case "tab":
		return retained.KeyTab, mods, nil
	case "backtab":
		return retained.KeyBacktab, mods, nil
	case "escape", "esc":
		return retained.KeyEscape, mods, nil
	case "enter", "return":
		return retained.KeyReturn, mods, nil
	case "space":
		return retained.KeySpace, mods, nil
	default:
		if len(name) == 1 {
			return retained.Key(strings.ToUpper(name)[0]), mods, nil
		}
		return 0, 0, fmt.Errorf("unknown key %q", s)
	}
}

// build creates the scene's widgets under a new window. Paint events of
// every widget are reported to onPaint.
func (s Scene) build(app *retained.App, onPaint func(name string, e *retained.PaintEvent)) (*retained.Widget, map[string]*retained.Widget, error) {
	win := app.NewWindow(s.Window.Title)
	win.SetName("window")
	win.SetGeometry(image.Rect(0, 0, s.Window.Width, s.Window.Height))
	if s.Window.Background != "" {
		c, err := parseColor(s.Window.Background)
		if err != nil {
			return nil, nil, fmt.Errorf("window: %w", err)
		}
		pal := win.Palette()
		pal.Window = retained.SolidBrush(c)
		win.SetPalette(pal)
	}
	win.OnPaint(func(e *retained.PaintEvent) { onPaint("window", e) })

	widgets := map[string]*retained.Widget{"": win}
	for _, spec := range s.Widgets {
		w, err := spec.build(app, widgets[spec.Parent], onPaint)
		if err != nil {
			return nil, nil, fmt.Errorf("widget %q: %w", spec.Name, err)
		}
		widgets[spec.Name] = w
	}
	return win, widgets, nil
}

func (spec WidgetSpec) build(app *retained.App, parent *retained.Widget, onPaint func(string, *retained.PaintEvent)) (*retained.Widget, error) {
	r, err := toRect(spec.Rect)
	if err != nil {
		return nil, err
	}
	policy, err := focusPolicy(spec.Focus)
	if err != nil {
		return nil, err
	}
	w := app.NewWidget(parent).SetName(spec.Name).SetFocusPolicy(policy)
	w.SetGeometry(r)

	if spec.Color != "" {
		c, err := parseColor(spec.Color)
		if err != nil {
			return nil, err
		}
		pal := w.Palette()
		pal.Window = retained.SolidBrush(c)
		w.SetPalette(pal).SetAutoFillBackground(true)
	}
	var border color.Color
	if spec.Border != "" {
		c, err := parseColor(spec.Border)
		if err != nil {
			return nil, err
		}
		border = c
	}
	if len(spec.Mask) > 0 {
		m, err := toRegion(spec.Mask)
		if err != nil {
			return nil, fmt.Errorf("mask: %w", err)
		}
		w.SetMask(m)
	}
	w.SetAttribute(retained.AttrOpaquePaintEvent, spec.Opaque)
	w.SetAttribute(retained.AttrStaticContents, spec.Static)
	if spec.Hidden {
		w.Hide()
	}

	name := spec.Name
	w.OnPaint(func(e *retained.PaintEvent) {
		if spec.Opaque {
			e.Painter().FillRegion(e.Region(), w.Palette().Window)
		}
		if border != nil {
			e.Painter().DrawRect(w.Rect(), border)
		}
		onPaint(name, e)
	})
	return w, nil
}

// apply runs one step against the widgets of a built scene.
func (st StepSpec) apply(app *retained.App, win *retained.Widget, widgets map[string]*retained.Widget) error {
	w := widgets[st.Target]
	switch st.Action {
	case "update":
		if len(st.Rect) == 0 {
			w.Update()
			return nil
		}
		r, err := toRect(st.Rect)
		if err != nil {
			return err
		}
		w.UpdateRect(r)
	case "repaint":
		w.Repaint()
	case "show":
		w.Show()
	case "hide":
		w.Hide()
	case "raise":
		w.Raise()
	case "lower":
		w.Lower()
	case "geometry":
		r, err := toRect(st.Rect)
		if err != nil {
			return err
		}
		w.SetGeometry(r)
	case "mask":
		m, err := toRegion(st.Mask)
		if err != nil {
			return err
		}
		w.SetMask(m)
	case "clear_mask":
		w.ClearMask()
	case "destroy":
		w.Destroy()
	case "focus":
		w.SetFocus()
	case "click":
		r, err := toRect(st.Rect)
		if err != nil {
			return err
		}
		pos := w.MapToWindow(r.Min)
		app.Dispatch(retained.RawEvent{Kind: retained.RawMouseDown, Window: win.WinID(), Pos: pos, Button: retained.MouseButtonLeft, Buttons: retained.MouseButtonLeft})
		app.Dispatch(retained.RawEvent{Kind: retained.RawMouseUp, Window: win.WinID(), Pos: pos, Button: retained.MouseButtonLeft})
	case "key":
		k, mods, err := parseKey(st.Key)
		if err != nil {
			return err
		}
		app.Dispatch(retained.RawEvent{Kind: retained.RawKeyDown, Window: win.WinID(), Key: k, Modifiers: mods})
		app.Dispatch(retained.RawEvent{Kind: retained.RawKeyUp, Window: win.WinID(), Key: k, Modifiers: mods})
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}
