package retained

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(t.TempDir(), "missing.toml")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			if err != nil {
				t.Fatalf("LoadConfig(%q) error = %v", tt.path, err)
			}
			if cfg != DefaultConfig() {
				t.Errorf("LoadConfig(%q) = %+v, want defaults", tt.path, cfg)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "copper.toml")
	data := `
[app]
name = "demo"
quit_on_last_window_closed = false

[paint]
subtract_opaque_siblings = false
window_width = 320
window_height = 200

[input]
double_click_ms = 250

[log]
quiet = true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.App.Name != "demo" || cfg.App.QuitOnLastWindowClosed {
		t.Errorf("App = %+v", cfg.App)
	}
	if cfg.Paint.SubtractOpaqueSiblings || cfg.Paint.WindowWidth != 320 || cfg.Paint.WindowHeight != 200 {
		t.Errorf("Paint = %+v", cfg.Paint)
	}
	if cfg.Paint.ChildWidth != 100 || cfg.Paint.ChildHeight != 30 {
		t.Errorf("child size = %dx%d, want the defaults", cfg.Paint.ChildWidth, cfg.Paint.ChildHeight)
	}
	if cfg.Input.DoubleClickMS != 250 || cfg.Input.WheelScrollLines != 3 {
		t.Errorf("Input = %+v", cfg.Input)
	}
	if !cfg.Log.Quiet || cfg.Log.Prefix != "copper: " {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[paint\nwindow_width = "), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() of malformed TOML succeeded")
	}
	if !strings.Contains(err.Error(), "failed to parse "+path) {
		t.Errorf("error = %q, want it to name the file", err)
	}
}

func TestParseConfigNormalizes(t *testing.T) {
	cfg, err := ParseConfig([]byte("[paint]\nwindow_width = -5\nchild_height = 0\n[input]\ndouble_click_ms = -1\n"))
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultConfig()
	if cfg.Paint.WindowWidth != def.Paint.WindowWidth || cfg.Paint.ChildHeight != def.Paint.ChildHeight {
		t.Errorf("Paint = %+v, want default sizes", cfg.Paint)
	}
	if cfg.Input.DoubleClickMS != def.Input.DoubleClickMS {
		t.Errorf("DoubleClickMS = %d, want %d", cfg.Input.DoubleClickMS, def.Input.DoubleClickMS)
	}
}

func TestConfigDrivesNewWidgets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paint.WindowWidth, cfg.Paint.WindowHeight = 300, 200
	cfg.Paint.ChildWidth, cfg.Paint.ChildHeight = 40, 20
	a := NewApp(WithConfig(cfg), WithLogger(log.New(io.Discard, "", 0)))
	win := a.NewWindow("w")
	if got := win.Size(); got.X != 300 || got.Y != 200 {
		t.Errorf("window Size() = %v, want 300x200", got)
	}
	if got := a.NewWidget(win).Size(); got.X != 40 || got.Y != 20 {
		t.Errorf("child Size() = %v, want 40x20", got)
	}
	if got := a.NewWindow("").WindowTitle(); got != cfg.App.Name {
		t.Errorf("untitled window title = %q, want %q", got, cfg.App.Name)
	}
}

func TestWarningsFollowLogConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Quiet = true
	if w := NewApp(WithConfig(cfg)).Logger().Writer(); w != io.Discard {
		t.Errorf("quiet logger writes to %v, want io.Discard", w)
	}

	buf := &bytes.Buffer{}
	a := NewApp(WithLogger(log.New(buf, DefaultConfig().Log.Prefix, 0)))
	c := a.NewWidget(a.NewWindow("w"))
	c.SetParent(c)
	if !strings.HasPrefix(buf.String(), "copper: WARNING: ") {
		t.Errorf("log = %q, want a prefixed warning", buf.String())
	}
}
