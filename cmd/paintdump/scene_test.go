package main

import (
	"context"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agiangrant/copper/retained"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no size", "[window]\ntitle = \"x\"\n", "not positive"},
		{"unnamed widget", "[window]\nwidth = 10\nheight = 10\n[[widget]]\nrect = [0, 0, 1, 1]\n", "no name"},
		{"duplicate", "[window]\nwidth = 10\nheight = 10\n[[widget]]\nname = \"a\"\nrect = [0, 0, 1, 1]\n[[widget]]\nname = \"a\"\nrect = [0, 0, 1, 1]\n", "defined twice"},
		{"forward parent", "[window]\nwidth = 10\nheight = 10\n[[widget]]\nname = \"a\"\nparent = \"b\"\nrect = [0, 0, 1, 1]\n", "defined before"},
		{"short rect", "[window]\nwidth = 10\nheight = 10\n[[widget]]\nname = \"a\"\nrect = [0, 0, 1]\n", "4 values"},
		{"unknown target", "[window]\nwidth = 10\nheight = 10\n[[step]]\naction = \"hide\"\ntarget = \"zz\"\n", "unknown target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseScene() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]uint8
		wantErr bool
	}{
		{"#fff", [4]uint8{0xff, 0xff, 0xff, 0xff}, false},
		{"#102030", [4]uint8{0x10, 0x20, 0x30, 0xff}, false},
		{"10203040", [4]uint8{0x10, 0x20, 0x30, 0x40}, false},
		{"#12", [4]uint8{}, true},
		{"#zzzzzz", [4]uint8{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got := [4]uint8{c.R, c.G, c.B, c.A}; !tt.wantErr && got != tt.want {
				t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	k, mods, err := parseKey("shift+tab")
	if err != nil || k != retained.KeyTab || mods != retained.ModShift {
		t.Errorf("parseKey(shift+tab) = %v, %v, %v", k, mods, err)
	}
	if k, _, _ := parseKey("a"); k != retained.Key('A') {
		t.Errorf("parseKey(a) = %v, want 'A'", k)
	}
	if _, _, err := parseKey("hyper+x"); err == nil {
		t.Error("parseKey accepted an unknown modifier")
	}
}

func TestRunScene(t *testing.T) {
	out := t.TempDir()
	res, err := runScene(context.Background(), retained.DefaultConfig(), quietLogger(), filepath.Join("testdata", "split.toml"), out)
	if err != nil {
		t.Fatalf("runScene() error = %v", err)
	}
	if res.Scene != "split" || res.Steps != 4 {
		t.Errorf("Scene, Steps = %q, %d", res.Scene, res.Steps)
	}
	counts := make(map[string]int)
	for _, p := range res.Paints {
		counts[p.Name] = p.Count
	}
	if counts["window"] != 0 {
		t.Errorf("window painted %d times although its children cover it", counts["window"])
	}
	if counts["left"] == 0 || counts["right"] == 0 || counts["badge"] == 0 {
		t.Errorf("paint counts = %v, want every child painted", counts)
	}
	if len(res.Order) != 1 || res.Order[0] != "left" {
		t.Errorf("last step painted %v, want only left", res.Order)
	}
	if res.Flushes == 0 || res.FlushedArea == 0 {
		t.Errorf("Flushes, FlushedArea = %d, %d", res.Flushes, res.FlushedArea)
	}

	f, err := os.Open(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", res.Output, err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("snapshot bounds = %v, want 200x100", b)
	}
	r, _, b, _ := img.At(5, 50).RGBA()
	if r>>8 != 0xc0 || b>>8 != 0x30 {
		t.Errorf("left half pixel = %v, want #c03030", img.At(5, 50))
	}
	r, g, b, _ := img.At(100, 50).RGBA()
	if g>>8 != 0xc0 || r>>8 != 0x30 || b>>8 != 0x30 {
		t.Errorf("badge pixel = %v, want #30c030", img.At(100, 50))
	}
	r, _, b, _ = img.At(81, 31).RGBA()
	if b>>8 != 0x30 || r>>8 != 0xc0 {
		t.Errorf("masked-out corner = %v, want the left half below", img.At(81, 31))
	}
}

func TestRunScenesConcurrently(t *testing.T) {
	paths := []string{filepath.Join("testdata", "split.toml"), filepath.Join("testdata", "split.toml")}
	cfg := retained.DefaultConfig()
	cfg.Log.Quiet = true
	results, err := runScenes(context.Background(), cfg, paths, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Flushes != results[1].Flushes {
		t.Errorf("results differ between identical scenes: %+v", results)
	}

	if _, err := runScenes(context.Background(), cfg, []string{"testdata/missing.toml"}, ""); err == nil {
		t.Error("runScenes with a missing scene succeeded")
	}
	dir := t.TempDir()
	other := filepath.Join(dir, "split.toml")
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(other, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runScenes(context.Background(), cfg, []string{paths[0], other}, dir); err == nil || !strings.Contains(err.Error(), "split.png") {
		t.Errorf("runScenes with two split.toml files = %v, want a name clash error", err)
	}
	if _, err := runScenes(context.Background(), cfg, []string{paths[0], other}, ""); err != nil {
		t.Errorf("runScenes without snapshots = %v, want name clashes allowed", err)
	}
}

func TestPlainReport(t *testing.T) {
	var b strings.Builder
	writeReport(&b, []Result{{
		Scene:   "s",
		Steps:   1,
		Flushes: 2,
		Paints:  []PaintCount{{Name: "window", Count: 3, Area: 40}},
		Order:   []string{"a", "b"},
	}}, false)
	for _, want := range []string{"scene s: 1 steps, 2 flushes", "window", "a > b"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("report %q missing %q", b.String(), want)
		}
	}
}
