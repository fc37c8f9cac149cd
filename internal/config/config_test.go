package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"shapepad/internal/shape"
)

func TestLoadFromMissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(DefaultConfig(), cfg); d != "" {
		t.Error(d)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.Canvas.Background = "#102030"
	cfg.Drawing.Tool = "polygon"
	cfg.Drawing.Filled = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(cfg, got); d != "" {
		t.Error(d)
	}
	if got.Tool() != shape.Polygon {
		t.Errorf("Tool() = %s", got.Tool())
	}
	if bg := got.BackgroundColor(); bg != (color.NRGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Errorf("BackgroundColor() = %v", bg)
	}
}

func TestValidateRepairsBadValues(t *testing.T) {
	cfg := &Config{
		Canvas:  Canvas{Width: -1, Height: 10, Background: "not-a-color"},
		Drawing: Drawing{Tool: "spiral", LineWidth: 0},
		Storage: Storage{Directory: "../etc", Format: "GIF", Quality: 500, KeepDays: -2},
		Hotkeys: Hotkeys{
			Export: Hotkey{Modifiers: []string{"hyper"}, Key: "E"},
		},
		Log: Log{Level: "loud", MaxSizeMB: -3, MaxBackups: -1},
	}
	cfg.Validate()
	def := DefaultConfig()

	if cfg.Canvas.Width != def.Canvas.Width || cfg.Canvas.Height != def.Canvas.Height {
		t.Errorf("canvas size = %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Background != def.Canvas.Background {
		t.Errorf("background = %q", cfg.Canvas.Background)
	}
	if cfg.Drawing.Tool != "line" || cfg.Drawing.LineWidth != 1 {
		t.Errorf("drawing = %+v", cfg.Drawing)
	}
	if cfg.Storage.Format != "png" || cfg.Storage.Quality != 90 || cfg.Storage.Directory != def.Storage.Directory || cfg.Storage.KeepDays != 0 {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if d := cmp.Diff(Hotkey{Modifiers: []string{"alt"}, Key: "e"}, cfg.Hotkeys.Export); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(def.Hotkeys.Undo, cfg.Hotkeys.Undo); d != "" {
		t.Error(d)
	}
	if cfg.Log.Level != "info" || cfg.Log.MaxSizeMB != 10 || cfg.Log.MaxBackups != 3 {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestParseHotkey(t *testing.T) {
	h, ok := ParseHotkey("ctrl+alt+s")
	if !ok {
		t.Fatal("ParseHotkey failed")
	}
	if d := cmp.Diff(Hotkey{Modifiers: []string{"ctrl", "alt"}, Key: "s"}, h); d != "" {
		t.Error(d)
	}
	if h.String() != "ctrl+alt+s" {
		t.Errorf("String() = %q", h.String())
	}
	if _, ok := ParseHotkey(" + "); ok {
		t.Error("empty hotkey accepted")
	}
}

func TestSetExportHotkeySavesToPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	h := Hotkey{Modifiers: []string{"ctrl", "shift"}, Key: "e"}
	if err := cfg.SetExportHotkey(path, h); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(h, got.Hotkeys.Export); d != "" {
		t.Error(d)
	}
}
