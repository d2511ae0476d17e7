package fxcanvas

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if !c.ViewModeEnabled(ViewTop) || !c.ViewModeEnabled(ViewSide) {
		t.Error("top and side must be enabled by default")
	}
	for _, m := range []ViewMode{ViewDiagonal, ViewIsometric, ViewFront} {
		if c.ViewModeEnabled(m) {
			t.Errorf("%v enabled by default", m)
		}
	}
	rc := c.RecorderConfig()
	if rc.TickDuration != 50*time.Millisecond || rc.ThrottleInterval != 16*time.Millisecond || rc.IdleQuiet != 300*time.Millisecond {
		t.Errorf("recorder config = %+v", rc)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fxcanvas.toml")
	data := `
grid_pitch = 32.0
default_color = "#ff8800"
default_count = 24
mirror_mode = true
view_mode = "isometric"
color_cycle = "rainbow"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.GridPitch != 32 || c.DefaultCount != 24 || !c.MirrorMode {
		t.Errorf("config = %+v", c)
	}
	if c.DefaultColor.Hex() != "#ff8800" {
		t.Errorf("default color = %s", c.DefaultColor.Hex())
	}
	if c.ViewMode != ViewIsometric || !c.ViewModeEnabled(ViewIsometric) {
		t.Errorf("view mode %v not active and enabled", c.ViewMode)
	}
	if c.ColorCycle != ColorCycleRainbow {
		t.Errorf("color cycle = %q", c.ColorCycle)
	}
	// Untouched keys keep their defaults.
	if c.TickMillis != 50 || !c.SnapEnabled {
		t.Errorf("defaults lost: tick=%d snap=%v", c.TickMillis, c.SnapEnabled)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file did not error")
	}
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte(`view_mode = "upside-down"`), 0o644)
	if _, err := LoadConfig(path); err == nil {
		t.Error("unknown view mode did not error")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FXCANVAS_GRID_PITCH", "8")
	t.Setenv("FXCANVAS_SNAP", "false")
	t.Setenv("FXCANVAS_DEFAULT_COLOR", "#00ff00")
	t.Setenv("FXCANVAS_VIEW_MODES", "top, front")
	t.Setenv("FXCANVAS_DEFAULT_COUNT", "not-a-number")

	c, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.GridPitch != 8 || c.SnapEnabled {
		t.Errorf("grid=%v snap=%v", c.GridPitch, c.SnapEnabled)
	}
	if c.DefaultColor.Hex() != "#00ff00" {
		t.Errorf("color = %s", c.DefaultColor.Hex())
	}
	if !c.ViewModeEnabled(ViewFront) || c.ViewModeEnabled(ViewSide) {
		t.Errorf("enabled = %v", c.EnabledViewModes)
	}
	if c.DefaultCount != 12 {
		t.Errorf("unparsable int should keep default, got %d", c.DefaultCount)
	}
}

func TestLoadConfigBadEnvColor(t *testing.T) {
	t.Setenv("FXCANVAS_DEFAULT_COLOR", "chartreuse")
	if _, err := LoadConfig(""); err == nil {
		t.Error("bad color did not error")
	}
}

func TestConfigValidate(t *testing.T) {
	c := Config{
		GridPitch:        -1,
		MinZoom:          2,
		MaxZoom:          1,
		ViewMode:         ViewFront,
		EnabledViewModes: []ViewMode{ViewTop, ViewMode(42)},
		ColorCycle:       "strobe",
	}
	c.Validate()
	if c.GridPitch != 20 || c.DefaultCount != 1 || c.MaxZoom != 2 {
		t.Errorf("validated = %+v", c)
	}
	if !c.ViewModeEnabled(ViewFront) || c.ViewModeEnabled(ViewMode(42)) {
		t.Errorf("enabled = %v", c.EnabledViewModes)
	}
	if c.ColorCycle != ColorCycleOff {
		t.Errorf("color cycle = %q", c.ColorCycle)
	}
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	c := DefaultConfig()
	c.ViewMode = ViewSide
	data, err := c.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.toml")
	os.WriteFile(path, data, 0o644)
	back, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v\n%s", err, data)
	}
	if back.ViewMode != ViewSide || back.DefaultColor != c.DefaultColor {
		t.Errorf("reloaded = %+v", back)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		c := Config{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
