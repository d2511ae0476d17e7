package fxcanvas

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func hueOf(c Color) float64 {
	h, _, _ := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	return h
}

func TestColorCyclerOffKeepsColor(t *testing.T) {
	c := NewColorCycler(ColorCycleOff)
	c.update(1)
	base := MustParseColor("#ff8800")
	if got := c.Tint(3, base); got != base {
		t.Errorf("tint = %+v, want unchanged", got)
	}
	var nilCycler *ColorCycler
	if got := nilCycler.Tint(0, base); got != base {
		t.Error("nil cycler changed color")
	}
}

func TestColorCyclerRainbowSweeps(t *testing.T) {
	c := NewColorCycler(ColorCycleRainbow)
	red := MustParseColor("#ff0000")
	if h := hueOf(c.Tint(0, red)); !approxEqual(h, 0, 1e-6) {
		t.Fatalf("initial hue = %v", h)
	}
	c.update(1) // a quarter of the sweep
	if !approxEqual(c.Hue(), 90, 1e-3) {
		t.Fatalf("hue = %v, want 90", c.Hue())
	}
	tinted := c.Tint(0, red)
	if h := hueOf(tinted); !approxEqual(h, 90, 1e-3) {
		t.Errorf("tinted hue = %v, want 90", h)
	}
	if tinted.A != red.A {
		t.Error("alpha changed")
	}
	if c.Tint(0, red) != c.Tint(9, red) {
		t.Error("rainbow mode should not depend on element index")
	}
}

func TestColorCyclerChainOffsetsByIndex(t *testing.T) {
	c := NewColorCycler(ColorCycleChain)
	grey := Color{0.5, 0.5, 0.5, 1}
	h0 := hueOf(c.Tint(0, grey))
	h2 := hueOf(c.Tint(2, grey))
	if !approxEqual(h2-h0, 2*chainHueStep, 1e-3) {
		t.Errorf("chain hue step = %v, want %v", h2-h0, 2*chainHueStep)
	}
}

func TestColorCyclerWraps(t *testing.T) {
	c := NewColorCycler(ColorCycleRainbow)
	for range 5 {
		c.update(1)
	}
	// 5s into a 4s sweep: one full cycle plus a quarter, give or take the
	// frame that finished the first sweep.
	if c.Hue() < 0 || c.Hue() >= 360 {
		t.Errorf("hue = %v out of range", c.Hue())
	}
}

func TestEditorSetColorCycle(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.SetColorCycle(ColorCycleRainbow)
	if e.Config().ColorCycle != ColorCycleRainbow || e.ColorCycler().Mode() != ColorCycleRainbow {
		t.Error("color cycle not applied")
	}
	e.step(0.5)
	if e.ColorCycler().Hue() == 0 {
		t.Error("editor update did not advance the sweep")
	}
}
