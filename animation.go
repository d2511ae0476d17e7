package fxcanvas

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// colorCyclePeriod is the time in seconds for one full hue sweep.
	colorCyclePeriod = 4
	// chainHueStep is the hue offset in degrees between consecutive
	// elements in chain mode.
	chainHueStep = 12
)

// ColorCycler animates particle hue for display. It never changes stored
// element colors; Tint is applied at draw time only.
type ColorCycler struct {
	mode  ColorCycle
	sweep *gween.Tween
	hue   float64
}

// NewColorCycler creates a cycler in the given mode.
func NewColorCycler(mode ColorCycle) *ColorCycler {
	return &ColorCycler{
		mode:  mode,
		sweep: gween.New(0, 360, colorCyclePeriod, ease.Linear),
	}
}

// Mode returns the active cycle mode.
func (c *ColorCycler) Mode() ColorCycle { return c.mode }

// SetMode switches the cycle mode, restarting the sweep.
func (c *ColorCycler) SetMode(mode ColorCycle) {
	c.mode = mode
	c.sweep.Reset()
	c.hue = 0
}

// Hue returns the current sweep hue in degrees.
func (c *ColorCycler) Hue() float64 { return c.hue }

// update advances the sweep by dt seconds, wrapping at 360 degrees.
func (c *ColorCycler) update(dt float32) {
	if c.mode == ColorCycleOff {
		return
	}
	v, done := c.sweep.Update(dt)
	c.hue = math.Mod(float64(v), 360)
	if done {
		c.sweep.Reset()
	}
}

// Tint returns the display color for the element at index i whose stored
// color is base. Saturation, value and alpha of base are kept; only the hue
// moves.
func (c *ColorCycler) Tint(i int, base Color) Color {
	if c == nil || c.mode == ColorCycleOff {
		return base
	}
	h, s, v := colorful.Color{R: clamp01(base.R), G: clamp01(base.G), B: clamp01(base.B)}.Hsv()
	if s == 0 {
		// Greys have no hue to rotate; give them full saturation.
		s = 1
	}
	hue := c.hue
	if c.mode == ColorCycleChain {
		hue += float64(i) * chainHueStep
	} else {
		hue += h
	}
	out := colorful.Hsv(math.Mod(hue, 360), s, v)
	return Color{R: out.R, G: out.G, B: out.B, A: base.A}
}

// SetColorCycle switches the display color animation.
func (e *Editor) SetColorCycle(mode ColorCycle) {
	e.cfg.ColorCycle = mode
	e.colors.SetMode(mode)
}

// ColorCycler returns the editor's display color animation.
func (e *Editor) ColorCycler() *ColorCycler { return e.colors }
