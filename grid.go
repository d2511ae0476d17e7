package fxcanvas

import "math"

// Snap rounds each screen coordinate of p to the nearest multiple of
// gridPitch*scale. It returns p unchanged when enabled is false or the
// effective pitch is not positive.
func Snap(p Vec2, gridPitch, scale float64, enabled bool) Vec2 {
	step := gridPitch * scale
	if !enabled || step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return p
	}
	return Vec2{
		X: math.Round(p.X/step) * step,
		Y: math.Round(p.Y/step) * step,
	}
}

// gridLines returns the screen positions of vertical (xs) and horizontal (ys)
// grid lines covering the viewport. Lines sit on the same multiples of
// gridPitch*scale that Snap rounds to.
func gridLines(v *Viewport, gridPitch float64) (xs, ys []float64) {
	step := gridPitch * v.Scale
	if !v.Ready() || step < 2 {
		return nil, nil
	}
	for x := 0.0; x <= v.Width; x += step {
		xs = append(xs, x)
	}
	for y := 0.0; y <= v.Height; y += step {
		ys = append(ys, y)
	}
	return xs, ys
}
