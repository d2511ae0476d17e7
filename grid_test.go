package fxcanvas

import (
	"math/rand/v2"
	"testing"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		name    string
		p       Vec2
		pitch   float64
		scale   float64
		enabled bool
		want    Vec2
	}{
		{"disabled is identity", Vec2{13.7, 22.2}, 10, 1, false, Vec2{13.7, 22.2}},
		{"rounds down", Vec2{14, 24}, 10, 1, true, Vec2{10, 20}},
		{"rounds up", Vec2{16, 26}, 10, 1, true, Vec2{20, 30}},
		{"scaled pitch", Vec2{31, 49}, 10, 2, true, Vec2{40, 40}},
		{"negative coords", Vec2{-14, -16}, 10, 1, true, Vec2{-10, -20}},
		{"zero pitch", Vec2{3, 4}, 0, 1, true, Vec2{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snap(tt.p, tt.pitch, tt.scale, tt.enabled)
			if !approxEqual(got.X, tt.want.X, epsilon) || !approxEqual(got.Y, tt.want.Y, epsilon) {
				t.Errorf("Snap(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestSnapIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 1000; i++ {
		p := Vec2{rng.Float64()*4000 - 2000, rng.Float64()*4000 - 2000}
		pitch := 1 + rng.Float64()*40
		scale := 0.1 + rng.Float64()*4
		once := Snap(p, pitch, scale, true)
		twice := Snap(once, pitch, scale, true)
		if !approxEqual(once.X, twice.X, epsilon) || !approxEqual(once.Y, twice.Y, epsilon) {
			t.Fatalf("Snap not idempotent for %v (pitch %v scale %v): %v vs %v", p, pitch, scale, once, twice)
		}
		if off := Snap(p, pitch, scale, false); off != p {
			t.Fatalf("disabled Snap changed %v to %v", p, off)
		}
	}
}

func TestGridLines(t *testing.T) {
	v := NewViewport(100, 50)
	xs, ys := gridLines(v, 20)
	if len(xs) != 6 || len(ys) != 3 {
		t.Errorf("gridLines = %d x %d lines, want 6 x 3", len(xs), len(ys))
	}
	v.Scale = 0.05
	if xs, _ := gridLines(v, 20); xs != nil {
		t.Error("expected no grid lines when pitch collapses below 2px")
	}
}
