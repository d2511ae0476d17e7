package fxcanvas

import (
	"math"
	"testing"
)

func newTestGenerator(mode ViewMode, scale float64) *ShapeGenerator {
	v := NewViewport(800, 600)
	v.Mode = mode
	v.Scale = scale
	return &ShapeGenerator{View: v, Color: ColorWhite, DefaultYOffset: 1.5}
}

func spans(elems []Element) (dx, dy, dz float64) {
	minP := Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	maxP := Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, e := range elems {
		p := e.Position
		minP = Vec3{math.Min(minP.X, p.X), math.Min(minP.Y, p.Y), math.Min(minP.Z, p.Z)}
		maxP = Vec3{math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y), math.Max(maxP.Z, p.Z)}
	}
	return maxP.X - minP.X, maxP.Y - minP.Y, maxP.Z - minP.Z
}

func assertOneGroup(t *testing.T, elems []Element) {
	t.Helper()
	if len(elems) == 0 {
		t.Fatal("no elements")
	}
	g := elems[0].GroupID
	if g == "" {
		t.Fatal("empty group id")
	}
	ids := make(map[string]bool)
	for _, e := range elems {
		if e.GroupID != g {
			t.Fatalf("element %s in group %q, want %q", e.ID, e.GroupID, g)
		}
		if ids[e.ID] {
			t.Fatalf("duplicate element id %s", e.ID)
		}
		ids[e.ID] = true
		if e.Meta == nil {
			t.Fatalf("element %s has no meta", e.ID)
		}
	}
}

func TestNormalizeCount(t *testing.T) {
	tests := []struct {
		shape ElementType
		in    int
		want  int
	}{
		{ElementCircle, 1, 3},
		{ElementCircle, 12, 12},
		{ElementSquare, 3, 8},
		{ElementSquare, 9, 12},
		{ElementSquare, 16, 16},
		{ElementTriangle, 0, 3},
		{ElementLine, 1, 2},
		{ElementFree, 0, 1},
		{ElementCircle, 1 << 20, MaxShapeCount},
	}
	for _, tt := range tests {
		if got := NormalizeCount(tt.shape, tt.in); got != tt.want {
			t.Errorf("NormalizeCount(%v, %d) = %d, want %d", tt.shape, tt.in, got, tt.want)
		}
	}
}

func TestCirclePoints(t *testing.T) {
	center := Vec2{120, -40}
	pts := CirclePoints(center, 35, 12)
	if len(pts) != 12 {
		t.Fatalf("len = %d, want 12", len(pts))
	}
	for i, p := range pts {
		if d := p.Sub(center).Len(); !approxEqual(d, 35, epsilon) {
			t.Errorf("point %d at distance %v, want 35", i, d)
		}
	}
	// First point sits at angle 0.
	if !approxEqual(pts[0].X, 155, epsilon) || !approxEqual(pts[0].Y, -40, epsilon) {
		t.Errorf("pts[0] = %v", pts[0])
	}
}

func TestSquarePointsCountsAndSpans(t *testing.T) {
	for _, count := range []int{4, 8, 9, 10, 11, 12, 30} {
		pts := SquarePoints(Vec2{0, 0}, 10, count)
		if len(pts) != count {
			t.Errorf("count %d: got %d points", count, len(pts))
			continue
		}
		minX, maxX, minY, maxY := math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
		seen := make(map[Vec2]bool)
		for _, p := range pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			if seen[p] {
				t.Errorf("count %d: duplicate point %v", count, p)
			}
			seen[p] = true
			onEdge := approxEqual(math.Abs(p.X), 10, epsilon) || approxEqual(math.Abs(p.Y), 10, epsilon)
			if !onEdge {
				t.Errorf("count %d: point %v not on perimeter", count, p)
			}
		}
		if !approxEqual(maxX-minX, 20, epsilon) || !approxEqual(maxY-minY, 20, epsilon) {
			t.Errorf("count %d: spans %v x %v, want 20 x 20", count, maxX-minX, maxY-minY)
		}
	}
}

func TestTrianglePoints(t *testing.T) {
	pts := TrianglePoints(Vec2{0, 0}, 10, 10)
	if len(pts) != 10 {
		t.Fatalf("len = %d, want 10", len(pts))
	}
	// Apex first, pointing up (negative screen Y).
	if !approxEqual(pts[0].X, 0, epsilon) || !approxEqual(pts[0].Y, -10, epsilon) {
		t.Errorf("apex = %v, want (0,-10)", pts[0])
	}
	// No edge point may coincide with a corner.
	for _, p := range pts[3:] {
		for _, c := range pts[:3] {
			if p.Sub(c).Len() < 1e-9 {
				t.Errorf("edge point %v coincides with corner %v", p, c)
			}
		}
	}
	// 7 remaining points: 3, 2, 2 across the edges.
	side := pts[1].Sub(pts[0]).Len()
	if !approxEqual(side, 10*math.Sqrt(3), epsilon) {
		t.Errorf("side length = %v", side)
	}
}

func TestTrianglePointsSmallCounts(t *testing.T) {
	if got := TrianglePoints(Vec2{}, 5, 3); len(got) != 3 {
		t.Errorf("count 3 -> %d points", len(got))
	}
	if got := TrianglePoints(Vec2{}, 5, 0); got != nil {
		t.Errorf("count 0 -> %v", got)
	}
}

func TestLinePoints(t *testing.T) {
	start, end := Vec2{0, 0}, Vec2{40, 20}
	pts := LinePoints(start, end, 5)
	if len(pts) != 5 {
		t.Fatalf("len = %d, want 5", len(pts))
	}
	if pts[0] != start || pts[4] != end {
		t.Errorf("endpoints = %v, %v", pts[0], pts[4])
	}
	for i, p := range pts {
		// Collinear: cross product with the direction is zero.
		cross := (end.X-start.X)*(p.Y-start.Y) - (end.Y-start.Y)*(p.X-start.X)
		if !approxEqual(cross, 0, epsilon) {
			t.Errorf("point %d %v off the line", i, p)
		}
	}
	if one := LinePoints(start, end, 1); len(one) != 1 || one[0] != start {
		t.Errorf("count 1 -> %v, want [start]", one)
	}
}

func TestCreateCircle(t *testing.T) {
	g := newTestGenerator(ViewTop, 1)
	center := Vec2{300, 200}
	elems := g.CreateCircle(center, 50, 12)
	if len(elems) != 12 {
		t.Fatalf("len = %d, want 12", len(elems))
	}
	assertOneGroup(t, elems)
	for _, e := range elems {
		s := g.View.WorldToScreen(e.Position)
		if d := s.Sub(center).Len(); !approxEqual(d, 50, epsilon) {
			t.Errorf("screen distance %v, want 50", d)
		}
		if e.Type != ElementCircle {
			t.Errorf("type = %v", e.Type)
		}
		if e.Position.Y != 1.5 || e.YOffset != 1.5 {
			t.Errorf("top view shape should take default Y offset, got %v / %v", e.Position.Y, e.YOffset)
		}
	}
	if elems[0].Meta.Count != 12 || !approxEqual(elems[0].Meta.Radius, 5, epsilon) {
		t.Errorf("meta = %+v", *elems[0].Meta)
	}
}

func TestCreateSquareWorldSpans(t *testing.T) {
	// Scale 0.1 makes one pixel one world unit.
	g := newTestGenerator(ViewTop, 0.1)
	elems := g.CreateSquare(Vec2{400, 300}, 25, 8)
	if len(elems) != 8 {
		t.Fatalf("len = %d, want 8", len(elems))
	}
	assertOneGroup(t, elems)
	dx, _, dz := spans(elems)
	if !approxEqual(dx, 50, epsilon) || !approxEqual(dz, 50, epsilon) {
		t.Errorf("spans = %v x %v, want 50 x 50", dx, dz)
	}
}

func TestCreateLineEndpoints(t *testing.T) {
	g := newTestGenerator(ViewTop, 1)
	start, end := Vec2{100, 100}, Vec2{300, 150}
	elems := g.CreateLine(start, end, 5)
	if len(elems) != 5 {
		t.Fatalf("len = %d, want 5", len(elems))
	}
	first := g.View.WorldToScreen(elems[0].Position)
	last := g.View.WorldToScreen(elems[4].Position)
	if first.Sub(start).Len() > epsilon || last.Sub(end).Len() > epsilon {
		t.Errorf("endpoints %v %v, want %v %v", first, last, start, end)
	}
}

func TestCreateInSideViewUsesSecondaryAxis(t *testing.T) {
	g := newTestGenerator(ViewSide, 1)
	elems := g.CreateTriangle(Vec2{400, 300}, 30, 3)
	apex := elems[0]
	// Apex is above the center: positive world Y.
	if !approxEqual(apex.Position.Y, 3, epsilon) || apex.YOffset != apex.Position.Y {
		t.Errorf("apex position %+v yOffset %v", apex.Position, apex.YOffset)
	}
	if apex.Position.Z != 0 {
		t.Errorf("side view shape Z = %v, want 0", apex.Position.Z)
	}
}

func TestCreateClampsRadius(t *testing.T) {
	g := newTestGenerator(ViewTop, 1)
	elems := g.CreateCircle(Vec2{400, 300}, 0, 4)
	if !approxEqual(elems[0].Meta.Radius, 0.1, epsilon) {
		t.Errorf("radius = %v, want minimum 1px (0.1 world)", elems[0].Meta.Radius)
	}
}

func TestCreateOnUnreadyViewport(t *testing.T) {
	g := newTestGenerator(ViewTop, 1)
	g.View.Width = 0
	if got := g.CreateCircle(Vec2{}, 10, 5); got != nil {
		t.Errorf("expected no elements, got %d", len(got))
	}
}

func TestGenerateShapeRegenerateKeepsSize(t *testing.T) {
	g := newTestGenerator(ViewTop, 1)
	elems := g.CreateCircle(Vec2{250, 250}, 40, 6)
	meta := *elems[0].Meta
	meta.Count = 24
	regen := GenerateShape(meta, elems[0].GroupID, elems[0].Color)
	if len(regen) != 24 {
		t.Fatalf("len = %d, want 24", len(regen))
	}
	for _, e := range regen {
		s := g.View.WorldToScreen(e.Position)
		if d := s.Sub(Vec2{250, 250}).Len(); !approxEqual(d, 40, 1e-6) {
			t.Fatalf("regenerated point at %v px, want 40", d)
		}
		if e.GroupID != elems[0].GroupID {
			t.Fatalf("group changed")
		}
	}
}
