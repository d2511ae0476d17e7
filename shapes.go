package fxcanvas

import (
	"math"

	"github.com/google/uuid"
)

// Minimum particle counts per generated shape.
const (
	MinCircleCount   = 3
	MinSquareCount   = 8
	MinTriangleCount = 3
	MinLineCount     = 2
	// MaxShapeCount caps a single generated shape.
	MaxShapeCount = 4096
	// minShapeRadius is the smallest creation radius in pixels.
	minShapeRadius = 1.0
)

// NormalizeCount applies the per-shape minimum to count. Square counts are
// rounded up to a multiple of 4 so the four edges stay balanced.
func NormalizeCount(shape ElementType, count int) int {
	switch shape {
	case ElementCircle:
		count = max(count, MinCircleCount)
	case ElementSquare:
		count = max(count, MinSquareCount)
		if r := count % 4; r != 0 {
			count += 4 - r
		}
	case ElementTriangle:
		count = max(count, MinTriangleCount)
	case ElementLine:
		count = max(count, MinLineCount)
	default:
		count = max(count, 1)
	}
	return min(count, MaxShapeCount)
}

// --- Unit outlines ---
//
// Offsets are unit-radius, centered on the origin and screen oriented
// (Y grows downward), so "up" is negative Y.

func circleOffsets(count int) []Vec2 {
	if count <= 0 {
		return nil
	}
	out := make([]Vec2, count)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(count)
		out[i] = Vec2{math.Cos(a), math.Sin(a)}
	}
	return out
}

var squareCorners = [4]Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// squareOffsets walks the perimeter edge by edge. Each edge emits its
// starting corner plus its interior points, so every corner appears exactly
// once and the total equals count. The remainder of count/4 goes to the
// first edges.
func squareOffsets(count int) []Vec2 {
	if count <= 0 {
		return nil
	}
	if count < 4 {
		return append([]Vec2(nil), squareCorners[:count]...)
	}
	out := make([]Vec2, 0, count)
	base, rem := count/4, count%4
	for k := 0; k < 4; k++ {
		n := base
		if k < rem {
			n++
		}
		a, b := squareCorners[k], squareCorners[(k+1)%4]
		for j := 0; j < n; j++ {
			t := float64(j) / float64(n)
			out = append(out, lerp(a, b, t))
		}
	}
	return out
}

// triangleCorners are the equilateral vertices on the unit circle with the
// apex pointing up.
var triangleCorners = func() [3]Vec2 {
	var c [3]Vec2
	for i, deg := range [3]float64{-90, 30, 150} {
		a := deg * math.Pi / 180
		c[i] = Vec2{math.Cos(a), math.Sin(a)}
	}
	return c
}()

// triangleOffsets places the three corners first, then spreads the
// remaining count-3 points across the edges (remainder to the first edges),
// never on a corner.
func triangleOffsets(count int) []Vec2 {
	if count <= 0 {
		return nil
	}
	if count <= 3 {
		return append([]Vec2(nil), triangleCorners[:count]...)
	}
	out := make([]Vec2, 0, count)
	out = append(out, triangleCorners[:]...)
	remaining := count - 3
	base, rem := remaining/3, remaining%3
	for k := 0; k < 3; k++ {
		n := base
		if k < rem {
			n++
		}
		a, b := triangleCorners[k], triangleCorners[(k+1)%3]
		for j := 1; j <= n; j++ {
			t := float64(j) / float64(n+1)
			out = append(out, lerp(a, b, t))
		}
	}
	return out
}

func lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

func shapeOffsets(shape ElementType, count int) []Vec2 {
	switch shape {
	case ElementCircle:
		return circleOffsets(count)
	case ElementSquare:
		return squareOffsets(count)
	case ElementTriangle:
		return triangleOffsets(count)
	default:
		return nil
	}
}

// --- Screen-space point sets ---

// CirclePoints returns count points evenly spaced by angle around center.
func CirclePoints(center Vec2, radius float64, count int) []Vec2 {
	return placeOffsets(circleOffsets(count), center, radius)
}

// SquarePoints returns count points on the perimeter of the square centered
// at center with half-side size.
func SquarePoints(center Vec2, size float64, count int) []Vec2 {
	return placeOffsets(squareOffsets(count), center, size)
}

// TrianglePoints returns count points on the perimeter of the apex-up
// equilateral triangle inscribed in the circle of radius around center.
func TrianglePoints(center Vec2, radius float64, count int) []Vec2 {
	return placeOffsets(triangleOffsets(count), center, radius)
}

// LinePoints returns count points linearly interpolated from start to end.
// A count of 1 yields start alone.
func LinePoints(start, end Vec2, count int) []Vec2 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []Vec2{start}
	}
	out := make([]Vec2, count)
	for i := range out {
		out[i] = lerp(start, end, float64(i)/float64(count-1))
	}
	return out
}

func placeOffsets(offsets []Vec2, center Vec2, radius float64) []Vec2 {
	for i := range offsets {
		offsets[i] = center.Add(offsets[i].Scale(radius))
	}
	return offsets
}

// --- Element generation ---

// ShapeGenerator turns drag gestures into grouped particle elements. Screen
// inputs are unprojected through View.
type ShapeGenerator struct {
	View *Viewport
	// Color is the particle color for new shapes.
	Color Color
	// DefaultYOffset is the secondary-axis value for shapes drawn in views
	// that do not show the secondary axis.
	DefaultYOffset float64
}

// depth returns the hidden-axis value for shapes created in the current view.
// Side and front views get Y from the drag itself and leave Z at zero.
func (g *ShapeGenerator) depth() float64 {
	if g.View.Mode.UsesSecondaryAxis() {
		return 0
	}
	return g.DefaultYOffset
}

func (g *ShapeGenerator) meta(shape ElementType, center Vec2, radius float64, count int) ShapeMeta {
	radius = math.Max(radius, minShapeRadius)
	return ShapeMeta{
		Shape:  shape,
		View:   g.View.Mode,
		Center: g.View.ScreenToPlane(center),
		Radius: radius / (pixelsPerUnit * g.View.Scale),
		Count:  count,
		Depth:  g.depth(),
	}
}

// CreateCircle generates count elements on a circle around the screen
// point center.
func (g *ShapeGenerator) CreateCircle(center Vec2, radius float64, count int) []Element {
	if !g.View.Ready() {
		return nil
	}
	return GenerateShape(g.meta(ElementCircle, center, radius, count), uuid.NewString(), g.Color)
}

// CreateSquare generates count elements on the perimeter of a square of
// half-side size around the screen point center.
func (g *ShapeGenerator) CreateSquare(center Vec2, size float64, count int) []Element {
	if !g.View.Ready() {
		return nil
	}
	return GenerateShape(g.meta(ElementSquare, center, size, count), uuid.NewString(), g.Color)
}

// CreateTriangle generates count elements on an apex-up equilateral
// triangle inscribed in a circle of radius around center.
func (g *ShapeGenerator) CreateTriangle(center Vec2, radius float64, count int) []Element {
	if !g.View.Ready() {
		return nil
	}
	return GenerateShape(g.meta(ElementTriangle, center, radius, count), uuid.NewString(), g.Color)
}

// CreateLine generates count elements from start to end (screen points).
func (g *ShapeGenerator) CreateLine(start, end Vec2, count int) []Element {
	if !g.View.Ready() {
		return nil
	}
	s := g.View.ScreenToPlane(start)
	e := g.View.ScreenToPlane(end)
	m := ShapeMeta{
		Shape:  ElementLine,
		View:   g.View.Mode,
		Center: lerp(s, e, 0.5),
		Radius: e.Sub(s).Len() / 2,
		Count:  count,
		Start:  s,
		End:    e,
		Depth:  g.depth(),
	}
	return GenerateShape(m, uuid.NewString(), g.Color)
}

// CreateFree creates a single freehand element at the screen point p.
func (g *ShapeGenerator) CreateFree(p Vec2) Element {
	return NewElement(g.View.ScreenToWorld(p, g.depth()), g.Color)
}

// GenerateShape lays out meta.Count elements for meta under groupID. It is
// the single path used for both creation and count regeneration, so a shape
// regenerated at a new count keeps its size, placement and rotation.
func GenerateShape(meta ShapeMeta, groupID string, c Color) []Element {
	var plane []Vec2
	if meta.Shape == ElementLine {
		plane = LinePoints(meta.Start, meta.End, meta.Count)
	} else {
		basis := viewBases[ViewTop]
		if int(meta.View) < len(viewBases) {
			basis = viewBases[meta.View]
		}
		inv := invertAffine(basis)
		offsets := shapeOffsets(meta.Shape, meta.Count)
		plane = make([]Vec2, len(offsets))
		for i, o := range offsets {
			o = o.Rotate(meta.Rotation)
			x, y := transformVector(inv, o.X, o.Y)
			plane[i] = meta.Center.Add(Vec2{x, y}.Scale(meta.Radius))
		}
	}

	out := make([]Element, len(plane))
	for i, q := range plane {
		m := meta
		e := Element{
			ID:       uuid.NewString(),
			Type:     meta.Shape,
			Position: meta.View.FromPlane(q, meta.Depth),
			Color:    c,
			GroupID:  groupID,
			Meta:     &m,
		}
		e.syncSecondary()
		out[i] = e
	}
	return out
}
