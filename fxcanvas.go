package fxcanvas

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Vec2 is a 2D vector used for screen points, view-plane coordinates, sizes,
// and directions throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Angle returns atan2(v.Y, v.X).
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Rotate returns v rotated by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Vec3 is a world-space position. X and Z span the primary (ground) plane;
// Y is the secondary axis shown by the side and front views.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromPoints returns the rectangle spanned by two corner points given in
// any order.
func RectFromPoints(a, b Vec2) Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Inset grows the rectangle by pad on every side (shrinks for negative pad).
func (r Rect) Inset(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 && r.Height <= 0
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Colors marshal to and from "#rrggbb" (or "#rrggbbaa" when translucent) so
// they read naturally in settings files and exported sessions.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default particle color.
var ColorWhite = Color{1, 1, 1, 1}

// ParseColor parses a "#rgb" or "#rrggbb" hex string, optionally followed by
// a two-digit alpha ("#rrggbbaa").
func ParseColor(s string) (Color, error) {
	alpha := 1.0
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// MustParseColor is like ParseColor but panics on malformed input. Intended
// for package-level color literals.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the "#rrggbb" form of c, with an alpha suffix when A < 1.
func (c Color) Hex() string {
	h := colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
	if c.A < 1 {
		h += fmt.Sprintf("%02x", uint8(math.Round(clamp01(c.A)*255)))
	}
	return h
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RGBA converts c to a premultiplied color.RGBA for drawing.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ViewMode selects the projection of world space onto the canvas.
type ViewMode uint8

const (
	ViewTop       ViewMode = iota // world X -> screen X, world Z -> screen Y
	ViewSide                      // world X -> screen X, world Y -> screen Y (up)
	ViewDiagonal                  // X/Z plane rotated 45 degrees
	ViewIsometric                 // X/Z plane under the standard isometric matrix
	ViewFront                     // world Y -> screen X, world X -> screen Y (up)
)

var viewModeNames = [...]string{"top", "side", "diagonal", "isometric", "front"}

// String returns the lower-case view name.
func (m ViewMode) String() string {
	if int(m) < len(viewModeNames) {
		return viewModeNames[m]
	}
	return fmt.Sprintf("ViewMode(%d)", m)
}

// MarshalText implements encoding.TextMarshaler.
func (m ViewMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ViewMode) UnmarshalText(text []byte) error {
	v, err := ParseViewMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseViewMode converts a view name to a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	for i, n := range viewModeNames {
		if n == s {
			return ViewMode(i), nil
		}
	}
	return ViewTop, fmt.Errorf("unknown view mode %q", s)
}

// ElementType tags how an element was created. It does not affect geometry.
type ElementType uint8

const (
	ElementFree     ElementType = iota // placed one at a time
	ElementCircle                      // generated along a circle
	ElementSquare                      // generated along a square perimeter
	ElementTriangle                    // generated along a triangle perimeter
	ElementLine                        // generated along a line segment
)

var elementTypeNames = [...]string{"free", "circle", "square", "triangle", "line"}

// String returns the lower-case type name.
func (t ElementType) String() string {
	if int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	return fmt.Sprintf("ElementType(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t ElementType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ElementType) UnmarshalText(text []byte) error {
	for i, n := range elementTypeNames {
		if n == string(text) {
			*t = ElementType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown element type %q", text)
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Key identifies the editor keys the engine reacts to.
type Key uint8

const (
	KeyNone Key = iota
	KeyDelete
	KeyBackspace
	KeyEscape
	KeySelectAll // Ctrl+A
)
