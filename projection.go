package fxcanvas

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// pixelsPerUnit is the number of screen pixels one world unit spans at Scale 1.
const pixelsPerUnit = 10.0

// isoAngle is the standard isometric axis angle (30 degrees).
const isoAngle = math.Pi / 6

// viewBases holds the linear map from view-plane coordinates to unscaled
// screen directions for each ViewMode.
var viewBases = func() [5][6]float64 {
	var b [5][6]float64
	b[ViewTop] = identityTransform
	// Screen Y grows downward; world up must point up.
	b[ViewSide] = [6]float64{1, 0, 0, -1, 0, 0}
	b[ViewDiagonal] = rotationMatrix(math.Pi / 4)
	cos, sin := math.Cos(isoAngle), math.Sin(isoAngle)
	// x' = (u - v)cos30, y' = (u + v)sin30
	b[ViewIsometric] = [6]float64{cos, sin, -cos, sin, 0, 0}
	b[ViewFront] = [6]float64{1, 0, 0, -1, 0, 0}
	return b
}()

// Plane returns the two world coordinates mode draws on screen, in
// (horizontal, vertical) order.
func (m ViewMode) Plane(p Vec3) Vec2 {
	switch m {
	case ViewSide:
		return Vec2{p.X, p.Y}
	case ViewFront:
		return Vec2{p.Y, p.X}
	default:
		return Vec2{p.X, p.Z}
	}
}

// WithPlane returns p with the two coordinates shown by mode replaced by q.
// The hidden axis is left untouched.
func (m ViewMode) WithPlane(p Vec3, q Vec2) Vec3 {
	switch m {
	case ViewSide:
		p.X, p.Y = q.X, q.Y
	case ViewFront:
		p.Y, p.X = q.X, q.Y
	default:
		p.X, p.Z = q.X, q.Y
	}
	return p
}

// Depth returns the world coordinate mode does not show.
func (m ViewMode) Depth(p Vec3) float64 {
	switch m {
	case ViewSide, ViewFront:
		return p.Z
	default:
		return p.Y
	}
}

// FromPlane builds a world position from view-plane coordinates and the
// hidden-axis depth.
func (m ViewMode) FromPlane(q Vec2, depth float64) Vec3 {
	var p Vec3
	switch m {
	case ViewSide, ViewFront:
		p.Z = depth
	default:
		p.Y = depth
	}
	return m.WithPlane(p, q)
}

// UsesSecondaryAxis reports whether mode projects world Y onto the screen.
func (m ViewMode) UsesSecondaryAxis() bool {
	return m == ViewSide || m == ViewFront
}

// viewAnim holds active zoom and pan tweens.
type viewAnim struct {
	scale   *gween.Tween
	offX    *gween.Tween
	offY    *gween.Tween
	doneS   bool
	doneX   bool
	doneY   bool
	hasZoom bool
	hasPan  bool
}

// Viewport maps between world coordinates and canvas pixels for the active
// view mode, zoom scale and pan offset.
type Viewport struct {
	// Width and Height are the canvas size in pixels.
	Width, Height float64
	// Scale is the zoom factor; one world unit spans 10*Scale pixels.
	Scale float64
	// Offset is the pan offset in pixels from the canvas center.
	Offset Vec2
	// Mode is the active projection.
	Mode ViewMode

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	cacheKey      viewportKey
	cached        bool

	anim *viewAnim
}

type viewportKey struct {
	w, h, scale float64
	off         Vec2
	mode        ViewMode
}

// NewViewport creates a viewport of the given canvas size at Scale 1.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height, Scale: 1}
}

// Ready reports whether the canvas has a usable size and scale. Coordinate
// consumers no-op while this is false (during initial layout).
func (v *Viewport) Ready() bool {
	return v.Width > 0 && v.Height > 0 && v.Scale > 0
}

// computeViewMatrix recomputes the cached view matrix when any parameter
// changed since the last call.
//
// viewMatrix = Translate(W/2 + offX, H/2 + offY) * Scale(10*scale) * Basis(mode)
func (v *Viewport) computeViewMatrix() [6]float64 {
	key := viewportKey{v.Width, v.Height, v.Scale, v.Offset, v.Mode}
	if v.cached && key == v.cacheKey {
		return v.viewMatrix
	}
	v.cacheKey = key
	v.cached = true

	basis := identityTransform
	if int(v.Mode) < len(viewBases) {
		basis = viewBases[v.Mode]
	}
	k := pixelsPerUnit * v.Scale
	m := multiplyAffine(scaleMatrix(k), basis)
	m[4] = v.Width/2 + v.Offset.X
	m[5] = v.Height/2 + v.Offset.Y

	v.viewMatrix = m
	v.invViewMatrix = invertAffine(m)
	return v.viewMatrix
}

// PlaneToScreen converts view-plane coordinates to canvas pixels.
func (v *Viewport) PlaneToScreen(q Vec2) Vec2 {
	m := v.computeViewMatrix()
	x, y := transformPoint(m, q.X, q.Y)
	return Vec2{x, y}
}

// ScreenToPlane converts canvas pixels to view-plane coordinates.
func (v *Viewport) ScreenToPlane(s Vec2) Vec2 {
	v.computeViewMatrix()
	x, y := transformPoint(v.invViewMatrix, s.X, s.Y)
	return Vec2{x, y}
}

// ScreenDeltaToPlane converts a pixel displacement to a view-plane
// displacement, ignoring pan.
func (v *Viewport) ScreenDeltaToPlane(d Vec2) Vec2 {
	v.computeViewMatrix()
	x, y := transformVector(v.invViewMatrix, d.X, d.Y)
	return Vec2{x, y}
}

// WorldToScreen projects a world position onto the canvas.
func (v *Viewport) WorldToScreen(p Vec3) Vec2 {
	return v.PlaneToScreen(v.Mode.Plane(p))
}

// ScreenToWorld unprojects a canvas point. The axis the view does not show is
// taken from depth.
func (v *Viewport) ScreenToWorld(s Vec2, depth float64) Vec3 {
	return v.Mode.FromPlane(v.ScreenToPlane(s), depth)
}

// planeLinear returns the linear screen map for the current view, used to
// express gestures measured in pixels as view-plane operations.
func (v *Viewport) planeLinear() [6]float64 {
	return linearPart(v.computeViewMatrix())
}

// VisibleBounds returns the canvas rectangle in pixels.
func (v *Viewport) VisibleBounds() Rect {
	return Rect{Width: v.Width, Height: v.Height}
}

// SetScale sets the zoom factor clamped to [lo, hi].
func (v *Viewport) SetScale(scale, lo, hi float64) {
	v.Scale = clamp(scale, lo, hi)
}

// ZoomAt multiplies the scale by factor (clamped to [lo, hi]) while keeping
// the world point under anchor stationary on screen.
func (v *Viewport) ZoomAt(factor float64, anchor Vec2, lo, hi float64) {
	if !v.Ready() || factor <= 0 {
		return
	}
	before := v.ScreenToPlane(anchor)
	v.SetScale(v.Scale*factor, lo, hi)
	after := v.PlaneToScreen(before)
	v.Offset = v.Offset.Add(anchor.Sub(after))
}

// Pan shifts the view by a pixel displacement.
func (v *Viewport) Pan(d Vec2) {
	v.Offset = v.Offset.Add(d)
}

// ZoomTo animates the scale to target over duration seconds.
func (v *Viewport) ZoomTo(target float64, duration float32, easeFn ease.TweenFunc) {
	if v.anim == nil {
		v.anim = &viewAnim{}
	}
	v.anim.scale = gween.New(float32(v.Scale), float32(target), duration, easeFn)
	v.anim.doneS = false
	v.anim.hasZoom = true
}

// PanTo animates the pan offset to target over duration seconds.
func (v *Viewport) PanTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	if v.anim == nil {
		v.anim = &viewAnim{}
	}
	v.anim.offX = gween.New(float32(v.Offset.X), float32(target.X), duration, easeFn)
	v.anim.offY = gween.New(float32(v.Offset.Y), float32(target.Y), duration, easeFn)
	v.anim.doneX, v.anim.doneY = false, false
	v.anim.hasPan = true
}

// Animating reports whether a zoom or pan tween is in progress.
func (v *Viewport) Animating() bool {
	return v.anim != nil
}

// update advances zoom/pan animations. Called from Editor.Update.
func (v *Viewport) update(dt float32) {
	a := v.anim
	if a == nil {
		return
	}
	if a.hasZoom && !a.doneS {
		val, done := a.scale.Update(dt)
		if val > 0 {
			v.Scale = float64(val)
		}
		a.doneS = done
	}
	if a.hasPan {
		if !a.doneX {
			val, done := a.offX.Update(dt)
			v.Offset.X = float64(val)
			a.doneX = done
		}
		if !a.doneY {
			val, done := a.offY.Update(dt)
			v.Offset.Y = float64(val)
			a.doneY = done
		}
	}
	zoomDone := !a.hasZoom || a.doneS
	panDone := !a.hasPan || (a.doneX && a.doneY)
	if zoomDone && panDone {
		v.anim = nil
	}
}
