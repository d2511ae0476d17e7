package fxcanvas

import (
	"slices"
	"time"
)

// Scale factor limits for scale and combined rotate+scale gestures.
const (
	MinScaleFactor = 0.1
	MaxScaleFactor = 5.0
)

// rotateScaleModifier turns a rotate gesture into combined rotate+scale.
const rotateScaleModifier = ModShift

// TransformState is the transform engine's current gesture.
type TransformState uint8

const (
	TransformIdle TransformState = iota
	TransformDragging
	TransformRotating
	TransformScaling
)

var transformStateNames = [...]string{"idle", "dragging", "rotating", "scaling"}

func (s TransformState) String() string {
	if int(s) < len(transformStateNames) {
		return transformStateNames[s]
	}
	return "unknown"
}

// TransformSession is the state of one in-progress gesture. Rotate and scale
// are always recomputed from the pre-transform snapshot; drag integrates
// incrementally from Anchor.
type TransformSession struct {
	Kind      TransformState
	StartedAt time.Time
	LayerID   string
	// Mode is the view the gesture was started in.
	Mode ViewMode
	// PointerStart is the grab point in view-plane coordinates.
	PointerStart Vec2
	// Anchor is the last integrated pointer position in screen pixels (drag).
	Anchor Vec2
	// Center is the selection box center in view-plane coordinates.
	Center Vec2
	// Snapshot holds every selected element's position at grab time.
	Snapshot map[string]Vec3
	// IDs lists the selected element ids in selection order.
	IDs []string

	// TotalDelta is the accumulated world translation of a drag.
	TotalDelta Vec3
	// Angle and Scale are the latest rotate/scale values relative to the
	// snapshot. Scale is 1 when no scaling applies.
	Angle float64
	Scale float64

	metas map[string]ShapeMeta // group id -> meta at grab time
	// split holds groups only partly selected. Their members lose their
	// meta on the first update so one group never carries two shapes.
	split map[string]bool
}

// TransformStep describes what one Update applied.
type TransformStep struct {
	Kind     TransformState
	Delta    Vec3 // world delta of this frame (drag)
	Angle    float64
	Scale    float64
	Center   Vec2 // pivot in view-plane coordinates
	Combined bool // rotate with scale modifier held
}

// TransformEngine is the Idle/Dragging/Rotating/Scaling state machine that
// applies pointer gestures to a selection. It never mutates its input; every
// Update returns a full replacement element array.
type TransformEngine struct {
	state   TransformState
	session *TransformSession
	now     func() time.Time
}

// NewTransformEngine creates an idle engine. A nil clock uses SystemClock.
func NewTransformEngine(clock Clock) *TransformEngine {
	if clock == nil {
		clock = SystemClock
	}
	return &TransformEngine{now: clock.Now}
}

// State returns the active gesture.
func (t *TransformEngine) State() TransformState { return t.state }

// Active reports whether a gesture is in progress.
func (t *TransformEngine) Active() bool { return t.state != TransformIdle }

// Session returns the in-progress session, or nil when idle.
func (t *TransformEngine) Session() *TransformSession { return t.session }

// BeginDrag starts translating the selection from the screen point pointer.
// It is a no-op returning false when nothing selected is present in elems.
func (t *TransformEngine) BeginDrag(elems []Element, sel *Selection, v *Viewport, pointer Vec2) bool {
	return t.begin(TransformDragging, elems, sel, v, pointer)
}

// BeginRotate starts rotating the selection about its box center.
func (t *TransformEngine) BeginRotate(elems []Element, sel *Selection, v *Viewport, pointer Vec2) bool {
	return t.begin(TransformRotating, elems, sel, v, pointer)
}

// BeginScale starts uniformly scaling the selection about its box center.
func (t *TransformEngine) BeginScale(elems []Element, sel *Selection, v *Viewport, pointer Vec2) bool {
	return t.begin(TransformScaling, elems, sel, v, pointer)
}

func (t *TransformEngine) begin(kind TransformState, elems []Element, sel *Selection, v *Viewport, pointer Vec2) bool {
	if t.Active() || sel.Empty() || !v.Ready() {
		return false
	}
	bounds, ok := SelectionBounds(elems, sel, v, 0)
	if !ok {
		return false
	}
	s := &TransformSession{
		Kind:         kind,
		StartedAt:    t.now(),
		LayerID:      sel.LayerID(),
		Mode:         v.Mode,
		PointerStart: v.ScreenToPlane(pointer),
		Anchor:       pointer,
		Center:       v.ScreenToPlane(bounds.Center()),
		Snapshot:     make(map[string]Vec3, sel.Len()),
		Scale:        1,
		metas:        make(map[string]ShapeMeta),
	}
	inGroup := make(map[string]bool)
	outGroup := make(map[string]bool)
	for i := range elems {
		e := &elems[i]
		if e.GroupID != "" {
			if sel.Has(e.ID) {
				inGroup[e.GroupID] = true
			} else {
				outGroup[e.GroupID] = true
			}
		}
		if !sel.Has(e.ID) {
			continue
		}
		s.Snapshot[e.ID] = e.Position
		s.IDs = append(s.IDs, e.ID)
		if e.Meta != nil && e.GroupID != "" {
			if _, seen := s.metas[e.GroupID]; !seen {
				s.metas[e.GroupID] = *e.Meta
			}
		}
	}
	for g := range inGroup {
		if outGroup[g] {
			if s.split == nil {
				s.split = make(map[string]bool)
			}
			s.split[g] = true
			delete(s.metas, g)
		}
	}
	t.state = kind
	t.session = s
	return true
}

// Update applies the pointer position (screen pixels) to the active gesture
// and returns the replacement element array. It returns false when idle.
func (t *TransformEngine) Update(elems []Element, v *Viewport, pointer Vec2, mods KeyModifiers) ([]Element, TransformStep, bool) {
	s := t.session
	if s == nil || !v.Ready() {
		return nil, TransformStep{}, false
	}
	switch t.state {
	case TransformDragging:
		return t.updateDrag(elems, v, pointer)
	case TransformRotating, TransformScaling:
		return t.updatePivot(elems, v, pointer, mods)
	}
	return nil, TransformStep{}, false
}

// updateDrag moves the selection by the pointer displacement since the last
// frame, then re-anchors. Integrating per frame keeps the drag under the
// pointer when the scale changes mid-gesture.
func (t *TransformEngine) updateDrag(elems []Element, v *Viewport, pointer Vec2) ([]Element, TransformStep, bool) {
	s := t.session
	dq := v.ScreenDeltaToPlane(pointer.Sub(s.Anchor))
	s.Anchor = pointer
	delta := v.Mode.WithPlane(Vec3{}, dq)
	s.TotalDelta = s.TotalDelta.Add(delta)

	out := slices.Clone(elems)
	moved := make(map[string]*ShapeMeta)
	for i := range out {
		e := &out[i]
		if s.split[e.GroupID] {
			e.Meta = nil
		}
		if _, ok := s.Snapshot[e.ID]; !ok {
			continue
		}
		e.Position = e.Position.Add(delta)
		e.syncSecondary()
		if e.Meta != nil {
			e.Meta = translatedMeta(e, delta, moved)
		}
	}
	return out, TransformStep{Kind: TransformDragging, Delta: delta, Center: s.Center, Scale: 1}, true
}

// translatedMeta shifts a shape's construction center by a world delta. All
// elements of one group share the returned meta.
func translatedMeta(e *Element, delta Vec3, moved map[string]*ShapeMeta) *ShapeMeta {
	if m, ok := moved[e.GroupID]; ok && e.GroupID != "" {
		return m
	}
	m := *e.Meta
	shift := m.View.Plane(delta)
	m.Center = m.Center.Add(shift)
	m.Start = m.Start.Add(shift)
	m.End = m.End.Add(shift)
	m.Depth += m.View.Depth(delta)
	if e.GroupID != "" {
		moved[e.GroupID] = &m
	}
	return &m
}

// updatePivot rotates and/or scales the snapshot about the selection center.
// The gesture is measured in screen space and conjugated into the view plane
// so rotation looks the same in every projection.
func (t *TransformEngine) updatePivot(elems []Element, v *Viewport, pointer Vec2, mods KeyModifiers) ([]Element, TransformStep, bool) {
	s := t.session
	pivot := v.PlaneToScreen(s.Center)
	start := v.PlaneToScreen(s.PointerStart).Sub(pivot)
	cur := pointer.Sub(pivot)

	angle := 0.0
	scale := 1.0
	combined := false
	switch t.state {
	case TransformRotating:
		angle = cur.Angle() - start.Angle()
		if mods&rotateScaleModifier != 0 {
			scale = scaleFactor(start, cur)
			combined = true
		}
	case TransformScaling:
		scale = scaleFactor(start, cur)
	}
	s.Angle, s.Scale = angle, scale

	m := v.planeLinear()
	screenOp := multiplyAffine(rotationMatrix(angle), scaleMatrix(scale))
	planeOp := aroundPivot(multiplyAffine(invertAffine(m), multiplyAffine(screenOp, m)), s.Center)

	out := slices.Clone(elems)
	metas := make(map[string]*ShapeMeta, len(s.metas))
	for i := range out {
		e := &out[i]
		if s.split[e.GroupID] {
			e.Meta = nil
		}
		orig, ok := s.Snapshot[e.ID]
		if !ok {
			continue
		}
		q := v.Mode.Plane(orig)
		x, y := transformPoint(planeOp, q.X, q.Y)
		e.Position = v.Mode.WithPlane(orig, Vec2{x, y})
		e.syncSecondary()
		if e.Meta != nil {
			e.Meta = t.pivotMeta(e, v.Mode, planeOp, angle, scale, metas)
		}
	}
	step := TransformStep{Kind: t.state, Angle: angle, Scale: scale, Center: s.Center, Combined: combined}
	return out, step, true
}

// pivotMeta recomputes a shape's construction meta from its grab-time value.
// A shape built in a different view cannot express this rotation, so its
// meta is dropped and the elements become a plain group.
func (t *TransformEngine) pivotMeta(e *Element, mode ViewMode, planeOp [6]float64, angle, scale float64, done map[string]*ShapeMeta) *ShapeMeta {
	if m, ok := done[e.GroupID]; ok {
		return m
	}
	base, ok := t.session.metas[e.GroupID]
	if !ok || base.View != mode {
		done[e.GroupID] = nil
		return nil
	}
	apply := func(p Vec2) Vec2 {
		x, y := transformPoint(planeOp, p.X, p.Y)
		return Vec2{x, y}
	}
	base.Center = apply(base.Center)
	base.Start = apply(base.Start)
	base.End = apply(base.End)
	base.Radius *= scale
	base.Rotation += angle
	done[e.GroupID] = &base
	return &base
}

// scaleFactor returns |cur|/|start| clamped to the allowed range, or 1 when
// the gesture started on the pivot.
func scaleFactor(start, cur Vec2) float64 {
	d0 := start.Len()
	if d0 < 1e-9 {
		return 1
	}
	return clamp(cur.Len()/d0, MinScaleFactor, MaxScaleFactor)
}

// End finishes the active gesture and returns its final session. It is safe
// to call when idle (pointer released outside the canvas, focus loss).
func (t *TransformEngine) End() (TransformSession, bool) {
	s := t.session
	t.state = TransformIdle
	t.session = nil
	if s == nil {
		return TransformSession{}, false
	}
	return *s, true
}

// positions returns the current positions of the session's elements in
// elems.
func (s *TransformSession) positions(elems []Element) map[string]Vec3 {
	out := make(map[string]Vec3, len(s.Snapshot))
	for i := range elems {
		if _, ok := s.Snapshot[elems[i].ID]; ok {
			out[elems[i].ID] = elems[i].Position
		}
	}
	return out
}
