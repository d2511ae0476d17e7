package fxcanvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/tanema/gween/ease"
)

// ErrEmptySelection is returned by selection edits when nothing is selected.
var ErrEmptySelection = errors.New("fxcanvas: empty selection")

// wheelZoomStep is the zoom factor applied per wheel notch.
const wheelZoomStep = 1.1

// Tool selects what a left-button gesture on the canvas does.
type Tool uint8

const (
	ToolSelect   Tool = iota // click/box select, drag, rotate, scale
	ToolFree                 // one element per click
	ToolCircle               // drag from center to radius
	ToolSquare               // drag from center to half-side
	ToolTriangle             // drag from center to circumradius
	ToolLine                 // drag from start to end
)

var toolNames = [...]string{"select", "free", "circle", "square", "triangle", "line"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", t)
}

// ParseTool converts a tool name to a Tool.
func ParseTool(s string) (Tool, error) {
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// elementType returns the shape a creation tool generates.
func (t Tool) elementType() ElementType {
	switch t {
	case ToolCircle:
		return ElementCircle
	case ToolSquare:
		return ElementSquare
	case ToolTriangle:
		return ElementTriangle
	case ToolLine:
		return ElementLine
	}
	return ElementFree
}

// gesture is what the current pointer press is doing.
type gesture uint8

const (
	gestureNone gesture = iota
	gestureTransform
	gestureBox
	gestureCreate
	gesturePan
)

type pointerState struct {
	down    bool
	button  MouseButton
	start   Vec2
	last    Vec2
	mods    KeyModifiers
	gesture gesture
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the operational logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the time source for recording and transform sessions.
func WithClock(c Clock) Option {
	return func(e *Editor) {
		if c != nil {
			e.clock = c
		}
	}
}

// Editor owns one editing session: the viewport, selection, transform
// engine, action recorder and tool state, operating on an external layer
// store. All methods must be called from one goroutine (the UI thread).
type Editor struct {
	cfg    Config
	store  LayerStore
	view   *Viewport
	gen    ShapeGenerator
	sel    Selection
	engine *TransformEngine
	rec    *Recorder
	clock  Clock
	logger *slog.Logger
	bus    eventBus

	tool        Tool
	count       int
	paint       Color
	activeLayer string

	ptr   pointerState
	hover Vec2
	box   Rect

	injectQueue []syntheticEvent
	runner      *ScriptRunner
	live        bool

	colors   *ColorCycler
	debug    bool
	fps      fpsMeter
	toast    string
	toastTTL float32

	shotDir string
	shots   []string
}

// NewEditor creates an editor over store. cfg is validated first.
func NewEditor(cfg Config, store LayerStore, opts ...Option) *Editor {
	cfg.Validate()
	e := &Editor{
		cfg:     cfg,
		store:   store,
		view:    NewViewport(float64(cfg.CanvasWidth), float64(cfg.CanvasHeight)),
		clock:   SystemClock,
		logger:  slog.New(slog.DiscardHandler),
		count:   cfg.DefaultCount,
		paint:   cfg.DefaultColor,
		shotDir: defaultScreenshotDir,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.view.Mode = cfg.ViewMode
	e.engine = NewTransformEngine(e.clock)
	e.rec = NewRecorder(cfg.RecorderConfig(), e.clock)
	e.gen = ShapeGenerator{View: e.view, Color: e.paint, DefaultYOffset: cfg.DefaultYOffset}
	e.colors = NewColorCycler(cfg.ColorCycle)
	return e
}

// --- Accessors ---

// Config returns the editor settings.
func (e *Editor) Config() Config { return e.cfg }

// Viewport returns the editor's viewport.
func (e *Editor) Viewport() *Viewport { return e.view }

// Selection returns the current selection. Callers must not mutate it.
func (e *Editor) Selection() *Selection { return &e.sel }

// TransformState returns the active gesture of the transform engine.
func (e *Editor) TransformState() TransformState { return e.engine.State() }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool switches the active tool, cancelling any gesture in progress.
func (e *Editor) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	e.CancelPointer()
	e.tool = t
}

// ActiveLayer returns the id of the layer edits apply to.
func (e *Editor) ActiveLayer() string { return e.activeLayer }

// ParticleCount returns the count used for new shapes.
func (e *Editor) ParticleCount() int { return e.count }

// SetParticleCount sets the count used for new shapes.
func (e *Editor) SetParticleCount(n int) { e.count = max(n, 1) }

// PaintColor returns the color used for new elements.
func (e *Editor) PaintColor() Color { return e.paint }

// SetPaintColor sets the color used for new elements.
func (e *Editor) SetPaintColor(c Color) { e.paint = c }

// SetMirrorMode toggles mirrored freehand placement.
func (e *Editor) SetMirrorMode(on bool) { e.cfg.MirrorMode = on }

// SetSnap toggles grid snapping.
func (e *Editor) SetSnap(on bool) { e.cfg.SnapEnabled = on }

// SetDefaultYOffset sets the secondary-axis value for shapes drawn in views
// that do not show it.
func (e *Editor) SetDefaultYOffset(y float64) {
	e.cfg.DefaultYOffset = y
	e.gen.DefaultYOffset = y
}

// SetCanvasSize resizes the viewport. A zero size makes every coordinate
// operation a no-op until a real size arrives.
func (e *Editor) SetCanvasSize(w, h float64) {
	e.view.Width, e.view.Height = w, h
}

// SetDebugMode enables per-frame stats on stderr.
func (e *Editor) SetDebugMode(enabled bool) { e.debug = enabled }

// SetEventSink forwards every editor event to sink (nil to detach).
func (e *Editor) SetEventSink(sink EventSink) { e.bus.sink = sink }

// On registers fn for events of type t.
func (e *Editor) On(t EventType, fn func(Event)) CallbackHandle {
	return e.bus.on(t, fn)
}

// OnAny registers fn for every event.
func (e *Editor) OnAny(fn func(Event)) CallbackHandle {
	return e.bus.onAny(fn)
}

func (e *Editor) emit(ev Event) {
	if ev.LayerID == "" {
		ev.LayerID = e.activeLayer
	}
	e.bus.emit(ev)
}

func (e *Editor) notice(n Notice) {
	e.logger.Info("notice", "notice", n.Message(), "layer", e.activeLayer)
	e.showToast(n.Message())
	e.emit(Event{Type: EventNotice, Notice: n})
}

// --- Layers ---

// SetActiveLayer makes layerID the target of edits. Switching layers clears
// the selection. A hidden layer can be activated but not edited.
func (e *Editor) SetActiveLayer(layerID string) error {
	l, err := e.store.Layer(layerID)
	if err != nil {
		return fmt.Errorf("set active layer: %w", err)
	}
	if layerID != e.activeLayer {
		e.CancelPointer()
		if !e.sel.Empty() {
			e.sel.Clear()
			e.emit(Event{Type: EventSelectionChanged})
		}
	}
	e.activeLayer = layerID
	if l.DefaultColor.A > 0 {
		e.paint = l.DefaultColor
	}
	e.emit(Event{Type: EventLayerChanged})
	if !l.Visible {
		e.notice(NoticeLayerHidden)
	}
	return nil
}

// activeElements returns the active layer's live element array.
func (e *Editor) activeElements() []Element {
	if e.activeLayer == "" {
		return nil
	}
	elems, err := e.store.Elements(e.activeLayer)
	if err != nil {
		return nil
	}
	return elems
}

// ActiveElements returns the active layer's elements. Callers must not
// mutate the result.
func (e *Editor) ActiveElements() []Element { return e.activeElements() }

// editableLayer checks that the active layer exists and is visible, raising
// the matching notice otherwise. It returns a private copy of the elements.
func (e *Editor) editableLayer() ([]Element, error) {
	if e.activeLayer == "" {
		e.notice(NoticeNoLayer)
		return nil, ErrNoLayer
	}
	l, err := e.store.Layer(e.activeLayer)
	if err != nil {
		e.notice(NoticeNoLayer)
		return nil, err
	}
	if !l.Visible {
		e.notice(NoticeLayerHidden)
		return nil, fmt.Errorf("layer %q: %w", l.Name, ErrLayerHidden)
	}
	return l.Elements, nil
}

// replace hands a full replacement array for the active layer to the store
// and drops selected ids that no longer exist.
func (e *Editor) replace(elems []Element) error {
	if err := e.store.ReplaceElements(e.activeLayer, elems); err != nil {
		e.logger.Warn("replace elements", "layer", e.activeLayer, "err", err)
		return err
	}
	if e.sel.Prune(elems) {
		e.emit(Event{Type: EventSelectionChanged, ElementIDs: slices.Clone(e.sel.IDs())})
	}
	e.emit(Event{Type: EventElementsChanged})
	return nil
}

func (e *Editor) record(typ ActionType, ids []string, data ActionData) {
	data.View = e.view.Mode
	rec, ok := e.rec.Record(typ, ids, data)
	if !ok {
		return
	}
	e.emit(Event{Type: EventRecordAppended, ElementIDs: rec.ElementIDs, Record: &rec})
}

func (e *Editor) snap(p Vec2) Vec2 {
	return Snap(p, e.cfg.GridPitch, e.view.Scale, e.cfg.SnapEnabled)
}

// --- Pointer input ---

// PointerDown starts a gesture at the screen point p. A second button press
// while one is held is ignored.
func (e *Editor) PointerDown(p Vec2, button MouseButton, mods KeyModifiers) {
	if e.ptr.down {
		return
	}
	e.ptr = pointerState{down: true, button: button, start: p, last: p, mods: mods}
	e.hover = p
	if !e.view.Ready() {
		return
	}
	switch button {
	case MouseButtonMiddle:
		e.ptr.gesture = gesturePan
		return
	case MouseButtonRight:
		return
	}
	switch e.tool {
	case ToolSelect:
		e.pressSelect(p, mods)
	case ToolFree:
		_ = e.PlaceElement(p)
	default:
		if _, err := e.editableLayer(); err == nil {
			e.ptr.gesture = gestureCreate
		}
	}
}

// pressSelect resolves a select-tool press: handle, element, selection body
// or empty canvas, in that order.
func (e *Editor) pressSelect(p Vec2, mods KeyModifiers) {
	elems, err := e.editableLayer()
	if err != nil {
		return
	}
	if bounds, ok := e.DisplayBounds(); ok {
		switch h := handleAt(bounds, p); {
		case h == HandleRotate:
			e.beginTransform(TransformRotating, p)
			return
		case h.IsScale():
			e.beginTransform(TransformScaling, p)
			return
		}
	}
	if hit, ok := HitTestPoint(elems, e.view, p, e.cfg.HitRadius); ok {
		ids := groupOf(elems, hit)
		switch {
		case mods&ModShift != 0:
			e.sel.Toggle(e.activeLayer, ids)
			e.selectionChanged(ActionSelectSingle, ActionData{Additive: true})
			return
		case !e.sel.Has(hit.ID):
			e.sel.Set(e.activeLayer, ids)
			e.selectionChanged(ActionSelectSingle, ActionData{})
		}
		e.beginTransform(TransformDragging, p)
		return
	}
	if bounds, ok := e.DisplayBounds(); ok && bounds.Contains(p.X, p.Y) {
		e.beginTransform(TransformDragging, p)
		return
	}
	if mods&ModShift == 0 && !e.sel.Empty() {
		e.sel.Clear()
		e.emit(Event{Type: EventSelectionChanged})
	}
	e.ptr.gesture = gestureBox
	e.box = RectFromPoints(p, p)
}

// groupOf returns the ids of hit's whole group, or hit alone when ungrouped.
func groupOf(elems []Element, hit Element) []string {
	if hit.GroupID == "" {
		return []string{hit.ID}
	}
	var ids []string
	for i := range elems {
		if elems[i].GroupID == hit.GroupID {
			ids = append(ids, elems[i].ID)
		}
	}
	return ids
}

func (e *Editor) selectionChanged(typ ActionType, data ActionData) {
	ids := slices.Clone(e.sel.IDs())
	e.emit(Event{Type: EventSelectionChanged, ElementIDs: ids})
	e.record(typ, ids, data)
}

func (e *Editor) beginTransform(kind TransformState, p Vec2) {
	elems := e.activeElements()
	var ok bool
	switch kind {
	case TransformDragging:
		ok = e.engine.BeginDrag(elems, &e.sel, e.view, p)
	case TransformRotating:
		ok = e.engine.BeginRotate(elems, &e.sel, e.view, p)
	case TransformScaling:
		ok = e.engine.BeginScale(elems, &e.sel, e.view, p)
	}
	if !ok {
		return
	}
	e.ptr.gesture = gestureTransform
	e.emit(Event{Type: EventTransformStart, Transform: kind, ElementIDs: e.engine.Session().IDs})
}

// PointerMove advances the active gesture to the screen point p.
func (e *Editor) PointerMove(p Vec2, mods KeyModifiers) {
	e.hover = p
	if !e.ptr.down {
		e.ptr.last = p
		return
	}
	prev := e.ptr.last
	e.ptr.last = p
	e.ptr.mods = mods
	switch e.ptr.gesture {
	case gesturePan:
		e.view.Pan(p.Sub(prev))
		e.emit(Event{Type: EventViewChanged, View: e.view.Mode})
	case gestureBox:
		e.box = RectFromPoints(e.ptr.start, p)
	case gestureTransform:
		e.updateTransform(p, mods)
	}
}

func (e *Editor) updateTransform(p Vec2, mods KeyModifiers) {
	out, step, ok := e.engine.Update(e.activeElements(), e.view, p, mods)
	if !ok {
		return
	}
	if err := e.replace(out); err != nil {
		return
	}
	ids := e.engine.Session().IDs
	center := step.Center
	switch step.Kind {
	case TransformDragging:
		d := step.Delta
		e.record(ActionMoveContinuous, ids, ActionData{Delta: &d})
	case TransformRotating:
		if step.Combined {
			e.record(ActionTransformUpdate, ids, ActionData{Angle: step.Angle, Scale: step.Scale, Center: &center})
		} else {
			e.record(ActionRotate, ids, ActionData{Angle: step.Angle, Center: &center})
		}
	case TransformScaling:
		e.record(ActionScale, ids, ActionData{Scale: step.Scale, Center: &center})
	}
	e.emit(Event{Type: EventTransformUpdate, Transform: step.Kind, Step: step, ElementIDs: ids})
}

// PointerUp finishes the active gesture at the screen point p.
func (e *Editor) PointerUp(p Vec2, mods KeyModifiers) {
	if !e.ptr.down {
		return
	}
	if e.pointerStale(p, mods) {
		e.PointerMove(p, mods)
	}
	g, start := e.ptr.gesture, e.ptr.start
	e.ptr = pointerState{last: p}
	switch g {
	case gestureTransform:
		e.endTransform()
	case gestureBox:
		e.finishBox(RectFromPoints(start, p), mods)
	case gestureCreate:
		e.createShape(start, p)
	}
}

// pointerStale reports whether the held pointer needs a move to catch up
// with p and mods. A modifier change alone only matters to a transform,
// where Shift switches rotate into combined rotate+scale.
func (e *Editor) pointerStale(p Vec2, mods KeyModifiers) bool {
	return p != e.ptr.last || (e.ptr.gesture == gestureTransform && mods != e.ptr.mods)
}

// CancelPointer ends whatever the pointer was doing without completing a
// box selection or shape. An active transform is still committed. Call it
// when the pointer is lost (focus loss, pointer leaving the window).
func (e *Editor) CancelPointer() {
	if e.ptr.gesture == gestureTransform || e.engine.Active() {
		e.endTransform()
	}
	e.ptr = pointerState{last: e.ptr.last}
	e.box = Rect{}
}

func (e *Editor) endTransform() {
	s, ok := e.engine.End()
	if !ok {
		return
	}
	pos := s.positions(e.activeElements())
	switch s.Kind {
	case TransformDragging:
		if s.TotalDelta != (Vec3{}) {
			d := s.TotalDelta
			e.record(ActionMove, s.IDs, ActionData{Delta: &d, Positions: pos})
		}
	default:
		c := s.Center
		e.record(ActionTransformEnd, s.IDs, ActionData{Angle: s.Angle, Scale: s.Scale, Center: &c, Positions: pos})
	}
	e.emit(Event{Type: EventTransformEnd, Transform: s.Kind, ElementIDs: s.IDs})
}

func (e *Editor) finishBox(box Rect, mods KeyModifiers) {
	e.box = Rect{}
	ids := HitTestBox(e.activeElements(), e.view, box)
	additive := mods&ModShift != 0
	if additive {
		e.sel.Add(e.activeLayer, ids)
	} else {
		e.sel.Set(e.activeLayer, ids)
	}
	e.selectionChanged(ActionSelectBox, ActionData{Box: &box, Additive: additive})
}

// BoxSelection returns the in-progress box selection rectangle.
func (e *Editor) BoxSelection() (Rect, bool) {
	return e.box, e.ptr.gesture == gestureBox
}

// Wheel zooms by delta notches about the screen point at.
func (e *Editor) Wheel(delta float64, at Vec2) {
	if delta == 0 {
		return
	}
	e.view.ZoomAt(math.Pow(wheelZoomStep, delta), at, e.cfg.MinZoom, e.cfg.MaxZoom)
	e.emit(Event{Type: EventViewChanged, View: e.view.Mode})
}

// ZoomTo animates the zoom to scale (clamped) over duration seconds.
func (e *Editor) ZoomTo(scale float64, duration float32) {
	e.view.ZoomTo(clamp(scale, e.cfg.MinZoom, e.cfg.MaxZoom), duration, ease.OutQuad)
}

// PanTo animates the pan offset to offset over duration seconds.
func (e *Editor) PanTo(offset Vec2, duration float32) {
	e.view.PanTo(offset, duration, ease.OutQuad)
}

// --- Keys ---

// KeyPress handles an editor key.
func (e *Editor) KeyPress(k Key, mods KeyModifiers) {
	switch k {
	case KeyDelete, KeyBackspace:
		_ = e.DeleteSelected()
	case KeyEscape:
		e.CancelPointer()
		e.ClearSelection()
	case KeySelectAll:
		_ = e.SelectAll()
	}
}

// --- Edits ---

// PlaceElement places one free element at the screen point p (snapped), plus
// its mirror image when mirror mode is on.
func (e *Editor) PlaceElement(p Vec2) error {
	if _, err := e.editableLayer(); err != nil {
		return err
	}
	if !e.view.Ready() {
		return nil
	}
	e.gen.Color = e.paint
	el := e.gen.CreateFree(e.snap(p))
	added := []Element{el}
	if e.cfg.MirrorMode {
		q := e.view.Mode.Plane(el.Position)
		if q.X != 0 {
			q.X = -q.X
			added = append(added, NewElement(e.view.Mode.WithPlane(el.Position, q), e.paint))
		}
	}
	return e.addElements(added)
}

func (e *Editor) createShape(start, end Vec2) {
	if _, err := e.editableLayer(); err != nil {
		return
	}
	a, b := e.snap(start), e.snap(end)
	radius := b.Sub(a).Len()
	shape := e.tool.elementType()
	count := NormalizeCount(shape, e.count)
	e.gen.Color = e.paint
	var elems []Element
	switch shape {
	case ElementCircle:
		elems = e.gen.CreateCircle(a, radius, count)
	case ElementSquare:
		elems = e.gen.CreateSquare(a, radius, count)
	case ElementTriangle:
		elems = e.gen.CreateTriangle(a, radius, count)
	case ElementLine:
		elems = e.gen.CreateLine(a, b, count)
	}
	if len(elems) == 0 {
		return
	}
	_ = e.addElements(elems)
}

// ShapePreview returns the screen points of the shape the current drag
// would create.
func (e *Editor) ShapePreview() []Vec2 {
	if e.ptr.gesture != gestureCreate {
		return nil
	}
	a, b := e.snap(e.ptr.start), e.snap(e.ptr.last)
	r := math.Max(b.Sub(a).Len(), minShapeRadius)
	shape := e.tool.elementType()
	count := NormalizeCount(shape, e.count)
	switch shape {
	case ElementCircle:
		return CirclePoints(a, r, count)
	case ElementSquare:
		return SquarePoints(a, r, count)
	case ElementTriangle:
		return TrianglePoints(a, r, count)
	case ElementLine:
		return LinePoints(a, b, count)
	}
	return nil
}

// AddElements appends elems to the active layer.
func (e *Editor) AddElements(elems []Element) error {
	if _, err := e.editableLayer(); err != nil {
		return err
	}
	return e.addElements(elems)
}

func (e *Editor) addElements(added []Element) error {
	cur := e.activeElements()
	out := make([]Element, 0, len(cur)+len(added))
	out = append(out, cur...)
	out = append(out, added...)
	if err := e.replace(out); err != nil {
		return err
	}
	c := e.paint
	if len(added) > 0 {
		c = added[0].Color
	}
	e.record(ActionElementAdd, elementIDs(added), ActionData{Color: &c, Count: len(added), Positions: positionsOf(added)})
	return nil
}

// ChangeColor recolors the selected elements.
func (e *Editor) ChangeColor(c Color) error {
	if e.sel.Empty() {
		return ErrEmptySelection
	}
	elems, err := e.editableLayer()
	if err != nil {
		return err
	}
	for i := range elems {
		if e.sel.Has(elems[i].ID) {
			elems[i].Color = c
		}
	}
	if err := e.replace(elems); err != nil {
		return err
	}
	e.paint = c
	e.record(ActionColor, slices.Clone(e.sel.IDs()), ActionData{Color: &c})
	return nil
}

// ChangeParticleCount regenerates every selected shape at n particles
// (normalized per shape), keeping its group, color, size and placement.
// Regenerated elements get new ids, which replace the old ones in the
// selection. Selected free elements are left alone.
func (e *Editor) ChangeParticleCount(n int) error {
	if e.sel.Empty() {
		return ErrEmptySelection
	}
	elems, err := e.editableLayer()
	if err != nil {
		return err
	}
	targets := make(map[string]bool)
	for i := range elems {
		if e.sel.Has(elems[i].ID) && elems[i].GroupID != "" && elems[i].Meta != nil {
			targets[elems[i].GroupID] = true
		}
	}
	if len(targets) == 0 {
		return nil
	}

	out := make([]Element, 0, len(elems))
	done := make(map[string]bool, len(targets))
	var newIDs, groups []string
	counts := make(map[string]int, len(targets))
	prevCounts := make(map[string]int, len(targets))
	for i := range elems {
		el := &elems[i]
		if !targets[el.GroupID] {
			out = append(out, *el)
			continue
		}
		if done[el.GroupID] {
			continue
		}
		done[el.GroupID] = true
		meta := *el.Meta
		prevCounts[el.GroupID] = meta.Count
		meta.Count = NormalizeCount(meta.Shape, n)
		counts[el.GroupID] = meta.Count
		regen := GenerateShape(meta, el.GroupID, el.Color)
		out = append(out, regen...)
		newIDs = append(newIDs, elementIDs(regen)...)
		groups = append(groups, el.GroupID)
	}
	if err := e.replace(out); err != nil {
		return err
	}
	e.sel.Add(e.activeLayer, newIDs)
	e.emit(Event{Type: EventSelectionChanged, ElementIDs: slices.Clone(e.sel.IDs())})
	e.record(ActionParticleCount, newIDs, ActionData{
		Count:      uniformCount(counts),
		PrevCount:  uniformCount(prevCounts),
		Counts:     counts,
		PrevCounts: prevCounts,
		GroupIDs:   groups,
		Positions:  positionsOf(GroupElements(out, groups)),
	})
	return nil
}

// uniformCount returns the value shared by every entry of counts, or 0 when
// they differ.
func uniformCount(counts map[string]int) int {
	v := -1
	for _, c := range counts {
		if v >= 0 && c != v {
			return 0
		}
		v = c
	}
	return max(v, 0)
}

// GroupElements returns the elements of elems belonging to any of groups.
func GroupElements(elems []Element, groups []string) []Element {
	var out []Element
	for i := range elems {
		if elems[i].GroupID != "" && slices.Contains(groups, elems[i].GroupID) {
			out = append(out, elems[i])
		}
	}
	return out
}

// DeleteSelected removes the selected elements from the active layer and
// clears the selection.
func (e *Editor) DeleteSelected() error {
	if e.sel.Empty() {
		return ErrEmptySelection
	}
	elems, err := e.editableLayer()
	if err != nil {
		return err
	}
	e.CancelPointer()
	if e.sel.Prune(elems) && e.sel.Empty() {
		e.emit(Event{Type: EventSelectionChanged})
		return ErrEmptySelection
	}
	ids := slices.Clone(e.sel.IDs())
	out := slices.DeleteFunc(elems, func(el Element) bool { return e.sel.Has(el.ID) })
	e.sel.Clear()
	if err := e.replace(out); err != nil {
		return err
	}
	e.emit(Event{Type: EventSelectionChanged})
	e.record(ActionElementDelete, ids, ActionData{})
	return nil
}

// SelectAll selects every element of the active layer.
func (e *Editor) SelectAll() error {
	elems, err := e.editableLayer()
	if err != nil {
		return err
	}
	e.sel.Set(e.activeLayer, elementIDs(elems))
	e.selectionChanged(ActionSelect, ActionData{})
	return nil
}

// Select replaces the selection with ids on the active layer.
func (e *Editor) Select(ids []string) error {
	if _, err := e.editableLayer(); err != nil {
		return err
	}
	e.sel.Set(e.activeLayer, ids)
	e.sel.Prune(e.activeElements())
	e.selectionChanged(ActionSelect, ActionData{})
	return nil
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	if e.sel.Empty() {
		return
	}
	e.sel.Clear()
	e.selectionChanged(ActionSelect, ActionData{})
}

// SelectionBounds returns the padded screen box of the selection. Large
// selections are projected in parallel.
func (e *Editor) SelectionBounds() (Rect, bool) {
	elems := e.activeElements()
	if t := e.cfg.ParallelBoundsThreshold; t > 0 && e.sel.Len() > t {
		r, ok, err := ParallelSelectionBounds(context.Background(), elems, &e.sel, e.view, e.cfg.SelectionPadding, parallelBoundsWorkers)
		if err == nil {
			return r, ok
		}
		e.logger.Warn("parallel selection bounds", "err", err)
	}
	return SelectionBounds(elems, &e.sel, e.view, e.cfg.SelectionPadding)
}

// DisplayBounds returns the selection box as drawn: SelectionBounds clamped
// to the canvas. It reports false when nothing of the box is on screen.
func (e *Editor) DisplayBounds() (Rect, bool) {
	bounds, ok := e.SelectionBounds()
	if !ok {
		return Rect{}, false
	}
	r := ClampToCanvas(bounds, e.view)
	return r, r.Width > 0 && r.Height > 0
}

// HandleAt returns the selection handle under the screen point p, measured
// on the displayed box.
func (e *Editor) HandleAt(p Vec2) Handle {
	bounds, ok := e.DisplayBounds()
	if !ok {
		return HandleNone
	}
	return handleAt(bounds, p)
}

// parallelBoundsWorkers is the goroutine count for large selection bounds.
const parallelBoundsWorkers = 4

// --- View ---

// SetViewMode switches the projection. Views not enabled in the config are
// refused with a notice.
func (e *Editor) SetViewMode(m ViewMode) error {
	if !e.cfg.ViewModeEnabled(m) {
		e.notice(NoticeViewModeDisabled)
		return fmt.Errorf("set view %s: %w", m, ErrViewModeDisabled)
	}
	if m == e.view.Mode {
		return nil
	}
	e.CancelPointer()
	e.view.Mode = m
	e.emit(Event{Type: EventViewChanged, View: m})
	return nil
}

// --- Recording ---

// StartRecording clears the action log and begins capturing edits.
func (e *Editor) StartRecording() {
	e.rec.Start(e.activeElements())
	e.logger.Info("recording started", "layer", e.activeLayer)
	e.notice(NoticeRecordingStarted)
}

// StopRecording freezes the action log.
func (e *Editor) StopRecording() {
	if !e.rec.IsRecording() {
		return
	}
	e.rec.Stop()
	e.logger.Info("recording stopped", "records", e.rec.Len())
	e.notice(NoticeRecordingStopped)
}

// ClearRecording empties the action log without changing the recording
// state.
func (e *Editor) ClearRecording() { e.rec.Clear() }

// Recording reports whether edits are being captured.
func (e *Editor) Recording() bool { return e.rec.IsRecording() }

// SetAddElementDelay sets the element-add delay policy.
func (e *Editor) SetAddElementDelay(on bool) {
	e.cfg.AddElementDelay = on
	e.rec.SetAddElementDelay(on)
}

// Actions returns a copy of the action log.
func (e *Editor) Actions() []ActionRecord { return e.rec.Records() }

// --- Lifecycle ---

// Reset abandons the current gesture, clears the selection and stops and
// clears the recorder.
func (e *Editor) Reset() {
	e.CancelPointer()
	e.injectQueue = e.injectQueue[:0]
	e.sel.Clear()
	e.rec.Stop()
	e.rec.Clear()
	e.emit(Event{Type: EventSelectionChanged})
}

// Snapshot captures the session for persistence. Stores that cannot list
// their layers contribute only the active layer.
func (e *Editor) Snapshot(name string) Session {
	s := NewSession(name, e.clock.Now())
	s.ActiveLayer = e.activeLayer
	s.View = e.view.Mode
	if ll, ok := e.store.(layerLister); ok {
		s.Layers = ll.Layers()
	} else if l, err := e.store.Layer(e.activeLayer); err == nil {
		s.Layers = []Layer{l}
	}
	s.Actions = e.rec.Records()
	return s
}

// Restore loads a session into the store and editor. The recorder is left
// stopped with the session's log.
func (e *Editor) Restore(s Session) error {
	w, ok := e.store.(layerWriter)
	if !ok {
		return ErrRestoreUnsupported
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	e.Reset()
	for _, l := range s.Layers {
		w.PutLayer(l)
	}
	e.rec.Load(s.Actions)
	if e.cfg.ViewModeEnabled(s.View) {
		e.view.Mode = s.View
	}
	if s.ActiveLayer != "" {
		if err := e.SetActiveLayer(s.ActiveLayer); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
	}
	e.emit(Event{Type: EventElementsChanged})
	return nil
}
