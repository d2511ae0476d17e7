package fxcanvas

import (
	"context"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSelectionPadding is the pixel margin added around the projected
	// extent of a selection.
	DefaultSelectionPadding = 10.0
	// DefaultHitRadius is the pixel radius for point hit-testing.
	DefaultHitRadius = 8.0
	// handleRadius is the pixel radius of a transform handle.
	handleRadius = 7.0
	// rotateHandleGap is the distance of the rotate handle above the box.
	rotateHandleGap = 24.0
)

// HitTestPoint returns the first element whose projected position lies
// within radiusPx of p.
func HitTestPoint(elems []Element, v *Viewport, p Vec2, radiusPx float64) (Element, bool) {
	if !v.Ready() {
		return Element{}, false
	}
	r2 := radiusPx * radiusPx
	for i := range elems {
		d := v.WorldToScreen(elems[i].Position).Sub(p)
		if d.X*d.X+d.Y*d.Y <= r2 {
			return elems[i], true
		}
	}
	return Element{}, false
}

// HitTestBox returns the ids of all elements whose projected position falls
// inside box (edges inclusive, no padding).
func HitTestBox(elems []Element, v *Viewport, box Rect) []string {
	if !v.Ready() {
		return nil
	}
	var ids []string
	for i := range elems {
		s := v.WorldToScreen(elems[i].Position)
		if box.Contains(s.X, s.Y) {
			ids = append(ids, elems[i].ID)
		}
	}
	return ids
}

// Selection is the set of selected element ids within one layer, in
// selection order.
type Selection struct {
	layerID string
	ids     []string
	set     map[string]struct{}
}

// LayerID returns the layer the selection is scoped to.
func (s *Selection) LayerID() string { return s.layerID }

// IDs returns the selected ids. The returned slice MUST NOT be mutated.
func (s *Selection) IDs() []string { return s.ids }

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool { return len(s.ids) == 0 }

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.set[id]
	return ok
}

// Set replaces the selection with ids in layerID.
func (s *Selection) Set(layerID string, ids []string) {
	s.layerID = layerID
	s.ids = s.ids[:0]
	s.set = make(map[string]struct{}, len(ids))
	s.add(ids)
}

// Add extends the selection. Ids from another layer replace it instead.
func (s *Selection) Add(layerID string, ids []string) {
	if layerID != s.layerID {
		s.Set(layerID, ids)
		return
	}
	if s.set == nil {
		s.set = make(map[string]struct{}, len(ids))
	}
	s.add(ids)
}

func (s *Selection) add(ids []string) {
	for _, id := range ids {
		if _, ok := s.set[id]; ok {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

// Toggle flips membership of ids: if all are selected they are removed,
// otherwise they are added.
func (s *Selection) Toggle(layerID string, ids []string) {
	if layerID != s.layerID {
		s.Set(layerID, ids)
		return
	}
	all := len(ids) > 0
	for _, id := range ids {
		if !s.Has(id) {
			all = false
			break
		}
	}
	if !all {
		s.Add(layerID, ids)
		return
	}
	s.remove(ids)
}

func (s *Selection) remove(ids []string) {
	for _, id := range ids {
		delete(s.set, id)
	}
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool {
		_, ok := s.set[id]
		return !ok
	})
}

// Clear empties the selection and drops its layer scope.
func (s *Selection) Clear() {
	s.layerID = ""
	s.ids = s.ids[:0]
	s.set = nil
}

// Prune drops ids no longer present in elems and reports whether anything
// was removed.
func (s *Selection) Prune(elems []Element) bool {
	if len(s.ids) == 0 {
		return false
	}
	present := elementIndex(elems)
	var stale []string
	for _, id := range s.ids {
		if _, ok := present[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return false
	}
	s.remove(stale)
	return true
}

// Selected returns the elements of elems that are in the selection,
// skipping stale ids.
func (s *Selection) Selected(elems []Element) []Element {
	if s.Empty() {
		return nil
	}
	out := make([]Element, 0, len(s.ids))
	for i := range elems {
		if s.Has(elems[i].ID) {
			out = append(out, elems[i])
		}
	}
	return out
}

// --- Bounds ---

type extent struct {
	minX, minY, maxX, maxY float64
	n                      int
}

func emptyExtent() extent {
	return extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1), 0}
}

func (e *extent) include(x, y float64) {
	e.minX, e.maxX = math.Min(e.minX, x), math.Max(e.maxX, x)
	e.minY, e.maxY = math.Min(e.minY, y), math.Max(e.maxY, y)
	e.n++
}

func (e extent) merge(o extent) extent {
	return extent{
		math.Min(e.minX, o.minX), math.Min(e.minY, o.minY),
		math.Max(e.maxX, o.maxX), math.Max(e.maxY, o.maxY),
		e.n + o.n,
	}
}

func (e extent) rect(padding float64) (Rect, bool) {
	if e.n == 0 {
		return Rect{}, false
	}
	r := Rect{X: e.minX, Y: e.minY, Width: e.maxX - e.minX, Height: e.maxY - e.minY}
	return r.Inset(padding), true
}

// SelectionBounds returns the projected min/max box of the selected
// elements grown by padding. It reports false when no selected element is
// present in elems.
func SelectionBounds(elems []Element, sel *Selection, v *Viewport, padding float64) (Rect, bool) {
	if sel.Empty() || !v.Ready() {
		return Rect{}, false
	}
	m := v.computeViewMatrix()
	ext := projectExtent(elems, sel, v.Mode, m)
	return ext.rect(padding)
}

func projectExtent(elems []Element, sel *Selection, mode ViewMode, m [6]float64) extent {
	ext := emptyExtent()
	for i := range elems {
		if !sel.Has(elems[i].ID) {
			continue
		}
		q := mode.Plane(elems[i].Position)
		x, y := transformPoint(m, q.X, q.Y)
		ext.include(x, y)
	}
	return ext
}

// ParallelSelectionBounds computes the same box as SelectionBounds by
// projecting chunks of elems on up to workers goroutines. The view matrix is
// resolved once up front so workers share no mutable state.
func ParallelSelectionBounds(ctx context.Context, elems []Element, sel *Selection, v *Viewport, padding float64, workers int) (Rect, bool, error) {
	if sel.Empty() || !v.Ready() {
		return Rect{}, false, nil
	}
	if workers < 1 {
		workers = 1
	}
	m := v.computeViewMatrix()
	mode := v.Mode

	chunk := (len(elems) + workers - 1) / workers
	if chunk == 0 {
		return Rect{}, false, nil
	}
	parts := make([]extent, 0, workers)
	for start := 0; start < len(elems); start += chunk {
		parts = append(parts, emptyExtent())
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range parts {
		start := i * chunk
		end := min(start+chunk, len(elems))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = projectExtent(elems[start:end], sel, mode, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Rect{}, false, err
	}

	ext := emptyExtent()
	for _, p := range parts {
		ext = ext.merge(p)
	}
	r, ok := ext.rect(padding)
	return r, ok, nil
}

// ClampToCanvas trims r to the viewport's canvas rectangle for display.
func ClampToCanvas(r Rect, v *Viewport) Rect {
	x0 := clamp(r.X, 0, v.Width)
	y0 := clamp(r.Y, 0, v.Height)
	x1 := clamp(r.X+r.Width, 0, v.Width)
	y1 := clamp(r.Y+r.Height, 0, v.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// --- Handles ---

// Handle identifies a grab point on the selection box.
type Handle uint8

const (
	HandleNone   Handle = iota
	HandleRotate        // circle above the top edge
	HandleScaleNW
	HandleScaleNE
	HandleScaleSE
	HandleScaleSW
)

// IsScale reports whether h is one of the corner scale handles.
func (h Handle) IsScale() bool {
	return h >= HandleScaleNW && h <= HandleScaleSW
}

// handlePositions returns the screen position of every handle for bounds.
// bounds is expected on-canvas; the rotate handle drops toward the box when
// the gap would push it past the top edge.
func handlePositions(bounds Rect) map[Handle]Vec2 {
	c := bounds.Center()
	return map[Handle]Vec2{
		HandleRotate:  {c.X, max(bounds.Y-rotateHandleGap, handleRadius)},
		HandleScaleNW: {bounds.X, bounds.Y},
		HandleScaleNE: {bounds.X + bounds.Width, bounds.Y},
		HandleScaleSE: {bounds.X + bounds.Width, bounds.Y + bounds.Height},
		HandleScaleSW: {bounds.X, bounds.Y + bounds.Height},
	}
}

// handleAt returns the handle under p, preferring rotate over the corners.
func handleAt(bounds Rect, p Vec2) Handle {
	pos := handlePositions(bounds)
	for _, h := range []Handle{HandleRotate, HandleScaleNW, HandleScaleNE, HandleScaleSE, HandleScaleSW} {
		if pos[h].Sub(p).Len() <= handleRadius {
			return h
		}
	}
	return HandleNone
}
