package fxcanvas

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// ShapeMeta records how a generated shape was built so it can be regenerated
// at a different particle count without changing its size. Center, Radius,
// Start and End are view-plane world coordinates of View.
type ShapeMeta struct {
	Shape    ElementType `json:"shape"`
	View     ViewMode    `json:"view"`
	Center   Vec2        `json:"center"`
	Radius   float64     `json:"radius"`
	Count    int         `json:"count"`
	Rotation float64     `json:"rotation,omitempty"`
	Start    Vec2        `json:"start,omitempty"`
	End      Vec2        `json:"end,omitempty"`
	// Depth is the world coordinate on the axis View does not show.
	Depth float64 `json:"depth"`
}

// Element is one placed particle.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Position Vec3        `json:"position"`
	// YOffset mirrors Position.Y. Position.Y is authoritative; YOffset is
	// rewritten by syncSecondary after every mutation.
	YOffset float64    `json:"yOffset"`
	Color   Color      `json:"color"`
	GroupID string     `json:"groupId,omitempty"`
	Meta    *ShapeMeta `json:"meta,omitempty"`
}

// NewElement creates a free element with a fresh id at the given position.
func NewElement(pos Vec3, c Color) Element {
	e := Element{ID: uuid.NewString(), Type: ElementFree, Position: pos, Color: c}
	e.syncSecondary()
	return e
}

func (e *Element) syncSecondary() {
	e.YOffset = e.Position.Y
}

// Layer is an ordered, independently visible collection of elements.
type Layer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Visible      bool      `json:"visible"`
	DefaultColor Color     `json:"defaultColor"`
	Elements     []Element `json:"elements"`
}

// cloneElements returns a deep copy of elems, including ShapeMeta pointers,
// so callers can mutate the copy and hand it to ReplaceElements whole.
func cloneElements(elems []Element) []Element {
	if elems == nil {
		return nil
	}
	out := make([]Element, 0, len(elems))
	if err := copier.CopyWithOption(&out, &elems, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds, which cannot happen here.
		panic(fmt.Sprintf("fxcanvas: clone elements: %v", err))
	}
	return out
}

// cloneLayer returns a deep copy of l.
func cloneLayer(l Layer) Layer {
	l.Elements = cloneElements(l.Elements)
	return l
}

// elementIndex maps element ids to their index in elems.
func elementIndex(elems []Element) map[string]int {
	idx := make(map[string]int, len(elems))
	for i := range elems {
		idx[elems[i].ID] = i
	}
	return idx
}

// elementIDs returns the ids of elems in order.
func elementIDs(elems []Element) []string {
	ids := make([]string, len(elems))
	for i := range elems {
		ids[i] = elems[i].ID
	}
	return ids
}
