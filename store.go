package fxcanvas

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnknownLayer is returned when a layer id is not present in the store.
	ErrUnknownLayer = errors.New("fxcanvas: unknown layer")
	// ErrNoLayer is returned when an operation needs an active layer and none is set.
	ErrNoLayer = errors.New("fxcanvas: no layer selected")
	// ErrLayerHidden is returned when an operation targets a hidden layer.
	ErrLayerHidden = errors.New("fxcanvas: layer hidden")
)

// LayerStore is the layer/element collaborator the editor reads from and
// writes to. Implementations never see partial edits: every mutation supplies
// a full replacement array for the affected layer.
type LayerStore interface {
	// Layer returns a copy of the layer metadata and elements.
	Layer(layerID string) (Layer, error)
	// Elements returns the layer's elements. Callers must not mutate the result.
	Elements(layerID string) ([]Element, error)
	// ReplaceElements swaps the layer's element array for elems.
	ReplaceElements(layerID string, elems []Element) error
}

// MemoryStore is the in-process LayerStore used by the editor window and
// tests. Layers keep insertion order.
type MemoryStore struct {
	layers []Layer
	index  map[string]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

// AddLayer appends a new visible layer and returns its id.
func (s *MemoryStore) AddLayer(name string, defaultColor Color) string {
	id := uuid.NewString()
	s.index[id] = len(s.layers)
	s.layers = append(s.layers, Layer{ID: id, Name: name, Visible: true, DefaultColor: defaultColor})
	return id
}

// PutLayer inserts or overwrites a layer wholesale (used when restoring a
// session).
func (s *MemoryStore) PutLayer(l Layer) {
	l = cloneLayer(l)
	if i, ok := s.index[l.ID]; ok {
		s.layers[i] = l
		return
	}
	s.index[l.ID] = len(s.layers)
	s.layers = append(s.layers, l)
}

// RemoveLayer deletes a layer and its elements.
func (s *MemoryStore) RemoveLayer(layerID string) error {
	i, ok := s.index[layerID]
	if !ok {
		return fmt.Errorf("remove layer %q: %w", layerID, ErrUnknownLayer)
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	s.reindex()
	return nil
}

// SetVisible toggles a layer's visibility.
func (s *MemoryStore) SetVisible(layerID string, visible bool) error {
	i, ok := s.index[layerID]
	if !ok {
		return fmt.Errorf("set visible %q: %w", layerID, ErrUnknownLayer)
	}
	s.layers[i].Visible = visible
	return nil
}

// Layers returns copies of all layers in order.
func (s *MemoryStore) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	for i := range s.layers {
		out[i] = cloneLayer(s.layers[i])
	}
	return out
}

// Layer implements LayerStore.
func (s *MemoryStore) Layer(layerID string) (Layer, error) {
	i, ok := s.index[layerID]
	if !ok {
		return Layer{}, fmt.Errorf("layer %q: %w", layerID, ErrUnknownLayer)
	}
	return cloneLayer(s.layers[i]), nil
}

// Elements implements LayerStore.
func (s *MemoryStore) Elements(layerID string) ([]Element, error) {
	i, ok := s.index[layerID]
	if !ok {
		return nil, fmt.Errorf("elements %q: %w", layerID, ErrUnknownLayer)
	}
	return s.layers[i].Elements, nil
}

// ReplaceElements implements LayerStore. The array is stored as given; the
// caller hands over ownership.
func (s *MemoryStore) ReplaceElements(layerID string, elems []Element) error {
	i, ok := s.index[layerID]
	if !ok {
		return fmt.Errorf("replace elements %q: %w", layerID, ErrUnknownLayer)
	}
	s.layers[i].Elements = elems
	return nil
}

func (s *MemoryStore) reindex() {
	s.index = make(map[string]int, len(s.layers))
	for i := range s.layers {
		s.index[s.layers[i].ID] = i
	}
}
