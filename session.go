package fxcanvas

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRestoreUnsupported is returned by Editor.Restore when the layer store
// cannot accept whole layers.
var ErrRestoreUnsupported = errors.New("fxcanvas: store does not support restore")

// Session is the persistable state of an editing session: every layer with
// its elements and the action log. It is what the export side consumes.
type Session struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	ActiveLayer string         `json:"activeLayer,omitempty"`
	View        ViewMode       `json:"view"`
	Layers      []Layer        `json:"layers"`
	Actions     []ActionRecord `json:"actions,omitempty"`
}

// NewSession creates an empty session with a fresh id.
func NewSession(name string, now time.Time) Session {
	return Session{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
}

// Layer returns the layer with the given id.
func (s *Session) Layer(id string) (Layer, bool) {
	for i := range s.Layers {
		if s.Layers[i].ID == id {
			return s.Layers[i], true
		}
	}
	return Layer{}, false
}

// ElementCount returns the total number of elements across layers.
func (s *Session) ElementCount() int {
	n := 0
	for i := range s.Layers {
		n += len(s.Layers[i].Elements)
	}
	return n
}

// Validate checks the invariants consumers rely on: unique element ids
// across layers, and a non-decreasing action log.
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("session: missing id")
	}
	seen := make(map[string]string)
	for _, l := range s.Layers {
		for _, e := range l.Elements {
			if other, dup := seen[e.ID]; dup {
				return fmt.Errorf("session %s: element %s in layers %s and %s", s.ID, e.ID, other, l.ID)
			}
			seen[e.ID] = l.ID
		}
	}
	for i := 1; i < len(s.Actions); i++ {
		if s.Actions[i].Timestamp.Before(s.Actions[i-1].Timestamp) {
			return fmt.Errorf("session %s: action %d out of order", s.ID, i)
		}
	}
	return nil
}

// layerLister is implemented by stores that can enumerate their layers.
type layerLister interface {
	Layers() []Layer
}

// layerWriter is implemented by stores that can take whole layers.
type layerWriter interface {
	PutLayer(l Layer)
}
