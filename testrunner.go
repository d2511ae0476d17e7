package fxcanvas

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Shift  bool    `json:"shift,omitempty"`
	// Value carries the argument of key, tool, view, color, count and
	// record steps.
	Value string `json:"value,omitempty"`
	Count int    `json:"count,omitempty"`
}

type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

var scriptKeys = map[string]Key{
	"delete":     KeyDelete,
	"backspace":  KeyBackspace,
	"escape":     KeyEscape,
	"select_all": KeySelectAll,
}

// ScriptRunner replays a JSON input script against an editor, one step per
// frame, waiting for injected events to drain between steps. It drives
// end-to-end editor sessions without a window.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadScript parses a JSON input script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse input script: step %d: %w", i, err)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "press", "move", "release", "click", "drag", "wait", "count", "clear":
	case "key":
		if _, ok := scriptKeys[st.Value]; !ok {
			return fmt.Errorf("unknown key %q", st.Value)
		}
	case "tool":
		if _, err := ParseTool(st.Value); err != nil {
			return err
		}
	case "view":
		if _, err := ParseViewMode(st.Value); err != nil {
			return err
		}
	case "color":
		if _, err := ParseColor(st.Value); err != nil {
			return err
		}
	case "record":
		if st.Value != "start" && st.Value != "stop" {
			return fmt.Errorf("record value must be start or stop, got %q", st.Value)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// SetScriptRunner attaches a runner; its step method is called from Update
// before input processing each frame.
func (e *Editor) SetScriptRunner(r *ScriptRunner) { e.runner = r }

// Done reports whether every step has executed and its input drained.
func (r *ScriptRunner) Done() bool { return r.done }

// Err returns the first error an edit step reported. Edits refused with a
// notice (no layer, hidden layer) are reported here too.
func (r *ScriptRunner) Err() error { return r.err }

func (r *ScriptRunner) fail(i int, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("script step %d: %w", i, err)
	}
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Editor) {
	if r.done {
		return
	}
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	i := r.cursor
	st := r.steps[i]
	r.cursor++

	var mods KeyModifiers
	if st.Shift {
		mods = ModShift
	}
	switch st.Action {
	case "press":
		e.InjectPress(st.X, st.Y)
		e.InjectModifiers(mods)
	case "move":
		e.InjectMove(st.X, st.Y)
		e.InjectModifiers(mods)
	case "release":
		e.InjectRelease(st.X, st.Y)
		e.InjectModifiers(mods)
	case "click":
		e.InjectPress(st.X, st.Y)
		e.InjectModifiers(mods)
		e.InjectRelease(st.X, st.Y)
		e.InjectModifiers(mods)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
		for j := len(e.injectQueue) - max(st.Frames, 2); j < len(e.injectQueue); j++ {
			e.injectQueue[j].mods = mods
		}
	case "key":
		e.InjectKey(scriptKeys[st.Value], mods)
	case "tool":
		t, _ := ParseTool(st.Value)
		e.SetTool(t)
	case "view":
		m, _ := ParseViewMode(st.Value)
		r.fail(i, e.SetViewMode(m))
	case "color":
		c, _ := ParseColor(st.Value)
		if e.sel.Empty() {
			e.SetPaintColor(c)
		} else {
			r.fail(i, e.ChangeColor(c))
		}
	case "count":
		if e.sel.Empty() {
			e.SetParticleCount(st.Count)
		} else {
			r.fail(i, e.ChangeParticleCount(st.Count))
		}
	case "record":
		if st.Value == "start" {
			e.StartRecording()
		} else {
			e.StopRecording()
		}
	case "clear":
		e.ClearSelection()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}
