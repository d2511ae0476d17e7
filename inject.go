package fxcanvas

type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticKey
)

// syntheticEvent is a single injected input event. Pointer events use screen
// coordinates and go through the same edge detection as real mouse input.
type syntheticEvent struct {
	kind    syntheticKind
	p       Vec2
	pressed bool
	button  MouseButton
	key     Key
	mods    KeyModifiers
}

// InjectPress queues a left-button press at the given screen coordinates.
// The event is consumed on the next frame's Update.
func (e *Editor) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{p: Vec2{x, y}, pressed: true})
}

// InjectMove queues a pointer move with the button held down. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (e *Editor) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{p: Vec2{x, y}, pressed: true})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (e *Editor) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{p: Vec2{x, y}})
}

// InjectModifiers sets the modifiers carried by the most recently queued
// event.
func (e *Editor) InjectModifiers(mods KeyModifiers) {
	if n := len(e.injectQueue); n > 0 {
		e.injectQueue[n-1].mods = mods
	}
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (e *Editor) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a press at from, frames-2 interpolated moves and a
// release at to. Minimum frames is 2.
func (e *Editor) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// InjectKey queues an editor key press.
func (e *Editor) InjectKey(k Key, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: syntheticKey, key: k, mods: mods})
}

// PendingInjections returns the number of queued synthetic events.
func (e *Editor) PendingInjections() int { return len(e.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it to
// the editor. It reports whether an event was consumed, in which case live
// input is skipped for the frame.
func (e *Editor) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	switch evt.kind {
	case syntheticKey:
		e.KeyPress(evt.key, evt.mods)
	default:
		e.processPointer(evt.p, evt.pressed, evt.button, evt.mods)
	}
	return true
}
