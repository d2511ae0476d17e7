package fxcanvas

import "testing"

func TestInjectClick(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.InjectClick(100, 200)
	if n := e.PendingInjections(); n != 2 {
		t.Fatalf("queue = %d, want 2", n)
	}
	press, release := e.injectQueue[0], e.injectQueue[1]
	if !press.pressed || press.p != (Vec2{100, 200}) {
		t.Errorf("press = %+v", press)
	}
	if release.pressed || release.p != (Vec2{100, 200}) {
		t.Errorf("release = %+v", release)
	}
}

func TestInjectDrag(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.InjectDrag(0, 0, 100, 50, 6)
	if n := e.PendingInjections(); n != 6 {
		t.Fatalf("queue = %d, want 6", n)
	}
	mid := e.injectQueue[2]
	if !mid.pressed || !approxEqual(mid.p.X, 40, epsilon) || !approxEqual(mid.p.Y, 20, epsilon) {
		t.Errorf("second move = %+v, want (40,20) pressed", mid)
	}
	if last := e.injectQueue[5]; last.pressed || last.p != (Vec2{100, 50}) {
		t.Errorf("release = %+v", last)
	}
}

func TestInjectDragMinFrames(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.InjectDrag(0, 0, 10, 10, 0)
	if n := e.PendingInjections(); n != 2 {
		t.Errorf("queue = %d, want 2", n)
	}
}

func TestProcessInjectedInputOnePerFrame(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.PlaceElement(Vec2{700, 360})
	e.InjectDrag(700, 360, 740, 360, 3)

	e.step(frame)
	if e.TransformState() != TransformDragging {
		t.Fatalf("after press: state = %v", e.TransformState())
	}
	e.step(frame)
	e.step(frame)
	if e.PendingInjections() != 0 {
		t.Fatalf("queue not drained: %d", e.PendingInjections())
	}
	assertVec3Near(t, "dragged", e.ActiveElements()[0].Position, Vec3{10, 0, 0}, epsilon)
	if e.TransformState() != TransformIdle {
		t.Errorf("state = %v after release", e.TransformState())
	}
}

func TestProcessInjectedInputEmptyQueue(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	if e.processInjectedInput() {
		t.Error("empty queue reported an event")
	}
}

func TestInjectKeyAndModifiers(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.PlaceElement(Vec2{600, 360})
	e.PlaceElement(Vec2{700, 360})

	e.InjectClick(600, 360)
	e.InjectPress(700, 360)
	e.InjectModifiers(ModShift)
	e.InjectRelease(700, 360)
	e.InjectModifiers(ModShift)
	for range 4 {
		e.step(frame)
	}
	if e.Selection().Len() != 2 {
		t.Fatalf("selected %d, want 2 via shift-click", e.Selection().Len())
	}

	e.InjectKey(KeyDelete, 0)
	e.step(frame)
	if n := len(e.ActiveElements()); n != 0 {
		t.Errorf("elements = %d after injected delete", n)
	}
}

func TestInjectedHoverMove(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.InjectMove(10, 10)
	e.injectQueue[0].pressed = false
	e.step(frame)
	if e.hover != (Vec2{10, 10}) {
		t.Errorf("hover = %+v", e.hover)
	}
}
