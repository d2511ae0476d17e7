package fxcanvas

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// SetLiveInput enables polling the real mouse and keyboard in Update.
// Headless hosts and tests leave it off and drive the editor through the
// Pointer* methods or the inject queue.
func (e *Editor) SetLiveInput(enabled bool) { e.live = enabled }

func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// processLiveInput polls the mouse, wheel and editor keys for one frame.
func (e *Editor) processLiveInput() {
	if !ebiten.IsFocused() {
		// A release outside the window is never delivered.
		if e.ptr.down {
			e.CancelPointer()
		}
		return
	}
	mods := readModifiers()
	e.processMousePointer(mods)

	if _, dy := ebiten.Wheel(); dy != 0 {
		mx, my := ebiten.CursorPosition()
		e.Wheel(dy, Vec2{float64(mx), float64(my)})
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		e.KeyPress(KeyDelete, mods)
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		e.KeyPress(KeyBackspace, mods)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		e.KeyPress(KeyEscape, mods)
	case inpututil.IsKeyJustPressed(ebiten.KeyA) && mods&(ModCtrl|ModMeta) != 0:
		e.KeyPress(KeySelectAll, mods)
	}
}

// processMousePointer turns the polled button state into press, move and
// release calls. The button captured at press time is kept until release.
func (e *Editor) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	p := Vec2{float64(mx), float64(my)}

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}
	e.processPointer(p, pressed, button, mods)
}

// processPointer is the shared edge detector for live and injected input.
func (e *Editor) processPointer(p Vec2, pressed bool, button MouseButton, mods KeyModifiers) {
	switch {
	case pressed && !e.ptr.down:
		e.PointerDown(p, button, mods)
	case pressed && e.ptr.down:
		if e.pointerStale(p, mods) {
			e.PointerMove(p, mods)
		}
	case !pressed && e.ptr.down:
		e.PointerUp(p, mods)
	default:
		if p != e.hover {
			e.PointerMove(p, mods)
		}
	}
}
