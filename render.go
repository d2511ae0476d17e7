package fxcanvas

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	particleRadius = 3
	// toastSeconds is how long a notice stays on screen.
	toastSeconds = 2.5
)

var (
	clearColor     = color.RGBA{0x14, 0x12, 0x1c, 0xff}
	gridColor      = color.RGBA{0x2a, 0x28, 0x36, 0xff}
	axisColor      = color.RGBA{0x4a, 0x46, 0x60, 0xff}
	selectionColor = color.RGBA{0x4d, 0xa6, 0xff, 0xff}
	boxFillColor   = color.RGBA{0x1a, 0x3a, 0x5c, 0x40}
	previewColor   = color.RGBA{0xff, 0xff, 0xff, 0x80}
)

// Draw renders the grid, every visible layer, the selection box with its
// handles, the box-selection rectangle, the shape preview and any toast.
func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)
	if !e.view.Ready() {
		return
	}
	e.drawGrid(screen)
	for _, l := range e.drawLayers() {
		if !l.Visible {
			continue
		}
		e.drawElements(screen, l.Elements)
	}
	e.drawSelection(screen)
	if box, ok := e.BoxSelection(); ok {
		vector.DrawFilledRect(screen, float32(box.X), float32(box.Y), float32(box.Width), float32(box.Height), boxFillColor, false)
		vector.StrokeRect(screen, float32(box.X), float32(box.Y), float32(box.Width), float32(box.Height), 1, selectionColor, false)
	}
	for _, p := range e.ShapePreview() {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), particleRadius, previewColor, true)
	}
	e.drawHUD(screen)
	e.flushScreenshots(screen)
}

// drawLayers returns the layers to render, bottom first.
func (e *Editor) drawLayers() []Layer {
	if ll, ok := e.store.(layerLister); ok {
		return ll.Layers()
	}
	if l, err := e.store.Layer(e.activeLayer); err == nil {
		return []Layer{l}
	}
	return nil
}

func (e *Editor) drawGrid(screen *ebiten.Image) {
	xs, ys := gridLines(e.view, e.cfg.GridPitch)
	h, w := float32(e.view.Height), float32(e.view.Width)
	for _, x := range xs {
		vector.StrokeLine(screen, float32(x), 0, float32(x), h, 1, gridColor, false)
	}
	for _, y := range ys {
		vector.StrokeLine(screen, 0, float32(y), w, float32(y), 1, gridColor, false)
	}
	o := e.view.PlaneToScreen(Vec2{})
	vector.StrokeLine(screen, float32(o.X), 0, float32(o.X), h, 1, axisColor, false)
	vector.StrokeLine(screen, 0, float32(o.Y), w, float32(o.Y), 1, axisColor, false)
}

func (e *Editor) drawElements(screen *ebiten.Image, elems []Element) {
	visible := e.view.VisibleBounds().Inset(-particleRadius)
	for i := range elems {
		p := e.view.WorldToScreen(elems[i].Position)
		if !visible.Contains(p.X, p.Y) {
			continue
		}
		c := e.colors.Tint(i, elems[i].Color)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), particleRadius, c.RGBA(), true)
	}
}

func (e *Editor) drawSelection(screen *ebiten.Image) {
	if e.sel.Empty() || e.sel.LayerID() != e.activeLayer {
		return
	}
	for _, el := range e.sel.Selected(e.activeElements()) {
		p := e.view.WorldToScreen(el.Position)
		vector.StrokeCircle(screen, float32(p.X), float32(p.Y), particleRadius+2, 1, selectionColor, true)
	}
	bounds, ok := e.DisplayBounds()
	if !ok {
		return
	}
	vector.StrokeRect(screen, float32(bounds.X), float32(bounds.Y), float32(bounds.Width), float32(bounds.Height), 1, selectionColor, false)
	pos := handlePositions(bounds)
	top := Vec2{bounds.Center().X, bounds.Y}
	rot := pos[HandleRotate]
	vector.StrokeLine(screen, float32(top.X), float32(top.Y), float32(rot.X), float32(rot.Y), 1, selectionColor, false)
	for h, p := range pos {
		if h == HandleRotate {
			vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), handleRadius, selectionColor, true)
			continue
		}
		vector.DrawFilledRect(screen, float32(p.X-handleRadius/2), float32(p.Y-handleRadius/2), handleRadius, handleRadius, selectionColor, false)
	}
}

func (e *Editor) drawHUD(screen *ebiten.Image) {
	status := e.view.Mode.String() + " | " + e.tool.String()
	if e.rec.IsRecording() {
		status += " | REC"
	}
	ebitenutil.DebugPrintAt(screen, status, 8, 8)
	if e.debug && e.fps.text != "" {
		ebitenutil.DebugPrintAt(screen, e.fps.text, int(e.view.Width)-fpsReadoutWidth, 8)
	}
	if e.toastTTL > 0 && e.toast != "" {
		ebitenutil.DebugPrintAt(screen, e.toast, 8, int(e.view.Height)-24)
	}
}

// showToast puts msg on the toast line for toastSeconds.
func (e *Editor) showToast(msg string) {
	e.toast = msg
	e.toastTTL = toastSeconds
}

// Toast returns the notice currently shown, if any.
func (e *Editor) Toast() (string, bool) {
	return e.toast, e.toastTTL > 0 && e.toast != ""
}

func (e *Editor) updateToast(dt float32) {
	if e.toastTTL > 0 {
		e.toastTTL -= dt
	}
}
