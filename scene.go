package fxcanvas

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Update advances the editor by one frame: scripted and injected input (or
// live input when enabled), viewport and color animations, and the
// recorder's idle detection. Call it once per tick from ebiten.Game.Update.
func (e *Editor) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	e.step(dt)
}

// step is Update with an explicit frame time.
func (e *Editor) step(dt float32) {
	if e.runner != nil {
		e.runner.step(e)
	}
	if !e.processInjectedInput() && e.live {
		e.processLiveInput()
	}
	e.view.update(dt)
	e.colors.update(dt)
	e.updateToast(dt)

	if rec, ok := e.rec.Tick(e.activeElements()); ok {
		e.emit(Event{Type: EventRecordAppended, ElementIDs: rec.ElementIDs, Record: &rec})
	}
	if e.debug {
		e.fps.update(dt, ebiten.ActualFPS(), ebiten.ActualTPS())
		stats := e.collectStats()
		debugCheckLayerSize(stats.layer, stats.elements)
		e.debugLog(stats)
	}
}

// Layout tracks the outside size as the canvas size.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.SetCanvasSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// OnUpdate, when set, runs after the editor's Update each tick. A
	// non-nil error stops the loop.
	OnUpdate func() error
}

type gameShell struct {
	editor   *Editor
	onUpdate func() error
}

func (g *gameShell) Update() error {
	g.editor.Update()
	if g.onUpdate != nil {
		return g.onUpdate()
	}
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) { g.editor.Draw(screen) }

func (g *gameShell) Layout(w, h int) (int, int) { return g.editor.Layout(w, h) }

// Run opens a resizable window and runs the editor with live input until the
// window is closed.
func Run(e *Editor, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = e.cfg.CanvasWidth, e.cfg.CanvasHeight
	}
	if cfg.Title == "" {
		cfg.Title = "fxcanvas"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	e.SetLiveInput(true)
	return ebiten.RunGame(&gameShell{editor: e, onUpdate: cfg.OnUpdate})
}
