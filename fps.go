package fxcanvas

import "fmt"

const (
	// fpsRefreshSeconds is how often the debug frame-rate readout changes.
	fpsRefreshSeconds = 0.5
	fpsReadoutWidth   = 110
)

// fpsMeter holds the frame-rate line shown in the HUD in debug mode.
type fpsMeter struct {
	elapsed float32
	text    string
}

// update accumulates dt and refreshes the readout every fpsRefreshSeconds.
// It reports whether the text changed.
func (m *fpsMeter) update(dt float32, fps, tps float64) bool {
	m.elapsed += dt
	if m.text != "" && m.elapsed < fpsRefreshSeconds {
		return false
	}
	m.elapsed = 0
	m.text = fmt.Sprintf("FPS %.1f TPS %.1f", fps, tps)
	return true
}
