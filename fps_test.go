package fxcanvas

import "testing"

func TestFPSMeterRefresh(t *testing.T) {
	var m fpsMeter
	if !m.update(frame, 60, 60) {
		t.Fatal("first update should fill the readout")
	}
	if m.text != "FPS 60.0 TPS 60.0" {
		t.Errorf("text = %q", m.text)
	}
	// Within the refresh window the readout holds.
	if m.update(0.1, 30, 60) {
		t.Error("readout refreshed early")
	}
	if m.text != "FPS 60.0 TPS 60.0" {
		t.Errorf("text changed to %q", m.text)
	}
	if !m.update(0.5, 30, 60) {
		t.Error("readout did not refresh after the window")
	}
	if m.text != "FPS 30.0 TPS 60.0" {
		t.Errorf("text = %q", m.text)
	}
}

func TestDebugStepFillsFPS(t *testing.T) {
	e, _, _, _ := newTestEditor(t)
	e.SetDebugMode(true)
	captureStderr(t, func() { e.step(frame) })
	if e.fps.text == "" {
		t.Error("debug step left the FPS readout empty")
	}
}
