package fxcanvas

import (
	"fmt"
	"os"
)

// debugStats holds per-frame editor counters. Only gathered when the editor
// is in debug mode.
type debugStats struct {
	layer     string
	elements  int
	selected  int
	transform TransformState
	records   int
	pending   int
	scale     float64
	view      ViewMode
}

func (e *Editor) collectStats() debugStats {
	return debugStats{
		layer:     e.activeLayer,
		elements:  len(e.activeElements()),
		selected:  e.sel.Len(),
		transform: e.engine.State(),
		records:   e.rec.Len(),
		pending:   len(e.injectQueue),
		scale:     e.view.Scale,
		view:      e.view.Mode,
	}
}

// debugLog prints editor stats to stderr.
func (e *Editor) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[fxcanvas] layer: %s | elements: %d | selected: %d | transform: %s\n",
		stats.layer, stats.elements, stats.selected, stats.transform)
	_, _ = fmt.Fprintf(os.Stderr,
		"[fxcanvas] view: %s | scale: %.2f | records: %d | injected: %d\n",
		stats.view, stats.scale, stats.records, stats.pending)
}

// debugMaxLayerElements is the element count above which a layer warning
// is printed.
const debugMaxLayerElements = 20000

func debugCheckLayerSize(layerID string, n int) {
	if n > debugMaxLayerElements {
		_, _ = fmt.Fprintf(os.Stderr, "[fxcanvas] warning: layer %s has %d elements (threshold %d)\n",
			layerID, n, debugMaxLayerElements)
	}
}
