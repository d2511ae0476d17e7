package fxcanvas

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultScreenshotDir = "screenshots"

// SetScreenshotDir sets where Screenshot writes its PNG files.
func (e *Editor) SetScreenshotDir(dir string) { e.shotDir = dir }

// Screenshot queues a capture of the canvas. The PNG is written at the end
// of the next Draw as <dir>/<timestamp>_<label>.png.
func (e *Editor) Screenshot(label string) {
	e.shots = append(e.shots, label)
}

// PendingScreenshots returns the number of queued captures.
func (e *Editor) PendingScreenshots() int { return len(e.shots) }

func (e *Editor) flushScreenshots(screen *ebiten.Image) {
	if len(e.shots) == 0 {
		return
	}
	labels := e.shots
	e.shots = e.shots[:0]

	if err := os.MkdirAll(e.shotDir, 0o755); err != nil {
		e.logger.Error("screenshot", "dir", e.shotDir, "error", err)
		return
	}
	img := canvasPixels(screen)
	stamp := e.clock.Now().Format("20060102_150405")
	for _, label := range labels {
		path := filepath.Join(e.shotDir, stamp+"_"+screenshotName(label)+".png")
		if err := writePNG(path, img); err != nil {
			e.logger.Error("screenshot", "error", err)
			continue
		}
		e.logger.Info("screenshot saved", "path", path)
	}
}

// canvasPixels reads the frame back as straight-alpha NRGBA.
func canvasPixels(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(img.Pix)
	for i := 0; i < len(img.Pix); i += 4 {
		a := int(img.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := range 3 {
			img.Pix[i+c] = uint8(min(int(img.Pix[i+c])*255/a, 255))
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// screenshotName maps label to a file-name-safe token.
func screenshotName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "canvas"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
