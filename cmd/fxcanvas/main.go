// Command fxcanvas opens the particle editor in a window.
//
// Environment:
//
//	FXCANVAS_CONFIG   path to a TOML settings file
//	FXCANVAS_DB       session database (default data/sessions.db)
//	FXCANVAS_SESSION  id of a saved session to open
//	FXCANVAS_SCRIPT   JSON input script to replay on start
//	FXCANVAS_DEBUG    print per-frame stats to stderr
//
// Ctrl+S saves the current layers and action log to the database. F12
// writes a PNG of the canvas to screenshots/.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/fxcanvas"
	"github.com/phanxgames/fxcanvas/sqlitestore"
)

const (
	windowTitle    = "fxcanvas"
	defaultDBPath  = "data/sessions.db"
	defaultSession = "untitled"
	saveTimeout    = 5 * time.Second
)

func main() {
	cfg, err := fxcanvas.LoadConfig(getenv("FXCANVAS_CONFIG", ""))
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()
	db, err := sqlitestore.Open(ctx, getenv("FXCANVAS_DB", defaultDBPath))
	if err != nil {
		log.Fatalf("open session db: %v", err)
	}
	defer db.Close()

	store := fxcanvas.NewMemoryStore()
	ed := fxcanvas.NewEditor(cfg, store, fxcanvas.WithLogger(logger))
	ed.SetDebugMode(getenvBool("FXCANVAS_DEBUG", false))

	// Saves after the first reuse one row.
	name := defaultSession
	var sessID string
	var created time.Time
	if id := getenv("FXCANVAS_SESSION", ""); id != "" {
		sess, err := db.Load(ctx, id)
		if err != nil {
			log.Fatal(err)
		}
		if err := ed.Restore(sess); err != nil {
			log.Fatal(err)
		}
		name, sessID, created = sess.Name, sess.ID, sess.CreatedAt
		logger.Info("session restored", "id", sess.ID, "elements", sess.ElementCount())
	} else {
		layer := store.AddLayer("layer 1", cfg.DefaultColor)
		if err := ed.SetActiveLayer(layer); err != nil {
			log.Fatal(err)
		}
	}

	if path := getenv("FXCANVAS_SCRIPT", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal(err)
		}
		runner, err := fxcanvas.LoadScript(data)
		if err != nil {
			log.Fatal(err)
		}
		ed.SetScriptRunner(runner)
	}

	save := func() {
		sctx, cancel := context.WithTimeout(ctx, saveTimeout)
		defer cancel()
		sess := ed.Snapshot(name)
		if sessID != "" {
			sess.ID, sess.CreatedAt = sessID, created
		} else {
			sessID, created = sess.ID, sess.CreatedAt
		}
		if err := db.Save(sctx, sess); err != nil {
			logger.Error("save session", "error", err)
			return
		}
		logger.Info("session saved", "id", sess.ID, "elements", sess.ElementCount(), "actions", len(sess.Actions))
	}

	err = fxcanvas.Run(ed, fxcanvas.RunConfig{
		Title:  windowTitle,
		Width:  cfg.CanvasWidth,
		Height: cfg.CanvasHeight,
		OnUpdate: func() error {
			ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
			if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS) {
				save()
			}
			if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
				ed.Screenshot(name)
			}
			return nil
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
