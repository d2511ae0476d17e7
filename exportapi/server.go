// Package exportapi serves saved editor sessions over HTTP so runtime
// consumers can fetch element layouts and action logs.
package exportapi

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/phanxgames/fxcanvas"
	"github.com/phanxgames/fxcanvas/sqlitestore"
)

// SessionSource is the read side of a session repository.
type SessionSource interface {
	List(ctx context.Context) ([]sqlitestore.Summary, error)
	Load(ctx context.Context, id string) (fxcanvas.Session, error)
}

// SessionDeleter is implemented by sources that can remove sessions. When
// the source implements it, DELETE /api/v1/sessions/:id is mounted.
type SessionDeleter interface {
	Delete(ctx context.Context, id string) error
}

// Config configures the HTTP server.
type Config struct {
	AppName      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AccessLog enables the request logger middleware.
	AccessLog bool
	Logger    *slog.Logger
}

type handlers struct {
	src    SessionSource
	logger *slog.Logger
}

// New builds the fiber app serving src.
func New(src SessionSource, cfg Config) *fiber.App {
	if cfg.AppName == "" {
		cfg.AppName = "fxcanvas export"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AppName:      cfg.AppName,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}

	h := &handlers{src: src, logger: cfg.Logger}

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	api := app.Group("/api/v1")
	api.Get("/sessions", h.listSessions)
	api.Get("/sessions/:id", h.getSession)
	api.Get("/sessions/:id/elements", h.getElements)
	api.Get("/sessions/:id/actions", h.getActions)
	if d, ok := src.(SessionDeleter); ok {
		api.Delete("/sessions/:id", h.deleteSession(d))
	}
	return app
}

func (h *handlers) listSessions(c fiber.Ctx) error {
	list, err := h.src.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	if list == nil {
		list = []sqlitestore.Summary{}
	}
	return c.JSON(fiber.Map{"sessions": list})
}

func (h *handlers) getSession(c fiber.Ctx) error {
	sess, err := h.src.Load(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess)
}

// getElements returns the elements of every layer, or of one layer when
// the layer query parameter is set.
func (h *handlers) getElements(c fiber.Ctx) error {
	sess, err := h.src.Load(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	layers := sess.Layers
	if id := c.Query("layer"); id != "" {
		l, ok := sess.Layer(id)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "layer not found",
				"layer": id,
			})
		}
		layers = []fxcanvas.Layer{l}
	}
	elems := []fxcanvas.Element{}
	for _, l := range layers {
		elems = append(elems, l.Elements...)
	}
	return c.JSON(fiber.Map{
		"sessionId": sess.ID,
		"count":     len(elems),
		"elements":  elems,
	})
}

// getActions returns the action log, optionally filtered by type.
func (h *handlers) getActions(c fiber.Ctx) error {
	sess, err := h.src.Load(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	actions := []fxcanvas.ActionRecord{}
	want := fxcanvas.ActionType(c.Query("type"))
	totalTicks := 0
	for _, a := range sess.Actions {
		if want != "" && a.Type != want {
			continue
		}
		actions = append(actions, a)
		totalTicks += a.DelayTicks
	}
	return c.JSON(fiber.Map{
		"sessionId":  sess.ID,
		"count":      len(actions),
		"totalTicks": totalTicks,
		"actions":    actions,
	})
}

func (h *handlers) deleteSession(d SessionDeleter) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := d.Delete(c.Context(), c.Params("id")); err != nil {
			return h.fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func (h *handlers) fail(c fiber.Ctx, err error) error {
	if errors.Is(err, sqlitestore.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	h.logger.Error("export request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
