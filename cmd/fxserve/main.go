// Command fxserve serves saved editor sessions over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phanxgames/fxcanvas/exportapi"
	"github.com/phanxgames/fxcanvas/sqlitestore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := sqlitestore.Open(context.Background(), getenv("FXCANVAS_DB", "data/sessions.db"))
	if err != nil {
		log.Fatalf("open session db: %v", err)
	}
	defer db.Close()

	app := exportapi.New(db, exportapi.Config{
		AppName:      "fxcanvas export",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		AccessLog:    true,
		Logger:       logger,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", getenv("PORT", "8090"))
	logger.Info("export server listening", "addr", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
