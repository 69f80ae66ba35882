package main

import (
	"log/slog"
	"os"

	"github.com/mkortel/panelauth/internal/app"
	"github.com/mkortel/panelauth/internal/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	log.Info("starting admin console", slog.String("env", cfg.Env))

	ui := newConsoleUI(os.Stdout, os.Stderr)
	application := app.New(log, cfg, ui)
	defer application.Close()

	ui.history = application.History

	root := newRootCmd(application, ui)
	err := root.Execute()

	// Deferred redirects queued by guards run after the command's own
	// navigation has fully settled.
	ui.Flush()

	if err != nil {
		os.Exit(1)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}
