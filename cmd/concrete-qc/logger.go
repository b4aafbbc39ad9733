package main

import (
	"context"
	"log/slog"
	"os"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// dualHandler writes everything to the core handler and copies errors to a
// separate file.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		// Error file failures are ignored; stdout already has the record.
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env, errorLog string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	if errorLog == "" {
		return slog.New(coreHandler)
	}

	errorFile, err := os.OpenFile(errorLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		slog.Warn("cannot open error log file", slog.String("path", errorLog), slog.String("error", err.Error()))
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}
