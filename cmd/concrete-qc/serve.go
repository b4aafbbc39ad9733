package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"concrete-qc/internal/config"
	"concrete-qc/internal/service/controlchart"
	generate_excel "concrete-qc/internal/service/generate-excel"
	"concrete-qc/internal/service/qc"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the report web server",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}

	cmd.Flags().String("config", "", "Path to config YAML (default $CONFIG_PATH or ./config/local.yaml)")

	return cmd
}

func serve(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("config flag: %w", err)
	}

	cfg := config.MustConfig(path)
	log := setupLogger(cfg.Env, cfg.ErrorLog)

	renderer, err := controlchart.NewRenderer(cfg.Report.ChartWidth, cfg.Report.ChartHeight, cfg.Report.FontPath)
	if err != nil {
		log.Error("failed to load chart font", slog.String("error", err.Error()))
		return err
	}

	reports := qc.NewService(log, renderer)
	numeric := qc.NewService(log, nil)
	genService := generate_excel.NewGenerateService(numeric)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, reports, numeric, genService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		return err
	}
	log.Info("server stopped")
	return nil
}
