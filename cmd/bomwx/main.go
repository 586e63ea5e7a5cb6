package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/auswx/bomwx/internal/adapter/aprs"
	"github.com/auswx/bomwx/internal/adapter/bom"
	httpadapter "github.com/auswx/bomwx/internal/adapter/http"
	"github.com/auswx/bomwx/internal/config"
	"github.com/auswx/bomwx/internal/domain"
	"github.com/auswx/bomwx/internal/observability"
	"github.com/auswx/bomwx/internal/pipeline"
	"github.com/auswx/bomwx/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	resolver := domain.CallsignResolver{
		Mapping:   cfg.CallsignMap,
		Default:   cfg.DefaultCallsign,
		MaxLength: cfg.MaxCallLength,
	}

	fetcher := bom.NewFetcher(cfg, logger)
	p := pipeline.New(fetcher, resolver, logger, metrics, clock, cfg.SendSpacing)

	// A session lives exactly as long as a run, so each run dials a fresh
	// client and closes it on the way out.
	runOnce := func(ctx context.Context) (int, error) {
		client := aprs.NewClient(cfg, logger, clock)
		client.OnReconnect = metrics.SessionReconnects.Inc
		defer client.Close()
		return p.Run(ctx, client)
	}

	if cfg.RunInterval <= 0 {
		os.Exit(oneShot(runOnce, logger))
	}
	daemon(cfg, p, runOnce, logger)
}

// oneShot performs a single run and maps its outcome onto the process exit
// code. Sending nothing after a clean fetch is a success; failing to fetch,
// connect, or stay connected is not.
func oneShot(runOnce func(context.Context) (int, error), logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sent, err := runOnce(ctx)
	if err != nil {
		logger.Error("run failed", "error", err, "packets_sent", sent)
		return 1
	}
	return 0
}

// daemon runs the bridge on the configured interval alongside the
// health/metrics server until a termination signal arrives.
func daemon(cfg *config.Config, p *pipeline.Pipeline, runOnce func(context.Context) (int, error), logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched := scheduler.New(cfg.RunInterval, cfg.FetchTimeout+cfg.RunInterval, func(jobCtx context.Context) {
		if _, err := runOnce(jobCtx); err != nil {
			logger.Error("scheduled run failed", "error", err)
		}
	}, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
