package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	v1 "github.com/missionmap/tileserver/internal/infrastructure/http/v1"
	"github.com/missionmap/tileserver/internal/infrastructure/http/v1/handler"
	"github.com/missionmap/tileserver/internal/repository/store"
	"github.com/missionmap/tileserver/internal/upstream"
	"github.com/missionmap/tileserver/internal/usecase"
	"github.com/missionmap/tileserver/pkg/config"
	"github.com/missionmap/tileserver/pkg/http_server"
	"github.com/missionmap/tileserver/pkg/logger"
	"github.com/missionmap/tileserver/pkg/telemetry"
)

func Run(cfg *config.Config) {
	l := logger.NewZapLogger(cfg.Logger)

	l.Info("app config", "cfg", cfg)

	ctx := context.Background()
	ctx = logger.WithLogger(ctx, l)

	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
			Environment:    cfg.Telemetry.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		}, l)
		if err != nil {
			l.Fatal("failed to initialize telemetry", "error", err)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				l.Error("failed to shutdown telemetry", "error", err)
			}
		}()
	}

	tileStore, err := store.New(cfg.Cache.Dir, l)
	if err != nil {
		l.Fatal("failed to initialize tile store", "dir", cfg.Cache.Dir, "error", err)
	}

	fetcher := upstream.New(tileStore, cfg.Upstream, l)

	tileUseCase := usecase.NewTileUseCase(tileStore, fetcher, cfg.Cache, l)
	prefetchUseCase := usecase.NewPrefetchUseCase(tileStore, fetcher, cfg.Prefetch.Workers, l)

	validate := validator.New()
	h := handler.NewHandler(validate, tileUseCase, prefetchUseCase, cfg.Resources.Dir)
	router := v1.NewRouter(h, l, cfg.Telemetry.Enabled)

	httpServer := http_server.New(cfg.HTTP.Server, router, l)

	port, err := httpServer.Start()
	if err != nil {
		// Port exhaustion is terminal; the owner decides whether to retry
		// with a different range.
		l.Fatal("tile server failed to start", "error", err)
	}

	// The owner reads this port to construct tile and resource URLs for
	// the renderer.
	l.Info("tile server listening", "host", cfg.HTTP.Server.Host, "port", port)

	if cfg.Prefetch.WarmOnStart {
		go prefetchUseCase.PrefetchRegion(ctx, usecase.Region{
			Source:    "TOPO",
			CenterLat: cfg.Prefetch.CenterLat,
			CenterLon: cfg.Prefetch.CenterLon,
			ZoomMin:   cfg.Prefetch.ZoomMin,
			ZoomMax:   cfg.Prefetch.ZoomMax,
			Radius:    cfg.Prefetch.Radius,
		})
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		l.Info("received shutdown signal")
	case err := <-httpServer.Notify():
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("http server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	l.Info("shutting down http server...", "port", port)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Error("http server shutdown failed", "error", err)
	} else {
		l.Info("http server shutdown completed")
	}

	l.Info("application shutdown completed")
}
