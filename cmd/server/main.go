package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"esi-server/internal/cache"
	"esi-server/internal/esi"
	"esi-server/internal/middleware"
	"esi-server/internal/planet"
	"esi-server/internal/server"
	"esi-server/internal/shared/config"
	"esi-server/internal/shared/logger"
	"esi-server/internal/shared/retry"
	"esi-server/internal/shared/telemetry"
	"esi-server/internal/system"
	"esi-server/internal/universe"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}

	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	log.Info("Starting ESI server",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache_backend", cfg.Cache.Backend,
		"sync_enabled", cfg.Sync.Enabled,
		"sync_interval", cfg.Sync.Interval,
		"admin_enabled", cfg.AdminEnabled(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	store, err := cache.Open(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Cache close failed", "error", err)
		}
	}()

	client := esi.NewClient(cfg.ESI, slog.Default())
	retrier := retry.New(cfg.Sync.RetryAttempts, cfg.Sync.RetryDelay, slog.Default())

	planetService := planet.NewService(planet.NewRepository(store, slog.Default()), client, retrier, slog.Default())
	systemService := system.NewService(system.NewRepository(store, slog.Default()), client, planetService, retrier, slog.Default())
	universeService := universe.NewService(client, systemService, slog.Default())
	scheduler := universe.NewScheduler(universeService, cfg.Sync.Interval, slog.Default())

	var wg sync.WaitGroup
	if cfg.Sync.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scheduler.Run(ctx)
		}()
	} else {
		log.Warn("Background sync disabled, serving cached data only")
	}

	routes := server.NewRoutes(store, cfg.Cache.Backend, systemService, planetService, universeService, scheduler, cfg.Auth.JWTSecret, slog.Default())
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()
	corsMiddleware := middleware.NewCORS(cfg.Frontend)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      rateLimiter.Middleware(corsMiddleware.Middleware(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		wg.Wait()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}

	wg.Wait()
	log.Info("Server stopped")
	return nil
}
