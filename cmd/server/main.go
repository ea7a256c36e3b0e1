package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sandeep2229/push-notification-relay/internal/api"
	"github.com/Sandeep2229/push-notification-relay/internal/config"
	"github.com/Sandeep2229/push-notification-relay/internal/dispatch"
	"github.com/Sandeep2229/push-notification-relay/internal/limiter"
	"github.com/Sandeep2229/push-notification-relay/internal/poller"
	"github.com/Sandeep2229/push-notification-relay/internal/push"
	"github.com/Sandeep2229/push-notification-relay/internal/store"
	"github.com/Sandeep2229/push-notification-relay/internal/web"
	ws "github.com/Sandeep2229/push-notification-relay/internal/websocket"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize PostgreSQL
	ctx := context.Background()
	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()
	logger.Info("connected to PostgreSQL")

	// Run database migrations
	if err := pgStore.RunMigrations(ctx, "migrations"); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Initialize Redis (trigger throttle + run history)
	redisStore, err := store.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisStore.Close()
	logger.Info("connected to Redis")

	// Dashboard event hub
	hub := ws.NewHub(logger)
	go hub.Run()

	// Dispatch pipeline
	sender := push.NewClient(push.Config{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subject:    cfg.VAPIDSubject,
	}, logger)
	dispatcher := dispatch.NewDispatcher(pgStore, pgStore, sender, hub, logger, cfg.DispatchBatch)

	// Timer-driven pending check, self-invoking the dispatch endpoint
	pendingPoller := poller.New(pgStore, cfg.SiteURL, logger, cfg.PollInterval)
	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if cfg.PollEnabled {
		go pendingPoller.Start(pollCtx)
	}

	staticFS, err := web.StaticFS()
	if err != nil {
		logger.Error("failed to load static assets", "error", err)
		os.Exit(1)
	}

	trigger := limiter.New(redisStore.Client(), logger)
	router := api.NewRouter(api.RouterDeps{
		Store:          pgStore,
		Runs:           redisStore,
		Dispatch:       api.NewDispatchHandler(dispatcher, trigger, redisStore, logger, cfg.TriggerRatePerSec),
		Check:          api.NewCheckHandler(pendingPoller, logger),
		Hub:            hub,
		VAPIDPublicKey: cfg.VAPIDPublicKey,
		StaticFS:       staticFS,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
