package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"feeder-workbench/infrastructure/config"
	"feeder-workbench/infrastructure/di"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	logger := container.Logger
	logger.Info("Configuration loaded", zap.Strings("sources", cfg.LoadedFrom))

	// A stale or missing token leaves the workbench logged out; it still serves.
	if err := container.Session.Restore(ctx); err != nil {
		logger.Warn("Session not restored", zap.Error(err))
	}

	if container.RateLimiter != nil {
		go container.RateLimiter.Run(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:        cfg.ServerAddress,
		Handler:     container.Router.Setup(),
		ReadTimeout: 15 * time.Second,
		// Simulations can run for the full engine timeout
		WriteTimeout: cfg.SimulationTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	_ = logger.Sync()
	log.Println("Server stopped")
}
