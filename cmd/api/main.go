package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/transfraud/internal/app"
	"github.com/Dan9191/transfraud/internal/config"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		app.NewLogger(os.Getenv("LOG_LEVEL")).Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := app.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Errorf("Shutdown error: %v", err)
		}
	}()

	if cfg.Generation.Enabled {
		if err := a.Controller.Initialize(ctx); err != nil {
			logger.Errorf("Initial data generation failed: %v", err)
		}
	}
	if err := a.Monitor.Start(ctx); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      a.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // bulk requests pace their publishes
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
