// Package main is the entry point for the KLS purchase ledger API server.
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

	"kls/internal/app"
	"kls/internal/config"
	v1 "kls/internal/infrastructure/http/v1"
	"kls/internal/infrastructure/jobs"
	"kls/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting kls server", "storage", cfg.StorageDriver, "env", cfg.Env)

	ledger, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatalw("failed to initialize storage", "error", err)
	}
	defer func() { _ = ledger.Close(context.Background()) }()

	// --- Scheduled jobs ---
	scheduler := jobs.NewScheduler(time.Local, log)
	if cfg.SummaryCron != "" {
		if _, err := scheduler.Add(cfg.SummaryCron, jobs.CreditSummaryJobName,
			jobs.CreditSummary(ledger.Reports, ledger.Notifier)); err != nil {
			log.Fatalw("failed to schedule credit summary", "error", err)
		}
	}
	scheduler.Start()

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:        log,
		Purchases:     ledger.Purchases,
		Suppliers:     ledger.Suppliers,
		Reports:       ledger.Reports,
		Clock:         ledger.Clock,
		Store:         ledger.Store,
		StorageDriver: cfg.StorageDriver,
		CORSOrigins:   cfg.CORSOrigins,
		Debug:         cfg.Development(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
