// Package main provides a CLI tool for seeding the ledger with demo suppliers
// and purchase orders.
package main

import (
	"context"
	"fmt"
	"os"

	"kls/internal/app"
	"kls/internal/config"
	"kls/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := logger.WithLogger(context.Background(), log)

	ledger, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatalw("failed to initialize storage", "error", err)
	}
	defer func() { _ = ledger.Close(context.Background()) }()

	log.Infow("seeding", "storage", cfg.StorageDriver)

	stats, err := seed(ctx, ledger)
	if err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}
	log.Infow("seed complete",
		"suppliers", stats.Suppliers,
		"orders", stats.Orders,
		"payments", stats.Payments,
		"skipped", stats.Skipped,
	)
}
