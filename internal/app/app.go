// Package app wires the storage backend and the ledger services from Config.
package app

import (
	"context"
	"fmt"

	"kls/internal/config"
	"kls/internal/core/clock"
	"kls/internal/core/kvstore"
	"kls/internal/core/notify"
	"kls/internal/core/numerator"
	"kls/internal/core/tx"
	"kls/internal/domain/purchase"
	"kls/internal/domain/reports"
	"kls/internal/domain/supplier"
	"kls/internal/infrastructure/storage/codec"
	"kls/internal/infrastructure/storage/kvrepo"
	"kls/internal/infrastructure/storage/memory"
	"kls/internal/infrastructure/storage/mongo"
	"kls/internal/infrastructure/storage/postgres"
	"kls/pkg/logger"
)

// Store is a storage backend that can report connectivity.
type Store interface {
	kvstore.Store
	kvstore.Pinger
}

// App holds the wired services.
type App struct {
	Store     Store
	Purchases *purchase.Service
	Suppliers *supplier.Service
	Reports   *reports.Service
	Clock     clock.Clock
	Notifier  notify.Sink

	closers []func(ctx context.Context) error
}

// Options override collaborators, mainly for tests.
type Options struct {
	Clock    clock.Clock
	Notifier notify.Sink
}

// New opens the configured backend, normalizes legacy keys and builds the services.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.LogSink{}
	}

	a := &App{Clock: opts.Clock, Notifier: opts.Notifier}
	inner, err := a.openStore(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	report, err := kvrepo.Bootstrap(ctx, a.Store)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("bootstrap storage: %w", err)
	}
	if len(report.Migrated) > 0 || len(report.Deleted) > 0 {
		logger.Info(ctx, "storage bootstrapped", "migrated", report.Migrated, "deleted", report.Deleted)
	}

	c, err := codec.New(cfg.CompressThreshold)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("create codec: %w", err)
	}

	txm := kvrepo.NewTxManager(inner)
	orders := kvrepo.NewPurchaseRepo(a.Store, c)
	supplierRepo := kvrepo.NewSupplierRepo(a.Store, c)

	a.Suppliers = supplier.NewService(supplierRepo, txm, a.Clock, a.Notifier)
	a.Purchases = purchase.NewService(
		orders,
		purchase.NewSequencer(orders, numerator.DefaultConfig()),
		a.Suppliers,
		txm,
		a.Clock,
		a.Notifier,
	)
	a.Reports = reports.NewService(kvrepo.NewReportRepo(orders, supplierRepo), a.Clock)

	return a, nil
}

// openStore returns the backend transaction manager, if the backend has one.
func (a *App) openStore(ctx context.Context, cfg config.Config) (tx.Manager, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		a.Store = memory.NewStore()
		return nil, nil

	case config.DriverPostgres:
		if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		postgres.LogPoolStats(ctx, pool)
		txm := postgres.NewTxManager(pool)
		a.Store = postgres.NewKVStore(pool, txm)
		return txm, nil

	case config.DriverMongo:
		store, err := mongo.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.Store = store
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// Close releases backend connections.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
