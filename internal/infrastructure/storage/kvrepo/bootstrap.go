package kvrepo

import (
	"context"
	"errors"
	"fmt"

	"kls/internal/core/kvstore"
	"kls/pkg/logger"
)

// Keys left behind by the old counter-based order numbering. Numbers are now
// derived from stored orders, so these are dropped.
var (
	legacyCounterPrefixes = []string{"invoiceCounter_", "invoice_counter_"}
	legacyCounterKeys     = []string{"lastInvoiceDate", "last_invoice_date"}
)

// BootstrapReport lists what Bootstrap changed.
type BootstrapReport struct {
	Migrated []string `json:"migrated"`
	Deleted  []string `json:"deleted"`
}

// Bootstrap normalizes stored state before the repositories load it:
// orders saved under "purchase" move to "purchases" (only when "purchases"
// does not exist), and the legacy numbering keys are removed.
func Bootstrap(ctx context.Context, store kvstore.Store) (BootstrapReport, error) {
	var report BootstrapReport

	moved, err := moveKey(ctx, store, kvstore.LegacyKeyPurchase, kvstore.KeyPurchases)
	if err != nil {
		return report, err
	}
	if moved {
		report.Migrated = append(report.Migrated, kvstore.LegacyKeyPurchase+"->"+kvstore.KeyPurchases)
	}

	stale := append([]string(nil), legacyCounterKeys...)
	for _, prefix := range legacyCounterPrefixes {
		keys, err := store.Keys(ctx, prefix)
		if err != nil {
			return report, fmt.Errorf("list %s keys: %w", prefix, err)
		}
		stale = append(stale, keys...)
	}

	for _, key := range stale {
		if _, err := store.Get(ctx, key); errors.Is(err, kvstore.ErrNotFound) {
			continue
		} else if err != nil {
			return report, fmt.Errorf("read %s: %w", key, err)
		}
		if err := store.Delete(ctx, key); err != nil {
			return report, fmt.Errorf("delete %s: %w", key, err)
		}
		report.Deleted = append(report.Deleted, key)
	}

	if len(report.Migrated) > 0 || len(report.Deleted) > 0 {
		logger.Info(ctx, "storage bootstrap applied",
			"migrated", report.Migrated,
			"deleted", report.Deleted)
	}
	return report, nil
}

func moveKey(ctx context.Context, store kvstore.Store, from, to string) (bool, error) {
	value, err := store.Get(ctx, from)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", from, err)
	}

	if _, err := store.Get(ctx, to); err == nil {
		logger.Warn(ctx, "both legacy and canonical keys exist, keeping legacy data untouched",
			"legacy_key", from, "key", to)
		return false, nil
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		return false, fmt.Errorf("read %s: %w", to, err)
	}

	if err := store.Put(ctx, to, value); err != nil {
		return false, fmt.Errorf("write %s: %w", to, err)
	}
	if err := store.Delete(ctx, from); err != nil {
		return false, fmt.Errorf("delete %s: %w", from, err)
	}
	return true, nil
}
