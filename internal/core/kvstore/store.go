// Package kvstore defines the key-value contract the ledger persists into.
// Every key holds one opaque value; the ledger writes JSON documents.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("kvstore: key not found")

// Well-known keys.
const (
	KeyPurchases   = "purchases"
	KeySuppliers   = "suppliers"
	KeyCustomers   = "customers"
	KeySales       = "sales"
	KeyRateHistory = "rateHistory"

	// LegacyKeyPurchase is the singular name some saved data uses.
	LegacyKeyPurchase = "purchase"
)

// Store is implemented by the memory, postgres and mongo backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists keys starting with prefix, sorted ascending.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
