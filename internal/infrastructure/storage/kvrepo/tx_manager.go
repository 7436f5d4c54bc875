package kvrepo

import (
	"context"

	"kls/internal/core/tx"
)

// TxManager makes every unit of work exclusive: one writer at a time holds
// the in-memory collections. With a SQL backend the work also runs inside
// the backend's transaction (inner).
type TxManager struct {
	mu    chan struct{}
	inner tx.Manager
}

// NewTxManager creates the writer lock. inner may be nil.
func NewTxManager(inner tx.Manager) *TxManager {
	return &TxManager{mu: make(chan struct{}, 1), inner: inner}
}

type heldKey struct{}

// RunInTransaction implements tx.Manager. Nested calls with a ctx that
// already holds the lock run directly. Waiting for the lock honors ctx.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if held, _ := ctx.Value(heldKey{}).(*TxManager); held == m {
		return fn(ctx)
	}

	select {
	case m.mu <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-m.mu }()

	ctx = context.WithValue(ctx, heldKey{}, m)
	if m.inner != nil {
		return m.inner.RunInTransaction(ctx, fn)
	}
	return fn(ctx)
}

var _ tx.Manager = (*TxManager)(nil)
