// Package tx provides transaction management abstractions.
// Domain services depend on Manager, never on a concrete storage backend.
package tx

import (
	"context"
)

// Manager defines the contract for a unit of work.
//
// Implementations serialize writers and, where the backend supports it,
// wrap the work in a database transaction. Nested calls reuse the unit of
// work already carried by ctx.
type Manager interface {
	// RunInTransaction executes fn as one unit of work.
	// If fn returns an error, the backend transaction (if any) is rolled back.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
