package numerator

import (
	"context"
	"time"
)

// Generator issues order numbers.
//
// No counter is stored anywhere: implementations derive the next value from
// the records that already exist, so restoring or importing data can never
// leave a stale counter behind.
type Generator interface {
	// PeekNext returns the number the next order on day would get, without
	// reserving it. Used to pre-fill an unsubmitted form.
	PeekNext(ctx context.Context, day time.Time) (string, error)

	// Reserve returns the number for an order about to be persisted. Callers
	// must hold the writer lock until the order is stored; storing the order
	// is the reservation.
	Reserve(ctx context.Context, day time.Time) (string, error)
}
