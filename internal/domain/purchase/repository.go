package purchase

import (
	"context"
	"time"

	"kls/internal/core/id"
	"kls/internal/core/types"
)

// Repository stores purchase orders.
//
// Implementations hand out copies: mutating a returned order has no effect
// until it is passed back to Update. Create, Update and Delete apply the
// change to the working set first and then persist it; when only the
// persisting step fails they return an apperror with CodePersistence and the
// change stays applied.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, orderID id.ID) error
	// List returns every order in insertion order.
	List(ctx context.Context) ([]*Order, error)
}

// SupplierBook mirrors order events onto the supplier ledger.
type SupplierBook interface {
	// PostDebit records a purchase, creating the supplier when no supplier
	// with that name (ignoring case) exists yet.
	PostDebit(ctx context.Context, supplier, address string, date time.Time, description string, amount types.Money) error
	// PostCredit records a payment to the supplier.
	PostCredit(ctx context.Context, supplier string, date time.Time, description string, amount types.Money) error
}
