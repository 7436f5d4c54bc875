package reports

import (
	"context"

	"kls/internal/core/id"
	"kls/internal/domain/purchase"
	"kls/internal/domain/supplier"
)

// Repository defines report data access interface.
type Repository interface {
	// Orders returns every purchase order.
	Orders(ctx context.Context) ([]*purchase.Order, error)

	// Supplier returns one supplier with its ledger.
	Supplier(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error)
}
