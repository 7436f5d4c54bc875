package supplier

import (
	"context"

	"kls/internal/core/id"
)

// Repository stores suppliers. See purchase.Repository for the copy and
// persistence-failure contract, which is the same here.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	// GetByName matches ignoring case; NotFound when absent.
	GetByName(ctx context.Context, name string) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	List(ctx context.Context) ([]*Supplier, error)
}
