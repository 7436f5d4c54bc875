package kvrepo

import (
	"context"

	"kls/internal/core/apperror"
	"kls/internal/core/id"
	"kls/internal/core/kvstore"
	"kls/internal/domain/supplier"
	"kls/internal/infrastructure/storage/codec"
)

// SupplierRepo stores suppliers under the "suppliers" key.
type SupplierRepo struct {
	suppliers *Collection[*supplier.Supplier]
}

// NewSupplierRepo creates the repository.
func NewSupplierRepo(store kvstore.Store, c *codec.Codec) *SupplierRepo {
	return &SupplierRepo{
		suppliers: NewCollection(store, c, kvstore.KeySuppliers,
			func(s *supplier.Supplier) id.ID { return s.ID },
			(*supplier.Supplier).Clone),
	}
}

// Create implements supplier.Repository.
func (r *SupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	return r.suppliers.Insert(ctx, s)
}

// GetByID implements supplier.Repository.
func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	s, found, err := r.suppliers.Get(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFound("supplier", supplierID)
	}
	return s, nil
}

// GetByName implements supplier.Repository.
func (r *SupplierRepo) GetByName(ctx context.Context, name string) (*supplier.Supplier, error) {
	s, found, err := r.suppliers.Find(ctx, func(s *supplier.Supplier) bool { return s.MatchesName(name) })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFound("supplier", name)
	}
	return s, nil
}

// Update implements supplier.Repository.
func (r *SupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	found, err := r.suppliers.Replace(ctx, s)
	if !found && err == nil {
		return apperror.NewNotFound("supplier", s.ID)
	}
	return err
}

// Delete implements supplier.Repository.
func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	found, err := r.suppliers.Remove(ctx, supplierID)
	if !found && err == nil {
		return apperror.NewNotFound("supplier", supplierID)
	}
	return err
}

// List implements supplier.Repository.
func (r *SupplierRepo) List(ctx context.Context) ([]*supplier.Supplier, error) {
	return r.suppliers.All(ctx)
}

var _ supplier.Repository = (*SupplierRepo)(nil)
