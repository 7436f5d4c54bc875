package kvrepo

import (
	"context"
	"fmt"

	"kls/internal/core/apperror"
	"kls/internal/core/id"
	"kls/internal/core/kvstore"
	"kls/internal/domain/purchase"
	"kls/internal/infrastructure/storage/codec"
)

// PurchaseRepo stores orders under the "purchases" key.
type PurchaseRepo struct {
	orders *Collection[*purchase.Order]
}

// NewPurchaseRepo creates the repository. The singular "purchase" key is
// read when "purchases" does not exist yet.
func NewPurchaseRepo(store kvstore.Store, c *codec.Codec) *PurchaseRepo {
	return &PurchaseRepo{
		orders: NewCollection(store, c, kvstore.KeyPurchases,
			func(o *purchase.Order) id.ID { return o.ID },
			(*purchase.Order).Clone,
			kvstore.LegacyKeyPurchase),
	}
}

// Create implements purchase.Repository.
func (r *PurchaseRepo) Create(ctx context.Context, order *purchase.Order) error {
	if _, found, err := r.orders.Get(ctx, order.ID); err != nil {
		return err
	} else if found {
		return apperror.NewDuplicate("purchase order", "id", order.ID.String())
	}
	return r.orders.Insert(ctx, order)
}

// GetByID implements purchase.Repository.
func (r *PurchaseRepo) GetByID(ctx context.Context, orderID id.ID) (*purchase.Order, error) {
	order, found, err := r.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NewNotFound("purchase order", orderID)
	}
	return order, nil
}

// Update implements purchase.Repository. The payment history can only grow.
func (r *PurchaseRepo) Update(ctx context.Context, order *purchase.Order) error {
	current, err := r.GetByID(ctx, order.ID)
	if err != nil {
		return err
	}
	if len(order.PaymentHistory) < len(current.PaymentHistory) {
		return apperror.NewInternal(fmt.Errorf("order %s: payment history cannot shrink", order.OrderNumber))
	}

	found, err := r.orders.Replace(ctx, order)
	if !found && err == nil {
		return apperror.NewNotFound("purchase order", order.ID)
	}
	return err
}

// Delete implements purchase.Repository.
func (r *PurchaseRepo) Delete(ctx context.Context, orderID id.ID) error {
	found, err := r.orders.Remove(ctx, orderID)
	if !found && err == nil {
		return apperror.NewNotFound("purchase order", orderID)
	}
	return err
}

// List implements purchase.Repository.
func (r *PurchaseRepo) List(ctx context.Context) ([]*purchase.Order, error) {
	return r.orders.All(ctx)
}

var _ purchase.Repository = (*PurchaseRepo)(nil)
