package kvrepo

import (
	"context"

	"kls/internal/core/id"
	"kls/internal/domain/purchase"
	"kls/internal/domain/reports"
	"kls/internal/domain/supplier"
)

// ReportRepo serves report queries from the same collections the services
// write to, so reports never see a stale snapshot.
type ReportRepo struct {
	orders    *PurchaseRepo
	suppliers *SupplierRepo
}

// NewReportRepo creates a report repository over existing repositories.
func NewReportRepo(orders *PurchaseRepo, suppliers *SupplierRepo) *ReportRepo {
	return &ReportRepo{orders: orders, suppliers: suppliers}
}

// Orders implements reports.Repository.
func (r *ReportRepo) Orders(ctx context.Context) ([]*purchase.Order, error) {
	return r.orders.List(ctx)
}

// Supplier implements reports.Repository.
func (r *ReportRepo) Supplier(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	return r.suppliers.GetByID(ctx, supplierID)
}

var _ reports.Repository = (*ReportRepo)(nil)
