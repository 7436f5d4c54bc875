package reports

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"kls/internal/core/clock"
	"kls/internal/core/id"
	"kls/internal/core/types"
	"kls/internal/domain/purchase"
	"kls/internal/domain/supplier"
)

// Service provides report generation operations.
type Service struct {
	repo  Repository
	clock clock.Clock
}

// NewService creates a new reports service.
func NewService(repo Repository, clk clock.Clock) *Service {
	return &Service{repo: repo, clock: clk}
}

// CreditSummary totals what is still owed across all orders.
func (s *Service) CreditSummary(ctx context.Context) (*CreditSummary, error) {
	orders, err := s.repo.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("get credit summary: %w", err)
	}

	summary := &CreditSummary{
		AsOf:       s.clock.Now(),
		OrderCount: len(orders),
		ByStatus: map[purchase.Status]int{
			purchase.StatusUnpaid:  0,
			purchase.StatusPartial: 0,
			purchase.StatusPaid:    0,
		},
	}

	outstanding, purchased := decimal.Zero, decimal.Zero
	perSupplier := make(map[string]*SupplierCredit)
	for _, o := range orders {
		summary.ByStatus[o.Status]++
		purchased = purchased.Add(o.TotalAmount)
		outstanding = outstanding.Add(o.RemainingAmount)

		if !o.RemainingAmount.IsPositive() {
			continue
		}
		key := strings.ToLower(o.Supplier)
		sc, ok := perSupplier[key]
		if !ok {
			sc = &SupplierCredit{Supplier: o.Supplier, Outstanding: types.Zero()}
			perSupplier[key] = sc
		}
		sc.Outstanding = sc.Outstanding.Add(o.RemainingAmount)
		sc.OpenOrders++
	}

	summary.TotalOutstanding = types.RoundCents(outstanding)
	summary.TotalPurchased = types.RoundCents(purchased)
	summary.Suppliers = make([]SupplierCredit, 0, len(perSupplier))
	for _, sc := range perSupplier {
		summary.Suppliers = append(summary.Suppliers, *sc)
	}
	slices.SortFunc(summary.Suppliers, func(a, b SupplierCredit) int {
		if c := b.Outstanding.Cmp(a.Outstanding); c != 0 {
			return c
		}
		return cmp.Compare(a.Supplier, b.Supplier)
	})

	return summary, nil
}

// SupplierSummary reports one supplier's ledger totals and order figures.
func (s *Service) SupplierSummary(ctx context.Context, supplierID id.ID) (*SupplierSummary, error) {
	sup, err := s.repo.Supplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("get supplier summary: %w", err)
	}

	totals := supplier.LedgerTotals(sup)
	summary := &SupplierSummary{
		SupplierID:     sup.ID,
		Name:           sup.Name,
		TotalDebit:     totals.TotalDebit,
		TotalCredit:    totals.TotalCredit,
		ClosingBalance: totals.ClosingBalance,
	}

	paid, pending := decimal.Zero, decimal.Zero
	for _, o := range orders {
		if !sup.MatchesName(o.Supplier) {
			continue
		}
		summary.TotalPurchases++
		if o.Status == purchase.StatusPaid {
			paid = paid.Add(o.TotalAmount)
		}
		pending = pending.Add(o.RemainingAmount)
	}
	summary.PaidAmount = types.RoundCents(paid)
	summary.PendingAmount = types.RoundCents(pending)

	return summary, nil
}

// ExportLedger renders a supplier's ledger as an XLSX workbook.
func (s *Service) ExportLedger(ctx context.Context, filter LedgerExportFilter) (*LedgerExport, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, invalidRange()
	}

	sup, err := s.repo.Supplier(ctx, filter.SupplierID)
	if err != nil {
		return nil, err
	}

	data, err := renderLedger(ledgerSheet{
		supplier:  sup,
		statement: supplier.StatementFor(sup, filter.From, filter.To),
		from:      filter.From,
		to:        filter.To,
	})
	if err != nil {
		return nil, fmt.Errorf("render ledger workbook: %w", err)
	}

	return &LedgerExport{
		FileName:    ledgerFileName(sup.Name, s.clock.Now()),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}
