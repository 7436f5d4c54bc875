// Package reports provides report generation services.
package reports

import (
	"time"

	"kls/internal/core/id"
	"kls/internal/core/types"
	"kls/internal/domain/purchase"
	"kls/internal/domain/supplier"
)

// --- Credit summary ---

// CreditSummary is the outstanding balance across all purchase orders.
type CreditSummary struct {
	AsOf time.Time `json:"asOf"`

	// TotalOutstanding is Σ remainingAmount over all orders.
	TotalOutstanding types.Money `json:"totalOutstanding"`
	// TotalPurchased is Σ totalAmount over all orders.
	TotalPurchased types.Money `json:"totalPurchased"`

	OrderCount int                     `json:"orderCount"`
	ByStatus   map[purchase.Status]int `json:"byStatus"`

	// Suppliers lists outstanding amounts per supplier, largest first.
	Suppliers []SupplierCredit `json:"suppliers"`
}

// SupplierCredit is one supplier's share of the outstanding balance.
type SupplierCredit struct {
	Supplier    string      `json:"supplier"`
	Outstanding types.Money `json:"outstanding"`
	OpenOrders  int         `json:"openOrders"`
}

// --- Supplier summary ---

// SupplierSummary combines a supplier's ledger totals with its orders.
type SupplierSummary struct {
	SupplierID id.ID  `json:"supplierId"`
	Name       string `json:"name"`

	TotalDebit     types.Money `json:"totalDebit"`
	TotalCredit    types.Money `json:"totalCredit"`
	ClosingBalance types.Money `json:"closingBalance"`

	// TotalPurchases counts the supplier's orders.
	TotalPurchases int `json:"totalPurchases"`
	// PaidAmount sums the totals of fully paid orders.
	PaidAmount types.Money `json:"paidAmount"`
	// PendingAmount sums what is still owed on the supplier's orders.
	PendingAmount types.Money `json:"pendingAmount"`
}

// --- Ledger export ---

// LedgerExportFilter limits the exported lines to an inclusive day range.
type LedgerExportFilter struct {
	SupplierID id.ID
	From       time.Time
	To         time.Time
}

// LedgerExport is a rendered workbook.
type LedgerExport struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ledgerSheet is the data written to the workbook.
type ledgerSheet struct {
	supplier  *supplier.Supplier
	statement supplier.Statement
	from, to  time.Time
}
