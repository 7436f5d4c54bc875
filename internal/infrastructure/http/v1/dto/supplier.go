package dto

import (
	"time"

	"kls/internal/core/clock"
	"kls/internal/core/types"
	"kls/internal/domain/supplier"
)

// SupplierRequest creates or replaces a supplier's details.
type SupplierRequest struct {
	Name           string      `json:"name"`
	Address        string      `json:"address,omitempty"`
	Contact        string      `json:"contact,omitempty"`
	OpeningBalance types.Money `json:"openingBalance"`
	GSTNumber      string      `json:"gstNumber,omitempty"`
	Notes          string      `json:"notes,omitempty"`
}

// ToDetails converts the request.
func (r *SupplierRequest) ToDetails() supplier.Details {
	return supplier.Details{
		Name:           r.Name,
		Address:        r.Address,
		Contact:        r.Contact,
		OpeningBalance: r.OpeningBalance,
		GSTNumber:      r.GSTNumber,
		Notes:          r.Notes,
	}
}

// SupplierResponse is a supplier without its ledger lines.
type SupplierResponse struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Contact          string      `json:"contact"`
	OpeningBalance   types.Money `json:"openingBalance"`
	GSTNumber        string      `json:"gstNumber"`
	Notes            string      `json:"notes"`
	CurrentBalance   types.Money `json:"currentBalance"`
	TransactionCount int         `json:"transactionCount"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`

	PersistenceWarning *ErrorBody `json:"persistenceWarning,omitempty"`
}

// FromSupplier converts a supplier.
func FromSupplier(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID.String(),
		Name:             s.Name,
		Address:          s.Address,
		Contact:          s.Contact,
		OpeningBalance:   s.OpeningBalance,
		GSTNumber:        s.GSTNumber,
		Notes:            s.Notes,
		CurrentBalance:   supplier.LedgerTotals(s).ClosingBalance,
		TransactionCount: len(s.Transactions),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// LedgerResponse is the running-balance view of a supplier.
type LedgerResponse struct {
	Supplier       SupplierResponse     `json:"supplier"`
	From           string               `json:"from,omitempty"`
	To             string               `json:"to,omitempty"`
	OpeningBalance types.Money          `json:"openingBalance"`
	Lines          []LedgerLineResponse `json:"lines"`
	Totals         supplier.Totals      `json:"totals"`
}

// LedgerLineResponse is one ledger entry.
type LedgerLineResponse struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Debit       types.Money `json:"debit"`
	Credit      types.Money `json:"credit"`
	Balance     types.Money `json:"balance"`
}

// FromStatement converts a ledger statement.
func FromStatement(s *supplier.Supplier, st supplier.Statement, from, to time.Time) LedgerResponse {
	lines := make([]LedgerLineResponse, len(st.Lines))
	for i, l := range st.Lines {
		lines[i] = LedgerLineResponse{
			ID:          l.ID.String(),
			Date:        clock.Format(l.Date),
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Balance:     l.BalanceAfter,
		}
	}
	resp := LedgerResponse{
		Supplier:       FromSupplier(s),
		OpeningBalance: st.OpeningBalance,
		Lines:          lines,
		Totals:         st.Totals,
	}
	if !from.IsZero() {
		resp.From = clock.Format(from)
	}
	if !to.IsZero() {
		resp.To = clock.Format(to)
	}
	return resp
}
