// Package supplier provides the supplier catalog and each supplier's
// debit/credit ledger.
package supplier

import (
	"context"
	"strings"
	"time"

	"kls/internal/core/apperror"
	"kls/internal/core/entity"
	"kls/internal/core/id"
	"kls/internal/core/types"
)

// Transaction is one ledger entry. Debit is what the shop owes for a
// purchase, Credit is a payment to the supplier. Balance is the running
// balance right after the entry, in append order.
type Transaction struct {
	ID          id.ID       `json:"id"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description"`
	Debit       types.Money `json:"debit"`
	Credit      types.Money `json:"credit"`
	Balance     types.Money `json:"balance"`
}

// Supplier is a vendor the shop buys from.
type Supplier struct {
	entity.BaseEntity

	Name           string      `json:"name"`
	Address        string      `json:"address"`
	Contact        string      `json:"contact"`
	OpeningBalance types.Money `json:"openingBalance"`
	GSTNumber      string      `json:"gstNumber"`
	Notes          string      `json:"notes"`

	Transactions []Transaction `json:"transactions"`
}

// Details are the editable supplier fields.
type Details struct {
	Name           string
	Address        string
	Contact        string
	OpeningBalance types.Money
	GSTNumber      string
	Notes          string
}

// NewSupplier creates a supplier with an empty ledger.
func NewSupplier(d Details, now time.Time) (*Supplier, error) {
	s := &Supplier{
		BaseEntity:   entity.NewBaseEntity(now),
		Transactions: []Transaction{},
	}
	s.apply(d)
	if err := s.Validate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Supplier) apply(d Details) {
	s.Name = strings.TrimSpace(d.Name)
	s.Address = strings.TrimSpace(d.Address)
	s.Contact = strings.TrimSpace(d.Contact)
	s.OpeningBalance = types.RoundCents(d.OpeningBalance)
	s.GSTNumber = strings.ToUpper(strings.TrimSpace(d.GSTNumber))
	s.Notes = d.Notes
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(_ context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Update replaces the editable fields. A changed opening balance re-folds
// the stored running balances.
func (s *Supplier) Update(d Details, now time.Time) error {
	next := *s
	next.apply(d)
	if err := next.Validate(context.Background()); err != nil {
		return err
	}
	rebalance := !next.OpeningBalance.Equal(s.OpeningBalance)
	*s = next
	if rebalance {
		s.Rebalance()
	}
	s.Touch(now)
	return nil
}

// CurrentBalance is the balance after the last appended entry.
func (s *Supplier) CurrentBalance() types.Money {
	if n := len(s.Transactions); n > 0 {
		return s.Transactions[n-1].Balance
	}
	return s.OpeningBalance
}

// AppendTransaction adds an entry at the end of the ledger.
func (s *Supplier) AppendTransaction(date time.Time, description string, debit, credit types.Money) Transaction {
	debit, credit = types.RoundCents(debit), types.RoundCents(credit)
	t := Transaction{
		ID:          id.New(),
		Date:        date,
		Description: description,
		Debit:       debit,
		Credit:      credit,
		Balance:     types.RoundCents(s.CurrentBalance().Add(debit).Sub(credit)),
	}
	s.Transactions = append(s.Transactions, t)
	return t
}

// Rebalance recomputes every stored Balance from the opening balance.
func (s *Supplier) Rebalance() {
	bal := s.OpeningBalance
	for i := range s.Transactions {
		bal = bal.Add(s.Transactions[i].Debit).Sub(s.Transactions[i].Credit)
		s.Transactions[i].Balance = types.RoundCents(bal)
	}
}

// MatchesName compares names ignoring case and surrounding spaces.
func (s *Supplier) MatchesName(name string) bool {
	return strings.EqualFold(s.Name, strings.TrimSpace(name))
}

// Clone returns a deep copy.
func (s *Supplier) Clone() *Supplier {
	if s == nil {
		return nil
	}
	c := *s
	c.Transactions = append([]Transaction(nil), s.Transactions...)
	return &c
}

var _ entity.Validatable = (*Supplier)(nil)
