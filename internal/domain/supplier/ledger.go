package supplier

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"kls/internal/core/clock"
	"kls/internal/core/types"
)

// LedgerLine is a transaction with the balance recomputed in date order.
type LedgerLine struct {
	Transaction
	BalanceAfter types.Money `json:"balanceAfter"`
}

// Totals summarizes a run of ledger lines.
type Totals struct {
	TotalDebit     types.Money `json:"totalDebit"`
	TotalCredit    types.Money `json:"totalCredit"`
	ClosingBalance types.Money `json:"closingBalance"`
}

// Statement is the ledger restricted to a date range.
type Statement struct {
	// OpeningBalance is the balance carried in from before the range.
	OpeningBalance types.Money  `json:"openingBalance"`
	Lines          []LedgerLine `json:"lines"`
	Totals         Totals       `json:"totals"`
}

// RunningBalance folds the transactions in chronological order (by date,
// entries on the same date in append order) starting from the opening
// balance. The supplier is not modified.
func RunningBalance(s *Supplier) []LedgerLine {
	txs := slices.Clone(s.Transactions)
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return clock.StartOfDay(a.Date).Compare(clock.StartOfDay(b.Date))
	})

	lines := make([]LedgerLine, len(txs))
	bal := s.OpeningBalance
	for i, t := range txs {
		bal = bal.Add(t.Debit).Sub(t.Credit)
		lines[i] = LedgerLine{Transaction: t, BalanceAfter: types.RoundCents(bal)}
	}
	return lines
}

// LedgerTotals sums debits and credits over the whole ledger.
func LedgerTotals(s *Supplier) Totals {
	return totalsOf(s.OpeningBalance, RunningBalance(s))
}

func totalsOf(opening types.Money, lines []LedgerLine) Totals {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return Totals{
		TotalDebit:     types.RoundCents(debit),
		TotalCredit:    types.RoundCents(credit),
		ClosingBalance: types.RoundCents(opening.Add(debit).Sub(credit)),
	}
}

// StatementFor returns the lines dated within [from, to] (whole days,
// inclusive). A zero bound leaves that side open.
func StatementFor(s *Supplier, from, to time.Time) Statement {
	lines := RunningBalance(s)
	opening := s.OpeningBalance
	inRange := make([]LedgerLine, 0, len(lines))

	for _, l := range lines {
		day := clock.StartOfDay(l.Date)
		if !from.IsZero() && day.Before(clock.StartOfDay(from)) {
			opening = l.BalanceAfter
			continue
		}
		if !to.IsZero() && day.After(clock.StartOfDay(to)) {
			break
		}
		inRange = append(inRange, l)
	}

	return Statement{
		OpeningBalance: opening,
		Lines:          inRange,
		Totals:         totalsOf(opening, inRange),
	}
}
