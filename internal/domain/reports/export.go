package reports

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"kls/internal/core/apperror"
	"kls/internal/core/clock"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ledgerSheetName = "Ledger"

	// excelize built-in number format "#,##0.00"
	numFmtAmount = 4
)

var ledgerHeader = []any{"Date", "Description", "Debit", "Credit", "Balance"}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

func invalidRange() error {
	return apperror.NewValidation("from date must not be after to date").
		WithDetail("field", "from")
}

func ledgerFileName(supplierName string, now time.Time) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(supplierName, "_"), "_")
	if name == "" {
		name = "supplier"
	}
	return fmt.Sprintf("ledger_%s_%s.xlsx", name, now.Format("20060102"))
}

// renderLedger writes the title block, one row per ledger line and a totals
// row. Amount cells hold numbers so the sheet can be summed in Excel.
func renderLedger(sheet ledgerSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheetName); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return nil, err
	}
	boldAmount, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtAmount})
	if err != nil {
		return nil, err
	}

	w := &rowWriter{f: f}
	w.row(sheet.supplier.Name)
	w.row("Period", periodLabel(sheet.from, sheet.to))
	w.row("Opening balance", "", "", "", sheet.statement.OpeningBalance.InexactFloat64())
	if err := w.style(1, 1, bold); err != nil {
		return nil, err
	}
	w.row()

	headerRow := w.row(ledgerHeader...)
	if err := w.style(headerRow, len(ledgerHeader), bold); err != nil {
		return nil, err
	}

	first := headerRow + 1
	for _, l := range sheet.statement.Lines {
		w.row(clock.Format(l.Date), l.Description,
			l.Debit.InexactFloat64(), l.Credit.InexactFloat64(), l.BalanceAfter.InexactFloat64())
	}
	last := w.n

	totals := sheet.statement.Totals
	totalRow := w.row("", "Total",
		totals.TotalDebit.InexactFloat64(), totals.TotalCredit.InexactFloat64(), totals.ClosingBalance.InexactFloat64())
	if w.err != nil {
		return nil, w.err
	}

	if last >= first {
		if err := f.SetCellStyle(ledgerSheetName, "C"+itoa(first), "E"+itoa(last), amount); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(ledgerSheetName, "A"+itoa(totalRow), "E"+itoa(totalRow), boldAmount); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ledgerSheetName, "E3", "E3", amount); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(ledgerSheetName, "A", "A", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(ledgerSheetName, "B", "B", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(ledgerSheetName, "C", "E", 14); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rowWriter appends rows and keeps the first error.
type rowWriter struct {
	f   *excelize.File
	n   int
	err error
}

func (w *rowWriter) row(values ...any) int {
	w.n++
	if w.err != nil || len(values) == 0 {
		return w.n
	}
	w.err = w.f.SetSheetRow(ledgerSheetName, "A"+itoa(w.n), &values)
	return w.n
}

func (w *rowWriter) style(row, cols, styleID int) error {
	end, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(ledgerSheetName, "A"+itoa(row), end, styleID)
}

func periodLabel(from, to time.Time) string {
	switch {
	case from.IsZero() && to.IsZero():
		return "All transactions"
	case from.IsZero():
		return "Up to " + clock.Format(to)
	case to.IsZero():
		return "From " + clock.Format(from)
	}
	return clock.Format(from) + " to " + clock.Format(to)
}

func itoa(n int) string { return strconv.Itoa(n) }
