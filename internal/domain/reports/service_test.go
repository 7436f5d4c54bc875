package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kls/internal/core/apperror"
	"kls/internal/core/clock"
	"kls/internal/core/id"
	"kls/internal/core/types"
	"kls/internal/domain/purchase"
	"kls/internal/domain/supplier"
)

type fakeRepo struct {
	orders    []*purchase.Order
	suppliers []*supplier.Supplier
}

func (r *fakeRepo) Orders(context.Context) ([]*purchase.Order, error) {
	return r.orders, nil
}

func (r *fakeRepo) Supplier(_ context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	for _, s := range r.suppliers {
		if s.ID == supplierID {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("supplier", supplierID)
}

var march = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

func m(s string) types.Money { return types.MustMoney(s) }

func order(t *testing.T, name string, total string, paid ...string) *purchase.Order {
	t.Helper()
	o, err := purchase.NewOrder(name, "", march, []purchase.Item{{
		ProductName:     "Wheat",
		BagSize:         m("100"),
		PricePerQuintal: m(total),
		Quantity:        1,
	}}, march)
	require.NoError(t, err)
	for _, p := range paid {
		require.NoError(t, o.ApplyPayment(purchase.NewPayment(m(p), purchase.MethodCash, "", march)))
	}
	return o
}

func fixture(t *testing.T) (*Service, *supplier.Supplier) {
	t.Helper()
	ram, err := supplier.NewSupplier(supplier.Details{Name: "Ram Traders", OpeningBalance: m("250")}, march)
	require.NoError(t, err)
	ram.AppendTransaction(march, "Purchase #100300", m("10000"), types.Zero())
	ram.AppendTransaction(march, "Payment for #100300 (CASH)", types.Zero(), m("4000"))
	ram.AppendTransaction(march.AddDate(0, 0, 1), "Purchase #110300", m("5000"), types.Zero())
	ram.AppendTransaction(march.AddDate(0, 0, 1), "Payment for #110300 (CASH)", types.Zero(), m("5000"))

	repo := &fakeRepo{
		orders: []*purchase.Order{
			order(t, "Ram Traders", "10000", "4000"),
			order(t, "ram traders", "5000", "5000"),
			order(t, "Shyam Agro", "800"),
			order(t, "Shyam Agro", "1200.50", "0.50"),
		},
		suppliers: []*supplier.Supplier{ram},
	}
	return NewService(repo, clock.NewFixed(march)), ram
}

func TestCreditSummary(t *testing.T) {
	svc, _ := fixture(t)

	got, err := svc.CreditSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, got.OrderCount)
	assert.True(t, got.TotalOutstanding.Equal(m("8000")), got.TotalOutstanding.String())
	assert.True(t, got.TotalPurchased.Equal(m("17000.50")))
	assert.Equal(t, map[purchase.Status]int{
		purchase.StatusUnpaid:  1,
		purchase.StatusPartial: 2,
		purchase.StatusPaid:    1,
	}, got.ByStatus)

	require.Len(t, got.Suppliers, 2)
	assert.Equal(t, "Ram Traders", got.Suppliers[0].Supplier)
	assert.True(t, got.Suppliers[0].Outstanding.Equal(m("6000")))
	assert.Equal(t, 1, got.Suppliers[0].OpenOrders)
	assert.Equal(t, 2, got.Suppliers[1].OpenOrders)
}

func TestCreditSummary_NoOrders(t *testing.T) {
	svc := NewService(&fakeRepo{}, clock.NewFixed(march))

	got, err := svc.CreditSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.TotalOutstanding.IsZero())
	assert.Empty(t, got.Suppliers)
	assert.Equal(t, 0, got.ByStatus[purchase.StatusUnpaid])
}

func TestSupplierSummary(t *testing.T) {
	svc, ram := fixture(t)

	got, err := svc.SupplierSummary(context.Background(), ram.ID)
	require.NoError(t, err)

	assert.Equal(t, "Ram Traders", got.Name)
	assert.Equal(t, 2, got.TotalPurchases)
	assert.True(t, got.TotalDebit.Equal(m("15000")))
	assert.True(t, got.TotalCredit.Equal(m("9000")))
	assert.True(t, got.ClosingBalance.Equal(m("6250")))
	assert.True(t, got.PaidAmount.Equal(m("5000")))
	assert.True(t, got.PendingAmount.Equal(m("6000")))

	_, err = svc.SupplierSummary(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestExportLedger(t *testing.T) {
	svc, ram := fixture(t)

	export, err := svc.ExportLedger(context.Background(), LedgerExportFilter{SupplierID: ram.ID})
	require.NoError(t, err)
	assert.Equal(t, "ledger_Ram_Traders_20240310.xlsx", export.FileName)
	assert.Equal(t, xlsxContentType, export.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 10)

	assert.Equal(t, []string{"Ram Traders"}, rows[0])
	assert.Equal(t, []string{"Period", "All transactions"}, rows[1])
	assert.Equal(t, []string{"Date", "Description", "Debit", "Credit", "Balance"}, rows[4])
	assert.Equal(t, []string{"10-03-2024", "Purchase #100300", "10000", "0", "10250"}, rows[5])
	assert.Equal(t, []string{"", "Total", "15000", "9000", "6250"}, rows[9])
}

func TestExportLedger_Range(t *testing.T) {
	svc, ram := fixture(t)
	day2 := march.AddDate(0, 0, 1)

	export, err := svc.ExportLedger(context.Background(), LedgerExportFilter{SupplierID: ram.ID, From: day2, To: day2})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, "11-03-2024 to 11-03-2024", rows[1][1])
	assert.Equal(t, "6250", rows[2][4])

	_, err = svc.ExportLedger(context.Background(), LedgerExportFilter{SupplierID: ram.ID, From: day2, To: march})
	assert.True(t, apperror.IsValidation(err))
}
