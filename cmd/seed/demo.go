package main

import (
	"context"
	"fmt"
	"time"

	"kls/internal/app"
	"kls/internal/core/apperror"
	"kls/internal/core/clock"
	"kls/internal/core/types"
	"kls/internal/domain/purchase"
	"kls/internal/domain/supplier"
)

type seedStats struct {
	Suppliers int
	Orders    int
	Payments  int
	Skipped   int
}

var demoSuppliers = []supplier.Details{
	{Name: "Ram Traders", Address: "Mandi Road, Indore", Contact: "9826012345", GSTNumber: "23abcde1234f1z5"},
	{Name: "Shyam Agro", Address: "Station Road, Dewas", Contact: "9425054321", OpeningBalance: types.MustMoney("2500")},
	{Name: "Laxmi Pulses", Address: "Siyaganj, Indore", Notes: "Chana and moong"},
}

type demoOrder struct {
	supplier string
	daysAgo  int
	items    []purchase.Item
	initial  types.Money
	method   purchase.PaymentMethod
	ref      string
	// later payments, applied in order
	payments []types.Money
}

func item(name, bagKg, price string, qty int64) purchase.Item {
	return purchase.Item{
		ProductName:     name,
		BagSize:         types.MustMoney(bagKg),
		PricePerQuintal: types.MustMoney(price),
		Quantity:        qty,
	}
}

var demoOrders = []demoOrder{
	{
		supplier: "Ram Traders",
		daysAgo:  0,
		items:    []purchase.Item{item("Wheat", "50", "2400", 40), item("Soybean", "60", "4600", 10)},
		initial:  types.MustMoney("20000"),
		method:   purchase.MethodUPI,
		ref:      "UTR40112233",
	},
	{
		supplier: "Shyam Agro",
		daysAgo:  1,
		items:    []purchase.Item{item("Maize", "50", "2100", 25)},
		payments: []types.Money{types.MustMoney("10000"), types.MustMoney("16250")},
	},
	{
		supplier: "Laxmi Pulses",
		daysAgo:  9,
		items:    []purchase.Item{item("Chana", "30", "5400", 20), item("Moong", "30", "7800", 5)},
		initial:  types.MustMoney("5000"),
		method:   purchase.MethodCash,
	},
	{
		supplier: "Ram Traders",
		daysAgo:  40,
		items:    []purchase.Item{item("Wheat", "50", "2350", 60)},
	},
}

// seed creates the demo suppliers and orders through the services, so the
// ledger entries and numbering are the same as for real input. Suppliers
// that already exist are left alone.
func seed(ctx context.Context, ledger *app.App) (seedStats, error) {
	var stats seedStats

	for _, d := range demoSuppliers {
		_, err := ledger.Suppliers.Create(ctx, d)
		switch {
		case err == nil:
			stats.Suppliers++
		case hasCode(err, apperror.CodeDuplicate):
			stats.Skipped++
		default:
			return stats, fmt.Errorf("supplier %s: %w", d.Name, err)
		}
	}

	today := clock.Today(ledger.Clock)
	for _, o := range demoOrders {
		order, err := ledger.Purchases.CreateOrder(ctx, purchase.CreateOrderInput{
			Supplier:       o.supplier,
			Date:           today.AddDate(0, 0, -o.daysAgo),
			Items:          o.items,
			InitialPayment: o.initial,
			PaymentMethod:  o.method,
			TransactionRef: o.ref,
		})
		if err != nil {
			return stats, fmt.Errorf("order for %s: %w", o.supplier, err)
		}
		stats.Orders++

		for _, amount := range o.payments {
			if _, err := ledger.Purchases.AddPayment(ctx, order.ID, purchase.AddPaymentInput{
				Amount: amount,
				Method: purchase.MethodCash,
				Date:   order.Date.Add(24 * time.Hour),
			}); err != nil {
				return stats, fmt.Errorf("payment on %s: %w", order.OrderNumber, err)
			}
			stats.Payments++
		}
	}
	return stats, nil
}

func hasCode(err error, code string) bool {
	appErr, ok := apperror.AsAppError(err)
	return ok && appErr.Code == code
}
