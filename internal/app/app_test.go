package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kls/internal/config"
	"kls/internal/core/clock"
	"kls/internal/core/notify"
	"kls/internal/core/types"
	"kls/internal/domain/purchase"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(string) string { return "" })
	require.NoError(t, err)
	return cfg
}

func TestNew_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	rec := &notify.Recorder{}
	clk := clock.NewFixed(time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC))

	a, err := New(ctx, memoryConfig(t), Options{Clock: clk, Notifier: rec})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	require.NoError(t, a.Store.Ping(ctx))

	order, err := a.Purchases.CreateOrder(ctx, purchase.CreateOrderInput{
		Supplier: "Ram Traders",
		Date:     clock.Today(clk),
		Items: []purchase.Item{{
			ProductName:     "Chana",
			BagSize:         types.MustMoney("30"),
			PricePerQuintal: types.MustMoney("5000"),
			Quantity:        4,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "050300", order.OrderNumber)
	assert.True(t, order.TotalAmount.Equal(types.MustMoney("6000")))

	sup, err := a.Suppliers.GetByName(ctx, "ram traders")
	require.NoError(t, err)
	assert.Len(t, sup.Transactions, 1)

	summary, err := a.Reports.CreditSummary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.TotalOutstanding.Equal(types.MustMoney("6000")))

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindSuccess, last.Kind)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.StorageDriver = "sqlite"

	_, err := New(context.Background(), cfg, Options{})
	assert.ErrorContains(t, err, "unknown storage driver")
}
