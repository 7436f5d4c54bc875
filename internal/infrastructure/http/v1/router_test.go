package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kls/internal/core/clock"
	"kls/internal/core/notify"
	"kls/internal/core/numerator"
	"kls/internal/domain/purchase"
	"kls/internal/domain/reports"
	"kls/internal/domain/supplier"
	"kls/internal/infrastructure/storage/codec"
	"kls/internal/infrastructure/storage/kvrepo"
	"kls/internal/infrastructure/storage/memory"
	"kls/pkg/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	c, err := codec.New(codec.DefaultThreshold)
	require.NoError(t, err)

	clk := clock.NewFixed(time.Date(2024, time.February, 23, 10, 30, 0, 0, time.UTC))
	store := memory.NewStore()
	txm := kvrepo.NewTxManager(nil)
	orders := kvrepo.NewPurchaseRepo(store, c)
	supplierRepo := kvrepo.NewSupplierRepo(store, c)
	suppliers := supplier.NewService(supplierRepo, txm, clk, notify.LogSink{})
	purchases := purchase.NewService(orders, purchase.NewSequencer(orders, numerator.DefaultConfig()),
		suppliers, txm, clk, notify.LogSink{})

	return NewRouter(RouterConfig{
		Logger:        logger.Nop(),
		Purchases:     purchases,
		Suppliers:     suppliers,
		Reports:       reports.NewService(kvrepo.NewReportRepo(orders, supplierRepo), clk),
		Clock:         clk,
		Store:         store,
		StorageDriver: "memory",
		CORSOrigins:   []string{"http://localhost:5173"},
	})
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func wheatOrder(initial float64) map[string]any {
	return map[string]any{
		"supplier": "Ram Traders",
		"date":     "23-02-2024",
		"items": []map[string]any{
			{"productName": "Wheat", "bagSize": 50, "pricePerQuintal": 2000, "quantity": 10},
		},
		"initialPayment": initial,
		"paymentMethod":  "upi",
		"transactionRef": "UTR1",
	}
}

func TestRouter_PurchaseLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/purchases", wheatOrder(4000))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "230200", created["orderNumber"])
	assert.Equal(t, "partial", created["status"])
	assert.Equal(t, 10000.0, created["totalAmount"])
	assert.Equal(t, 6000.0, created["remainingAmount"])
	assert.Equal(t, "today", created["group"])
	assert.NotContains(t, created, "persistenceWarning")
	orderID := created["id"].(string)

	w = do(t, r, http.MethodGet, "/api/v1/purchases/next-number", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "230201", decode(t, w)["orderNumber"])

	w = do(t, r, http.MethodPost, "/api/v1/purchases/"+orderID+"/payments", map[string]any{"amount": 7000})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "PAYMENT_EXCEEDS_BALANCE", decode(t, w)["code"])

	w = do(t, r, http.MethodPost, "/api/v1/purchases/"+orderID+"/payments",
		map[string]any{"amount": 6000, "type": "bank transfer", "transactionRef": "NEFT7"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	paid := decode(t, w)
	assert.Equal(t, "paid", paid["status"])
	assert.Equal(t, 0.0, paid["remainingAmount"])
	assert.Len(t, paid["paymentHistory"], 2)

	w = do(t, r, http.MethodGet, "/api/v1/purchases?status=paid&period=today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["totalCount"])

	w = do(t, r, http.MethodGet, "/api/v1/purchases?status=unpaid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode(t, w)["totalCount"])

	w = do(t, r, http.MethodGet, "/api/v1/purchases/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ram Traders", decode(t, w)["supplier"])

	w = do(t, r, http.MethodDelete, "/api/v1/purchases/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	w = do(t, r, http.MethodGet, "/api/v1/purchases/"+orderID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PurchaseErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "no items",
			method: http.MethodPost,
			path:   "/api/v1/purchases",
			body:   map[string]any{"supplier": "Ram Traders", "items": []any{}},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "bad date",
			method: http.MethodPost,
			path:   "/api/v1/purchases",
			body:   map[string]any{"supplier": "Ram Traders", "date": "2024-02-23"},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "unknown period",
			method: http.MethodGet,
			path:   "/api/v1/purchases?period=fortnight",
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "bad expression",
			method: http.MethodGet,
			path:   "/api/v1/purchases?expr=remaining+%3E",
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "malformed id",
			method: http.MethodGet,
			path:   "/api/v1/purchases/not-an-id",
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "unknown order",
			method: http.MethodPost,
			path:   "/api/v1/purchases/" + uuid.NewString() + "/payments",
			body:   map[string]any{"amount": 10},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode(t, w)["code"])
		})
	}
}

func TestRouter_SupplierLedger(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/purchases", wheatOrder(4000))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/suppliers?search=ram", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	require.Equal(t, 1.0, list["totalCount"])
	sup := list["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "Ram Traders", sup["name"])
	assert.Equal(t, 6000.0, sup["currentBalance"])
	supplierID := sup["id"].(string)

	w = do(t, r, http.MethodGet, "/api/v1/suppliers/"+supplierID+"/ledger", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ledger := decode(t, w)
	lines := ledger["lines"].([]any)
	require.Len(t, lines, 2)
	assert.Equal(t, "Purchase #230200", lines[0].(map[string]any)["description"])
	assert.Equal(t, 10000.0, lines[0].(map[string]any)["balance"])
	assert.Equal(t, 6000.0, ledger["totals"].(map[string]any)["closingBalance"])

	w = do(t, r, http.MethodGet, "/api/v1/suppliers/"+supplierID+"/ledger?from=24-02-2024&to=23-02-2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/suppliers/"+supplierID+"/ledger/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ledger_Ram_Traders_")
	assert.NotEmpty(t, w.Body.Bytes())

	w = do(t, r, http.MethodGet, "/api/v1/suppliers/"+supplierID+"/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ram Traders", decode(t, w)["name"])

	w = do(t, r, http.MethodPut, "/api/v1/suppliers/"+supplierID, map[string]any{
		"name": "Ram Traders", "contact": "98765", "openingBalance": 500,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 6500.0, decode(t, w)["currentBalance"])

	w = do(t, r, http.MethodPost, "/api/v1/suppliers", map[string]any{"name": "ram traders"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_ENTRY", decode(t, w)["code"])

	w = do(t, r, http.MethodPost, "/api/v1/suppliers", map[string]any{"name": "Shyam Agro"})
	require.Equal(t, http.StatusCreated, w.Code)
	other := decode(t, w)["id"].(string)

	w = do(t, r, http.MethodDelete, "/api/v1/suppliers/"+other, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/suppliers/"+other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CreditReport(t *testing.T) {
	r := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/purchases", wheatOrder(0)).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/api/v1/purchases", wheatOrder(2500)).Code)

	w := do(t, r, http.MethodGet, "/api/v1/reports/credit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode(t, w)
	assert.Equal(t, 17500.0, report["totalOutstanding"])
	assert.Equal(t, 2.0, report["orderCount"])
}

func TestRouter_HealthAndCORS(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = do(t, r, http.MethodGet, "/health/info", nil)
	assert.Equal(t, "memory", decode(t, w)["storage"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/purchases", strings.NewReader(""))
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_PanicReturnsInternalError(t *testing.T) {
	r := newTestRouter(t)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := do(t, r, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "boom")
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, w.Header().Get("X-Request-ID"), details["request_id"])
}

func TestRouter_ListWithHugeLimit(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/purchases", wheatOrder(0))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = do(t, r, http.MethodPost, "/api/v1/purchases", wheatOrder(0))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/v1/purchases?limit=9223372036854775807&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, 2.0, body["totalCount"])
	assert.Len(t, body["items"], 1)
}
