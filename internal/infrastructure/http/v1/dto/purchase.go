package dto

import (
	"strings"
	"time"

	"kls/internal/core/apperror"
	"kls/internal/core/clock"
	"kls/internal/core/types"
	"kls/internal/domain/filter"
	"kls/internal/domain/purchase"
)

// --- Request DTOs ---

// CreatePurchaseRequest is the purchase order form.
type CreatePurchaseRequest struct {
	Supplier        string                `json:"supplier"`
	SupplierAddress string                `json:"supplierAddress,omitempty"`
	Date            string                `json:"date,omitempty"` // dd-mm-yyyy, defaults to today
	Items           []PurchaseItemRequest `json:"items"`
	InitialPayment  types.Money           `json:"initialPayment"`
	PaymentMethod   string                `json:"paymentMethod,omitempty"`
	TransactionRef  string                `json:"transactionRef,omitempty"`
}

// PurchaseItemRequest is one line of the form.
type PurchaseItemRequest struct {
	ProductName     string      `json:"productName"`
	BagSize         types.Money `json:"bagSize"`
	PricePerQuintal types.Money `json:"pricePerQuintal"`
	Quantity        int64       `json:"quantity"`
}

// ToInput converts the request to the service input.
func (r *CreatePurchaseRequest) ToInput(today time.Time) (purchase.CreateOrderInput, error) {
	date, err := parseDate("date", r.Date, today)
	if err != nil {
		return purchase.CreateOrderInput{}, err
	}
	method, err := purchase.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return purchase.CreateOrderInput{}, err
	}

	items := make([]purchase.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = purchase.Item{
			ProductName:     it.ProductName,
			BagSize:         it.BagSize,
			PricePerQuintal: it.PricePerQuintal,
			Quantity:        it.Quantity,
		}
	}

	return purchase.CreateOrderInput{
		Supplier:        r.Supplier,
		SupplierAddress: r.SupplierAddress,
		Date:            date,
		Items:           items,
		InitialPayment:  r.InitialPayment,
		PaymentMethod:   method,
		TransactionRef:  r.TransactionRef,
	}, nil
}

// AddPaymentRequest records a payment against an order.
type AddPaymentRequest struct {
	Amount         types.Money `json:"amount"`
	Type           string      `json:"type,omitempty"`
	TransactionRef string      `json:"transactionRef,omitempty"`
	Date           string      `json:"date,omitempty"`
}

// ToInput converts the request to the service input.
func (r *AddPaymentRequest) ToInput(today time.Time) (purchase.AddPaymentInput, error) {
	date, err := parseDate("date", r.Date, today)
	if err != nil {
		return purchase.AddPaymentInput{}, err
	}
	method, err := purchase.ParsePaymentMethod(r.Type)
	if err != nil {
		return purchase.AddPaymentInput{}, err
	}
	return purchase.AddPaymentInput{
		Amount:         r.Amount,
		Method:         method,
		TransactionRef: r.TransactionRef,
		Date:           date,
	}, nil
}

// --- Response DTOs ---

// PurchaseResponse is an order as the UI shows it.
type PurchaseResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"orderNumber"`
	Supplier        string                 `json:"supplier"`
	SupplierAddress string                 `json:"supplierAddress,omitempty"`
	Date            string                 `json:"date"`
	Items           []PurchaseItemResponse `json:"items"`
	TotalAmount     types.Money            `json:"totalAmount"`
	PaymentHistory  []PaymentResponse      `json:"paymentHistory"`
	RemainingAmount types.Money            `json:"remainingAmount"`
	Status          purchase.Status        `json:"status"`
	// Group is the listing section (today, yesterday, week, month, older).
	Group     filter.Period `json:"group"`
	CreatedAt time.Time     `json:"createdAt"`

	PersistenceWarning *ErrorBody `json:"persistenceWarning,omitempty"`
}

// PurchaseItemResponse is one order line.
type PurchaseItemResponse struct {
	ProductName     string      `json:"productName"`
	BagSize         types.Money `json:"bagSize"`
	PricePerQuintal types.Money `json:"pricePerQuintal"`
	Quantity        int64       `json:"quantity"`
	WeightQuintals  types.Money `json:"weightQuintals"`
	Amount          types.Money `json:"amount"`
}

// PaymentResponse is one payment.
type PaymentResponse struct {
	ID             string      `json:"id"`
	Amount         types.Money `json:"amount"`
	Type           string      `json:"type"`
	TransactionRef *string     `json:"transactionRef"`
	Date           string      `json:"date"`
}

// FromOrder converts an order; now decides the listing group.
func FromOrder(o *purchase.Order, now time.Time) PurchaseResponse {
	items := make([]PurchaseItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = PurchaseItemResponse{
			ProductName:     it.ProductName,
			BagSize:         it.BagSize,
			PricePerQuintal: it.PricePerQuintal,
			Quantity:        it.Quantity,
			WeightQuintals:  it.Weight(),
			Amount:          types.RoundCents(it.Amount()),
		}
	}
	payments := make([]PaymentResponse, len(o.PaymentHistory))
	for i, p := range o.PaymentHistory {
		payments[i] = PaymentResponse{
			ID:             p.ID.String(),
			Amount:         p.Amount,
			Type:           string(p.Method),
			TransactionRef: p.TransactionRef,
			Date:           clock.Format(p.Date),
		}
	}

	return PurchaseResponse{
		ID:              o.ID.String(),
		OrderNumber:     o.OrderNumber,
		Supplier:        o.Supplier,
		SupplierAddress: o.SupplierAddress,
		Date:            clock.Format(o.Date),
		Items:           items,
		TotalAmount:     o.TotalAmount,
		PaymentHistory:  payments,
		RemainingAmount: o.RemainingAmount,
		Status:          o.Status,
		Group:           filter.Group(o.Date, now),
		CreatedAt:       o.CreatedAt,
	}
}

func parseDate(field, s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	t, err := clock.Parse(s)
	if err != nil {
		return time.Time{}, apperror.NewValidation(err.Error()).WithDetail("field", field)
	}
	return t, nil
}
