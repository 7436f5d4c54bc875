// Package purchase implements purchase orders bought from suppliers by the
// bag, the payments made against them and their order numbering.
package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kls/internal/core/apperror"
	"kls/internal/core/entity"
	"kls/internal/core/id"
	"kls/internal/core/types"
)

// Status is the payment completeness of an order.
type Status string

const (
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// ParseStatus accepts unpaid, partial or paid in any case.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return st, nil
	}
	return "", apperror.NewValidation("unknown status").
		WithDetail("field", "status").
		WithDetail("value", s)
}

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// ParsePaymentMethod normalizes "cash", "upi", "bank transfer" and friends.
// An empty value means cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch m := PaymentMethod(norm); m {
	case "":
		return MethodCash, nil
	case MethodCash, MethodUPI, MethodBankTransfer:
		return m, nil
	}
	return "", apperror.NewValidation("unknown payment method").
		WithDetail("field", "paymentMethod").
		WithDetail("value", s)
}

// Item is one order line. Prices are quoted per quintal (100 kg).
type Item struct {
	ProductName     string          `json:"productName"`
	BagSize         decimal.Decimal `json:"bagSize"` // kg per bag
	PricePerQuintal types.Money     `json:"pricePerQuintal"`
	Quantity        int64           `json:"quantity"` // bags
}

// Weight returns the line weight in quintals.
func (i Item) Weight() decimal.Decimal {
	return i.BagSize.Mul(decimal.NewFromInt(i.Quantity)).Div(types.KgPerQuintal)
}

// Amount returns the unrounded line value.
func (i Item) Amount() types.Money {
	return i.Weight().Mul(i.PricePerQuintal)
}

func (i Item) validate(index int) error {
	switch {
	case strings.TrimSpace(i.ProductName) == "":
		return apperror.NewItemValidation(index, "productName", "product name is required")
	case !i.BagSize.IsPositive():
		return apperror.NewItemValidation(index, "bagSize", "bag size must be positive")
	case i.Quantity <= 0:
		return apperror.NewItemValidation(index, "quantity", "quantity must be positive")
	case !i.PricePerQuintal.IsPositive():
		return apperror.NewItemValidation(index, "pricePerQuintal", "price per quintal must be positive")
	}
	return nil
}

// Payment is one entry of an order's payment history.
type Payment struct {
	ID             id.ID         `json:"id"`
	Amount         types.Money   `json:"amount"`
	Method         PaymentMethod `json:"type"`
	TransactionRef *string       `json:"transactionRef"`
	Date           time.Time     `json:"date"`
}

// NewPayment builds a payment. The reference is kept only for non-cash
// methods; a blank reference is stored as nil.
func NewPayment(amount types.Money, method PaymentMethod, ref string, date time.Time) Payment {
	p := Payment{
		ID:     id.New(),
		Amount: types.RoundCents(amount),
		Method: method,
		Date:   date,
	}
	if ref = strings.TrimSpace(ref); ref != "" && method != MethodCash {
		p.TransactionRef = &ref
	}
	return p
}

// Order is a purchase order.
//
// Items and TotalAmount are fixed at creation. PaymentHistory only grows,
// through ApplyPayment, which also keeps RemainingAmount and Status in step.
type Order struct {
	entity.BaseEntity

	OrderNumber     string    `json:"orderNumber"`
	Supplier        string    `json:"supplier"`
	SupplierAddress string    `json:"supplierAddress"`
	Date            time.Time `json:"date"`
	Items           []Item    `json:"items"`

	TotalAmount     types.Money `json:"totalAmount"`
	PaymentHistory  []Payment   `json:"paymentHistory"`
	RemainingAmount types.Money `json:"remainingAmount"`
	Status          Status      `json:"status"`
}

// NewOrder validates the lines and computes the order total.
func NewOrder(supplier, address string, date time.Time, items []Item, now time.Time) (*Order, error) {
	o := &Order{
		BaseEntity:      entity.NewBaseEntity(now),
		Supplier:        strings.TrimSpace(supplier),
		SupplierAddress: strings.TrimSpace(address),
		Date:            date,
		Items:           append([]Item(nil), items...),
		PaymentHistory:  []Payment{},
	}
	if o.Date.IsZero() {
		o.Date = now
	}
	if err := o.Validate(context.Background()); err != nil {
		return nil, err
	}

	o.TotalAmount = ComputeTotal(o.Items)
	if !o.TotalAmount.IsPositive() {
		return nil, apperror.NewValidation("order total must be positive").
			WithDetail("field", "items")
	}
	o.recompute()
	return o, nil
}

// ComputeTotal sums (bagSize × quantity / 100) × pricePerQuintal over the
// items and rounds once, to cents.
func ComputeTotal(items []Item) types.Money {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount())
	}
	return types.RoundCents(total)
}

// Validate implements entity.Validatable.
func (o *Order) Validate(_ context.Context) error {
	if o.Supplier == "" {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplier")
	}
	if len(o.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}
	for i, it := range o.Items {
		if err := it.validate(i); err != nil {
			return err
		}
	}
	return nil
}

// TotalPaid sums the payment history.
func (o *Order) TotalPaid() types.Money {
	paid := decimal.Zero
	for _, p := range o.PaymentHistory {
		paid = paid.Add(p.Amount)
	}
	return types.RoundCents(paid)
}

// CheckPayment reports why amount cannot be paid against the order, or nil.
func (o *Order) CheckPayment(amount types.Money) error {
	if !amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	amount = types.RoundCents(amount)
	if amount.GreaterThan(o.RemainingAmount) {
		return apperror.NewPaymentExceedsBalance(o.ID, amount.String(), o.RemainingAmount.String())
	}
	return nil
}

// ApplyPayment appends p after checking it against the remaining balance.
// On error the order is unchanged.
func (o *Order) ApplyPayment(p Payment) error {
	if err := o.CheckPayment(p.Amount); err != nil {
		return err
	}
	o.PaymentHistory = append(o.PaymentHistory, p)
	o.recompute()
	return nil
}

func (o *Order) recompute() {
	paid := o.TotalPaid()
	o.RemainingAmount = types.RoundCents(o.TotalAmount.Sub(paid))
	o.Status = DeriveStatus(paid, o.RemainingAmount)
}

// DeriveStatus applies the three-way rule on cent-rounded amounts:
// nothing left to pay is paid, something paid is partial, otherwise unpaid.
func DeriveStatus(paid, remaining types.Money) Status {
	switch {
	case !types.RoundCents(remaining).IsPositive():
		return StatusPaid
	case types.RoundCents(paid).IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// ProductNames lists item product names in order.
func (o *Order) ProductNames() []string {
	names := make([]string, len(o.Items))
	for i, it := range o.Items {
		names[i] = it.ProductName
	}
	return names
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = append([]Item(nil), o.Items...)
	c.PaymentHistory = make([]Payment, len(o.PaymentHistory))
	for i, p := range o.PaymentHistory {
		if p.TransactionRef != nil {
			ref := *p.TransactionRef
			p.TransactionRef = &ref
		}
		c.PaymentHistory[i] = p
	}
	return &c
}

var _ entity.Validatable = (*Order)(nil)
