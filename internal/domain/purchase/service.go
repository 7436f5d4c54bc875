package purchase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kls/internal/core/apperror"
	"kls/internal/core/clock"
	"kls/internal/core/id"
	"kls/internal/core/notify"
	"kls/internal/core/numerator"
	"kls/internal/core/tx"
	"kls/internal/core/types"
	"kls/internal/domain"
	"kls/internal/domain/filter"
	"kls/pkg/logger"
)

var tracer = otel.Tracer("kls/purchase")

// CreateOrderInput is everything the order form submits.
type CreateOrderInput struct {
	Supplier        string
	SupplierAddress string
	Date            time.Time
	Items           []Item
	InitialPayment  types.Money
	PaymentMethod   PaymentMethod
	TransactionRef  string
}

// AddPaymentInput describes one payment against an order.
type AddPaymentInput struct {
	Amount         types.Money
	Method         PaymentMethod
	TransactionRef string
	// Date defaults to today.
	Date time.Time
}

// ListFilter narrows ListOrders.
type ListFilter struct {
	Status Status
	Period filter.Period
	// Search matches supplier name, order number and product names, ignoring case.
	Search string
	// Supplier keeps orders of one supplier (exact name, ignoring case).
	Supplier string
	// Expr is an optional CEL expression over filter.OrderVars.
	Expr string
	domain.Page
}

// Service provides the purchase ledger operations.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	suppliers SupplierBook
	txManager tx.Manager
	clock     clock.Clock
	notifier  notify.Sink
	hooks     *domain.HookRegistry[*Order]
}

// NewService creates a purchase service.
func NewService(
	repo Repository,
	numerator numerator.Generator,
	suppliers SupplierBook,
	txManager tx.Manager,
	clk clock.Clock,
	notifier notify.Sink,
) *Service {
	return &Service{
		repo:      repo,
		numerator: numerator,
		suppliers: suppliers,
		txManager: txManager,
		clock:     clk,
		notifier:  notifier,
		hooks:     domain.NewHookRegistry[*Order](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Order] {
	return s.hooks
}

// NextNumber previews the number the next order created today would get.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	return s.numerator.PeekNext(ctx, clock.Today(s.clock))
}

// CreateOrder validates the form, assigns an order number, stores the order
// and mirrors it (plus any initial payment) onto the supplier ledger.
//
// A non-nil order together with a persistence error means the order exists
// in memory but could not be saved.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	ctx, span := tracer.Start(ctx, "purchase.CreateOrder",
		trace.WithAttributes(attribute.String("supplier", in.Supplier)))
	defer span.End()

	if in.PaymentMethod == "" {
		in.PaymentMethod = MethodCash
	}
	order, err := s.prepareOrder(ctx, &in)
	if err != nil {
		return nil, s.fail(ctx, "Failed to create purchase order", err)
	}

	var (
		warnings domain.Warnings
		stored   bool
	)
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.Reserve(ctx, clock.Today(s.clock))
		if err != nil {
			return fmt.Errorf("reserve order number: %w", err)
		}
		order.OrderNumber = number

		if in.InitialPayment.IsPositive() {
			p := NewPayment(in.InitialPayment, in.PaymentMethod, in.TransactionRef, order.Date)
			if err := order.ApplyPayment(p); err != nil {
				return err
			}
		}

		if err := warnings.Keep(s.repo.Create(ctx, order)); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		stored = true

		if err := warnings.Keep(s.suppliers.PostDebit(ctx, order.Supplier, order.SupplierAddress,
			order.Date, "Purchase #"+order.OrderNumber, order.TotalAmount)); err != nil {
			return fmt.Errorf("post purchase to supplier ledger: %w", err)
		}

		if paid := order.TotalPaid(); paid.IsPositive() {
			if err := warnings.Keep(s.suppliers.PostCredit(ctx, order.Supplier, order.Date,
				paymentDescription(order, order.PaymentHistory[0]), paid)); err != nil {
				return fmt.Errorf("post initial payment to supplier ledger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if !stored {
			return nil, s.fail(ctx, "Failed to create purchase order", err)
		}
		warnings.Add(asPersistence(err))
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, order); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "purchase order created",
		"id", order.ID,
		"number", order.OrderNumber,
		"supplier", order.Supplier,
		"total", order.TotalAmount.String(),
		"status", order.Status)

	return order.Clone(), s.finish(ctx, "Purchase order "+order.OrderNumber+" created", warnings.Err())
}

// prepareOrder validates the input and rounds in.InitialPayment to cents;
// a payment that rounds to zero is treated as no payment.
func (s *Service) prepareOrder(ctx context.Context, in *CreateOrderInput) (*Order, error) {
	order, err := NewOrder(in.Supplier, in.SupplierAddress, in.Date, in.Items, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if in.InitialPayment.IsNegative() {
		return nil, apperror.NewValidation("initial payment cannot be negative").
			WithDetail("field", "initialPayment")
	}
	in.InitialPayment = types.RoundCents(in.InitialPayment)
	if in.InitialPayment.GreaterThan(order.TotalAmount) {
		return nil, apperror.NewValidation("initial payment exceeds order total").
			WithDetail("field", "initialPayment").
			WithDetail("total", order.TotalAmount.String())
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder returns one order.
func (s *Service) GetOrder(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// ListOrders filters, sorts (newest order date first) and paginates orders.
func (s *Service) ListOrders(ctx context.Context, f ListFilter) (domain.ListResult[*Order], error) {
	var expr *filter.Expr
	if strings.TrimSpace(f.Expr) != "" {
		var err error
		if expr, err = filter.Compile(f.Expr, filter.OrderVars...); err != nil {
			return domain.ListResult[*Order]{}, err
		}
	}

	orders, err := s.repo.List(ctx)
	if err != nil {
		return domain.ListResult[*Order]{}, err
	}

	now := s.clock.Now()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Supplier != "" && !strings.EqualFold(o.Supplier, strings.TrimSpace(f.Supplier)) {
			continue
		}
		if !f.Period.Contains(o.Date, now) {
			continue
		}
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		if expr != nil && !expr.Match(exprVars(o, now)) {
			continue
		}
		matched = append(matched, o)
	}

	slices.SortStableFunc(matched, func(a, b *Order) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.OrderNumber, a.OrderNumber)
	})

	return domain.Paginate(matched, f.Page), nil
}

// AddPayment records a payment against an order. Amounts above what is still
// owed are rejected with PaymentExceedsBalance and leave the order untouched.
func (s *Service) AddPayment(ctx context.Context, orderID id.ID, in AddPaymentInput) (*Order, error) {
	ctx, span := tracer.Start(ctx, "purchase.AddPayment",
		trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	if in.Method == "" {
		in.Method = MethodCash
	}
	if in.Date.IsZero() {
		in.Date = clock.Today(s.clock)
	}

	var (
		warnings domain.Warnings
		order    *Order
		stored   bool
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		payment := NewPayment(in.Amount, in.Method, in.TransactionRef, in.Date)
		if err := current.ApplyPayment(payment); err != nil {
			return err
		}
		current.Touch(s.clock.Now())

		if err := warnings.Keep(s.repo.Update(ctx, current)); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		order, stored = current, true

		if err := warnings.Keep(s.suppliers.PostCredit(ctx, current.Supplier, payment.Date,
			paymentDescription(current, payment), payment.Amount)); err != nil {
			return fmt.Errorf("post payment to supplier ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		if !stored {
			return nil, s.fail(ctx, "Failed to add payment", err)
		}
		warnings.Add(asPersistence(err))
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, order); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	logger.Info(ctx, "payment recorded",
		"order_id", order.ID,
		"number", order.OrderNumber,
		"amount", in.Amount.String(),
		"method", in.Method,
		"remaining", order.RemainingAmount.String(),
		"status", order.Status)

	return order.Clone(), s.finish(ctx, "Payment recorded for order "+order.OrderNumber, warnings.Err())
}

// DeleteOrder removes an order from the list. Supplier ledger entries it
// produced are kept.
func (s *Service) DeleteOrder(ctx context.Context, orderID id.ID) error {
	var (
		warnings domain.Warnings
		removed  *Order
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := warnings.Keep(s.repo.Delete(ctx, orderID)); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		removed = order
		return nil
	})
	if err != nil {
		if removed == nil {
			return s.fail(ctx, "Failed to delete purchase order", err)
		}
		warnings.Add(asPersistence(err))
	}

	if err := s.hooks.Run(ctx, domain.AfterDelete, removed); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}
	logger.Info(ctx, "purchase order deleted", "id", removed.ID, "number", removed.OrderNumber)

	return s.finish(ctx, "Purchase order "+removed.OrderNumber+" deleted", warnings.Err())
}

// fail notifies and returns err.
func (s *Service) fail(ctx context.Context, title string, err error) error {
	msg := title
	if appErr, ok := apperror.AsAppError(err); ok {
		msg = title + ": " + appErr.Message
	}
	s.notifier.Notify(ctx, notify.KindError, msg)
	return err
}

// finish reports success, or a warning when the change was not saved.
func (s *Service) finish(ctx context.Context, success string, persistErr error) error {
	if persistErr != nil {
		logger.Warn(ctx, "change applied in memory but not persisted", "error", persistErr)
		s.notifier.Notify(ctx, notify.KindWarning, success+" but could not be saved")
		return persistErr
	}
	s.notifier.Notify(ctx, notify.KindSuccess, success)
	return nil
}

// asPersistence treats a failure raised after the order was stored (a failed
// commit) as a persistence problem.
func asPersistence(err error) error {
	if apperror.IsPersistence(err) {
		return err
	}
	return apperror.NewPersistence("", err)
}

func paymentDescription(o *Order, p Payment) string {
	desc := fmt.Sprintf("Payment for #%s (%s)", o.OrderNumber, p.Method)
	if p.TransactionRef != nil {
		desc += " ref " + *p.TransactionRef
	}
	return desc
}

func matchesSearch(o *Order, needle string) bool {
	if strings.Contains(strings.ToLower(o.Supplier), needle) ||
		strings.Contains(strings.ToLower(o.OrderNumber), needle) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.ProductName), needle) {
			return true
		}
	}
	return false
}

func exprVars(o *Order, now time.Time) map[string]any {
	return map[string]any{
		"supplier":  o.Supplier,
		"number":    o.OrderNumber,
		"status":    string(o.Status),
		"total":     o.TotalAmount.InexactFloat64(),
		"paid":      o.TotalPaid().InexactFloat64(),
		"remaining": o.RemainingAmount.InexactFloat64(),
		"items":     o.ProductNames(),
		"age_days":  int64(clock.StartOfDay(now).Sub(clock.StartOfDay(o.Date.In(now.Location()))).Hours() / 24),
	}
}
