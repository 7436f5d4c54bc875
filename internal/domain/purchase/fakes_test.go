package purchase

import (
	"context"
	"errors"
	"sync"
	"time"

	"kls/internal/core/apperror"
	"kls/internal/core/id"
	"kls/internal/core/types"
)

// memRepo is an in-memory Repository. failPersist makes writes apply and
// then report a persistence error, like a real snapshot store would.
type memRepo struct {
	mu          sync.Mutex
	orders      []*Order
	failPersist bool
	writes      int
}

func (r *memRepo) persisted() error {
	r.writes++
	if r.failPersist {
		return apperror.NewPersistence("purchases", errors.New("storage unavailable"))
	}
	return nil
}

func (r *memRepo) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o.Clone())
	return r.persisted()
}

func (r *memRepo) GetByID(_ context.Context, orderID id.ID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == orderID {
			return o.Clone(), nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", orderID)
}

func (r *memRepo) Update(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.orders {
		if cur.ID == o.ID {
			r.orders[i] = o.Clone()
			return r.persisted()
		}
	}
	return apperror.NewNotFound("purchase order", o.ID)
}

func (r *memRepo) Delete(_ context.Context, orderID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.orders {
		if cur.ID == orderID {
			r.orders = append(r.orders[:i:i], r.orders[i+1:]...)
			return r.persisted()
		}
	}
	return apperror.NewNotFound("purchase order", orderID)
}

func (r *memRepo) List(context.Context) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = o.Clone()
	}
	return out, nil
}

type posting struct {
	Supplier    string
	Description string
	Debit       types.Money
	Credit      types.Money
	Date        time.Time
}

// fakeBook records supplier ledger postings.
type fakeBook struct {
	mu       sync.Mutex
	postings []posting
}

func (b *fakeBook) PostDebit(_ context.Context, supplier, _ string, date time.Time, description string, amount types.Money) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.postings = append(b.postings, posting{Supplier: supplier, Description: description, Debit: amount, Credit: types.Zero(), Date: date})
	return nil
}

func (b *fakeBook) PostCredit(_ context.Context, supplier string, date time.Time, description string, amount types.Money) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.postings = append(b.postings, posting{Supplier: supplier, Description: description, Debit: types.Zero(), Credit: amount, Date: date})
	return nil
}

// directTx runs the work inline.
type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
