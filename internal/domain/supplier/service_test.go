package supplier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kls/internal/core/apperror"
	"kls/internal/core/clock"
	"kls/internal/core/id"
	"kls/internal/core/notify"
	"kls/internal/domain"
)

type memRepo struct {
	mu          sync.Mutex
	items       []*Supplier
	failPersist bool
}

func (r *memRepo) persisted() error {
	if r.failPersist {
		return apperror.NewPersistence("suppliers", errors.New("quota exceeded"))
	}
	return nil
}

func (r *memRepo) Create(_ context.Context, s *Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, s.Clone())
	return r.persisted()
}

func (r *memRepo) find(match func(*Supplier) bool) (*Supplier, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.items {
		if match(s) {
			return s.Clone(), true
		}
	}
	return nil, false
}

func (r *memRepo) GetByID(_ context.Context, supplierID id.ID) (*Supplier, error) {
	if s, ok := r.find(func(s *Supplier) bool { return s.ID == supplierID }); ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("supplier", supplierID)
}

func (r *memRepo) GetByName(_ context.Context, name string) (*Supplier, error) {
	if s, ok := r.find(func(s *Supplier) bool { return s.MatchesName(name) }); ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("supplier", name)
}

func (r *memRepo) Update(_ context.Context, s *Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.items {
		if cur.ID == s.ID {
			r.items[i] = s.Clone()
			return r.persisted()
		}
	}
	return apperror.NewNotFound("supplier", s.ID)
}

func (r *memRepo) Delete(_ context.Context, supplierID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.items {
		if cur.ID == supplierID {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return r.persisted()
		}
	}
	return apperror.NewNotFound("supplier", supplierID)
}

func (r *memRepo) List(context.Context) ([]*Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Supplier, len(r.items))
	for i, s := range r.items {
		out[i] = s.Clone()
	}
	return out, nil
}

type directTx struct{}

func (directTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *memRepo, *notify.Recorder) {
	repo := &memRepo{}
	rec := &notify.Recorder{}
	clk := clock.NewFixed(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	return NewService(repo, directTx{}, clk, rec), repo, rec
}

func TestService_CreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newTestService()

	_, err := svc.Create(ctx, Details{Name: "Ram Traders"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Details{Name: "RAM TRADERS"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)

	last, _ := rec.Last()
	assert.Equal(t, notify.KindError, last.Kind)

	_, err = svc.Create(ctx, Details{Name: ""})
	assert.True(t, apperror.IsValidation(err))
}

func TestService_PostingsCreateSupplierOnce(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()
	date := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.PostDebit(ctx, "Shyam Agro", "Mandi Road", date, "Purchase #090300", m("10000")))
	require.NoError(t, svc.PostCredit(ctx, "shyam agro", date, "Payment for #090300 (CASH)", m("4000")))
	require.Len(t, repo.items, 1)

	sup, err := svc.GetByName(ctx, "Shyam Agro")
	require.NoError(t, err)
	assert.Equal(t, "Mandi Road", sup.Address)
	require.Len(t, sup.Transactions, 2)
	assert.True(t, sup.CurrentBalance().Equal(m("6000")))

	_, st, err := svc.Ledger(ctx, sup.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.True(t, st.Totals.TotalDebit.Equal(m("10000")))
	assert.True(t, st.Totals.TotalCredit.Equal(m("4000")))
	assert.True(t, st.Totals.ClosingBalance.Equal(m("6000")))
}

func TestService_PostingPersistenceFailureKeepsEntry(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()
	repo.failPersist = true

	err := svc.PostDebit(ctx, "Ram Traders", "", time.Now(), "Purchase #1", m("100"))
	assert.True(t, apperror.IsPersistence(err))

	sup, getErr := svc.GetByName(ctx, "Ram Traders")
	require.NoError(t, getErr)
	assert.Len(t, sup.Transactions, 1)
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	a, err := svc.Create(ctx, Details{Name: "Ram Traders"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Details{Name: "Shyam Agro"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, a.ID, Details{Name: "shyam agro"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)

	updated, err := svc.Update(ctx, a.ID, Details{Name: "Ram Traders & Sons", Contact: "98765"})
	require.NoError(t, err)
	assert.Equal(t, "98765", updated.Contact)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, a.ID)))
}

func TestService_UpdateKeepsNameOncePosted(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	date := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.PostDebit(ctx, "Ram Traders", "", date, "Purchase #090300", m("10000")))
	sup, err := svc.GetByName(ctx, "Ram Traders")
	require.NoError(t, err)

	_, err = svc.Update(ctx, sup.ID, Details{Name: "Ram Traders Pvt Ltd"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "name", appErr.Details["field"])

	_, err = svc.GetByName(ctx, "Ram Traders Pvt Ltd")
	assert.True(t, apperror.IsNotFound(err))

	// Later payments still land on the same supplier.
	require.NoError(t, svc.PostCredit(ctx, "Ram Traders", date, "Payment for #090300 (CASH)", m("4000")))
	sup, err = svc.GetByName(ctx, "Ram Traders")
	require.NoError(t, err)
	assert.Len(t, sup.Transactions, 2)
	assert.True(t, sup.CurrentBalance().Equal(m("6000")))

	updated, err := svc.Update(ctx, sup.ID, Details{Name: "RAM TRADERS", Contact: "98765"})
	require.NoError(t, err)
	assert.Equal(t, "98765", updated.Contact)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	for _, d := range []Details{
		{Name: "Shyam Agro", Contact: "99000"},
		{Name: "anand mills", GSTNumber: "27AAA"},
		{Name: "Ram Traders"},
	} {
		_, err := svc.Create(ctx, d)
		require.NoError(t, err)
	}

	names := func(res domain.ListResult[*Supplier]) []string {
		out := make([]string, len(res.Items))
		for i, s := range res.Items {
			out[i] = s.Name
		}
		return out
	}

	res, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"anand mills", "Ram Traders", "Shyam Agro"}, names(res))

	res, err = svc.List(ctx, ListFilter{Search: "990"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shyam Agro"}, names(res))

	res, err = svc.List(ctx, ListFilter{Search: "27aaa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"anand mills"}, names(res))
}

