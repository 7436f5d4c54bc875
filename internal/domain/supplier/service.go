package supplier

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"kls/internal/core/apperror"
	"kls/internal/core/clock"
	"kls/internal/core/id"
	"kls/internal/core/notify"
	"kls/internal/core/tx"
	"kls/internal/core/types"
	"kls/internal/domain"
	"kls/pkg/logger"
)

// ListFilter narrows List.
type ListFilter struct {
	// Search matches name, contact and GST number, ignoring case.
	Search string
	domain.Page
}

// Service manages suppliers and posts ledger entries for them.
type Service struct {
	repo      Repository
	txManager tx.Manager
	clock     clock.Clock
	notifier  notify.Sink
	hooks     *domain.HookRegistry[*Supplier]
}

// NewService creates a supplier service.
func NewService(repo Repository, txManager tx.Manager, clk clock.Clock, notifier notify.Sink) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		clock:     clk,
		notifier:  notifier,
		hooks:     domain.NewHookRegistry[*Supplier](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Supplier] {
	return s.hooks
}

// Create adds a supplier. Names are unique ignoring case.
func (s *Service) Create(ctx context.Context, d Details) (*Supplier, error) {
	sup, err := NewSupplier(d, s.clock.Now())
	if err != nil {
		return nil, s.fail(ctx, "Failed to add supplier", err)
	}
	if err := s.hooks.Run(ctx, domain.BeforeCreate, sup); err != nil {
		return nil, s.fail(ctx, "Failed to add supplier", err)
	}

	var (
		warnings domain.Warnings
		stored   bool
	)
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureUniqueName(ctx, sup.Name, sup.ID); err != nil {
			return err
		}
		if err := warnings.Keep(s.repo.Create(ctx, sup)); err != nil {
			return err
		}
		stored = true
		return nil
	})
	if err != nil {
		if !stored {
			return nil, s.fail(ctx, "Failed to add supplier", err)
		}
		warnings.Add(apperror.NewPersistence("", err))
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, sup); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}
	logger.Info(ctx, "supplier created", "id", sup.ID, "name", sup.Name)
	return sup.Clone(), s.finish(ctx, "Supplier "+sup.Name+" added", warnings.Err())
}

// Get returns one supplier.
func (s *Service) Get(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// GetByName looks a supplier up by name, ignoring case.
func (s *Service) GetByName(ctx context.Context, name string) (*Supplier, error) {
	return s.repo.GetByName(ctx, name)
}

// List returns suppliers sorted by name.
func (s *Service) List(ctx context.Context, f ListFilter) (domain.ListResult[*Supplier], error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return domain.ListResult[*Supplier]{}, err
	}

	needle := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]*Supplier, 0, len(all))
	for _, sup := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(sup.Name), needle) &&
			!strings.Contains(strings.ToLower(sup.Contact), needle) &&
			!strings.Contains(strings.ToLower(sup.GSTNumber), needle) {
			continue
		}
		matched = append(matched, sup)
	}
	slices.SortStableFunc(matched, func(a, b *Supplier) int {
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return domain.Paginate(matched, f.Page), nil
}

// Update edits the supplier's details. The ledger is kept; stored balances
// are re-folded when the opening balance changes.
func (s *Service) Update(ctx context.Context, supplierID id.ID, d Details) (*Supplier, error) {
	var (
		warnings domain.Warnings
		updated  *Supplier
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sup, err := s.repo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		// Orders reach their supplier by name, so a posted ledger pins it.
		if len(sup.Transactions) > 0 && !sup.MatchesName(d.Name) {
			return apperror.NewValidation("supplier with ledger entries cannot be renamed").
				WithDetail("field", "name").
				WithDetail("name", sup.Name)
		}
		if err := sup.Update(d, s.clock.Now()); err != nil {
			return err
		}
		if err := s.ensureUniqueName(ctx, sup.Name, sup.ID); err != nil {
			return err
		}
		if err := warnings.Keep(s.repo.Update(ctx, sup)); err != nil {
			return err
		}
		updated = sup
		return nil
	})
	if err != nil {
		if updated == nil {
			return nil, s.fail(ctx, "Failed to update supplier", err)
		}
		warnings.Add(apperror.NewPersistence("", err))
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, updated); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return updated.Clone(), s.finish(ctx, "Supplier "+updated.Name+" updated", warnings.Err())
}

// Delete removes a supplier from the list. Orders naming it are kept.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	var (
		warnings domain.Warnings
		removed  *Supplier
	)
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sup, err := s.repo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if err := warnings.Keep(s.repo.Delete(ctx, supplierID)); err != nil {
			return err
		}
		removed = sup
		return nil
	})
	if err != nil {
		return s.fail(ctx, "Failed to delete supplier", err)
	}

	if err := s.hooks.Run(ctx, domain.AfterDelete, removed); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}
	logger.Info(ctx, "supplier deleted", "id", supplierID, "name", removed.Name)
	return s.finish(ctx, "Supplier "+removed.Name+" deleted", warnings.Err())
}

// PostDebit records a purchase on the named supplier's ledger, creating the
// supplier first if needed. Implements purchase.SupplierBook.
func (s *Service) PostDebit(ctx context.Context, name, address string, date time.Time, description string, amount types.Money) error {
	return s.post(ctx, name, address, date, description, amount, types.Zero())
}

// PostCredit records a payment on the named supplier's ledger.
func (s *Service) PostCredit(ctx context.Context, name string, date time.Time, description string, amount types.Money) error {
	return s.post(ctx, name, "", date, description, types.Zero(), amount)
}

func (s *Service) post(ctx context.Context, name, address string, date time.Time, description string, debit, credit types.Money) error {
	var warnings domain.Warnings
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sup, created, err := s.findOrCreate(ctx, name, address)
		if err != nil {
			return err
		}
		entry := sup.AppendTransaction(date, description, debit, credit)
		sup.Touch(s.clock.Now())

		if created {
			err = s.repo.Create(ctx, sup)
		} else {
			err = s.repo.Update(ctx, sup)
		}
		if err := warnings.Keep(err); err != nil {
			return fmt.Errorf("save supplier ledger: %w", err)
		}

		logger.Debug(ctx, "supplier ledger entry",
			"supplier", sup.Name,
			"description", entry.Description,
			"debit", entry.Debit.String(),
			"credit", entry.Credit.String(),
			"balance", entry.Balance.String())
		return nil
	})
	if err != nil {
		return err
	}
	return warnings.Err()
}

func (s *Service) findOrCreate(ctx context.Context, name, address string) (*Supplier, bool, error) {
	sup, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return sup, false, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, false, err
	}

	sup, err = NewSupplier(Details{Name: name, Address: address}, s.clock.Now())
	if err != nil {
		return nil, false, err
	}
	logger.Info(ctx, "supplier created from purchase", "name", sup.Name)
	return sup, true, nil
}

// Ledger returns the running-balance view and totals of a supplier.
func (s *Service) Ledger(ctx context.Context, supplierID id.ID, from, to time.Time) (*Supplier, Statement, error) {
	sup, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, Statement{}, err
	}
	return sup, StatementFor(sup, from, to), nil
}

func (s *Service) ensureUniqueName(ctx context.Context, name string, self id.ID) error {
	existing, err := s.repo.GetByName(ctx, name)
	switch {
	case apperror.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperror.NewDuplicate("supplier", "name", name)
	}
	return nil
}

func (s *Service) fail(ctx context.Context, title string, err error) error {
	msg := title
	if appErr, ok := apperror.AsAppError(err); ok {
		msg = title + ": " + appErr.Message
	}
	s.notifier.Notify(ctx, notify.KindError, msg)
	return err
}

func (s *Service) finish(ctx context.Context, success string, persistErr error) error {
	if persistErr != nil {
		logger.Warn(ctx, "supplier change applied in memory but not persisted", "error", persistErr)
		s.notifier.Notify(ctx, notify.KindWarning, success+" but could not be saved")
		return persistErr
	}
	s.notifier.Notify(ctx, notify.KindSuccess, success)
	return nil
}
