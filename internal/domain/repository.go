// Package domain provides the types shared by the ledger's domain services.
package domain

import (
	"context"
	"errors"

	"kls/internal/core/apperror"
)

// --- Pagination ---

// DefaultLimit caps list responses when the caller does not ask for a size.
const DefaultLimit = 50

// Page holds pagination options.
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies defaults and clamps negative values.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Paginate cuts one page out of an already filtered and sorted slice.
func Paginate[T any](items []T, page Page) ListResult[T] {
	page = page.Normalize()
	total := len(items)

	start := min(page.Offset, total)
	end := start + min(page.Limit, total-start)

	return ListResult[T]{
		Items:      append(make([]T, 0, end-start), items[start:end]...),
		TotalCount: int64(total),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
}

// --- Persistence warnings ---

// Warnings collects persistence failures raised after the in-memory state
// was already changed. Such failures must not abort the operation; they are
// handed back to the caller next to the result.
type Warnings struct {
	errs []error
}

// Keep records err if it is a persistence failure and returns nil, so the
// operation continues. Any other error is returned unchanged.
func (w *Warnings) Keep(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsPersistence(err) {
		w.errs = append(w.errs, err)
		return nil
	}
	return err
}

// Add records err unconditionally.
func (w *Warnings) Add(err error) {
	if err != nil {
		w.errs = append(w.errs, err)
	}
}

// Err returns nil, the single recorded failure, or all of them joined.
func (w *Warnings) Err() error {
	switch len(w.errs) {
	case 0:
		return nil
	case 1:
		return w.errs[0]
	default:
		return errors.Join(w.errs...)
	}
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	AfterUpdate  HookEvent = "after_update"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
