// Package entity holds the building blocks shared by ledger records.
package entity

import (
	"context"
	"time"

	"kls/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without storage access).
type Validatable interface {
	// Validate returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains the identity every stored record carries.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBaseEntity creates a BaseEntity with generated ID and timestamps taken from now.
func NewBaseEntity(now time.Time) BaseEntity {
	now = now.UTC()
	return BaseEntity{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the primary key.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// Touch updates the UpdatedAt timestamp.
func (b *BaseEntity) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}
