// Package audit writes an audit trail of entity changes to the structured log.
package audit

import (
	"context"

	"kls/internal/domain"
	"kls/pkg/logger"
)

// Describe returns the key-value pairs logged for an entity.
type Describe[T any] func(entity T) []any

var trailEvents = []domain.HookEvent{
	domain.AfterCreate,
	domain.AfterUpdate,
	domain.AfterDelete,
}

// Register hooks the audit trail into an entity's lifecycle. Each committed
// create, update or delete produces one "audit" log line tagged with the
// request id of the caller.
//
// Audit hooks never fail the operation.
func Register[T any](hooks *domain.HookRegistry[T], entity string, describe Describe[T]) {
	for _, event := range trailEvents {
		hooks.On(event, func(ctx context.Context, e T) error {
			kv := append([]any{"entity", entity, "event", string(event)}, describe(e)...)
			logger.FromContext(ctx).WithComponent("audit").Infow("audit", kv...)
			return nil
		})
	}
}
