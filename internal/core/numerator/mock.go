package numerator

import (
	"context"
	"time"
)

// MockGenerator is a test implementation of Generator.
type MockGenerator struct {
	PeekNextFunc func(ctx context.Context, day time.Time) (string, error)
	ReserveFunc  func(ctx context.Context, day time.Time) (string, error)
}

// PeekNext implements Generator.
func (m *MockGenerator) PeekNext(ctx context.Context, day time.Time) (string, error) {
	if m.PeekNextFunc != nil {
		return m.PeekNextFunc(ctx, day)
	}
	return DefaultConfig().Format(day, 0), nil
}

// Reserve implements Generator.
func (m *MockGenerator) Reserve(ctx context.Context, day time.Time) (string, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, day)
	}
	return DefaultConfig().Format(day, 0), nil
}

var _ Generator = (*MockGenerator)(nil)
