package purchase

import (
	"context"
	"fmt"
	"time"

	"kls/internal/core/numerator"
)

// Sequencer derives DDMMNN order numbers from the orders already stored.
//
// Only orders created in the same calendar year as day are scanned, so last
// year's numbers for the same date do not push the suffix up. Suffixes past
// 99 keep counting with three digits.
type Sequencer struct {
	repo Repository
	cfg  numerator.Config
}

// NewSequencer creates a sequencer over repo.
func NewSequencer(repo Repository, cfg numerator.Config) *Sequencer {
	return &Sequencer{repo: repo, cfg: cfg}
}

// PeekNext implements numerator.Generator.
func (s *Sequencer) PeekNext(ctx context.Context, day time.Time) (string, error) {
	return s.next(ctx, day)
}

// Reserve implements numerator.Generator. The caller holds the writer lock
// until the order carrying the number is stored.
func (s *Sequencer) Reserve(ctx context.Context, day time.Time) (string, error) {
	return s.next(ctx, day)
}

func (s *Sequencer) next(ctx context.Context, day time.Time) (string, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("scan orders: %w", err)
	}

	issued := make([]string, 0, len(orders))
	for _, o := range orders {
		if !o.CreatedAt.IsZero() && o.CreatedAt.In(day.Location()).Year() != day.Year() {
			continue
		}
		issued = append(issued, o.OrderNumber)
	}
	return s.cfg.NextInSeries(day, issued), nil
}

var _ numerator.Generator = (*Sequencer)(nil)
