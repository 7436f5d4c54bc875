// Package jobs runs the periodic background jobs of the server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appctx "kls/internal/core/context"
	"kls/pkg/logger"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler runs jobs on cron schedules (standard five-field specs).
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// NewScheduler creates a scheduler evaluating specs in loc.
func NewScheduler(loc *time.Location, log *logger.Logger) *Scheduler {
	log = log.WithComponent("scheduler")
	cl := cronLogger{log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

// Add schedules job under name.
func (s *Scheduler) Add(spec, name string, job Job) (cron.EntryID, error) {
	entryID, err := s.cron.AddFunc(spec, func() {
		ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext("", ""))
		ctx = logger.WithLogger(ctx, s.log.With("job", name))

		start := time.Now()
		if err := job(ctx); err != nil {
			logger.Error(ctx, "job failed", "error", err, "duration", time.Since(start))
			return
		}
		logger.Info(ctx, "job finished", "duration", time.Since(start))
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.log.Infow("job scheduled", "job", name, "spec", spec)
	return entryID, nil
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warnw("scheduler stop timed out, jobs still running")
	}
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
