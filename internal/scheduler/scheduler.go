// Package scheduler drives the periodic decision cycle.
package scheduler

import (
	"context"
	"time"

	"arena/internal/logger"
)

// CycleFunc runs one full decision cycle. A non-nil error marks the
// cycle as failed; the loop logs it and keeps going.
type CycleFunc func(ctx context.Context) error

type Scheduler struct {
	Interval time.Duration
	RunOnce  bool
}

func New(interval time.Duration, runOnce bool) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{Interval: interval, RunOnce: runOnce}
}

// Run executes cycle immediately and then on every interval tick until
// ctx is cancelled. In run-once mode it returns the first cycle's
// error directly.
func (s *Scheduler) Run(ctx context.Context, cycle CycleFunc) error {
	if s.RunOnce {
		return s.runCycle(ctx, cycle)
	}

	if err := s.runCycle(ctx, cycle); err != nil {
		logger.Errorf("cycle failed: %v", err)
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Infof("scheduler stopping: %v", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx, cycle); err != nil {
				logger.Errorf("cycle failed: %v", err)
			}
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context, cycle CycleFunc) error {
	start := time.Now()
	err := cycle(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		return err
	}
	logger.Infof("cycle completed in %s", elapsed)
	return nil
}
