package universe

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var ErrSchedulerStopped = errors.New("scheduler is not running")

// Cycler runs one synchronization pass.
type Cycler interface {
	RunSyncCycle(ctx context.Context) (*CycleReport, error)
}

// Scheduler starts a cycle immediately and then on every tick. A tick never
// waits for the previous cycle, so a slow cycle can overlap the next one.
type Scheduler struct {
	cycler   Cycler
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	wg      sync.WaitGroup
	running atomic.Int32
}

func NewScheduler(cycler Cycler, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cycler:   cycler,
		interval: interval,
		logger:   logger.With("component", "sync_scheduler"),
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight cycles.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.logger.Info("Sync scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.start(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.ctx = nil
			s.mu.Unlock()

			s.logger.Info("Sync scheduler stopping, waiting for running cycles", "running", s.running.Load())
			s.wg.Wait()
			s.logger.Info("Sync scheduler stopped")
			return
		case <-ticker.C:
			s.start(ctx, "timer")
		}
	}
}

// Trigger starts an extra cycle outside the timer.
func (s *Scheduler) Trigger() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// held across start so Run cannot begin waiting before the cycle is counted
	if s.ctx == nil {
		return ErrSchedulerStopped
	}

	s.start(s.ctx, "manual")
	return nil
}

// Running reports how many cycles are in flight.
func (s *Scheduler) Running() int {
	return int(s.running.Load())
}

func (s *Scheduler) start(ctx context.Context, trigger string) {
	s.wg.Add(1)
	n := s.running.Add(1)
	if n > 1 {
		s.logger.Warn("Starting sync cycle while another is still running", "running", n)
	}

	go func() {
		defer s.wg.Done()
		defer s.running.Add(-1)

		if _, err := s.cycler.RunSyncCycle(ctx); err != nil {
			s.logger.Error("Sync cycle failed", "trigger", trigger, "error", err)
		}
	}()
}
