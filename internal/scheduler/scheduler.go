// Package scheduler runs periodic full-firm scans.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"legal-file-auditor/internal/shared/telemetry"
)

// DefaultRunTimeout bounds one scheduled pass over every firm.
const DefaultRunTimeout = 2 * time.Hour

// Runner scans every active firm. *scans.Service implements it.
type Runner interface {
	ScanAllActive(ctx context.Context) error
}

// Scheduler triggers Runner on a cron schedule. A pass that is still running
// when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	timeout time.Duration
	running atomic.Bool
}

// New parses schedule (standard five-field cron, UTC) and registers the scan job.
func New(schedule string, runner Runner, timeout time.Duration) (*Scheduler, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil, fmt.Errorf("schedule is empty")
	}
	if runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		runner:  runner,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins firing the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	telemetry.Info("scheduler.started", map[string]any{"entries": len(s.cron.Entries())})
}

// Stop prevents new runs and waits for a running pass, or until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		telemetry.Warn("scheduler.stop_timeout", nil)
	}
	telemetry.Info("scheduler.stopped", nil)
}

// RunOnce performs one pass unless another is in flight. It reports whether
// the pass ran.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		telemetry.Warn("scheduler.skip_overlap", nil)
		return false
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.runner.ScanAllActive(ctx)
	fields := map[string]any{"duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		fields["err"] = err
		telemetry.Error("scheduler.run_failed", fields)
		return true
	}
	telemetry.Info("scheduler.run_completed", fields)
	return true
}
