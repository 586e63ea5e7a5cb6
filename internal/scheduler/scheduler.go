// Package scheduler runs the bridge on a fixed interval for daemon mode.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Job is one scheduled unit of work. The context carries the per-run timeout.
type Job func(ctx context.Context)

// Scheduler triggers a Job every interval. Runs never overlap; if a run is
// still in flight when the next tick fires, the tick is skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
	job       Job
	logger    *slog.Logger
}

// New creates a Scheduler that invokes job every interval, bounding each
// invocation by timeout.
func New(interval, timeout time.Duration, job Job, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		interval:  interval,
		timeout:   timeout,
		job:       job,
		logger:    logger,
	}
}

// Start schedules the job and begins running it asynchronously. The first
// invocation fires immediately rather than one interval from now.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		s.job(ctx)
		s.logger.Debug("scheduled run finished", "elapsed", time.Since(start))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "interval", s.interval)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
