// Package scheduler runs the process's recurring background jobs. It is
// constructed once at startup and holds explicit references to its jobs —
// no ambient global state; the store and notifier arrive through the job
// closures at construction.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/ghuser/paycontrol/pkg/logger"
)

// Job is a named recurring task with a standard 5-field cron schedule.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler owns the process's recurring jobs. Each job run is isolated:
// an error or panic in one run is caught and logged, never propagated to
// sibling jobs or the host process.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Logger
}

// New returns an empty Scheduler. Register jobs before calling Start.
func New(log logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Register adds a job to the schedule. Returns an error when the cron
// expression does not parse.
func (s *Scheduler) Register(job Job) error {
	if _, err := s.cron.AddFunc(job.Schedule, func() {
		s.runJob(context.Background(), job)
	}); err != nil {
		return fmt.Errorf("register job %s: %w", job.Name, err)
	}
	s.log.Info("scheduled job registered", "job", job.Name, "schedule", job.Schedule)
	return nil
}

// Start begins running registered jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops scheduling new runs and waits for in-flight runs to finish or
// ctx to expire, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.log.Info("scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out with jobs in flight")
	}
}

// runJob executes one run of a job, recovering panics and logging failures
// so a broken job never takes down the scheduler or its siblings.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer func() {
		if p := recover(); p != nil {
			s.log.ErrorContext(ctx, "scheduled job panicked", "job", job.Name, "panic", p)
		}
	}()

	s.log.InfoContext(ctx, "scheduled job starting", "job", job.Name)
	if err := job.Run(ctx); err != nil {
		s.log.ErrorContext(ctx, "scheduled job failed", "job", job.Name, "error", err)
		return
	}
	s.log.InfoContext(ctx, "scheduled job finished", "job", job.Name)
}
