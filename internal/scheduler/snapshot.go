// Package scheduler runs periodic catalog jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule reports whether schedule is a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Job is the work run on every tick.
type Job func(ctx context.Context) error

// SnapshotScheduler periodically exports show snapshots.
type SnapshotScheduler struct {
	schedule string
	job      Job
	log      logrus.FieldLogger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSnapshotScheduler creates a scheduler that runs job on schedule.
func NewSnapshotScheduler(schedule string, job Job, log logrus.FieldLogger) *SnapshotScheduler {
	return &SnapshotScheduler{
		schedule: schedule,
		job:      job,
		log:      log.WithField("component", "snapshot_scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the job and starts the cron loop. Cancelling ctx stops it.
func (s *SnapshotScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	entryID, err := s.cron.AddFunc(s.schedule, func() { s.run(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}
	s.entryID = entryID
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true

	s.log.WithFields(logrus.Fields{
		"schedule": s.schedule,
		"next_run": s.nextRunLocked(),
	}).Info("Snapshot scheduler started")

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cancelFunc()
	s.cron.Remove(s.entryID)
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	s.log.Info("Snapshot scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *SnapshotScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the job fires next, or nil when stopped.
func (s *SnapshotScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	return s.nextRunLocked()
}

func (s *SnapshotScheduler) nextRunLocked() *time.Time {
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow runs the job once in the caller's goroutine.
func (s *SnapshotScheduler) RunNow(ctx context.Context) error {
	return s.job(ctx)
}

func (s *SnapshotScheduler) run(ctx context.Context) {
	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.log.WithError(err).Error("Snapshot job failed")
		return
	}
	s.log.WithField("duration", time.Since(start).Round(time.Millisecond)).Info("Snapshot job finished")
}
