package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/library/internal/logger"
	"github.com/mrlokans/library/internal/tasks"
)

// TaskEnqueuer is the part of the task client the scheduler needs.
type TaskEnqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// IntegritySweepScheduler periodically enqueues the orphan link sweep.
type IntegritySweepScheduler struct {
	enqueuer TaskEnqueuer
	schedule string
	log      *logger.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func newParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := newParser().Parse(schedule)
	return err
}

// NextRunTime returns the next activation of schedule after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := newParser().Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

func NewIntegritySweepScheduler(enqueuer TaskEnqueuer, schedule string, log *logger.Logger) *IntegritySweepScheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &IntegritySweepScheduler{
		enqueuer: enqueuer,
		schedule: schedule,
		log:      log.With("component", "integrity_sweep_scheduler"),
		cron:     cron.New(cron.WithParser(newParser())),
	}
}

// Start registers the cron job and starts the scheduler. It stops on its own
// when ctx is cancelled.
func (s *IntegritySweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule integrity sweep: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.schedule, time.Now())
	s.log.Info("Integrity sweep scheduler started", "schedule", s.schedule, "next_run", next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *IntegritySweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil
	s.cron.Remove(s.entryID)

	s.log.Info("Integrity sweep scheduler stopped")
}

// RunNow enqueues a sweep immediately and returns the task ID.
func (s *IntegritySweepScheduler) RunNow() string {
	id, err := s.enqueuer.Enqueue(tasks.SweepOrphanLinksTask{Trigger: "schedule"})
	if err != nil {
		s.log.Error("Failed to enqueue integrity sweep", "error", err)
		return ""
	}
	s.log.Debug("Integrity sweep enqueued", "task_id", id)
	return id
}

func (s *IntegritySweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sweep will be enqueued, or nil when
// the scheduler is stopped.
func (s *IntegritySweepScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}
