package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mtarnawa/finbook/internal/models"
	"github.com/mtarnawa/finbook/internal/rrule"
)

type reminderStore interface {
	FindDueReminders(ctx context.Context, reminderType models.ReminderType, asOf time.Time) ([]*models.Reminder, error)
	MarkCompleted(ctx context.Context, reminderID int) error
	Reschedule(ctx context.Context, reminderID int, dueDate time.Time) error
}

type dueEvaluator interface {
	EvaluateTransactionDue(ctx context.Context, r *models.Reminder, now time.Time) (bool, error)
	EvaluateGeneralDue(ctx context.Context, r *models.Reminder, now time.Time) (bool, error)
}

// Scheduler drives the due-date evaluation paths on a fixed wall-clock
// cadence, plus once immediately at start. The TRANSACTION and GENERAL
// sweeps run concurrently with each other; within a sweep, reminders are
// processed with bounded concurrency and per-reminder failures are
// isolated.
//
// A single instance per deployment is assumed. Running multiple
// instances without external locking double-fires due-date alerts.
type Scheduler struct {
	store       reminderStore
	evaluator   dueEvaluator
	interval    time.Duration
	concurrency int
	notifyCh    chan struct{}
	log         *zap.Logger
}

func New(store reminderStore, evaluator dueEvaluator, interval time.Duration, concurrency int, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Scheduler{
		store:       store,
		evaluator:   evaluator,
		interval:    interval,
		concurrency: concurrency,
		notifyCh:    make(chan struct{}, 1),
		log:         log,
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

// Start blocks until ctx is cancelled. An in-flight check finishes before
// Start returns to its caller's control; no new checks are scheduled
// after cancellation.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run first check immediately
	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		case <-s.notifyCh:
			s.log.Debug("scheduler triggered by notification")
			s.check(ctx)
		}
	}
}

// check runs both type sweeps. The sweeps have no ordering dependency on
// each other, but check returns only when both have finished, so a sweep
// never overlaps its own next invocation.
func (s *Scheduler) check(ctx context.Context) {
	now := time.Now()

	var wg sync.WaitGroup
	for _, t := range []models.ReminderType{models.ReminderTypeTransaction, models.ReminderTypeGeneral} {
		wg.Add(1)
		go func(reminderType models.ReminderType) {
			defer wg.Done()
			s.sweep(ctx, reminderType, now)
		}(t)
	}
	wg.Wait()
}

func (s *Scheduler) sweep(ctx context.Context, reminderType models.ReminderType, now time.Time) {
	// Fetch up to the end of the current calendar day so reminders due
	// later today are included; the evaluator applies the final
	// calendar-date comparison.
	reminders, err := s.store.FindDueReminders(ctx, reminderType, endOfDay(now))
	if err != nil {
		s.log.Error("failed to fetch due reminders",
			zap.String("reminder_type", string(reminderType)),
			zap.Error(err))
		return
	}
	if len(reminders) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, r := range reminders {
		r := r
		g.Go(func() error {
			s.process(gctx, r, now)
			return nil
		})
	}
	g.Wait()

	s.log.Debug("sweep finished",
		zap.String("reminder_type", string(reminderType)),
		zap.Int("reminders", len(reminders)))
}

// process evaluates one reminder and, on trigger, completes or re-arms
// it. Failures are logged and left for the next sweep; the reminder stays
// active, so delivery is at-least-once.
func (s *Scheduler) process(ctx context.Context, r *models.Reminder, now time.Time) {
	var triggered bool
	var err error

	switch r.ReminderType {
	case models.ReminderTypeTransaction:
		triggered, err = s.evaluator.EvaluateTransactionDue(ctx, r, now)
	case models.ReminderTypeGeneral:
		triggered, err = s.evaluator.EvaluateGeneralDue(ctx, r, now)
	default:
		return
	}

	if err != nil {
		s.log.Error("reminder evaluation failed",
			zap.Int("reminder_id", r.ReminderID),
			zap.Int64("user_id", r.UserID),
			zap.String("reminder_type", string(r.ReminderType)),
			zap.Error(err))
		return
	}
	if !triggered {
		return
	}

	s.log.Info("reminder triggered",
		zap.Int("reminder_id", r.ReminderID),
		zap.Int64("user_id", r.UserID),
		zap.String("reminder_type", string(r.ReminderType)))

	s.afterTrigger(ctx, r, now)
}

// afterTrigger re-arms a recurring reminder to its next occurrence, or
// marks a one-shot reminder completed so the hourly sweep does not
// re-alert it.
func (s *Scheduler) afterTrigger(ctx context.Context, r *models.Reminder, now time.Time) {
	if r.IsRecurring() && r.DueDate != nil {
		next, err := rrule.NextOccurrenceStrict(r.RecurrenceRule, *r.DueDate, now)
		if err != nil {
			// Leave the reminder active rather than silently downgrading
			// it to one-shot. The rule was validated on write, so this
			// only happens if the stored rule was corrupted.
			s.log.Error("failed to calculate next occurrence",
				zap.Int("reminder_id", r.ReminderID),
				zap.String("rule", r.RecurrenceRule),
				zap.Error(err))
			return
		}
		if next != nil {
			if err := s.store.Reschedule(ctx, r.ReminderID, *next); err != nil {
				s.log.Error("failed to reschedule reminder",
					zap.Int("reminder_id", r.ReminderID),
					zap.Error(err))
			}
			return
		}
		// No further occurrences: fall through and complete the reminder.
	}

	if err := s.store.MarkCompleted(ctx, r.ReminderID); err != nil {
		s.log.Error("failed to mark reminder completed",
			zap.Int("reminder_id", r.ReminderID),
			zap.Int64("user_id", r.UserID),
			zap.Error(err))
	}
}

func endOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
