package reminder

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
)

// ThresholdReminderStore is the slice of the reminder store the reactive
// path needs.
type ThresholdReminderStore interface {
	FindActiveThresholdReminders(ctx context.Context, userID int64, categoryID int) ([]*models.Reminder, error)
}

// Engine drives the reactive threshold path. It is invoked from the
// transaction-write path and must never propagate a failure back to it.
type Engine struct {
	store     ThresholdReminderStore
	evaluator *Evaluator
	log       *zap.Logger
}

func NewEngine(store ThresholdReminderStore, evaluator *Evaluator, log *zap.Logger) *Engine {
	return &Engine{store: store, evaluator: evaluator, log: log}
}

// EvaluateThresholdReminders fans an observed expense out to every active
// threshold reminder watching the category. Each matching reminder is
// evaluated independently; a failure on one is logged and does not stop
// the others.
func (e *Engine) EvaluateThresholdReminders(ctx context.Context, userID int64, categoryID int, amount decimal.Decimal) {
	reminders, err := e.store.FindActiveThresholdReminders(ctx, userID, categoryID)
	if err != nil {
		e.log.Error("failed to load threshold reminders",
			zap.Int64("user_id", userID),
			zap.Int("category_id", categoryID),
			zap.Error(err))
		return
	}

	for _, r := range reminders {
		triggered, err := e.evaluator.EvaluateThreshold(ctx, r, amount)
		if err != nil {
			e.log.Error("threshold evaluation failed",
				zap.Int("reminder_id", r.ReminderID),
				zap.Int64("user_id", r.UserID),
				zap.String("reminder_type", string(r.ReminderType)),
				zap.Error(err))
			continue
		}
		if triggered {
			e.log.Info("threshold reminder triggered",
				zap.Int("reminder_id", r.ReminderID),
				zap.Int64("user_id", r.UserID),
				zap.String("amount", amount.String()))
		}
	}
}

// DispatchThresholdCheck runs the threshold evaluation in its own
// goroutine so the transaction-write path never blocks or fails on it.
func (e *Engine) DispatchThresholdCheck(userID int64, categoryID int, amount decimal.Decimal) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				e.log.Error("threshold check panicked",
					zap.Int64("user_id", userID),
					zap.Int("category_id", categoryID),
					zap.Any("panic", rec))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		e.EvaluateThresholdReminders(ctx, userID, categoryID, amount)
	}()
}
