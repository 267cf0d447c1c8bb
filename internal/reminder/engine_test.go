package reminder

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
)

type fakeThresholdStore struct {
	reminders []*models.Reminder
	err       error
}

func (f *fakeThresholdStore) FindActiveThresholdReminders(_ context.Context, _ int64, _ int) ([]*models.Reminder, error) {
	return f.reminders, f.err
}

func TestEvaluateThresholdRemindersFanOut(t *testing.T) {
	// Two watches on the same category: only the lower one fires for an
	// expense between the two thresholds.
	low := thresholdReminder("100", "Groceries")
	high := thresholdReminder("200", "Groceries")
	high.ReminderID = 11
	high.Title = "Big spender"

	sink := &fakeSink{}
	engine := NewEngine(
		&fakeThresholdStore{reminders: []*models.Reminder{low, high}},
		NewEvaluator(sink, zap.NewNop()),
		zap.NewNop(),
	)

	engine.EvaluateThresholdReminders(context.Background(), 42, 1, decimal.NewFromInt(150))

	alerts := sink.alerts()
	if len(alerts) != 1 {
		t.Fatalf("emitted %d alerts, want exactly 1", len(alerts))
	}
	if !strings.Contains(alerts[0].message, "Pay utility") {
		t.Errorf("alert fired for the wrong reminder: %q", alerts[0].message)
	}
}

func TestEvaluateThresholdRemindersBothFire(t *testing.T) {
	low := thresholdReminder("100", "Groceries")
	high := thresholdReminder("200", "Groceries")
	high.ReminderID = 11

	sink := &fakeSink{}
	engine := NewEngine(
		&fakeThresholdStore{reminders: []*models.Reminder{low, high}},
		NewEvaluator(sink, zap.NewNop()),
		zap.NewNop(),
	)

	engine.EvaluateThresholdReminders(context.Background(), 42, 1, decimal.NewFromInt(250))

	if got := len(sink.alerts()); got != 2 {
		t.Fatalf("emitted %d alerts, want 2 independent triggers", got)
	}
}

func TestEvaluateThresholdRemindersStoreFailureIsSwallowed(t *testing.T) {
	sink := &fakeSink{}
	engine := NewEngine(
		&fakeThresholdStore{err: models.ErrStorageUnavailable},
		NewEvaluator(sink, zap.NewNop()),
		zap.NewNop(),
	)

	// Must not panic or propagate; the transaction-write path depends on it.
	engine.EvaluateThresholdReminders(context.Background(), 42, 1, decimal.NewFromInt(250))

	if len(sink.alerts()) != 0 {
		t.Error("no alerts expected when the store is down")
	}
}

func TestEvaluateThresholdRemindersSinkFailureDoesNotStopFanOut(t *testing.T) {
	low := thresholdReminder("100", "Groceries")
	high := thresholdReminder("200", "Groceries")
	high.ReminderID = 11

	sink := &fakeSink{err: models.ErrAlertSinkFailure}
	engine := NewEngine(
		&fakeThresholdStore{reminders: []*models.Reminder{low, high}},
		NewEvaluator(sink, zap.NewNop()),
		zap.NewNop(),
	)

	// Both evaluations fail at the sink; the loop must reach both and
	// return normally.
	engine.EvaluateThresholdReminders(context.Background(), 42, 1, decimal.NewFromInt(250))
}
