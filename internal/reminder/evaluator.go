package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
)

// AlertSink durably records a notification for a user. The evaluator's
// only side effect goes through here.
type AlertSink interface {
	Emit(ctx context.Context, userID int64, alertType models.AlertType, message string) error
}

// Evaluator decides whether a reminder's condition is satisfied and, on
// trigger, emits an alert. One evaluation path per reminder type; each is
// pure with respect to its inputs apart from the sink call.
type Evaluator struct {
	sink AlertSink
	log  *zap.Logger
}

func NewEvaluator(sink AlertSink, log *zap.Logger) *Evaluator {
	return &Evaluator{sink: sink, log: log}
}

// EvaluateThreshold checks a budget watch against an observed expense
// amount. The boundary is inclusive: an expense exactly equal to the
// threshold triggers. Reminders missing a category or threshold amount
// are not eligible, not an error. The reminder is never marked completed
// here; a threshold reminder is an ongoing watch and re-fires on every
// qualifying expense.
func (e *Evaluator) EvaluateThreshold(ctx context.Context, r *models.Reminder, observed decimal.Decimal) (bool, error) {
	if r.ReminderType != models.ReminderTypeThreshold || r.Completed {
		return false, nil
	}
	if !r.ThresholdAmount.Valid || r.CategoryID == nil {
		return false, nil
	}
	if observed.LessThan(r.ThresholdAmount.Decimal) {
		return false, nil
	}

	message := fmt.Sprintf("Threshold reminder: %s. Expense of $%s in %s has exceeded the threshold of $%s",
		r.Title, observed.String(), categoryName(r), r.ThresholdAmount.Decimal.String())
	if err := e.sink.Emit(ctx, r.UserID, models.AlertTypeWarning, message); err != nil {
		return false, err
	}
	return true, nil
}

// EvaluateTransactionDue checks a TRANSACTION reminder against the
// current time. Due today or in the past both trigger; "today" is a
// calendar-date comparison, so a due time later today still qualifies.
func (e *Evaluator) EvaluateTransactionDue(ctx context.Context, r *models.Reminder, now time.Time) (bool, error) {
	if r.ReminderType != models.ReminderTypeTransaction || r.Completed {
		return false, nil
	}
	if r.DueDate == nil || !dueOnOrBefore(*r.DueDate, now) {
		return false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Transaction reminder: %s. ", r.Title)
	switch {
	case r.TransactionType != nil && *r.TransactionType == models.TransactionTypeIncome:
		b.WriteString("Income transaction")
	case r.TransactionType != nil && *r.TransactionType == models.TransactionTypeExpense:
		b.WriteString("Expense transaction")
	default:
		b.WriteString("Transaction")
	}
	if r.TransactionAmount.Valid {
		fmt.Fprintf(&b, " of $%s", r.TransactionAmount.Decimal.String())
	}
	if r.CategoryID != nil && r.CategoryName != nil && *r.CategoryName != "" {
		fmt.Fprintf(&b, " in %s", *r.CategoryName)
	}
	b.WriteString(" is due today.")

	if err := e.sink.Emit(ctx, r.UserID, models.AlertTypeInfo, b.String()); err != nil {
		return false, err
	}
	return true, nil
}

// EvaluateGeneralDue checks a GENERAL reminder against the current time,
// with the same calendar-date semantics as the transaction path.
func (e *Evaluator) EvaluateGeneralDue(ctx context.Context, r *models.Reminder, now time.Time) (bool, error) {
	if r.ReminderType != models.ReminderTypeGeneral || r.Completed {
		return false, nil
	}
	if r.DueDate == nil || !dueOnOrBefore(*r.DueDate, now) {
		return false, nil
	}

	message := "Reminder: " + r.Title
	if r.Description != "" {
		message += " - " + r.Description
	}
	if err := e.sink.Emit(ctx, r.UserID, models.AlertTypeInfo, message); err != nil {
		return false, err
	}
	return true, nil
}

// dueOnOrBefore compares calendar dates in now's location: a due date on
// the current day qualifies even when its time of day is still ahead.
func dueOnOrBefore(due, now time.Time) bool {
	dy, dm, dd := due.In(now.Location()).Date()
	ny, nm, nd := now.Date()
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	return !dueDay.After(today)
}

func categoryName(r *models.Reminder) string {
	if r.CategoryName != nil && *r.CategoryName != "" {
		return *r.CategoryName
	}
	return "this category"
}
