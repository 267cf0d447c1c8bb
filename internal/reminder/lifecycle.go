package reminder

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
	"github.com/mtarnawa/finbook/internal/rrule"
)

// legacyBudgetAlert is the tag old clients still send for threshold
// reminders. It maps to THRESHOLD before validation.
const legacyBudgetAlert = "BUDGET_ALERT"

var acceptedTypes = []models.ReminderType{
	models.ReminderTypeGeneral,
	models.ReminderTypeTransaction,
	models.ReminderTypeThreshold,
}

// Lifecycle validates and normalizes reminder payloads before they reach
// the store. The same rules apply on create and on update.
type Lifecycle struct {
	log *zap.Logger
}

func NewLifecycle(log *zap.Logger) *Lifecycle {
	return &Lifecycle{log: log}
}

// MapLegacyType rewrites deprecated type tags to their current
// equivalent. Unknown values pass through untouched for ValidateType to
// reject.
func (l *Lifecycle) MapLegacyType(raw string) string {
	if raw == legacyBudgetAlert {
		l.log.Info("rewrote legacy reminder type tag",
			zap.String("received", raw),
			zap.String("mapped", string(models.ReminderTypeThreshold)))
		return string(models.ReminderTypeThreshold)
	}
	return raw
}

// ValidateType checks a candidate against the closed set of reminder
// types. Case variants and unrecognized tags are rejected, never coerced.
func (l *Lifecycle) ValidateType(candidate string) (models.ReminderType, error) {
	for _, t := range acceptedTypes {
		if candidate == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: reminder type %q is not one of %s, %s, %s",
		models.ErrInvalidArgument, candidate,
		models.ReminderTypeGeneral, models.ReminderTypeTransaction, models.ReminderTypeThreshold)
}

// NormalizeAndValidate resolves a raw reminder type tag: legacy tags are
// mapped, everything else must be a member of the accepted set. The empty
// string is rejected like any other unknown value; defaulting an omitted
// field to GENERAL is the transport layer's job, since only there can
// omitted and empty be told apart.
func (l *Lifecycle) NormalizeAndValidate(raw string) (models.ReminderType, error) {
	return l.ValidateType(l.MapLegacyType(raw))
}

// CheckFields enforces field-presence policy for a reminder that is about
// to be persisted. THRESHOLD reminders without a category or threshold
// amount could never trigger, so they are rejected up front.
func (l *Lifecycle) CheckFields(r *models.Reminder) error {
	switch r.ReminderType {
	case models.ReminderTypeThreshold:
		if r.CategoryID == nil {
			return fmt.Errorf("%w: threshold reminder requires a category_id", models.ErrInvalidArgument)
		}
		if !r.ThresholdAmount.Valid {
			return fmt.Errorf("%w: threshold reminder requires a threshold_amount", models.ErrInvalidArgument)
		}
	case models.ReminderTypeGeneral, models.ReminderTypeTransaction:
		if r.DueDate == nil {
			return fmt.Errorf("%w: %s reminder requires a due_date", models.ErrInvalidArgument, r.ReminderType)
		}
	}
	if r.RecurrenceRule != "" {
		dtstart := time.Now()
		if r.DueDate != nil {
			dtstart = *r.DueDate
		}
		if _, err := rrule.ParseRRule(r.RecurrenceRule, dtstart); err != nil {
			return fmt.Errorf("%w: recurrence rule %q is not a valid RRULE", models.ErrInvalidArgument, r.RecurrenceRule)
		}
	}
	if r.TransactionType != nil && !r.TransactionType.Valid() {
		return fmt.Errorf("%w: transaction type %q is not one of %s, %s",
			models.ErrInvalidArgument, *r.TransactionType,
			models.TransactionTypeIncome, models.TransactionTypeExpense)
	}
	return nil
}
