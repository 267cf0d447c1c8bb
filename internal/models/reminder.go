package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReminderType string

const (
	// ReminderTypeGeneral is a plain date-based reminder.
	ReminderTypeGeneral ReminderType = "GENERAL"
	// ReminderTypeTransaction is a date-based reminder for an upcoming
	// income or expense transaction.
	ReminderTypeTransaction ReminderType = "TRANSACTION"
	// ReminderTypeThreshold is a budget watch: it fires whenever an
	// expense in the watched category reaches the configured amount.
	ReminderTypeThreshold ReminderType = "THRESHOLD"
)

type Reminder struct {
	ReminderID   int          `json:"reminder_id"`
	UserID       int64        `json:"user_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	DueDate      *time.Time   `json:"due_date"`
	Completed    bool         `json:"completed"`
	ReminderType ReminderType `json:"reminder_type"`
	CategoryID   *int         `json:"category_id"`
	// CategoryName is resolved from the category table on read; it is
	// never written back.
	CategoryName      *string             `json:"category_name,omitempty"`
	ThresholdAmount   decimal.NullDecimal `json:"threshold_amount"`
	TransactionType   *TransactionType    `json:"transaction_type"`
	TransactionAmount decimal.NullDecimal `json:"transaction_amount"`
	RecurrenceRule    string              `json:"recurrence_rule"` // RFC 5545 RRULE
	CreatedAt         time.Time           `json:"created_at"`
}

// IsRecurring returns true if this reminder has a recurrence rule
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceRule != ""
}
