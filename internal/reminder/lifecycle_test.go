package reminder

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
)

func TestNormalizeAndValidate(t *testing.T) {
	l := NewLifecycle(zap.NewNop())

	tests := []struct {
		name    string
		raw     string
		want    models.ReminderType
		wantErr bool
	}{
		{name: "general", raw: "GENERAL", want: models.ReminderTypeGeneral},
		{name: "transaction", raw: "TRANSACTION", want: models.ReminderTypeTransaction},
		{name: "threshold", raw: "THRESHOLD", want: models.ReminderTypeThreshold},
		{name: "legacy budget alert maps to threshold", raw: "BUDGET_ALERT", want: models.ReminderTypeThreshold},
		{name: "empty string rejected", raw: "", wantErr: true},
		{name: "unknown value rejected", raw: "BOGUS", wantErr: true},
		{name: "case variant rejected", raw: "general", wantErr: true},
		{name: "unrecognized legacy tag rejected", raw: "BUDGET_WARNING", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.NormalizeAndValidate(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeAndValidate(%q) expected error, got %q", tt.raw, got)
				}
				if !errors.Is(err, models.ErrInvalidArgument) {
					t.Errorf("error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeAndValidate(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeAndValidate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateTypeErrorNamesValueAndAcceptedSet(t *testing.T) {
	l := NewLifecycle(zap.NewNop())

	_, err := l.ValidateType("BOGUS")
	if err == nil {
		t.Fatal("expected error for BOGUS")
	}
	msg := err.Error()
	for _, want := range []string{"BOGUS", "GENERAL", "TRANSACTION", "THRESHOLD"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestMapLegacyTypePassesUnknownThrough(t *testing.T) {
	l := NewLifecycle(zap.NewNop())

	if got := l.MapLegacyType("BUDGET_ALERT"); got != "THRESHOLD" {
		t.Errorf("MapLegacyType(BUDGET_ALERT) = %q, want THRESHOLD", got)
	}
	if got := l.MapLegacyType("WHATEVER"); got != "WHATEVER" {
		t.Errorf("MapLegacyType(WHATEVER) = %q, want passthrough", got)
	}
}

func TestCheckFields(t *testing.T) {
	l := NewLifecycle(zap.NewNop())
	catID := 7
	due := time.Now()
	badType := models.TransactionType("TRANSFER")

	tests := []struct {
		name    string
		r       *models.Reminder
		wantErr bool
	}{
		{
			name: "valid threshold",
			r: &models.Reminder{
				ReminderType:    models.ReminderTypeThreshold,
				CategoryID:      &catID,
				ThresholdAmount: decimal.NewNullDecimal(decimal.NewFromInt(100)),
			},
		},
		{
			name:    "threshold missing category",
			r:       &models.Reminder{ReminderType: models.ReminderTypeThreshold, ThresholdAmount: decimal.NewNullDecimal(decimal.NewFromInt(100))},
			wantErr: true,
		},
		{
			name:    "threshold missing amount",
			r:       &models.Reminder{ReminderType: models.ReminderTypeThreshold, CategoryID: &catID},
			wantErr: true,
		},
		{
			name: "valid general",
			r:    &models.Reminder{ReminderType: models.ReminderTypeGeneral, DueDate: &due},
		},
		{
			name:    "general missing due date",
			r:       &models.Reminder{ReminderType: models.ReminderTypeGeneral},
			wantErr: true,
		},
		{
			name:    "bad transaction type tag",
			r:       &models.Reminder{ReminderType: models.ReminderTypeTransaction, DueDate: &due, TransactionType: &badType},
			wantErr: true,
		},
		{
			name: "valid recurrence rule",
			r:    &models.Reminder{ReminderType: models.ReminderTypeGeneral, DueDate: &due, RecurrenceRule: "FREQ=MONTHLY;BYMONTHDAY=1"},
		},
		{
			name:    "malformed recurrence rule rejected",
			r:       &models.Reminder{ReminderType: models.ReminderTypeGeneral, DueDate: &due, RecurrenceRule: "FREQ=SOMETIMES"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.CheckFields(tt.r)
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidArgument) {
					t.Errorf("CheckFields = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Errorf("CheckFields unexpected error: %v", err)
			}
		})
	}
}
