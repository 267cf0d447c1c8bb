package server

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mtarnawa/finbook/internal/models"
)

func TestTransactionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     createTransactionRequest
		wantErr bool
	}{
		{
			name: "valid expense",
			req:  createTransactionRequest{Type: "EXPENSE", Amount: decimal.NewFromInt(50)},
		},
		{
			name: "zero amount allowed",
			req:  createTransactionRequest{Type: "INCOME", Amount: decimal.Zero},
		},
		{
			name:    "negative amount rejected",
			req:     createTransactionRequest{Type: "EXPENSE", Amount: decimal.NewFromInt(-50)},
			wantErr: true,
		},
		{
			name:    "unknown type rejected",
			req:     createTransactionRequest{Type: "TRANSFER", Amount: decimal.NewFromInt(50)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.validate()
			if tt.wantErr {
				if !errors.Is(err, models.ErrInvalidArgument) {
					t.Errorf("validate() = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Errorf("validate() unexpected error: %v", err)
			}
		})
	}
}

func TestTransactionRequestApplyToPreservesOmittedFields(t *testing.T) {
	catID := 3
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tx := &models.Transaction{
		CategoryID:      &catID,
		Type:            models.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: &date,
	}

	req := createTransactionRequest{Type: "EXPENSE", Amount: decimal.NewFromInt(25)}
	req.applyTo(tx)

	if tx.CategoryID == nil || *tx.CategoryID != catID {
		t.Errorf("CategoryID = %v, want stored category %d kept when omitted", tx.CategoryID, catID)
	}
	if tx.TransactionDate == nil || !tx.TransactionDate.Equal(date) {
		t.Errorf("TransactionDate = %v, want stored date kept when omitted", tx.TransactionDate)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Amount = %s, want 25", tx.Amount)
	}
}

func TestTransactionRequestApplyToOverwritesProvidedFields(t *testing.T) {
	oldCat, newCat := 3, 8
	oldDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	newDate := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	tx := &models.Transaction{
		CategoryID:      &oldCat,
		Type:            models.TransactionTypeExpense,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: &oldDate,
	}

	req := createTransactionRequest{
		CategoryID:      &newCat,
		Type:            "INCOME",
		Amount:          decimal.NewFromInt(99),
		TransactionDate: &newDate,
	}
	req.applyTo(tx)

	if tx.CategoryID == nil || *tx.CategoryID != newCat {
		t.Errorf("CategoryID = %v, want %d", tx.CategoryID, newCat)
	}
	if tx.Type != models.TransactionTypeIncome {
		t.Errorf("Type = %s, want INCOME", tx.Type)
	}
	if tx.TransactionDate == nil || !tx.TransactionDate.Equal(newDate) {
		t.Errorf("TransactionDate = %v, want %v", tx.TransactionDate, newDate)
	}
}
