package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type Transaction struct {
	TransactionID   int             `json:"transaction_id"`
	UserID          int64           `json:"user_id"`
	CategoryID      *int            `json:"category_id"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate *time.Time      `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}
