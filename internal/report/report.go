package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/ai"
	"github.com/mtarnawa/finbook/internal/models"
	"github.com/mtarnawa/finbook/internal/repository"
)

// Summary is an aggregated view of a user's finances over a period.
type Summary struct {
	From       time.Time                  `json:"from"`
	To         time.Time                  `json:"to"`
	Income     decimal.Decimal            `json:"income"`
	Expense    decimal.Decimal            `json:"expense"`
	Net        decimal.Decimal            `json:"net"`
	Categories []repository.CategoryTotal `json:"categories"`
	Narrative  string                     `json:"narrative,omitempty"`
}

type Service struct {
	transactions *repository.TransactionRepository
	ai           *ai.Client // optional
	log          *zap.Logger
}

func NewService(transactions *repository.TransactionRepository, aiClient *ai.Client, log *zap.Logger) *Service {
	return &Service{transactions: transactions, ai: aiClient, log: log}
}

// Summarize computes period totals and a per-category expense breakdown.
// When an AI client is configured it also attaches a short narrative; an
// AI failure degrades to numbers-only.
func (s *Service) Summarize(ctx context.Context, userID int64, from, to time.Time) (*Summary, error) {
	income, err := s.transactions.GetTotalByType(ctx, userID, from, to, models.TransactionTypeIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to total income: %w", err)
	}
	expense, err := s.transactions.GetTotalByType(ctx, userID, from, to, models.TransactionTypeExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}
	categories, err := s.transactions.GetSummaryByCategory(ctx, userID, from, to, models.TransactionTypeExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to break down categories: %w", err)
	}

	summary := &Summary{
		From:       from,
		To:         to,
		Income:     income,
		Expense:    expense,
		Net:        income.Sub(expense),
		Categories: categories,
	}

	if s.ai != nil {
		narrative, err := s.ai.SummarizeReport(ctx, renderForAI(summary))
		if err != nil {
			s.log.Warn("report narrative generation failed",
				zap.Int64("user_id", userID), zap.Error(err))
		} else {
			summary.Narrative = narrative
		}
	}

	return summary, nil
}

func renderForAI(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Period: %s to %s\n", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Income: $%s\nExpenses: $%s\nNet: $%s\n", s.Income, s.Expense, s.Net)
	if len(s.Categories) > 0 {
		b.WriteString("Expenses by category:\n")
		for _, ct := range s.Categories {
			fmt.Fprintf(&b, "- %s: $%s\n", ct.CategoryName, ct.Total)
		}
	}
	return b.String()
}
