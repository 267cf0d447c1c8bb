package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mtarnawa/finbook/internal/database"
	"github.com/mtarnawa/finbook/internal/models"
)

type TransactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO transaction (user_id, category_id, type, amount, description, transaction_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING transaction_id, created_at`,
		tx.UserID, tx.CategoryID, tx.Type, tx.Amount, tx.Description, tx.TransactionDate,
	).Scan(&tx.TransactionID, &tx.CreatedAt)
}

func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]*models.Transaction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT transaction_id, user_id, category_id, type, amount, description, transaction_date, created_at
		 FROM transaction WHERE user_id = $1
		 ORDER BY transaction_date DESC NULLS LAST, created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) GetByID(ctx context.Context, transactionID int, userID int64) (*models.Transaction, error) {
	tx := &models.Transaction{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT transaction_id, user_id, category_id, type, amount, description, transaction_date, created_at
		 FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		transactionID, userID,
	).Scan(&tx.TransactionID, &tx.UserID, &tx.CategoryID, &tx.Type, &tx.Amount,
		&tx.Description, &tx.TransactionDate, &tx.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE transaction SET category_id = $1, type = $2, amount = $3, description = $4, transaction_date = $5
		 WHERE transaction_id = $6 AND user_id = $7`,
		tx.CategoryID, tx.Type, tx.Amount, tx.Description, tx.TransactionDate,
		tx.TransactionID, tx.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d: %w", tx.TransactionID, models.ErrNotFound)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID int, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM transaction WHERE transaction_id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d: %w", transactionID, models.ErrNotFound)
	}
	return nil
}

func (r *TransactionRepository) GetTotalByType(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transaction
		 WHERE user_id = $1 AND type = $2 AND transaction_date >= $3 AND transaction_date <= $4`,
		userID, txType, start, end,
	).Scan(&total)
	return total, err
}

// CategoryTotal is one row of a per-category aggregate.
type CategoryTotal struct {
	CategoryID   *int            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

func (r *TransactionRepository) GetSummaryByCategory(ctx context.Context, userID int64, start, end time.Time, txType models.TransactionType) ([]CategoryTotal, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT t.category_id, COALESCE(c.category_name, 'uncategorized'), SUM(t.amount) AS total
		 FROM transaction t LEFT JOIN category c ON c.category_id = t.category_id
		 WHERE t.user_id = $1 AND t.type = $2 AND t.transaction_date >= $3 AND t.transaction_date <= $4
		 GROUP BY t.category_id, c.category_name
		 ORDER BY total DESC`,
		userID, txType, start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func scanTransactions(rows pgx.Rows) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		if err := rows.Scan(&tx.TransactionID, &tx.UserID, &tx.CategoryID, &tx.Type, &tx.Amount,
			&tx.Description, &tx.TransactionDate, &tx.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
