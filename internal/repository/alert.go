package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtarnawa/finbook/internal/database"
	"github.com/mtarnawa/finbook/internal/models"
)

type AlertRepository struct {
	db *database.DB
}

func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO alerts (alert_id, user_id, type, message, is_read)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		alert.AlertID, alert.UserID, alert.Type, alert.Message, alert.IsRead,
	).Scan(&alert.CreatedAt)
}

func (r *AlertRepository) GetByUserID(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*models.Alert, error) {
	query := `SELECT alert_id, user_id, type, message, is_read, created_at
		 FROM alerts WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		alert := &models.Alert{}
		if err := rows.Scan(&alert.AlertID, &alert.UserID, &alert.Type, &alert.Message,
			&alert.IsRead, &alert.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func (r *AlertRepository) MarkRead(ctx context.Context, alertID uuid.UUID, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE alerts SET is_read = TRUE WHERE alert_id = $1 AND user_id = $2`,
		alertID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %s: %w", alertID, models.ErrNotFound)
	}
	return nil
}
