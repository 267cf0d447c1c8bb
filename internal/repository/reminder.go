package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mtarnawa/finbook/internal/database"
	"github.com/mtarnawa/finbook/internal/models"
)

const reminderColumns = `r.reminder_id, r.user_id, r.title, r.description, r.due_date, r.completed,
	 r.reminder_type, r.category_id, c.category_name, r.threshold_amount, r.transaction_type,
	 r.transaction_amount, r.recurrence_rule, r.created_at`

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (user_id, title, description, due_date, completed, reminder_type,
		 category_id, threshold_amount, transaction_type, transaction_amount, recurrence_rule)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING reminder_id, created_at`,
		reminder.UserID, reminder.Title, reminder.Description, reminder.DueDate, reminder.Completed,
		reminder.ReminderType, reminder.CategoryID, reminder.ThresholdAmount, reminder.TransactionType,
		reminder.TransactionAmount, reminder.RecurrenceRule,
	).Scan(&reminder.ReminderID, &reminder.CreatedAt)
}

func (r *ReminderRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders r LEFT JOIN category c ON c.category_id = r.category_id
		 WHERE r.user_id = $1 ORDER BY r.due_date ASC NULLS LAST, r.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *ReminderRepository) GetByID(ctx context.Context, reminderID int, userID int64) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders r LEFT JOIN category c ON c.category_id = r.category_id
		 WHERE r.reminder_id = $1 AND r.user_id = $2`,
		reminderID, userID,
	).Scan(&reminder.ReminderID, &reminder.UserID, &reminder.Title, &reminder.Description,
		&reminder.DueDate, &reminder.Completed, &reminder.ReminderType, &reminder.CategoryID,
		&reminder.CategoryName, &reminder.ThresholdAmount, &reminder.TransactionType,
		&reminder.TransactionAmount, &reminder.RecurrenceRule, &reminder.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reminder %d: %w", reminderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *ReminderRepository) Update(ctx context.Context, reminder *models.Reminder) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET title = $1, description = $2, due_date = $3, reminder_type = $4,
		 category_id = $5, threshold_amount = $6, transaction_type = $7, transaction_amount = $8,
		 recurrence_rule = $9
		 WHERE reminder_id = $10 AND user_id = $11`,
		reminder.Title, reminder.Description, reminder.DueDate, reminder.ReminderType,
		reminder.CategoryID, reminder.ThresholdAmount, reminder.TransactionType,
		reminder.TransactionAmount, reminder.RecurrenceRule, reminder.ReminderID, reminder.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminder %d: %w", reminder.ReminderID, models.ErrNotFound)
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, reminderID int, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE reminder_id = $1 AND user_id = $2`,
		reminderID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminder %d: %w", reminderID, models.ErrNotFound)
	}
	return nil
}

// FindActiveThresholdReminders returns the user's incomplete THRESHOLD
// reminders watching the given category. Rows missing a threshold amount
// are filtered out here; the evaluator defends against them anyway.
func (r *ReminderRepository) FindActiveThresholdReminders(ctx context.Context, userID int64, categoryID int) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders r LEFT JOIN category c ON c.category_id = r.category_id
		 WHERE r.user_id = $1 AND r.category_id = $2 AND r.reminder_type = $3
		   AND r.completed = FALSE AND r.threshold_amount IS NOT NULL`,
		userID, categoryID, models.ReminderTypeThreshold,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	reminders, err := scanReminders(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return reminders, nil
}

// FindDueReminders returns incomplete reminders of the given type, across
// all users, whose due date is on or before asOf. Used by the scheduler.
func (r *ReminderRepository) FindDueReminders(ctx context.Context, reminderType models.ReminderType, asOf time.Time) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+`
		 FROM reminders r LEFT JOIN category c ON c.category_id = r.category_id
		 WHERE r.reminder_type = $1 AND r.completed = FALSE
		   AND r.due_date IS NOT NULL AND r.due_date <= $2
		 ORDER BY r.due_date ASC`,
		reminderType, asOf,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	reminders, err := scanReminders(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return reminders, nil
}

// MarkCompleted sets completed on a reminder. Idempotent: completing an
// already-completed reminder is a no-op, not an error.
func (r *ReminderRepository) MarkCompleted(ctx context.Context, reminderID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET completed = TRUE WHERE reminder_id = $1 AND completed = FALSE`,
		reminderID,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

// Reschedule advances a recurring reminder's due date to its next
// occurrence after a trigger.
func (r *ReminderRepository) Reschedule(ctx context.Context, reminderID int, dueDate time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET due_date = $1 WHERE reminder_id = $2`,
		dueDate, reminderID,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *ReminderRepository) SetCompleted(ctx context.Context, reminderID int, userID int64, completed bool) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET completed = $1 WHERE reminder_id = $2 AND user_id = $3`,
		completed, reminderID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminder %d: %w", reminderID, models.ErrNotFound)
	}
	return nil
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		if err := rows.Scan(&reminder.ReminderID, &reminder.UserID, &reminder.Title, &reminder.Description,
			&reminder.DueDate, &reminder.Completed, &reminder.ReminderType, &reminder.CategoryID,
			&reminder.CategoryName, &reminder.ThresholdAmount, &reminder.TransactionType,
			&reminder.TransactionAmount, &reminder.RecurrenceRule, &reminder.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}
