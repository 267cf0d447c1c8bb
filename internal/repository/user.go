package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mtarnawa/finbook/internal/database"
	"github.com/mtarnawa/finbook/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, telegram_chat_id)
		 VALUES ($1, $2, $3)
		 RETURNING user_id, created_at`,
		user.Email, user.PasswordHash, user.TelegramChatID,
	).Scan(&user.UserID, &user.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, email, password_hash, telegram_chat_id, created_at
		 FROM users WHERE user_id = $1`,
		userID,
	).Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.TelegramChatID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT user_id, email, password_hash, telegram_chat_id, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.TelegramChatID, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetTelegramChatID returns the user's Telegram chat id, or nil when the
// user has not linked one.
func (r *UserRepository) GetTelegramChatID(ctx context.Context, userID int64) (*int64, error) {
	var chatID *int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT telegram_chat_id FROM users WHERE user_id = $1`,
		userID,
	).Scan(&chatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return chatID, nil
}
