package models

import "time"

type User struct {
	UserID         int64     `json:"user_id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
