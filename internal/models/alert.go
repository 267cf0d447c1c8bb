package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertType string

const (
	AlertTypeInfo    AlertType = "INFO"
	AlertTypeWarning AlertType = "WARNING"
	AlertTypeError   AlertType = "ERROR"
	AlertTypeSuccess AlertType = "SUCCESS"
)

// Alert is an immutable user-visible notification record. Only is_read
// is ever updated after creation.
type Alert struct {
	AlertID   uuid.UUID `json:"alert_id"`
	UserID    int64     `json:"user_id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
