package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
)

type alertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
}

type chatIDStore interface {
	GetTelegramChatID(ctx context.Context, userID int64) (*int64, error)
}

// Sink durably records alerts. The persisted row is the record of truth;
// when a Telegram bot is configured and the user has linked a chat, the
// message is also forwarded there best-effort.
type Sink struct {
	alerts alertStore
	users  chatIDStore
	tg     *tgbotapi.BotAPI
	log    *zap.Logger
}

func NewSink(alerts alertStore, users chatIDStore, tg *tgbotapi.BotAPI, log *zap.Logger) *Sink {
	return &Sink{alerts: alerts, users: users, tg: tg, log: log}
}

func (s *Sink) Emit(ctx context.Context, userID int64, alertType models.AlertType, message string) error {
	alert := &models.Alert{
		AlertID: uuid.New(),
		UserID:  userID,
		Type:    alertType,
		Message: message,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return fmt.Errorf("%w: %v", models.ErrAlertSinkFailure, err)
	}

	s.forward(ctx, userID, message)
	return nil
}

func (s *Sink) forward(ctx context.Context, userID int64, message string) {
	if s.tg == nil {
		return
	}

	chatID, err := s.users.GetTelegramChatID(ctx, userID)
	if err != nil {
		s.log.Warn("failed to resolve telegram chat id",
			zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if chatID == nil {
		return
	}

	msg := tgbotapi.NewMessage(*chatID, message)
	if _, err := s.tg.Send(msg); err != nil {
		s.log.Warn("failed to forward alert to telegram",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}
