package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/models"
)

type fakeAlertStore struct {
	created []*models.Alert
	err     error
}

func (f *fakeAlertStore) Create(_ context.Context, alert *models.Alert) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, alert)
	return nil
}

type fakeChatIDStore struct{}

func (fakeChatIDStore) GetTelegramChatID(context.Context, int64) (*int64, error) {
	return nil, nil
}

func TestSinkEmitRecordsAlert(t *testing.T) {
	store := &fakeAlertStore{}
	sink := NewSink(store, fakeChatIDStore{}, nil, zap.NewNop())

	err := sink.Emit(context.Background(), 42, models.AlertTypeWarning, "over budget")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d alerts, want 1", len(store.created))
	}
	a := store.created[0]
	if a.AlertID == uuid.Nil {
		t.Error("alert id not assigned")
	}
	if a.UserID != 42 || a.Type != models.AlertTypeWarning || a.Message != "over budget" {
		t.Errorf("alert = %+v", a)
	}
	if a.IsRead {
		t.Error("new alert must start unread")
	}
}

func TestSinkEmitWrapsStoreFailure(t *testing.T) {
	store := &fakeAlertStore{err: errors.New("connection refused")}
	sink := NewSink(store, fakeChatIDStore{}, nil, zap.NewNop())

	err := sink.Emit(context.Background(), 42, models.AlertTypeInfo, "hi")
	if !errors.Is(err, models.ErrAlertSinkFailure) {
		t.Errorf("err = %v, want ErrAlertSinkFailure", err)
	}
}
