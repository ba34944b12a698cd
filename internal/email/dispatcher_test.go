package email

import (
	"context"
	"errors"
	"testing"

	"notification-service/internal/entity"
	"notification-service/pkg/logger"
	"notification-service/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeStatusStore struct {
	id      string
	status  entity.EmailStatus
	errText string
	calls   int
}

func (f *fakeStatusStore) UpdateEmailStatus(id string, status entity.EmailStatus, emailErr string) error {
	f.id, f.status, f.errText = id, status, emailErr
	f.calls++
	return nil
}

func newTestDispatcher(m mailer.Mailer, store StatusStore) Dispatcher {
	return NewDispatcher(NewRenderer(logger.NewNop()), m, store, logger.NewNop())
}

func orderNotification() *entity.Notification {
	return &entity.Notification{
		ID:      "n1",
		UserID:  "u1",
		Title:   "Order Placed Successfully",
		Message: "Your order #o1 has been placed successfully. Total amount: $100.00",
		Type:    entity.TypeOrder,
		Data: map[string]interface{}{
			"user":        &entity.User{Name: "Ann", Email: "a@b.com"},
			"order":       &entity.Order{ID: "o1", Status: "pending"},
			"totalAmount": 100.0,
		},
	}
}

func TestSend_SubjectAndBodies(t *testing.T) {
	m := &fakeMailer{}
	store := &fakeStatusStore{}
	d := newTestDispatcher(m, store)

	err := d.Send(context.Background(), orderNotification(), TemplateOrderCreated, "a@b.com")
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	assert.Equal(t, "[ORDER] Order Placed Successfully", m.sent[0].Subject)
	assert.Equal(t, "a@b.com", m.sent[0].To)
	assert.Contains(t, m.sent[0].HTML, "#o1")
	assert.NotEmpty(t, m.sent[0].Text)
}

func TestSend_RecordsSentStatus(t *testing.T) {
	m := &fakeMailer{}
	store := &fakeStatusStore{}
	d := newTestDispatcher(m, store)

	err := d.Send(context.Background(), orderNotification(), TemplateOrderCreated, "a@b.com")
	require.NoError(t, err)

	assert.Equal(t, "n1", store.id)
	assert.Equal(t, entity.EmailSent, store.status)
	assert.Empty(t, store.errText)
}

func TestSend_TransportFailureRecordsAndReturns(t *testing.T) {
	m := &fakeMailer{err: errors.New("connection refused")}
	store := &fakeStatusStore{}
	d := newTestDispatcher(m, store)

	err := d.Send(context.Background(), orderNotification(), TemplateOrderCreated, "a@b.com")
	require.ErrorIs(t, err, ErrDeliveryFailed)

	assert.Equal(t, "n1", store.id)
	assert.Equal(t, entity.EmailFailed, store.status)
	assert.Contains(t, store.errText, "connection refused")
}

func TestSend_UnpersistedNotificationSkipsStatusUpdate(t *testing.T) {
	m := &fakeMailer{err: errors.New("boom")}
	store := &fakeStatusStore{}
	d := newTestDispatcher(m, store)

	n := orderNotification()
	n.ID = ""

	err := d.Send(context.Background(), n, TemplateOrderCreated, "a@b.com")
	require.Error(t, err)
	assert.Equal(t, 0, store.calls)
}
