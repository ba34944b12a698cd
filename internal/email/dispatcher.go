package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notification-service/internal/entity"
	"notification-service/pkg/logger"
	"notification-service/pkg/mailer"
)

// ErrDeliveryFailed wraps transport errors from the outbound mailer.
var ErrDeliveryFailed = errors.New("email delivery failed")

// StatusStore records delivery outcomes on persisted notifications.
// Satisfied by the notification repository.
type StatusStore interface {
	UpdateEmailStatus(id string, status entity.EmailStatus, emailErr string) error
}

// Dispatcher renders and sends the email for a notification.
type Dispatcher interface {
	Send(ctx context.Context, n *entity.Notification, template TemplateID, recipient string) error
}

type dispatcher struct {
	renderer *Renderer
	mailer   mailer.Mailer
	store    StatusStore
	logger   *logger.Logger
}

func NewDispatcher(renderer *Renderer, m mailer.Mailer, store StatusStore, log *logger.Logger) Dispatcher {
	return &dispatcher{
		renderer: renderer,
		mailer:   m,
		store:    store,
		logger:   log,
	}
}

// Send builds the subject as "[{TYPE}] {title}", renders both bodies and
// hands the message to the transport. A transport failure is recorded on the
// notification (emailStatus=failed plus the error text) before being
// returned; a successful hand-off records emailStatus=sent.
func (d *dispatcher) Send(ctx context.Context, n *entity.Notification, template TemplateID, recipient string) error {
	subject := fmt.Sprintf("[%s] %s", strings.ToUpper(string(n.Type)), n.Title)

	data := make(map[string]interface{}, len(n.Data)+3)
	for k, v := range n.Data {
		data[k] = v
	}
	data["title"] = n.Title
	data["message"] = n.Message
	data["type"] = string(n.Type)

	rendered := d.renderer.Render(template, data)

	err := d.mailer.Send(ctx, mailer.Message{
		To:      recipient,
		Subject: subject,
		Text:    rendered.Text,
		HTML:    rendered.HTML,
	})
	if err != nil {
		d.logger.Error("Error sending notification email to %s: %v", recipient, err)
		if n.ID != "" {
			if updateErr := d.store.UpdateEmailStatus(n.ID, entity.EmailFailed, err.Error()); updateErr != nil {
				d.logger.Error("Failed to record email failure on notification %s: %v", n.ID, updateErr)
			}
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	if n.ID != "" {
		if updateErr := d.store.UpdateEmailStatus(n.ID, entity.EmailSent, ""); updateErr != nil {
			d.logger.Error("Failed to record email success on notification %s: %v", n.ID, updateErr)
		}
	}

	d.logger.Info("Email sent to %s, subject=%q", recipient, subject)
	return nil
}
