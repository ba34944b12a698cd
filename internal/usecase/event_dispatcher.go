package usecase

import (
	"encoding/json"
	"fmt"

	"notification-service/internal/entity"
	"notification-service/pkg/logger"
)

// EventDispatcher routes consumed messages to the handler registered for
// their routing key. The routing table is fixed at construction.
type EventDispatcher struct {
	handlers map[string]func(entity.BusinessEvent) Outcome
	logger   *logger.Logger
}

func NewEventDispatcher(uc NotificationUseCase, log *logger.Logger) *EventDispatcher {
	return &EventDispatcher{
		handlers: map[string]func(entity.BusinessEvent) Outcome{
			entity.RouteOrderCreated:      uc.HandleOrderCreated,
			entity.RouteOrderUpdated:      uc.HandleOrderUpdated,
			entity.RouteOrderCancelled:    uc.HandleOrderCancelled,
			entity.RoutePaymentSuccessful: uc.HandlePaymentSuccessful,
			entity.RoutePaymentFailed:     uc.HandlePaymentFailed,
		},
		logger: log,
	}
}

// Dispatch parses the message body and runs the matching handler. Only a
// malformed body returns an error (the consumer rejects the message); an
// unknown routing key is logged and acknowledged, and handler outcomes are
// logged but never bounce the message back to the broker.
func (d *EventDispatcher) Dispatch(routingKey string, body []byte) error {
	var event entity.BusinessEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse event %s: %w", routingKey, err)
	}

	handler, ok := d.handlers[routingKey]
	if !ok {
		d.logger.Warn("Unknown routing key: %s", routingKey)
		return nil
	}

	outcome := handler(event)
	switch outcome.Status {
	case StatusDelivered:
		d.logger.Info("Processed %s for user %s", routingKey, event.UserID)
	case StatusSkipped:
		d.logger.Warn("Skipped %s: %s", routingKey, outcome.Reason)
	case StatusFailed:
		d.logger.Error("Failed to process %s: %v", routingKey, outcome.Err)
	}
	return nil
}
