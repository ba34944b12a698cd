package usecase

import (
	"context"
	"fmt"

	"notification-service/internal/email"
	"notification-service/internal/entity"
)

// Event handlers translate order/payment events into a persisted notification
// plus an email. They return an Outcome instead of an error so the consumer
// can acknowledge the delivery either way; only unparseable messages are
// rejected, and that happens before a handler runs.

func (uc *notificationUseCase) HandleOrderCreated(event entity.BusinessEvent) Outcome {
	user, order, skip := uc.resolveEvent(event)
	if skip != "" {
		return Skipped(skip)
	}

	notification := &entity.Notification{
		UserID:   event.UserID,
		Title:    "Order Placed Successfully",
		Message:  fmt.Sprintf("Your order #%s has been placed successfully. Total amount: $%s", event.OrderID, formatAmount(event.TotalAmount)),
		Type:     entity.TypeOrder,
		Priority: entity.PriorityNormal,
		Data: map[string]interface{}{
			"user":        user,
			"order":       order,
			"totalAmount": event.TotalAmount,
		},
	}
	return uc.deliver(notification, email.TemplateOrderCreated, user.Email)
}

func (uc *notificationUseCase) HandleOrderUpdated(event entity.BusinessEvent) Outcome {
	user, order, skip := uc.resolveEvent(event)
	if skip != "" {
		return Skipped(skip)
	}

	message := fmt.Sprintf("Your order #%s status has been updated to %s", event.OrderID, event.Status)
	if event.IsDelivered {
		message += " and has been delivered"
	}

	notification := &entity.Notification{
		UserID:   event.UserID,
		Title:    "Order Status Updated",
		Message:  message,
		Type:     entity.TypeOrder,
		Priority: entity.PriorityNormal,
		Data: map[string]interface{}{
			"user":        user,
			"order":       order,
			"status":      event.Status,
			"isDelivered": event.IsDelivered,
		},
	}
	return uc.deliver(notification, email.TemplateOrderUpdated, user.Email)
}

func (uc *notificationUseCase) HandleOrderCancelled(event entity.BusinessEvent) Outcome {
	user, order, skip := uc.resolveEvent(event)
	if skip != "" {
		return Skipped(skip)
	}

	message := fmt.Sprintf("Your order #%s has been cancelled", event.OrderID)
	if event.Reason != "" {
		message += fmt.Sprintf(" due to: %s", event.Reason)
	}

	notification := &entity.Notification{
		UserID:   event.UserID,
		Title:    "Order Cancelled",
		Message:  message,
		Type:     entity.TypeOrder,
		Priority: entity.PriorityHigh,
		Data: map[string]interface{}{
			"user":   user,
			"order":  order,
			"reason": event.Reason,
		},
	}
	return uc.deliver(notification, email.TemplateOrderCancelled, user.Email)
}

func (uc *notificationUseCase) HandlePaymentSuccessful(event entity.BusinessEvent) Outcome {
	user, order, skip := uc.resolveEvent(event)
	if skip != "" {
		return Skipped(skip)
	}

	notification := &entity.Notification{
		UserID:   event.UserID,
		Title:    "Payment Successful",
		Message:  fmt.Sprintf("Payment of $%s for order #%s has been processed successfully. Transaction ID: %s", formatAmount(event.Amount), event.OrderID, event.TransactionID),
		Type:     entity.TypePayment,
		Priority: entity.PriorityNormal,
		Data: map[string]interface{}{
			"user":          user,
			"order":         order,
			"amount":        event.Amount,
			"paymentId":     event.PaymentID,
			"transactionId": event.TransactionID,
		},
	}
	return uc.deliver(notification, email.TemplatePaymentSuccessful, user.Email)
}

func (uc *notificationUseCase) HandlePaymentFailed(event entity.BusinessEvent) Outcome {
	user, order, skip := uc.resolveEvent(event)
	if skip != "" {
		return Skipped(skip)
	}

	message := fmt.Sprintf("Payment of $%s for order #%s has failed", formatAmount(event.Amount), event.OrderID)
	if event.Reason != "" {
		message += fmt.Sprintf(" due to: %s", event.Reason)
	}

	notification := &entity.Notification{
		UserID:   event.UserID,
		Title:    "Payment Failed",
		Message:  message,
		Type:     entity.TypePayment,
		Priority: entity.PriorityHigh,
		Data: map[string]interface{}{
			"user":      user,
			"order":     order,
			"amount":    event.Amount,
			"reason":    event.Reason,
			"paymentId": event.PaymentID,
		},
	}
	return uc.deliver(notification, email.TemplatePaymentFailed, user.Email)
}

// resolveEvent fetches the user and order snapshots. An empty third return
// means both lookups produced usable data; otherwise it names the skip reason.
func (uc *notificationUseCase) resolveEvent(event entity.BusinessEvent) (*entity.User, *entity.Order, string) {
	ctx := context.Background()

	user, err := uc.peerClient.GetUser(ctx, event.UserID)
	if err != nil {
		uc.logger.Warn("Skipping notification for user %s: %v", event.UserID, err)
		return nil, nil, fmt.Sprintf("user %s not resolvable", event.UserID)
	}
	if user.Email == "" {
		uc.logger.Warn("Skipping notification for user %s: no email on record", event.UserID)
		return nil, nil, fmt.Sprintf("user %s has no email", event.UserID)
	}

	order, err := uc.peerClient.GetOrder(ctx, event.OrderID)
	if err != nil {
		uc.logger.Warn("Skipping notification for order %s: %v", event.OrderID, err)
		return nil, nil, fmt.Sprintf("order %s not resolvable", event.OrderID)
	}
	if order.Status == "" {
		uc.logger.Warn("Skipping notification for order %s: no status on record", event.OrderID)
		return nil, nil, fmt.Sprintf("order %s has no status", event.OrderID)
	}

	return user, order, ""
}

// deliver persists the notification and hands the email off. A persistence
// failure aborts before any email goes out; an email failure still leaves the
// record in place with its failure recorded by the email dispatcher.
func (uc *notificationUseCase) deliver(n *entity.Notification, template email.TemplateID, recipient string) Outcome {
	created, err := uc.notificationRepo.Create(n)
	if err != nil {
		uc.logger.Error("Failed to persist notification for user %s: %v", n.UserID, err)
		return Failed(nil, err)
	}
	uc.invalidateUnreadCount(created.UserID)

	if err := uc.emailDispatcher.Send(context.Background(), created, template, recipient); err != nil {
		return Failed(created, err)
	}

	uc.logger.Info("Notification %s delivered to user %s", created.ID, created.UserID)
	return Delivered(created)
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
