package usecase

import "notification-service/internal/entity"

// OutcomeStatus classifies how an event handler finished. Handlers never
// propagate errors to the consumer; the outcome makes the result inspectable
// instead of burying it in logs.
type OutcomeStatus string

const (
	// StatusDelivered means a record was persisted and the email handed off.
	StatusDelivered OutcomeStatus = "delivered"
	// StatusSkipped means the event was dropped on purpose (missing user,
	// missing email, missing order). Nothing was persisted.
	StatusSkipped OutcomeStatus = "skipped"
	// StatusFailed means a downstream call failed. The record may exist if
	// persistence succeeded before the failing step.
	StatusFailed OutcomeStatus = "failed"
)

type Outcome struct {
	Status       OutcomeStatus
	Reason       string
	Err          error
	Notification *entity.Notification
}

func Delivered(n *entity.Notification) Outcome {
	return Outcome{Status: StatusDelivered, Notification: n}
}

func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func Failed(n *entity.Notification, err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err, Notification: n}
}
