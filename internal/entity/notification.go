package entity

import "time"

type NotificationType string

const (
	TypeOrder     NotificationType = "order"
	TypePayment   NotificationType = "payment"
	TypeSystem    NotificationType = "system"
	TypePromotion NotificationType = "promotion"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeOrder, TypePayment, TypeSystem, TypePromotion:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// Notification is a persisted per-event record for a user.
type Notification struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"user_id"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Type        NotificationType       `json:"type"`
	Read        bool                   `json:"read"`
	ReadAt      *time.Time             `json:"read_at,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Priority    Priority               `json:"priority"`
	EmailStatus EmailStatus            `json:"email_status,omitempty"`
	EmailError  string                 `json:"email_error,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NotificationStats is the admin aggregate view.
type NotificationStats struct {
	TotalNotifications int64            `json:"totalNotifications"`
	UnreadCount        int64            `json:"unreadCount"`
	TypeStats          map[string]int64 `json:"typeStats"`
}
