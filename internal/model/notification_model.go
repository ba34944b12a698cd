package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationModel struct {
	ID          string            `gorm:"column:id;type:uuid;primaryKey"`
	UserID      string            `gorm:"column:user_id;type:uuid;not null;index:idx_notifications_user_read,priority:1;index:idx_notifications_user_created,priority:1"`
	Title       string            `gorm:"column:title;type:varchar(255);not null"`
	Message     string            `gorm:"column:message;type:text;not null"`
	Type        string            `gorm:"column:type;type:varchar(20);not null;index"`
	Read        bool              `gorm:"column:read;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt      *time.Time        `gorm:"column:read_at"`
	Data        datatypes.JSONMap `gorm:"column:data"`
	Priority    string            `gorm:"column:priority;type:varchar(10);default:'normal'"`
	EmailStatus string            `gorm:"column:email_status;type:varchar(10);default:'pending'"`
	EmailError  string            `gorm:"column:email_error;type:text"`
	CreatedAt   time.Time         `gorm:"column:created_at;index:idx_notifications_user_created,priority:2,sort:desc"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (n *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Priority == "" {
		n.Priority = "normal"
	}
	if n.EmailStatus == "" {
		n.EmailStatus = "pending"
	}
	return nil
}
