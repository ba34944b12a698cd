package persistent

import (
	"notification-service/internal/entity"
	"notification-service/internal/model"

	"gorm.io/datatypes"
)

func ToEntity(m *model.NotificationModel) *entity.Notification {
	if m == nil {
		return nil
	}
	return &entity.Notification{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Message:     m.Message,
		Type:        entity.NotificationType(m.Type),
		Read:        m.Read,
		ReadAt:      m.ReadAt,
		Data:        m.Data,
		Priority:    entity.Priority(m.Priority),
		EmailStatus: entity.EmailStatus(m.EmailStatus),
		EmailError:  m.EmailError,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToEntities(models []model.NotificationModel) []entity.Notification {
	notifications := make([]entity.Notification, len(models))
	for i := range models {
		notifications[i] = *ToEntity(&models[i])
	}
	return notifications
}

func ToModel(n *entity.Notification) *model.NotificationModel {
	return &model.NotificationModel{
		ID:          n.ID,
		UserID:      n.UserID,
		Title:       n.Title,
		Message:     n.Message,
		Type:        string(n.Type),
		Read:        n.Read,
		ReadAt:      n.ReadAt,
		Data:        datatypes.JSONMap(n.Data),
		Priority:    string(n.Priority),
		EmailStatus: string(n.EmailStatus),
		EmailError:  n.EmailError,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
