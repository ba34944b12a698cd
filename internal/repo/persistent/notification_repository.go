package persistent

import (
	"errors"
	"fmt"
	"time"

	"notification-service/internal/entity"
	"notification-service/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

// ListFilter narrows and pages the per-user listing.
type ListFilter struct {
	Page  int
	Limit int
	Read  *bool
	Type  string
}

type NotificationRepository interface {
	Create(n *entity.Notification) (*entity.Notification, error)
	GetByID(id string) (*entity.Notification, error)
	ListByUser(userID string, filter ListFilter) ([]entity.Notification, int64, error)
	MarkRead(id string) (*entity.Notification, error)
	MarkAllRead(userID string) (int64, error)
	Delete(id string) error
	CountUnread(userID string) (int64, error)
	Stats() (*entity.NotificationStats, error)
	UpdateEmailStatus(id string, status entity.EmailStatus, emailErr string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *entity.Notification) (*entity.Notification, error) {
	m := ToModel(n)
	if err := r.db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return ToEntity(m), nil
}

func (r *notificationRepository) GetByID(id string) (*entity.Notification, error) {
	var m model.NotificationModel
	err := r.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return ToEntity(&m), nil
}

func (r *notificationRepository) ListByUser(userID string, filter ListFilter) ([]entity.Notification, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	query := r.db.Model(&model.NotificationModel{}).Where("user_id = ?", userID)
	if filter.Read != nil {
		query = query.Where("read = ?", *filter.Read)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var models []model.NotificationModel
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return ToEntities(models), total, nil
}

// MarkRead sets read/readAt only on unread records, so re-marking an already
// read notification never moves its readAt timestamp.
func (r *notificationRepository) MarkRead(id string) (*entity.Notification, error) {
	now := time.Now().UTC()
	result := r.db.Model(&model.NotificationModel{}).
		Where("id = ? AND read = ?", id, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}

	return r.GetByID(id)
}

func (r *notificationRepository) MarkAllRead(userID string) (int64, error) {
	now := time.Now().UTC()
	result := r.db.Model(&model.NotificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.NotificationModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *notificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.NotificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) Stats() (*entity.NotificationStats, error) {
	stats := &entity.NotificationStats{TypeStats: make(map[string]int64)}

	if err := r.db.Model(&model.NotificationModel{}).Count(&stats.TotalNotifications).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	if err := r.db.Model(&model.NotificationModel{}).Where("read = ?", false).Count(&stats.UnreadCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	type typeCount struct {
		Type  string
		Count int64
	}
	var counts []typeCount
	err := r.db.Model(&model.NotificationModel{}).
		Select("type, count(*) as count").
		Group("type").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate type stats: %w", err)
	}
	for _, tc := range counts {
		stats.TypeStats[tc.Type] = tc.Count
	}

	return stats, nil
}

func (r *notificationRepository) UpdateEmailStatus(id string, status entity.EmailStatus, emailErr string) error {
	err := r.db.Model(&model.NotificationModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"email_status": string(status), "email_error": emailErr}).Error
	if err != nil {
		return fmt.Errorf("failed to update email status: %w", err)
	}
	return nil
}
