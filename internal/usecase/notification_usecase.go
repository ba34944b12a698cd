package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"notification-service/internal/clients"
	"notification-service/internal/email"
	"notification-service/internal/entity"
	"notification-service/internal/repo/persistent"
	"notification-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound     = persistent.ErrNotFound
	ErrForbidden    = errors.New("not authorized for this notification")
	ErrInvalidInput = errors.New("invalid notification input")
)

const unreadCountTTL = 5 * time.Minute

type CreateNotificationInput struct {
	UserID   string
	Title    string
	Message  string
	Type     entity.NotificationType
	Priority entity.Priority
	Template string
	Data     map[string]interface{}
}

type NotificationUseCase interface {
	CreateNotification(input CreateNotificationInput) (*entity.Notification, error)
	GetNotifications(userID string, filter persistent.ListFilter) ([]entity.Notification, int64, error)
	MarkAsRead(userID, id string) (*entity.Notification, error)
	MarkAllAsRead(userID string) (int64, error)
	DeleteNotification(userID, id string) error
	GetUnreadCount(userID string) (int64, error)
	GetStats() (*entity.NotificationStats, error)

	HandleOrderCreated(event entity.BusinessEvent) Outcome
	HandleOrderUpdated(event entity.BusinessEvent) Outcome
	HandleOrderCancelled(event entity.BusinessEvent) Outcome
	HandlePaymentSuccessful(event entity.BusinessEvent) Outcome
	HandlePaymentFailed(event entity.BusinessEvent) Outcome
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	peerClient       clients.PeerClient
	emailDispatcher  email.Dispatcher
	redisClient      *redis.Client
	logger           *logger.Logger
}

func NewNotificationUseCase(
	notificationRepo persistent.NotificationRepository,
	peerClient clients.PeerClient,
	emailDispatcher email.Dispatcher,
	redisClient *redis.Client,
	log *logger.Logger,
) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		peerClient:       peerClient,
		emailDispatcher:  emailDispatcher,
		redisClient:      redisClient,
		logger:           log,
	}
}

func (uc *notificationUseCase) CreateNotification(input CreateNotificationInput) (*entity.Notification, error) {
	if input.UserID == "" || input.Title == "" || input.Message == "" {
		return nil, fmt.Errorf("%w: userId, title and message are required", ErrInvalidInput)
	}
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, input.Type)
	}
	if input.Priority == "" {
		input.Priority = entity.PriorityNormal
	}
	if !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, input.Priority)
	}

	notification, err := uc.notificationRepo.Create(&entity.Notification{
		UserID:   input.UserID,
		Title:    input.Title,
		Message:  input.Message,
		Type:     input.Type,
		Priority: input.Priority,
		Data:     input.Data,
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateUnreadCount(input.UserID)

	// Best effort: the notification stands even when the email cannot go out.
	user, err := uc.peerClient.GetUser(context.Background(), input.UserID)
	if err != nil || user.Email == "" {
		uc.logger.Warn("Skipping email for notification %s: no resolvable email for user %s", notification.ID, input.UserID)
		return notification, nil
	}
	if err := uc.emailDispatcher.Send(context.Background(), notification, email.TemplateID(input.Template), user.Email); err != nil {
		uc.logger.Error("Failed to send email for notification %s: %v", notification.ID, err)
	}

	return notification, nil
}

func (uc *notificationUseCase) GetNotifications(userID string, filter persistent.ListFilter) ([]entity.Notification, int64, error) {
	return uc.notificationRepo.ListByUser(userID, filter)
}

func (uc *notificationUseCase) MarkAsRead(userID, id string) (*entity.Notification, error) {
	notification, err := uc.notificationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if notification.UserID != userID {
		return nil, ErrForbidden
	}

	marked, err := uc.notificationRepo.MarkRead(id)
	if err != nil {
		return nil, err
	}
	uc.invalidateUnreadCount(userID)
	return marked, nil
}

func (uc *notificationUseCase) MarkAllAsRead(userID string) (int64, error) {
	modified, err := uc.notificationRepo.MarkAllRead(userID)
	if err != nil {
		return 0, err
	}
	uc.invalidateUnreadCount(userID)
	return modified, nil
}

func (uc *notificationUseCase) DeleteNotification(userID, id string) error {
	notification, err := uc.notificationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return ErrForbidden
	}

	if err := uc.notificationRepo.Delete(id); err != nil {
		return err
	}
	uc.invalidateUnreadCount(userID)
	return nil
}

func (uc *notificationUseCase) GetUnreadCount(userID string) (int64, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("unread_count:%s", userID)

	if uc.redisClient != nil {
		if cached, err := uc.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := uc.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, err
	}

	if uc.redisClient != nil {
		if err := uc.redisClient.Set(ctx, cacheKey, count, unreadCountTTL).Err(); err != nil {
			uc.logger.Warn("Failed to cache unread count for user %s: %v", userID, err)
		}
	}

	return count, nil
}

func (uc *notificationUseCase) GetStats() (*entity.NotificationStats, error) {
	return uc.notificationRepo.Stats()
}

func (uc *notificationUseCase) invalidateUnreadCount(userID string) {
	if uc.redisClient == nil {
		return
	}
	cacheKey := fmt.Sprintf("unread_count:%s", userID)
	if err := uc.redisClient.Del(context.Background(), cacheKey).Err(); err != nil {
		uc.logger.Warn("Failed to invalidate unread count cache for user %s: %v", userID, err)
	}
}
