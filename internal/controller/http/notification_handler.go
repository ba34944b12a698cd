package http

import (
	"errors"
	"net/http"
	"strconv"

	"notification-service/internal/entity"
	"notification-service/internal/repo/persistent"
	"notification-service/internal/usecase"
	"notification-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              log,
	}
}

type CreateNotificationRequest struct {
	UserID   string                 `json:"userId" binding:"required"`
	Title    string                 `json:"title" binding:"required"`
	Message  string                 `json:"message" binding:"required"`
	Type     string                 `json:"type" binding:"required"`
	Priority string                 `json:"priority"`
	Template string                 `json:"template"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// GetNotifications lists the authenticated user's notifications, newest
// first, with optional read/type filters.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")

	filter := persistent.ListFilter{
		Page:  parsePositiveInt(c.Query("page"), 1),
		Limit: parsePositiveInt(c.Query("limit"), 10),
		Type:  c.Query("type"),
	}
	if readStr := c.Query("read"); readStr != "" {
		if read, err := strconv.ParseBool(readStr); err == nil {
			filter.Read = &read
		}
	}

	notifications, total, err := h.notificationUseCase.GetNotifications(userID, filter)
	if err != nil {
		h.logger.Error("Failed to list notifications for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to get notifications"})
		return
	}
	if notifications == nil {
		notifications = []entity.Notification{}
	}

	pages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"page":          filter.Page,
		"pages":         pages,
		"total":         total,
	})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	notification, err := h.notificationUseCase.MarkAsRead(userID, id)
	if err != nil {
		h.respondError(c, err, "Failed to mark notification as read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	modified, err := h.notificationUseCase.MarkAllAsRead(userID)
	if err != nil {
		h.logger.Error("Failed to mark all notifications as read for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "modified": modified})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	if err := h.notificationUseCase.DeleteNotification(userID, id); err != nil {
		h.respondError(c, err, "Failed to delete notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")

	count, err := h.notificationUseCase.GetUnreadCount(userID)
	if err != nil {
		h.logger.Error("Failed to count unread notifications for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to get unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) GetStats(c *gin.Context) {
	stats, err := h.notificationUseCase.GetStats()
	if err != nil {
		h.logger.Error("Failed to aggregate notification stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// CreateNotification lets an operator push a notification directly, outside
// the event pipeline.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	notification, err := h.notificationUseCase.CreateNotification(usecase.CreateNotificationInput{
		UserID:   req.UserID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     entity.NotificationType(req.Type),
		Priority: entity.Priority(req.Priority),
		Template: req.Template,
		Data:     req.Data,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}
		h.logger.Error("Failed to create notification: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}

func (h *NotificationHandler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Notification not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"status": "error", "message": "Not authorized for this notification"})
	default:
		h.logger.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": fallback})
	}
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
