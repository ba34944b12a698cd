package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notification-service/internal/clients"
	notificationHTTP "notification-service/internal/controller/http"
	"notification-service/internal/email"
	"notification-service/internal/repo/persistent"
	"notification-service/internal/usecase"
	"notification-service/pkg/config"
	"notification-service/pkg/jwt"
	"notification-service/pkg/logger"
	"notification-service/pkg/mailer"
	"notification-service/pkg/middleware"
	"notification-service/pkg/queue"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Run wires the service together and blocks until SIGINT/SIGTERM.
func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	notificationRepo := persistent.NewNotificationRepository(db)
	peerClient := clients.NewPeerClient(cfg.UserServiceURL, cfg.OrderServiceURL, cfg.ServiceSecret)

	smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		From:     cfg.EmailFrom,
	})
	if err != nil {
		log.Error("Failed to configure SMTP transport: %v", err)
		panic(err)
	}
	emailDispatcher := email.NewDispatcher(email.NewRenderer(log), smtpMailer, notificationRepo, log)

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, peerClient, emailDispatcher, redisClient, log)
	eventDispatcher := usecase.NewEventDispatcher(notificationUseCase, log)
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/notifications")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	{
		api.GET("", notificationHandler.GetNotifications)
		api.PUT("/:id/read", notificationHandler.MarkAsRead)
		api.PUT("/read-all", notificationHandler.MarkAllAsRead)
		api.DELETE("/:id", notificationHandler.DeleteNotification)
		api.GET("/unread/count", notificationHandler.GetUnreadCount)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/admin/stats", notificationHandler.GetStats)
		admin.POST("", notificationHandler.CreateNotification)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Starting event consumer...")
		if err := queueClient.Consume(eventDispatcher.Dispatch); err != nil {
			log.Error("Error starting event consumer: %v", err)
		}
	}()

	go func() {
		log.Info("Notification service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if queueClient != nil {
		queueClient.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Notification service exited")
}
