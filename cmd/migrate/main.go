package main

import (
	"notification-service/internal/model"
	"notification-service/pkg/config"
	"notification-service/pkg/database"
	"notification-service/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	log.Info("Running migrations...")
	if err := db.AutoMigrate(&model.NotificationModel{}); err != nil {
		log.Error("Migration failed: %v", err)
		panic(err)
	}
	log.Info("Migrations completed")
}
