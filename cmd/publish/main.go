package main

import (
	"flag"

	"notification-service/internal/entity"
	"notification-service/pkg/config"
	"notification-service/pkg/logger"
	"notification-service/pkg/queue"
)

// Publishes a sample order/payment event, for exercising the consumer
// against a local broker.
func main() {
	routingKey := flag.String("key", entity.RouteOrderCreated, "routing key to publish under")
	userID := flag.String("user", "u-1", "user id for the event")
	orderID := flag.String("order", "o-1", "order id for the event")
	amount := flag.Float64("amount", 99.99, "amount for the event")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	defer log.Sync()

	client, err := queue.Dial(cfg.RabbitMQURL, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		panic(err)
	}
	defer client.Close()

	event := entity.BusinessEvent{
		UserID:      *userID,
		OrderID:     *orderID,
		TotalAmount: *amount,
		Amount:      *amount,
		Status:      "pending",
	}

	if err := client.Publish(*routingKey, event); err != nil {
		log.Error("Failed to publish event: %v", err)
		panic(err)
	}
	log.Info("Published %s for user %s", *routingKey, *userID)
}
