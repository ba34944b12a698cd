package queue

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"notification-service/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName       = "ecommerce_events"
	QueueName          = "notification-events"
	DeadLetterExchange = "dlx"

	reconnectDelay  = 5 * time.Second
	startupAttempts = 5

	messageTTL = 7 * 24 * time.Hour
)

// routingPatterns the notification queue is bound under.
var routingPatterns = []string{"order.*", "payment.*"}

// MessageHandler processes one consumed message. A non-nil error means the
// message could not be routed at all (malformed payload, dispatch failure)
// and will be rejected without requeue. Business handlers deal with their own
// failures and must not surface them here.
type MessageHandler func(routingKey string, body []byte) error

// Client owns the RabbitMQ connection and its single channel. It re-dials
// with a fixed delay on connection loss and re-asserts topology and the
// consumer after every reconnect.
type Client struct {
	url    string
	logger *logger.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	handler MessageHandler
	closed  bool
}

// Dial connects to RabbitMQ with a bounded startup retry budget. Exhausting
// the budget is a startup-fatal error for the caller.
func Dial(url string, log *logger.Logger) (*Client, error) {
	c := &Client{url: url, logger: log}

	var lastErr error
	for attempt := 1; attempt <= startupAttempts; attempt++ {
		if lastErr = c.connect(); lastErr == nil {
			return c, nil
		}
		log.Error("Failed to connect to RabbitMQ (attempt %d/%d): %v", attempt, startupAttempts, lastErr)
		if attempt < startupAttempts {
			time.Sleep(reconnectDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", startupAttempts, lastErr)
}

func (c *Client) connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := assertTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return err
	}

	// One unacknowledged message at a time keeps handler execution strictly
	// sequential.
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	handler := c.handler
	c.mu.Unlock()

	c.logger.Info("Connected to RabbitMQ, exchange=%s queue=%s", ExchangeName, QueueName)

	go c.supervise(conn.NotifyClose(make(chan *amqp.Error, 1)))

	if handler != nil {
		if err := c.startConsumer(channel, handler); err != nil {
			return err
		}
	}

	return nil
}

func assertTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		QueueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		amqp.Table{
			"x-message-ttl":          messageTTL.Milliseconds(),
			"x-dead-letter-exchange": DeadLetterExchange,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, pattern := range routingPatterns {
		if err := channel.QueueBind(QueueName, pattern, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to pattern %s: %w", pattern, err)
		}
	}

	return nil
}

// supervise waits for an unexpected connection close and re-dials every
// reconnectDelay until it succeeds or the client is closed. Reconnecting is a
// liveness loop, never surfaced to callers.
func (c *Client) supervise(closed <-chan *amqp.Error) {
	err, ok := <-closed
	if !ok {
		// Clean close via Close().
		return
	}
	c.logger.Error("RabbitMQ connection lost: %v, reconnecting...", err)

	for {
		time.Sleep(reconnectDelay)

		c.mu.Lock()
		done := c.closed
		c.mu.Unlock()
		if done {
			return
		}

		if err := c.connect(); err != nil {
			c.logger.Error("RabbitMQ reconnect failed: %v", err)
			continue
		}
		c.logger.Info("RabbitMQ reconnected")
		return
	}
}

// Consume registers the handler and starts the consume loop. The handler is
// re-attached automatically after reconnects.
func (c *Client) Consume(handler MessageHandler) error {
	c.mu.Lock()
	c.handler = handler
	channel := c.channel
	c.mu.Unlock()

	return c.startConsumer(channel, handler)
}

func (c *Client) startConsumer(channel *amqp.Channel, handler MessageHandler) error {
	msgs, err := channel.Consume(
		QueueName, // queue
		"",        // consumer
		false,     // auto-ack disabled, we ack after the handler returns
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Started consuming from queue %s", QueueName)

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, msg.RoutingKey, msg.Body, handler)
		}
	}()

	return nil
}

// acknowledger is the slice of amqp.Delivery the ack discipline needs.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// handleDelivery applies the acknowledgment discipline for a single message:
// ack after the handler returns, reject without requeue when the handler
// reports a routing-level failure. Rejected messages are dead-lettered by the
// broker, never redelivered here.
func (c *Client) handleDelivery(d acknowledger, routingKey string, body []byte, handler MessageHandler) {
	if err := handler(routingKey, body); err != nil {
		c.logger.Error("Error processing message with routing key %s: %v", routingKey, err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.Error("Failed to nack message: %v", nackErr)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error("Failed to ack message: %v", err)
	}
}

// Publish sends an event to the topic exchange. Used by the event publisher
// tool and by tests against a live broker.
func (c *Client) Publish(routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		return fmt.Errorf("channel is not open")
	}

	err = channel.Publish(
		ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
