package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"geopost-service/internal/config"
	"geopost-service/internal/models"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// errMalformed marks messages that can never be processed and must not be requeued
var errMalformed = errors.New("malformed event")

// Consumer defines the interface for event consumption
type Consumer interface {
	// Start starts the consumer
	Start() error

	// Close closes the consumer
	Close() error
}

// UserStore receives the users carried by user events
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
}

// EventConsumer implements the Consumer interface using RabbitMQ
type EventConsumer struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	queueName    string
	exchangeName string
	users        UserStore
	shutdown     chan struct{}
	wg           sync.WaitGroup
	enabled      bool
}

// NewEventConsumer creates a new event consumer
func NewEventConsumer(ctx context.Context, cfg *config.RabbitMQConfig, users UserStore) (*EventConsumer, error) {
	if cfg.URI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event consumption is disabled")
		return &EventConsumer{
			users:    users,
			shutdown: make(chan struct{}),
			enabled:  false,
		}, nil
	}

	conn, err := dial(ctx, cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareExchange(channel, cfg.ExchangeName); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		cfg.QueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &EventConsumer{
		conn:         conn,
		channel:      channel,
		queueName:    cfg.QueueName,
		exchangeName: cfg.ExchangeName,
		users:        users,
		shutdown:     make(chan struct{}),
		enabled:      true,
	}, nil
}

// Start starts consuming events
func (c *EventConsumer) Start() error {
	if !c.enabled {
		log.Println("Event consumption is disabled, not starting consumer")
		return nil
	}

	for _, routingKey := range []models.EventType{
		models.EventTypeUserRegistered,
		models.EventTypeUserUpdated,
	} {
		err := c.channel.QueueBind(
			c.queueName,        // queue name
			string(routingKey), // routing key
			c.exchangeName,     // exchange
			false,              // no-wait
			nil,                // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue to exchange: %w", err)
		}
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(msgs)
	}()

	log.Println("Event consumer started")
	return nil
}

// consume handles incoming messages
func (c *EventConsumer) consume(msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-c.shutdown:
			log.Println("Stopping event consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("Message channel closed, stopping event consumer")
				return
			}

			err := c.processMessage(msg)
			if err == nil {
				if err := msg.Ack(false); err != nil {
					log.Printf("Error ACKing message: %v", err)
				}
				continue
			}

			requeue := !errors.Is(err, errMalformed)
			log.Printf("Error processing message (requeue=%t): %v", requeue, err)
			if err := msg.Nack(false, requeue); err != nil {
				log.Printf("Error NACKing message: %v", err)
			}
		}
	}
}

// processMessage processes a message based on its routing key
func (c *EventConsumer) processMessage(msg amqp091.Delivery) error {
	routingKey := msg.RoutingKey
	log.Printf("Processing message with routing key: %s", routingKey)

	switch models.EventType(routingKey) {
	case models.EventTypeUserRegistered, models.EventTypeUserUpdated:
		return c.handleUserEvent(msg.Body)
	default:
		log.Printf("Unknown routing key: %s", routingKey)
		return nil
	}
}

func (c *EventConsumer) handleUserEvent(body []byte) error {
	var event UserEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	user := event.User()
	if err := user.Normalize(); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("failed to store user %s: %w", user.ID, err)
	}

	log.Printf("User %s synced from %s event", user.ID, event.Type)
	return nil
}

// Close closes the consumer
func (c *EventConsumer) Close() error {
	if !c.enabled {
		return nil
	}

	close(c.shutdown)
	c.wg.Wait()

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}
