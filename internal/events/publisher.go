package events

import (
	"context"
	"encoding/json"
	"fmt"
	"geopost-service/internal/config"
	"geopost-service/internal/models"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rabbitmq/amqp091-go"
)

// Publisher defines the interface for event publishing
type Publisher interface {
	PublishPostCreated(ctx context.Context, post *models.Post) error

	// Close closes the publisher connection
	Close() error
}

// EventPublisher implements the Publisher interface using RabbitMQ
type EventPublisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	enabled      bool
}

// dial connects to RabbitMQ, retrying with exponential backoff for up to a minute
func dial(ctx context.Context, uri string) (*amqp091.Connection, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = time.Minute

	return backoff.RetryWithData(func() (*amqp091.Connection, error) {
		conn, err := amqp091.Dial(uri)
		if err != nil {
			log.Printf("Error connecting to RabbitMQ, retrying: %v", err)
		}
		return conn, err
	}, backoff.WithContext(b, ctx))
}

// declareExchange declares the durable topic exchange shared by publisher and consumer
func declareExchange(channel *amqp091.Channel, name string) error {
	return channel.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(ctx context.Context, cfg *config.RabbitMQConfig) (*EventPublisher, error) {
	if cfg.URI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{
			enabled: false,
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

	if err := declareExchange(channel, cfg.ExchangeName); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &EventPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: cfg.ExchangeName,
		enabled:      true,
	}, nil
}

// publishEvent publishes an event to RabbitMQ
func (p *EventPublisher) publishEvent(ctx context.Context, routingKey string, event any) error {
	if !p.enabled {
		log.Printf("Event publishing is disabled, skipping event: %s", routingKey)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("Published event: %s", routingKey)
	return nil
}

// PublishPostCreated publishes a post created event
func (p *EventPublisher) PublishPostCreated(ctx context.Context, post *models.Post) error {
	event := NewPostCreatedEvent(post)
	return p.publishEvent(ctx, string(models.EventTypePostCreated), event)
}

// Close closes the connection to RabbitMQ
func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}
