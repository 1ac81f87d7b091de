package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// channel is the part of *amqp.Channel the client publishes through.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Client publishes domain events to a durable topic exchange.
type Client struct {
	conn     *amqp.Connection
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
	channel  channel
	exchange string
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// NewClient connects to RabbitMQ, opens a channel and declares the exchange.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	logging.Info().Str("exchange", cfg.Exchange).Msg("RabbitMQ client connected")

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

func newClientWithChannel(ch channel, exchange string) *Client {
	return &Client{channel: ch, exchange: exchange}
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
		c.conn = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishEvent marshals payload to JSON and publishes it as a persistent
// message under routingKey.
func (c *Client) PublishEvent(routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(routingKey, "error").Inc()
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		metrics.EventsPublished.WithLabelValues(routingKey, "error").Inc()
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err = c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Type:         routingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		metrics.EventsPublished.WithLabelValues(routingKey, "error").Inc()
		return fmt.Errorf("failed to publish %s event: %w", routingKey, err)
	}

	metrics.EventsPublished.WithLabelValues(routingKey, "ok").Inc()
	logging.Debug().Str("routing_key", routingKey).RawJSON("payload", body).Msg("event published")
	return nil
}
