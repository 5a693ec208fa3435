package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// Publisher delivers one event under a routing key.  Implementations must
// not panic; callers treat any error as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// Nop discards every event.  It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// AMQPPublisher publishes events to RabbitMQ.  Each call dials, declares a
// durable queue named after the routing key and publishes a persistent
// JSON message on the default exchange.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

func (p *AMQPPublisher) Publish(ctx context.Context, key string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		key,   // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         key,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		key,   // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error { return nil }

// RedisPublisher publishes events on a single Redis pub/sub channel.  The
// routing key travels inside the envelope.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher wraps an already connected client.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Envelope is the Redis wire format.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (p *RedisPublisher) Publish(ctx context.Context, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}
	body, err := json.Marshal(Envelope{Type: key, Payload: payload})
	if err != nil {
		return fmt.Errorf("redis: marshal envelope: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		return fmt.Errorf("redis: publish: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error { return p.client.Close() }
