// Package messaging publishes domain events to RabbitMQ.
package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/breaker"
)

// Message is an encoded domain event ready for the wire.
type Message struct {
	ID         string
	Type       string
	Body       []byte
	OccurredAt time.Time
}

// Publisher delivers messages to a broker.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// RabbitMQPublisher publishes persistent JSON messages to a durable queue.
type RabbitMQPublisher struct {
	mu        sync.Mutex
	conn      *amqp.Connection
	ch        *amqp.Channel
	queueName string
	cb        *gobreaker.CircuitBreaker
}

var _ Publisher = (*RabbitMQPublisher)(nil)

// NewRabbitMQPublisher dials the broker and declares the queue.
func NewRabbitMQPublisher(amqpURL, queueName string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	return &RabbitMQPublisher{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        breaker.New(breaker.EventBroker, logger),
	}, nil
}

// Publish sends msg through the circuit breaker.
func (p *RabbitMQPublisher) Publish(ctx context.Context, msg Message) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		return nil, p.ch.PublishWithContext(ctx,
			"",
			p.queueName,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         msg.Type,
				Timestamp:    msg.OccurredAt,
				Body:         msg.Body,
			},
		)
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher is used when no broker is configured; it only logs.
type LogPublisher struct {
	Logger *zap.Logger
}

var _ Publisher = LogPublisher{}

// Publish logs the message at debug level.
func (p LogPublisher) Publish(_ context.Context, msg Message) error {
	if p.Logger != nil {
		p.Logger.Debug("event not published, broker disabled", zap.String("type", msg.Type), zap.String("id", msg.ID))
	}
	return nil
}

// Close is a no-op.
func (LogPublisher) Close() error { return nil }
