// Package events publishes booking lifecycle events to RabbitMQ. Publishing
// is best effort: failures are logged and returned, and callers are expected
// to ignore them rather than fail the request.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload carried on both booking queues.
type BookingEvent struct {
	BookingID   string    `json:"booking_id"`
	ShowingID   string    `json:"showing_id"`
	UserID      string    `json:"user_id"`
	SeatLabels  []string  `json:"seat_labels"`
	TotalAmount float64   `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Publisher interface {
	BookingConfirmed(ctx context.Context, event BookingEvent) error
	BookingCancelled(ctx context.Context, event BookingEvent) error
	Close() error
}

type amqpPublisher struct {
	url  string
	log  *zap.Logger
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher connects to the broker and declares the booking queues.
// The connection is re-established lazily after a failure.
func NewAMQPPublisher(url string, log *zap.Logger) (Publisher, error) {
	p := &amqpPublisher{
		url: url,
		log: log.With(zap.String("component", "events")),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *amqpPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	for _, name := range []string{QueueBookingConfirmed, QueueBookingCancelled} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return err
		}
	}
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *amqpPublisher) BookingConfirmed(ctx context.Context, event BookingEvent) error {
	return p.publish(ctx, QueueBookingConfirmed, event)
}

func (p *amqpPublisher) BookingCancelled(ctx context.Context, event BookingEvent) error {
	return p.publish(ctx, QueueBookingCancelled, event)
}

func (p *amqpPublisher) publish(ctx context.Context, queue string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			p.log.Warn("Broker reconnect failed", zap.Error(err))
			return err
		}
	}

	err = p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.log.Warn("Publish failed",
			zap.String("queue", queue),
			zap.String("booking_id", event.BookingID),
			zap.Error(err))
		return err
	}

	p.log.Debug("Event published",
		zap.String("queue", queue),
		zap.String("booking_id", event.BookingID))
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// noopPublisher is used when no broker is configured.
type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) BookingConfirmed(context.Context, BookingEvent) error { return nil }
func (noopPublisher) BookingCancelled(context.Context, BookingEvent) error { return nil }
func (noopPublisher) Close() error                                         { return nil }
