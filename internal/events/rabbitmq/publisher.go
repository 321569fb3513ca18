package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/maizy-store/internal/events"
	"github.com/streadway/amqp"
)

var _ events.Publisher = (*Publisher)(nil)

// Publisher публикует события заказов в topic exchange RabbitMQ.
type Publisher struct {
	log      *slog.Logger
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(log *slog.Logger, amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// durable topic exchange, без auto-delete
	err = channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		log:      log,
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func newPublishing(payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    now,
		Body:         body,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	const op = "rabbitmq.Publisher.Publish"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg, err := newPublishing(payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("publishing message",
		slog.String("op", op),
		slog.String("exchange", p.exchange),
		slog.String("routing_key", routingKey),
		slog.String("message_id", msg.MessageId),
	)

	if err := p.channel.Publish(p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("%s: failed to publish message: %w", op, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
