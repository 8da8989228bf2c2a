package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dursunkatar/OrderManagementSystem/internal/events"
)

const exchangeName = "order_events"

// RabbitMQPublisher はtopic exchangeへイベント名をrouting keyにして流す。
type RabbitMQPublisher struct {
	ch *amqp.Channel
}

func NewRabbitMQPublisher(conn *amqp.Connection) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // autoDelete
		false,
		false,
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare %s: %w", exchangeName, err)
	}

	return &RabbitMQPublisher{ch: ch}, nil
}

func (p *RabbitMQPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, ev events.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Name(), err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		exchangeName,
		ev.Name(), // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
