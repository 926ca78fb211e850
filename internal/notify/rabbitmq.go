package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kantin-be/internal/logger"
	"kantin-be/internal/order"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	OrdersExchange   = "orders_topic"
	OrderPlacedRoute = "kiosk.order.placed"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// RabbitMQ publishes each order to the orders topic exchange.
type RabbitMQ struct {
	ch   amqpChannel
	conn *amqp091.Connection
}

func DialRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		OrdersExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &RabbitMQ{ch: ch, conn: conn}, nil
}

func (r *RabbitMQ) NotifyOrder(ctx context.Context, h *order.Handoff) error {
	body, err := json.Marshal(toMessage(h))
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = r.ch.PublishWithContext(ctx,
		OrdersExchange,
		OrderPlacedRoute,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    h.Ref,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		logger.Op(ctx, "notify", "RabbitMQ", zap.String("order_ref", h.Ref)).
			Warn("publish failed", zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}
