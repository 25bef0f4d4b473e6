package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OrdersQueue is the durable queue order events are routed to.
const OrdersQueue = "orders.events"

// Publisher delivers order events. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, ev OrderEvent) error
}

// NopPublisher drops every event. It is used when AMQP is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }

// AMQPPublisher dials the broker for each event. Order traffic is low, so
// a held connection is not worth the reconnect bookkeeping.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

// PublishOrderEvent marshals ev and publishes it as a persistent message
// on OrdersQueue through the default exchange.
func (p *AMQPPublisher) PublishOrderEvent(ctx context.Context, ev OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		slog.Warn("rabbitmq dial failed", "err", err)
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(OrdersQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", OrdersQueue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", OrdersQueue, false, false, pub); err != nil {
		slog.Warn("rabbitmq publish failed", "queue", OrdersQueue, "err", err)
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
