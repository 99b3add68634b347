package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DialTimeout bounds the TCP connect and the AMQP handshake.  Events are
// published on the request path, so an unreachable broker must fail fast.
const DialTimeout = 2 * time.Second

// Publisher sends events to RabbitMQ.  It dials a fresh connection per
// message; event volume is a handful per day.
type Publisher struct {
	url     string
	timeout time.Duration
	log     *zap.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{url: url, timeout: DialTimeout, log: log}
}

// PublishRentPaid sends ev to the rent.paid queue.
func (p *Publisher) PublishRentPaid(ctx context.Context, ev RentPaidEvent) error {
	return p.publish(ctx, RentPaidQueue, ev)
}

// PublishMaintenanceOpened sends ev to the maintenance.opened queue.
func (p *Publisher) PublishMaintenanceOpened(ctx context.Context, ev MaintenanceOpenedEvent) error {
	return p.publish(ctx, MaintenanceOpenedQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}

	conn, err := dial(p.url, p.timeout)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, queue); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         queue,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", queue, err)
	}
	p.log.Debug("event published", zap.String("queue", queue), zap.String("message_id", msg.MessageId))
	return nil
}

func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// declare makes sure queue exists.  Durable so messages survive a broker
// restart.
func declare(ch *amqp.Channel, queue string) error {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare %s: %w", queue, err)
	}
	return nil
}
