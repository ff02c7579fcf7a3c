package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultQueue = "policy_events"

//go:generate mockgen -source=publisher.go -destination=channel_mock.go -package=event
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher writes events as persistent JSON messages to a durable queue.
type Publisher struct {
	ch    Channel
	queue string
}

// NewPublisher declares the queue so that messages published before any
// consumer connects are kept.
func NewPublisher(ch Channel, queue string) (*Publisher, error) {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declaring queue %s: %w", queue, err)
	}

	return &Publisher{ch: ch, queue: queue}, nil
}

func (p *Publisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		MessageId:    e.ID.String(),
		Type:         string(e.Type),
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    e.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing %s: %w", e.Type, err)
	}

	slog.Debug("event published", "queue", p.queue, "type", e.Type, "policy_id", e.PolicyID)

	return nil
}
