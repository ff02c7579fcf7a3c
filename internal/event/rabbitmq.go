package event

import (
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection holds the broker connection and the channel publishers write to.
type Connection struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

func Connect(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	slog.Info("connected to rabbitmq")

	return &Connection{conn: conn, Channel: ch}, nil
}

func (c *Connection) Close() error {
	if err := c.Channel.Close(); err != nil {
		slog.Error("failed to close rabbitmq channel", "error", err)
	}

	return c.conn.Close()
}
