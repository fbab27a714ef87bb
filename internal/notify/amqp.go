package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Publisher is the subset of *amqp.Channel used to publish summaries.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes summaries to a topic exchange with routing key settlement.<week>.
type AMQPNotifier struct {
	pub      Publisher
	exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel
}

// NewAMQPNotifier wraps an existing publisher.
func NewAMQPNotifier(pub Publisher, exchange string) *AMQPNotifier {
	return &AMQPNotifier{pub: pub, exchange: exchange}
}

// DialAMQP connects to the broker and declares a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Heartbeat: 30 * time.Second, Locale: "en_US"})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	n := NewAMQPNotifier(ch, exchange)
	n.conn, n.channel = conn, ch
	return n, nil
}

// RoutingKey is the routing key used for a summary.
func RoutingKey(s Summary) string {
	return "settlement." + s.Week
}

// Notify publishes the summary as a persistent JSON message.
func (n *AMQPNotifier) Notify(ctx context.Context, s Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	err = n.pub.Publish(n.exchange, RoutingKey(s), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    s.SettledAt,
		Type:         "settlement",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}
	return nil
}

// Close releases the broker connection opened by DialAMQP.
func (n *AMQPNotifier) Close() error {
	if n == nil || n.conn == nil {
		return nil
	}
	if n.channel != nil {
		_ = n.channel.Close()
	}
	return n.conn.Close()
}
