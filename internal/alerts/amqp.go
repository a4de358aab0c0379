package alerts

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Channel is the subset of an AMQP channel used for publishing.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends alerts to a durable topic exchange. Routing keys are
// "budget.<severity>" so consumers can bind to critical alerts only.
type Publisher struct {
	conn     *amqp091.Connection
	channel  Channel
	exchange string
}

// DialPublisher connects to url and declares exchange.
func DialPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	log.Printf("[Alerts] Publishing budget alerts to exchange %q", exchange)
	return p, nil
}

// NewPublisher declares exchange on an open channel.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange,
		amqp091.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{channel: ch, exchange: exchange}, nil
}

// RoutingKey returns the key an alert is published under.
func RoutingKey(a BudgetAlert) string {
	return "budget." + string(a.Severity)
}

// Notify publishes a persistent JSON message for the alert.
func (p *Publisher) Notify(ctx context.Context, a BudgetAlert) error {
	body, err := a.marshal()
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(a), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    a.OccurredAt,
		Type:         "budget.alert",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
