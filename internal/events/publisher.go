// Package events publishes committed ledger changes to an AMQP exchange.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/saldo/internal/ledger"
	applog "github.com/MrJamesThe3rd/saldo/internal/log"
)

const publishTimeout = 5 * time.Second

// Channel is the part of *amqp091.Channel the publisher needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type Publisher struct {
	ch       Channel
	exchange string
	logger   *slog.Logger
	close    func() error
}

var _ ledger.Observer = (*Publisher)(nil)

func NewPublisher(ch Channel, exchange string, logger *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   applog.Component(logger, applog.ComponentEvents),
		close:    func() error { return nil },
	}
}

// Dial connects to the broker and declares a durable topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		amqp091.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := NewPublisher(ch, exchange, logger)
	p.close = func() error {
		ch.Close()
		return conn.Close()
	}

	return p, nil
}

// Observe publishes committed mutations. Publishing failures are logged and
// never affect the ledger.
func (p *Publisher) Observe(ctx context.Context, e ledger.Event) {
	if e.Phase != ledger.PhaseCommitted {
		return
	}

	if err := p.Publish(ctx, MessageOf(e)); err != nil {
		p.logger.WarnContext(ctx, "failed to publish ledger event",
			applog.FieldOperation, e.Op, applog.FieldOwner, e.OwnerID, applog.FieldError, err)
	}
}

func (p *Publisher) Publish(ctx context.Context, m Message) error {
	body, err := m.Marshal()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, m.RoutingKey(), false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    m.At,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.DebugContext(ctx, "published ledger event", applog.FieldOperation, m.Op, applog.FieldOwner, m.OwnerID)

	return nil
}

func (p *Publisher) Close() error {
	return p.close()
}
