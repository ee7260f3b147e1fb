// Package messaging forwards domain events to RabbitMQ for downstream consumers
// such as SMS senders and accounting exports.
package messaging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	appnotification "github.com/bizgrow/backend/internal/application/notification"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/config"
	"github.com/bizgrow/backend/internal/infrastructure/event"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the part of *amqp.Channel the publisher uses
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes serialized domain events to a durable topic exchange.
// Routing keys are derived from the event type: OrderCreated -> order.created.
type AMQPPublisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	ch         Channel
	exchange   string
	serializer *event.EventSerializer
	logger     *zap.Logger
}

// DialAMQPPublisher connects to the broker in cfg and declares the exchange
func DialAMQPPublisher(cfg config.AMQPConfig, serializer *event.EventSerializer, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	p, err := NewAMQPPublisher(ch, cfg.Exchange, serializer, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewAMQPPublisher declares exchange on ch and returns a publisher using it
func NewAMQPPublisher(ch Channel, exchange string, serializer *event.EventSerializer, logger *zap.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{
		ch:         ch,
		exchange:   exchange,
		serializer: serializer,
		logger:     logger,
	}, nil
}

// Forward publishes the event as a persistent JSON message
func (p *AMQPPublisher) Forward(ctx context.Context, evt shared.DomainEvent) error {
	body, err := p.serializer.Serialize(evt)
	if err != nil {
		return err
	}

	key := RoutingKey(evt.EventType())
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.EventID().String(),
		Timestamp:    evt.OccurredAt(),
		Type:         evt.EventType(),
		Headers: amqp.Table{
			"store_id": evt.StoreID().String(),
		},
		Body: body,
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.EventType(), err)
	}

	p.logger.Debug("event forwarded",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", key),
		zap.String("event_id", evt.EventID().String()))
	return nil
}

// Close closes the channel and, when dialed here, the connection
func (p *AMQPPublisher) Close() error {
	var errs []string
	if err := p.ch.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close AMQP publisher: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RoutingKey turns a CamelCase event type into a dotted lowercase key
func RoutingKey(eventType string) string {
	var b strings.Builder
	for i, r := range eventType {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ appnotification.EventForwarder = (*AMQPPublisher)(nil)
