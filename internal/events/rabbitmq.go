package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes events to a durable RabbitMQ queue through the
// default exchange.
type RabbitPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel channel
	queue   string
	now     func() time.Time
	logger  zerolog.Logger
}

// NewRabbitPublisher connects to url and declares queue.
func NewRabbitPublisher(url, queue string, logger zerolog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newRabbitPublisher(ch, queue, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newRabbitPublisher(ch channel, queue string, logger zerolog.Logger) (*RabbitPublisher, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	logger = logger.With().Str("component", "events").Str("queue", queue).Logger()
	logger.Info().Msg("RabbitMQ publisher connected")

	return &RabbitPublisher{
		channel: ch,
		queue:   queue,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// PublishOrderConfirmed publishes a persistent order.confirmed message. The
// current trace context travels in the message headers.
func (p *RabbitPublisher) PublishOrderConfirmed(ctx context.Context, order *model.Order) error {
	ctx, span := otel.Tracer("storefront/internal/events").Start(ctx, "events.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", p.queue),
			attribute.String("order.id", order.ID),
		))
	defer span.End()

	body, err := json.Marshal(NewOrderConfirmed(order))
	if err != nil {
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now(),
		MessageId:    order.ID,
		Type:         TypeOrderConfirmed,
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().Str("order_id", order.ID).Msg("order event published")
	return nil
}

// Close closes the channel and the connection.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ publisher: %v", errs)
	}
	return nil
}

// headerCarrier adapts AMQP headers to the propagation.TextMapCarrier interface.
type headerCarrier amqp.Table

func (c headerCarrier) Get(key string) string {
	v, _ := c[key].(string)
	return v
}

func (c headerCarrier) Set(key, value string) {
	c[key] = value
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
