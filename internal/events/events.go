// Package events publishes order lifecycle events to the message broker.
package events

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TypeOrderConfirmed is the event type emitted after an order is recorded.
const TypeOrderConfirmed = "order.confirmed"

// OrderConfirmed is the message body published for a recorded order.
// It carries no card data and no line-item prices beyond the order total.
type OrderConfirmed struct {
	Type          string          `json:"type"`
	OrderID       string          `json:"orderId"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Total         string          `json:"total"`
	DeliveryZone  string          `json:"deliveryZone"`
	ItemCount     int             `json:"itemCount"`
	Email         string          `json:"email"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// NewOrderConfirmed builds the event for order.
func NewOrderConfirmed(order *model.Order) OrderConfirmed {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return OrderConfirmed{
		Type:          TypeOrderConfirmed,
		OrderID:       order.ID,
		PaymentMethod: order.PaymentMethod,
		TransactionID: order.TransactionID,
		Amount:        order.Amount,
		Total:         order.Total,
		DeliveryZone:  order.DeliveryZone,
		ItemCount:     count,
		Email:         order.Customer.Email,
		OccurredAt:    order.CreatedAt,
	}
}

// Publisher delivers order events.
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, order *model.Order) error
	Close() error
}

// NopPublisher drops every event. It is used when the broker is disabled.
type NopPublisher struct {
	logger zerolog.Logger
}

// NewNopPublisher creates a publisher that only logs.
func NewNopPublisher(logger zerolog.Logger) *NopPublisher {
	return &NopPublisher{logger: logger.With().Str("component", "events").Logger()}
}

func (p *NopPublisher) PublishOrderConfirmed(ctx context.Context, order *model.Order) error {
	p.logger.Debug().Str("order_id", order.ID).Msg("events disabled, order event dropped")
	return nil
}

func (p *NopPublisher) Close() error {
	return nil
}
