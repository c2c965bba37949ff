package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const orderIDPrefix = "ORD-"

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	publisher events.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Record appends an order for a settled payment. The cart is cleared only
// once the order is committed, so a failed append leaves it intact for a
// retry. The confirmation event is best effort.
func (s *orderService) Record(ctx context.Context, in RecordInput) (*model.Order, error) {
	if in.Cart == nil || in.Request == nil || in.Payment == nil {
		return nil, fmt.Errorf("order input is incomplete")
	}

	order := s.buildOrder(in)
	if len(order.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to create order")
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.ID, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to record order items: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("payment_method", order.PaymentMethod).
		Str("total", order.Total).
		Int("item_count", len(order.Items)).
		Msg("order recorded")

	if clearErr := in.Cart.Clear(ctx); clearErr != nil {
		s.logger.Error().Err(clearErr).Str("order_id", order.ID).Msg("order recorded but cart not cleared")
	}

	if pubErr := s.publisher.PublishOrderConfirmed(ctx, order); pubErr != nil {
		s.logger.Warn().Err(pubErr).Str("order_id", order.ID).Msg("failed to publish order event")
	}

	return order, nil
}

// buildOrder snapshots the cart and sanitizes the customer fields. Card
// details never reach the order.
func (s *orderService) buildOrder(in RecordInput) *model.Order {
	req := in.Request

	order := &model.Order{
		ID:            orderIDPrefix + uuid.NewString(),
		PaymentMethod: string(in.Method),
		Amount:        in.Payment.Amount,
		Total:         model.FormatAmount(in.Payment.Amount),
		DeliveryZone:  in.Quote.Zone,
		DeliveryFee:   in.Quote.Fee,
		TransactionID: in.Payment.TransactionID,
		Items:         in.Cart.Items(),
		Customer: model.Customer{
			FirstName: model.SanitizeText(req.FirstName),
			LastName:  model.SanitizeText(req.LastName),
			Email:     model.SanitizeText(req.Email),
			Address:   model.SanitizeText(req.Address),
		},
		Status:    model.OrderStatusConfirmed,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	if in.Method.IsMobileMoney() {
		phone := payment.NormalizePhone(req.PhoneNumber)
		order.PhoneNumber = phone
		order.Customer.Phone = phone
	}

	return order
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// List retrieves orders newest first.
func (s *orderService) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
