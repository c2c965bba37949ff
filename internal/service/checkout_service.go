package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/delivery"
	"storefront/internal/model"
	"storefront/internal/payment"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	carts      *cart.Registry
	dispatcher PaymentDispatcher
	orders     OrderService
	validate   *validator.Validate
	inFlight   sync.Map
	logger     zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(carts *cart.Registry, dispatcher PaymentDispatcher, orders OrderService, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		carts:      carts,
		dispatcher: dispatcher,
		orders:     orders,
		validate:   validator.New(),
		logger:     logger.With().Str("service", "checkout").Logger(),
	}
}

// Quote prices delivery for the cart's current contents.
func (s *checkoutService) Quote(ctx context.Context, cartID, zone string) (delivery.Quote, error) {
	summary, err := s.carts.Summary(ctx, cartID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to load cart for quote")
		return delivery.Quote{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return delivery.QuoteFor(summary.Total, zone), nil
}

// Checkout charges the cart and records the order. Only one checkout per
// cart runs at a time; a second one fails fast. The cart stays locked from
// the total being read until the order is recorded, so the amount charged
// is the amount recorded.
func (s *checkoutService) Checkout(ctx context.Context, cartID string, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid request body")
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if _, busy := s.inFlight.LoadOrStore(cartID, struct{}{}); busy {
		s.logger.Warn().Str("cart_id", cartID).Msg("checkout already in progress")
		return nil, model.ErrCheckoutInProgress
	}
	defer s.inFlight.Delete(cartID)

	method, _ := payment.ParseMethod(req.PaymentMethod)
	logger := s.logger.With().Str("cart_id", cartID).Str("method", string(method)).Logger()

	var response *model.CheckoutResponse
	err := s.carts.With(ctx, cartID, func(e *cart.Engine) error {
		if e.IsEmpty() {
			return model.ErrEmptyCart
		}

		quote := delivery.QuoteFor(e.Total(), req.Zone)
		if !quote.Total.IsPositive() {
			return model.ErrInvalidAmount
		}

		result, err := s.dispatcher.Dispatch(ctx, payment.Attempt{
			Reference: cartID,
			Method:    method,
			Amount:    quote.Total,
			Phone:     req.PhoneNumber,
			Card:      req.Card,
		})
		if err != nil {
			return err
		}
		if !result.Success {
			logger.Info().Str("message", result.Message).Msg("payment not settled")
			return model.NewPaymentFailedError(result.Message)
		}

		// The payment has settled; record the order even if the client has gone.
		order, err := s.orders.Record(context.WithoutCancel(ctx), RecordInput{
			Cart:    e,
			Request: req,
			Method:  method,
			Quote:   quote,
			Payment: result,
		})
		if err != nil {
			logger.Error().Err(err).Str("transaction_id", result.TransactionID).Msg("payment settled but order not recorded")
			return err
		}

		response = &model.CheckoutResponse{
			Order:    order,
			Message:  result.Message,
			USSDCode: result.USSDCode,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("order_id", response.Order.ID).Msg("checkout complete")
	return response, nil
}

// validateRequest checks the customer fields. Payment fields are checked by
// the dispatcher.
func (s *checkoutService) validateRequest(req *model.CheckoutRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return model.NewInvalidFieldError("Invalid checkout details")
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		if fe.Field() == "PaymentMethod" {
			return &payment.FieldError{Field: payment.FieldMethod, Message: "Please select a payment method"}
		}
		return &model.DomainError{Code: model.ErrCodeMissingField, Message: fmt.Sprintf("%s is required", field)}
	case "oneof":
		return &payment.FieldError{Field: payment.FieldMethod, Message: "Please select a payment method"}
	case "email":
		return model.NewInvalidFieldError("Please enter a valid email address.")
	default:
		return model.NewInvalidFieldError(fmt.Sprintf("%s is invalid", field))
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
