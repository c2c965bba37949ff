package service

import (
	"context"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	carts    *cart.Registry
	products ProductService
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts *cart.Registry, products ProductService, logger zerolog.Logger) CartService {
	return &cartService{
		carts:    carts,
		products: products,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Summary returns the cart's items, total and item count.
func (s *cartService) Summary(ctx context.Context, cartID string) (model.CartSummary, error) {
	summary, err := s.carts.Summary(ctx, cartID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to load cart")
		return model.CartSummary{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return summary, nil
}

// Add puts a catalogue product in the cart. The product is looked up first
// so the cart snapshots current catalogue data.
func (s *cartService) Add(ctx context.Context, cartID string, productID int64, quantity int) (*model.CartUpdate, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	update := &model.CartUpdate{}
	err = s.carts.With(ctx, cartID, func(e *cart.Engine) error {
		prompt, err := e.AddItem(ctx, *product, quantity)
		if err != nil {
			return err
		}
		update.Prompt = prompt
		update.Cart = e.Summary()
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Int64("product_id", productID).Msg("failed to add to cart")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	if update.Prompt == nil {
		qty := quantity
		if qty < 1 {
			qty = 1
		}
		update.Message = fmt.Sprintf("%s (x%d) was added to your cart.", model.SanitizeText(product.Name), qty)
		s.logger.Debug().Str("cart_id", cartID).Int64("product_id", productID).Int("quantity", qty).Msg("item added")
	}

	return update, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, cartID string, productID int64, quantity int) (model.CartSummary, error) {
	return s.mutate(ctx, cartID, "update quantity", func(ctx context.Context, e *cart.Engine) error {
		return e.UpdateQuantity(ctx, productID, quantity)
	})
}

// Remove deletes a line from the cart.
func (s *cartService) Remove(ctx context.Context, cartID string, productID int64) (model.CartSummary, error) {
	return s.mutate(ctx, cartID, "remove item", func(ctx context.Context, e *cart.Engine) error {
		return e.RemoveItem(ctx, productID)
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, cartID string) (model.CartSummary, error) {
	return s.mutate(ctx, cartID, "clear cart", func(ctx context.Context, e *cart.Engine) error {
		return e.Clear(ctx)
	})
}

func (s *cartService) mutate(ctx context.Context, cartID, op string, fn func(context.Context, *cart.Engine) error) (model.CartSummary, error) {
	var summary model.CartSummary
	err := s.carts.With(ctx, cartID, func(e *cart.Engine) error {
		if err := fn(ctx, e); err != nil {
			return err
		}
		summary = e.Summary()
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Str("op", op).Msg("cart mutation failed")
		return model.CartSummary{}, fmt.Errorf("failed to %s: %w", op, err)
	}
	return summary, nil
}
