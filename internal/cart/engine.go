// Package cart holds shopping cart state and the rules for changing it.
package cart

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const keyPrefix = "cart:"

// Key returns the store key holding the cart with the given id.
func Key(cartID string) string {
	return keyPrefix + cartID
}

// ChangeHook is invoked after every persisted mutation with the new summary.
type ChangeHook func(ctx context.Context, summary model.CartSummary)

// Engine is the state holder for one cart. Every mutation writes the whole
// cart to the store and then invokes the change hook. An Engine is not safe
// for concurrent use; Registry serializes access per cart.
type Engine struct {
	id       string
	store    storage.Store
	codec    *storage.Codec
	items    []model.CartLineItem
	onChange ChangeHook
	logger   zerolog.Logger
}

// Open loads the cart with the given id from store. A missing or malformed
// document yields an empty cart.
func Open(ctx context.Context, id string, store storage.Store, codec *storage.Codec, logger zerolog.Logger) (*Engine, error) {
	e := &Engine{
		id:     id,
		store:  store,
		codec:  codec,
		items:  []model.CartLineItem{},
		logger: logger.With().Str("component", "cart").Str("cart_id", id).Logger(),
	}

	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// OnChange sets the hook invoked after each persisted mutation.
func (e *Engine) OnChange(hook ChangeHook) {
	e.onChange = hook
}

// ID returns the cart id.
func (e *Engine) ID() string {
	return e.id
}

func (e *Engine) load(ctx context.Context) error {
	var stored []storedItem
	found, err := e.codec.Load(ctx, e.store, Key(e.id), &stored)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if !found {
		return nil
	}

	seen := make(map[int64]bool, len(stored))
	for _, s := range stored {
		if seen[s.ID] {
			e.logger.Warn().Int64("product_id", s.ID).Msg("dropping duplicate cart line")
			continue
		}
		seen[s.ID] = true
		e.items = append(e.items, s.lineItem())
	}
	return nil
}

// AddItem appends product with quantity, coerced to at least 1. When the
// product is already in the cart nothing changes and a prompt is returned
// for the caller to resolve with ResolvePrompt.
func (e *Engine) AddItem(ctx context.Context, product model.Product, quantity int) (*model.QuantityPrompt, error) {
	if i := e.indexOf(product.ID); i >= 0 {
		item := e.items[i]
		return &model.QuantityPrompt{
			ProductID:       item.ProductID,
			Name:            item.Name,
			CurrentQuantity: item.Quantity,
			Message:         fmt.Sprintf("%q is already in your cart. Would you like to update the quantity?", item.Name),
		}, nil
	}

	if quantity < 1 {
		quantity = 1
	}
	price := product.Price
	if price.IsNegative() {
		price = decimal.Zero
	}

	e.items = append(e.items, model.CartLineItem{
		ProductID: product.ID,
		Name:      model.SanitizeText(product.Name),
		Price:     price,
		Image:     model.SanitizeText(product.Image),
		Quantity:  quantity,
	})

	return nil, e.commit(ctx)
}

// ResolvePrompt applies the caller's answer to a quantity prompt. A
// positive quantity replaces the current one; anything else removes the line.
func (e *Engine) ResolvePrompt(ctx context.Context, prompt model.QuantityPrompt, quantity int) error {
	if quantity > 0 {
		return e.UpdateQuantity(ctx, prompt.ProductID, quantity)
	}
	return e.RemoveItem(ctx, prompt.ProductID)
}

// RemoveItem deletes the line for productID if present. The cart is
// persisted either way.
func (e *Engine) RemoveItem(ctx context.Context, productID int64) error {
	if i := e.indexOf(productID); i >= 0 {
		e.items = append(e.items[:i], e.items[i+1:]...)
	}
	return e.commit(ctx)
}

// UpdateQuantity sets the quantity of the line for productID. A quantity
// of zero or less removes the line. Unknown products are ignored.
func (e *Engine) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	i := e.indexOf(productID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		return e.RemoveItem(ctx, productID)
	}

	e.items[i].Quantity = quantity
	return e.commit(ctx)
}

// Clear empties the cart and persists it.
func (e *Engine) Clear(ctx context.Context) error {
	e.items = []model.CartLineItem{}
	return e.commit(ctx)
}

// Total is the sum of price × quantity over all lines.
func (e *Engine) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines.
func (e *Engine) ItemCount() int {
	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in insertion order.
func (e *Engine) Items() []model.CartLineItem {
	out := make([]model.CartLineItem, len(e.items))
	copy(out, e.items)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (e *Engine) IsEmpty() bool {
	return len(e.items) == 0
}

// Summary renders the cart for display.
func (e *Engine) Summary() model.CartSummary {
	return model.CartSummary{
		CartID:    e.id,
		Items:     e.Items(),
		Total:     e.Total(),
		ItemCount: e.ItemCount(),
	}
}

// commit persists the cart, then notifies the change hook.
func (e *Engine) commit(ctx context.Context) error {
	if err := e.codec.Save(ctx, e.store, Key(e.id), e.items); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	e.logger.Debug().Int("lines", len(e.items)).Int("item_count", e.ItemCount()).Msg("cart persisted")

	if e.onChange != nil {
		e.onChange(ctx, e.Summary())
	}
	return nil
}

func (e *Engine) indexOf(productID int64) int {
	for i, item := range e.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
