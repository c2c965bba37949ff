package model

import "github.com/shopspring/decimal"

// CartLineItem is one product-quantity pairing in a cart or order snapshot.
// Name, price and image are captured when the item is added and never
// follow later catalogue changes.
type CartLineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartSummary is the rendered view of a cart returned after every mutation.
type CartSummary struct {
	CartID    string          `json:"cartId"`
	Items     []CartLineItem  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// QuantityPrompt is returned instead of a merge when a product is added
// that the cart already holds. The caller decides the new quantity.
type QuantityPrompt struct {
	ProductID       int64  `json:"productId"`
	Name            string `json:"name"`
	CurrentQuantity int    `json:"currentQuantity"`
	Message         string `json:"message"`
}

// AddToCartRequest is the payload for adding a product to the cart.
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity"`
}

// UpdateQuantityRequest is the payload for changing a line item quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartUpdate is the outcome of adding a product to the cart. Exactly one of
// Message and Prompt is set.
type CartUpdate struct {
	Cart    CartSummary     `json:"cart"`
	Message string          `json:"message,omitempty"`
	Prompt  *QuantityPrompt `json:"prompt,omitempty"`
}
