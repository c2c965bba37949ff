package cart

import (
	"encoding/json"
	"math"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// storedItem is the persisted shape of a line item. Price and quantity are
// kept raw so that a corrupt value degrades one field instead of the cart.
type storedItem struct {
	ID       int64           `json:"id" validate:"gt=0"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
	Image    string          `json:"image"`
	Quantity json.RawMessage `json:"quantity"`
}

// lineItem converts a stored record, coercing a non-numeric or negative
// price to 0 and a non-numeric or non-positive quantity to 1.
func (s storedItem) lineItem() model.CartLineItem {
	return model.CartLineItem{
		ProductID: s.ID,
		Name:      model.SanitizeText(s.Name),
		Price:     coercePrice(s.Price),
		Image:     model.SanitizeText(s.Image),
		Quantity:  coerceQuantity(s.Quantity),
	}
}

func coercePrice(raw json.RawMessage) decimal.Decimal {
	var d decimal.Decimal
	if len(raw) == 0 || d.UnmarshalJSON(raw) != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func coerceQuantity(raw json.RawMessage) int {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 1
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f < 1 || f > math.MaxInt32 {
		return 1
	}
	return int(f)
}
