package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalogue entry. Products are read-only once seeded.
type Product struct {
	ID          int64           `json:"id" db:"id" validate:"gt=0"`
	Name        string          `json:"name" db:"name" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Image       string          `json:"image" db:"image"`
	Category    string          `json:"category" db:"category" validate:"required"`
	Description string          `json:"description" db:"description"`
	Stock       int             `json:"stock" db:"stock" validate:"gte=0"`
	Featured    bool            `json:"featured" db:"featured"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Sort orders accepted by ProductFilter.
const (
	SortByName      = "name"
	SortByPriceAsc  = "price-asc"
	SortByPriceDesc = "price-desc"
)

// ProductFilter narrows and orders a catalogue listing.
type ProductFilter struct {
	// Category restricts the listing; "" and "all" mean every category.
	Category string
	// Sort is one of the SortBy constants; empty groups by category then name.
	Sort   string
	Limit  int
	Offset int
}

// AllCategories reports whether the filter spans every category.
func (f ProductFilter) AllCategories() bool {
	return f.Category == "" || f.Category == "all"
}
