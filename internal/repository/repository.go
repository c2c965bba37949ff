package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access operations.
type ProductRepository interface {
	// GetAll retrieves products matching the filter, sorted and paginated.
	GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. It returns nil, nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs, ordered by category then name.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// GetFeatured retrieves products flagged as featured.
	GetFeatured(ctx context.Context) ([]model.Product, error)

	// CategoryStock sums stock per category.
	CategoryStock(ctx context.Context) (map[string]int, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)

	// InsertMany inserts products, skipping IDs that already exist.
	// It returns how many rows were inserted.
	InsertMany(ctx context.Context, products []model.Product) (int, error)
}

// OrderRepository defines the interface for the append-only order log.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts the order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's item snapshot within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, orderID string, items []model.CartLineItem) error

	// GetByID retrieves an order with its items. It returns nil, nil when absent.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// List retrieves orders newest first, without items.
	List(ctx context.Context, limit, offset int) ([]model.Order, error)
}
