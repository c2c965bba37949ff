package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, payment_method, phone_number, amount, total, delivery_zone, delivery_fee,
		transaction_id, status, first_name, last_name, email, phone, address, created_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts the order header within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.PaymentMethod,
		order.PhoneNumber,
		order.Amount,
		order.Total,
		order.DeliveryZone,
		order.DeliveryFee,
		order.TransactionID,
		order.Status,
		order.Customer.FirstName,
		order.Customer.LastName,
		order.Customer.Email,
		order.Customer.Phone,
		order.Customer.Address,
		order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts the item snapshot within the provided transaction.
// Items keep the cart's insertion order through their position.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, orderID string, items []model.CartLineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, position, product_id, name, price, image, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, orderID, i, item.ProductID, item.Name, item.Price, item.Image, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", orderID).
				Int64("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	orderQuery := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT product_id, name, price, image, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	order.Items = []model.CartLineItem{}
	for rows.Next() {
		var item model.CartLineItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Image, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return &order, nil
}

// List retrieves orders newest first, without items.
func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.PaymentMethod,
		&o.PhoneNumber,
		&o.Amount,
		&o.Total,
		&o.DeliveryZone,
		&o.DeliveryFee,
		&o.TransactionID,
		&o.Status,
		&o.Customer.FirstName,
		&o.Customer.LastName,
		&o.Customer.Email,
		&o.Customer.Phone,
		&o.Customer.Address,
		&o.CreatedAt,
	)
	return o, err
}
