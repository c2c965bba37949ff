package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// schema is idempotent; Migrate runs it on every start.
const schema = `
	CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY CHECK (id > 0),
		name TEXT NOT NULL,
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		image TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_products_featured ON products(featured) WHERE featured;

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		payment_method TEXT NOT NULL,
		phone_number TEXT NOT NULL DEFAULT '',
		amount NUMERIC(12, 2) NOT NULL CHECK (amount > 0),
		total TEXT NOT NULL,
		delivery_zone TEXT NOT NULL DEFAULT '',
		delivery_fee NUMERIC(10, 2) NOT NULL DEFAULT 0,
		transaction_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC);

	-- order_items is a snapshot and does not reference products.
	CREATE TABLE IF NOT EXISTS order_items (
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		product_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		price NUMERIC(10, 2) NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		PRIMARY KEY (order_id, position)
	);

	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Migrate creates the tables used by the repositories and the durable
// document store.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply schema")
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}
