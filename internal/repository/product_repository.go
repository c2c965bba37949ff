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

const productColumns = `id, name, price, image, category, description, stock, featured, created_at`

// productOrderings maps a sort key to a fixed ORDER BY clause.
var productOrderings = map[string]string{
	"":                    "category, name, id",
	model.SortByName:      "name, id",
	model.SortByPriceAsc:  "price ASC, name, id",
	model.SortByPriceDesc: "price DESC, name, id",
}

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves products matching the filter, sorted and paginated.
func (r *productRepository) GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	orderBy, ok := productOrderings[filter.Sort]
	if !ok {
		orderBy = productOrderings[""]
	}

	category := filter.Category
	if filter.AllCategories() {
		category = ""
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category = $1)
		ORDER BY ` + orderBy + `
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, category, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", category).
			Str("sort", filter.Sort).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collect(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY category, name, id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}

	return r.collect(rows)
}

// GetFeatured retrieves products flagged as featured.
func (r *productRepository) GetFeatured(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE featured
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query featured products")
		return nil, fmt.Errorf("failed to query featured products: %w", err)
	}

	return r.collect(rows)
}

// CategoryStock sums stock per category.
func (r *productRepository) CategoryStock(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT category, COALESCE(SUM(stock), 0)
		FROM products
		GROUP BY category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query category stock")
		return nil, fmt.Errorf("failed to query category stock: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			category string
			stock    int64
		)
		if err := rows.Scan(&category, &stock); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category stock row")
			return nil, fmt.Errorf("failed to scan category stock: %w", err)
		}
		counts[category] = int(stock)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category stock rows")
		return nil, fmt.Errorf("error iterating category stock: %w", err)
	}

	return counts, nil
}

// Count returns the number of products in the catalogue.
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// InsertMany inserts products in one batch, skipping IDs that already exist.
func (r *productRepository) InsertMany(ctx context.Context, products []model.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO products (id, name, price, image, category, description, stock, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.ID, p.Name, p.Price, p.Image, p.Category, p.Description, p.Stock, p.Featured)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range products {
		tag, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Int64("product_id", products[i].ID).
				Msg("failed to insert product")
			return inserted, fmt.Errorf("failed to insert product %d: %w", products[i].ID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	r.logger.Debug().
		Int("requested", len(products)).
		Int("inserted", inserted).
		Msg("products inserted")

	return inserted, nil
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Image,
		&p.Category,
		&p.Description,
		&p.Stock,
		&p.Featured,
		&p.CreatedAt,
	)
	return p, err
}
