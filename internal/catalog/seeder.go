package catalog

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ProductWriter is the part of the product repository the seeder needs.
type ProductWriter interface {
	Count(ctx context.Context) (int, error)
	InsertMany(ctx context.Context, products []model.Product) (int, error)
}

// Seeder fills an empty catalogue.
type Seeder struct {
	products ProductWriter
	loader   Loader
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewSeeder creates a seeder that reads through loader and writes to products.
func NewSeeder(products ProductWriter, loader Loader, logger zerolog.Logger) *Seeder {
	return &Seeder{
		products: products,
		loader:   loader,
		validate: validator.New(),
		logger:   logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed loads source into the catalogue when it holds no products. If the
// source cannot be read the built-in catalogue is used instead. Invalid
// records and repeated IDs are skipped. It returns the number inserted.
func (s *Seeder) Seed(ctx context.Context, source string) (int, error) {
	count, err := s.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int("products", count).Msg("catalogue already seeded")
		return 0, nil
	}

	products, err := s.loader.Load(ctx, source)
	if err != nil || len(products) == 0 {
		s.logger.Warn().Err(err).Str("source", source).Msg("catalogue seed unavailable, using built-in products")
		products = DefaultProducts()
	}

	valid := s.filter(products)

	inserted, err := s.products.InsertMany(ctx, valid)
	if err != nil {
		return inserted, fmt.Errorf("failed to seed catalogue: %w", err)
	}

	s.logger.Info().
		Int("loaded", len(products)).
		Int("inserted", inserted).
		Msg("catalogue seeded")

	return inserted, nil
}

func (s *Seeder) filter(products []model.Product) []model.Product {
	seen := make(map[int64]bool, len(products))
	valid := make([]model.Product, 0, len(products))

	for _, p := range products {
		p.Name = model.SanitizeText(p.Name)
		p.Image = model.SanitizeText(p.Image)
		p.Category = model.SanitizeText(p.Category)
		p.Description = model.SanitizeText(p.Description)

		if err := s.validate.Struct(p); err != nil {
			s.logger.Warn().Err(err).Int64("product_id", p.ID).Msg("skipping invalid seed product")
			continue
		}
		if p.Price.IsNegative() {
			s.logger.Warn().Int64("product_id", p.ID).Msg("skipping seed product with negative price")
			continue
		}
		if seen[p.ID] {
			s.logger.Warn().Int64("product_id", p.ID).Msg("skipping duplicate seed product")
			continue
		}

		seen[p.ID] = true
		valid = append(valid, p)
	}

	return valid
}
