package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products matching the filter with pagination.
func (s *productService) GetAll(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", filter.Category).
			Str("sort", filter.Sort).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Str("category", filter.Category).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		s.logger.Warn().Int64("product_id", id).Msg("invalid product ID")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (s *productService) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to get products by IDs")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(products)).
		Msg("retrieved products by IDs")

	return products, nil
}

// Featured retrieves the featured products.
func (s *productService) Featured(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetFeatured(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get featured products")
		return nil, fmt.Errorf("failed to get featured products: %w", err)
	}
	return products, nil
}

// CategoryCounts returns the units in stock per category.
func (s *productService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	counts, err := s.productRepo.CategoryStock(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count stock per category")
		return nil, fmt.Errorf("failed to count category stock: %w", err)
	}
	return counts, nil
}
