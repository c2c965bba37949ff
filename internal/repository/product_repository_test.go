package repository

import (
	"context"
	"testing"

	"storefront/internal/database/dbtest"
	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Classic Bi-Fold Wallet", Price: decimal.RequireFromString("45.00"), Category: "wallets", Stock: 25, Featured: true},
		{ID: 2, Name: "Leather Tote Bag", Price: decimal.RequireFromString("120.00"), Category: "bags", Stock: 10, Featured: true},
		{ID: 3, Name: "Card Holder", Price: decimal.RequireFromString("25.00"), Category: "wallets", Stock: 40},
		{ID: 4, Name: "Dress Belt", Price: decimal.RequireFromString("35.00"), Category: "belts", Stock: 5},
		{ID: 5, Name: "Messenger Bag", Price: decimal.RequireFromString("95.50"), Category: "bags", Stock: 0},
	}
}

func TestProductRepository(t *testing.T) {
	pool := dbtest.Postgres(t)
	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	inserted, err := repo.InsertMany(ctx, testProducts())
	require.NoError(t, err)
	require.Equal(t, 5, inserted)

	t.Run("InsertMany skips existing IDs", func(t *testing.T) {
		inserted, err := repo.InsertMany(ctx, testProducts()[:2])
		require.NoError(t, err)
		assert.Equal(t, 0, inserted)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("GetAll", func(t *testing.T) {
		tests := []struct {
			name    string
			filter  model.ProductFilter
			wantIDs []int64
		}{
			{
				name:    "Default order groups by category then name",
				filter:  model.ProductFilter{Limit: 10},
				wantIDs: []int64{2, 5, 4, 3, 1},
			},
			{
				name:    "Sort by name",
				filter:  model.ProductFilter{Sort: model.SortByName, Limit: 10},
				wantIDs: []int64{3, 1, 4, 2, 5},
			},
			{
				name:    "Sort by price ascending",
				filter:  model.ProductFilter{Sort: model.SortByPriceAsc, Limit: 10},
				wantIDs: []int64{3, 4, 1, 5, 2},
			},
			{
				name:    "Sort by price descending",
				filter:  model.ProductFilter{Sort: model.SortByPriceDesc, Limit: 10},
				wantIDs: []int64{2, 5, 1, 4, 3},
			},
			{
				name:    "Filter by category",
				filter:  model.ProductFilter{Category: "wallets", Sort: model.SortByName, Limit: 10},
				wantIDs: []int64{3, 1},
			},
			{
				name:    "All category",
				filter:  model.ProductFilter{Category: "all", Sort: model.SortByName, Limit: 2},
				wantIDs: []int64{3, 1},
			},
			{
				name:    "Second page",
				filter:  model.ProductFilter{Sort: model.SortByName, Limit: 2, Offset: 2},
				wantIDs: []int64{4, 2},
			},
			{
				name:    "Offset beyond results",
				filter:  model.ProductFilter{Limit: 10, Offset: 10},
				wantIDs: []int64{},
			},
			{
				name:    "Unknown sort falls back to default",
				filter:  model.ProductFilter{Sort: "; DROP TABLE products", Limit: 10},
				wantIDs: []int64{2, 5, 4, 3, 1},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				products, err := repo.GetAll(ctx, tt.filter)
				require.NoError(t, err)

				ids := make([]int64, 0, len(products))
				for _, p := range products {
					ids = append(ids, p.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			})
		}
	})

	t.Run("GetByID", func(t *testing.T) {
		product, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Messenger Bag", product.Name)
		assert.True(t, decimal.RequireFromString("95.50").Equal(product.Price))
		assert.Equal(t, "bags", product.Category)
		assert.False(t, product.CreatedAt.IsZero())

		missing, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("GetByIDs", func(t *testing.T) {
		products, err := repo.GetByIDs(ctx, []int64{1, 2, 999})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, int64(2), products[0].ID)
		assert.Equal(t, int64(1), products[1].ID)

		empty, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("GetFeatured", func(t *testing.T) {
		products, err := repo.GetFeatured(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, int64(1), products[0].ID)
		assert.Equal(t, int64(2), products[1].ID)
	})

	t.Run("CategoryStock", func(t *testing.T) {
		counts, err := repo.CategoryStock(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"wallets": 65, "bags": 10, "belts": 5}, counts)
	})
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool := dbtest.Postgres(t)
	repo := NewProductRepository(pool, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAll(ctx, model.ProductFilter{Limit: 10})
	assert.Error(t, err)

	_, err = repo.GetByID(ctx, 1)
	assert.Error(t, err)

	_, err = repo.Count(ctx)
	assert.Error(t, err)

	_, err = repo.CategoryStock(ctx)
	assert.Error(t, err)
}
