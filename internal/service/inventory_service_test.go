package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/entity"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestUpdateInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 5)
	svc := NewInventoryService(f.store, zap.NewNop())

	_, err := svc.UpdateInventory(ctx, pid, UpdateInventoryRequest{})
	assert.Equal(t, "Stock quantity is required", err.Error())

	_, err = svc.UpdateInventory(ctx, pid, UpdateInventoryRequest{StockQuantity: intPtr(-1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	p, err := svc.UpdateInventory(ctx, pid, UpdateInventoryRequest{StockQuantity: intPtr(0), LowStockLevel: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)
	assert.False(t, p.InStock, "in_stock follows quantity by default")
	assert.Equal(t, 2, *p.LowStockLevel)

	p, err = svc.UpdateInventory(ctx, pid, UpdateInventoryRequest{StockQuantity: intPtr(0), InStock: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, p.InStock, "explicit in_stock wins")
	assert.Equal(t, 2, *p.LowStockLevel, "low stock level kept when omitted")

	_, err = svc.UpdateInventory(ctx, 4040, UpdateInventoryRequest{StockQuantity: intPtr(1)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "Product not found", err.Error())
}

func TestListProductsAndSeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewInventoryService(f.store, zap.NewNop())

	require.NoError(t, svc.SeedProducts(ctx, []entity.Product{{Name: "B", Slug: "b", StockQuantity: 1}, {Name: "A", Slug: "a"}}))
	require.NoError(t, svc.SeedProducts(ctx, []entity.Product{{Name: "C", Slug: "c"}}))

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2, "seeding is skipped once products exist")
	assert.Equal(t, "A", products[0].Name)
	assert.False(t, products[0].InStock)
}

func TestSeedCatalog_UniqueSlugsAndStock(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range SeedCatalog() {
		assert.False(t, seen[p.Slug], p.Slug)
		seen[p.Slug] = true
		assert.True(t, p.Price.IsPositive(), p.Slug)
		assert.Equal(t, p.StockQuantity > 0, p.InStock, p.Slug)
	}
	assert.NotEmpty(t, seen)
}
