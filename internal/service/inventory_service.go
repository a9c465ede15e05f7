package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

// InventoryService exposes product stock outside the order workflow.
type InventoryService struct {
	store repository.Store
	log   *zap.Logger
}

func NewInventoryService(store repository.Store, log *zap.Logger) *InventoryService {
	return &InventoryService{store: store, log: log}
}

// UpdateInventoryRequest overwrites a product's stock figures.
type UpdateInventoryRequest struct {
	StockQuantity *int  `json:"stockQuantity"`
	InStock       *bool `json:"inStock"`
	LowStockLevel *int  `json:"lowStockLevel"`
}

// ListProducts returns the stock view of every product.
func (s *InventoryService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.store.Products().FindAll(ctx)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	return products, nil
}

// UpdateInventory is an administrative overwrite and ignores reservations.
// in_stock defaults to stock > 0; low_stock_level is kept unless supplied.
func (s *InventoryService) UpdateInventory(ctx context.Context, productID int64, req UpdateInventoryRequest) (*entity.Product, error) {
	if req.StockQuantity == nil {
		return nil, apperror.Validation("Stock quantity is required")
	}
	if *req.StockQuantity < 0 {
		return nil, apperror.Validation("Stock quantity must not be negative")
	}

	update := entity.InventoryUpdate{
		StockQuantity: *req.StockQuantity,
		InStock:       *req.StockQuantity > 0,
		LowStockLevel: req.LowStockLevel,
	}
	if req.InStock != nil {
		update.InStock = *req.InStock
	}

	p, err := s.store.Products().UpdateInventory(ctx, productID, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Product not found")
	}
	if err != nil {
		return nil, apperror.FromBackend(err)
	}

	s.log.Info("Inventory updated", zap.Int64("product_id", productID), zap.Int("stock_quantity", p.StockQuantity))
	return p, nil
}

// SeedProducts inserts products when the catalog is empty.
func (s *InventoryService) SeedProducts(ctx context.Context, products []entity.Product) error {
	if err := s.store.Products().Seed(ctx, products); err != nil {
		return apperror.FromBackend(err)
	}
	return nil
}
