package service

import (
	"context"
	"errors"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

// adjustStock applies mode to every item's stock row. Items with a variant
// adjust the variant; the rest adjust the product. Items with neither, or
// with no quantity, are skipped. The first failure stops the batch, which
// rolls back when repo belongs to a transaction.
func adjustStock(ctx context.Context, repo repository.ProductRepository, items []entity.OrderItem, mode entity.StockMode) error {
	if mode == entity.StockNone {
		mode = entity.StockReserve
	}

	for _, item := range items {
		delta := mode.Delta(item.Quantity)
		if delta == 0 {
			continue
		}

		switch {
		case item.VariantID != nil:
			if _, err := repo.AdjustVariantStock(ctx, *item.VariantID, delta); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperror.NotFound("Variant not found")
				}
				return apperror.FromBackend(err)
			}
		case item.ProductID != nil:
			if _, err := repo.AdjustProductStock(ctx, *item.ProductID, delta); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperror.NotFound("Product not found")
				}
				return apperror.FromBackend(err)
			}
		}
	}
	return nil
}
