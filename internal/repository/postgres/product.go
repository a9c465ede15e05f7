package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

type productRepository struct {
	q queryer
}

const productColumns = "id, name, slug, price, stock_quantity, in_stock, low_stock_level, updated_at"

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.StockQuantity, &p.InStock, &p.LowStockLevel, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// The read-modify-write happens inside one statement so concurrent
// adjustments of the same row serialize on the row lock.
func (r *productRepository) AdjustProductStock(ctx context.Context, productID int64, delta int) (int, error) {
	var stock int
	err := r.q.QueryRowContext(ctx,
		`UPDATE products
		 SET stock_quantity = GREATEST(stock_quantity + $1, 0),
		     in_stock = GREATEST(stock_quantity + $1, 0) > 0,
		     updated_at = NOW()
		 WHERE id = $2
		 RETURNING stock_quantity`,
		delta, productID,
	).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update product stock: %w", err)
	}
	return stock, nil
}

func (r *productRepository) AdjustVariantStock(ctx context.Context, variantID int64, delta int) (int, error) {
	var stock int
	err := r.q.QueryRowContext(ctx,
		`UPDATE product_variants
		 SET stock_quantity = GREATEST(stock_quantity + $1, 0)
		 WHERE id = $2
		 RETURNING stock_quantity`,
		delta, variantID,
	).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update variant stock: %w", err)
	}
	return stock, nil
}

func (r *productRepository) UpdateInventory(ctx context.Context, productID int64, u entity.InventoryUpdate) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx,
		`UPDATE products
		 SET stock_quantity = $1,
		     in_stock = $2,
		     low_stock_level = COALESCE($3, low_stock_level),
		     updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+productColumns,
		u.StockQuantity, u.InStock, u.LowStockLevel, productID,
	)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	return p, nil
}

func (r *productRepository) Seed(ctx context.Context, products []entity.Product) error {
	var count int
	err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, p := range products {
		_, err := r.q.ExecContext(ctx,
			"INSERT INTO products (name, slug, price, stock_quantity, in_stock, low_stock_level) VALUES ($1, $2, $3, $4, $5, $6)",
			p.Name, p.Slug, p.Price, p.StockQuantity, p.StockQuantity > 0, p.LowStockLevel,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.Slug, err)
		}
	}
	return nil
}
