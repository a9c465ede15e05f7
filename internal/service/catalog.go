package service

import (
	"github.com/shopspring/decimal"

	"github.com/egannguyen/storefront-backend/internal/entity"
)

// SeedCatalog is the product list written to an empty products table.
func SeedCatalog() []entity.Product {
	lowStock := 5
	product := func(name, slug, price string, stock int) entity.Product {
		level := lowStock
		return entity.Product{
			Name:          name,
			Slug:          slug,
			Price:         decimal.RequireFromString(price),
			StockQuantity: stock,
			InStock:       stock > 0,
			LowStockLevel: &level,
		}
	}

	return []entity.Product{
		product("Wireless Noise-Cancelling Headphones", "wireless-headphones", "349.99", 50),
		product("Mechanical Keyboard RGB", "mechanical-keyboard-rgb", "179.99", 120),
		product("Ultrawide Curved Monitor 34\"", "ultrawide-monitor-34", "699.99", 30),
		product("Ergonomic Office Chair", "ergonomic-office-chair", "549.99", 25),
		product("Smart LED Desk Lamp", "smart-led-desk-lamp", "89.99", 200),
		product("Premium Laptop Backpack", "premium-laptop-backpack", "129.99", 80),
	}
}
