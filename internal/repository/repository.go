package repository

import (
	"context"
	"errors"

	"github.com/egannguyen/storefront-backend/internal/entity"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Store groups the repositories and runs work inside a transaction.
type Store interface {
	Customers() CustomerRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Products() ProductRepository
	FAQs() FAQRepository
	HeroSlides() HeroSlideRepository
	Trends() TrendRepository
	// WithinTx runs fn against a transactional Store. fn's error rolls the
	// transaction back. Nested calls join the outer transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// CustomerRepository handles persistence for Customers.
type CustomerRepository interface {
	// FindByContact matches email OR phone; empty arguments are ignored.
	FindByContact(ctx context.Context, email, phone string) (*entity.Customer, error)
	FindByAuthUserID(ctx context.Context, authUserID string) (*entity.Customer, error)
	FindAll(ctx context.Context) ([]entity.Customer, error)
	Create(ctx context.Context, c *entity.Customer) error
	Update(ctx context.Context, c *entity.Customer) error
}

// OrderRepository handles persistence for Orders, their items and status history.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	CreateItems(ctx context.Context, orderID int64, items []entity.OrderItem) ([]entity.OrderItem, error)
	FindByID(ctx context.Context, id int64) (*entity.Order, error)
	// FindByIDForUpdate locks the order row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	Find(ctx context.Context, filter entity.OrderFilter) ([]entity.OrderSummary, error)
	FindItems(ctx context.Context, orderID int64) ([]entity.OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status string, state entity.ReservationState) (*entity.Order, error)
	AppendHistory(ctx context.Context, h *entity.StatusHistory) error
	FindHistory(ctx context.Context, orderID int64) ([]entity.StatusHistory, error)
}

// PaymentRepository handles persistence for Payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	// Find lists payments newest first, optionally for one order.
	Find(ctx context.Context, orderID *int64) ([]entity.Payment, error)
}

// ProductRepository handles product and variant stock.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]entity.Product, error)
	// AdjustProductStock adds delta to the product stock in one atomic step,
	// clamping at zero, and returns the resulting stock.
	AdjustProductStock(ctx context.Context, productID int64, delta int) (int, error)
	// AdjustVariantStock is AdjustProductStock for a variant row.
	AdjustVariantStock(ctx context.Context, variantID int64, delta int) (int, error)
	UpdateInventory(ctx context.Context, productID int64, u entity.InventoryUpdate) (*entity.Product, error)
	// Seed inserts initial products if none exist.
	Seed(ctx context.Context, products []entity.Product) error
}

// FAQRepository handles persistence for FAQs.
type FAQRepository interface {
	FindAll(ctx context.Context, publishedOnly bool) ([]entity.FAQ, error)
	Create(ctx context.Context, f *entity.FAQ) error
	Update(ctx context.Context, f *entity.FAQ) error
	Delete(ctx context.Context, id int64) error
}

// HeroSlideRepository handles persistence for HeroSlides.
type HeroSlideRepository interface {
	FindAll(ctx context.Context) ([]entity.HeroSlide, error)
	FindByID(ctx context.Context, id int64) (*entity.HeroSlide, error)
	Create(ctx context.Context, h *entity.HeroSlide) error
	Update(ctx context.Context, h *entity.HeroSlide) error
	Delete(ctx context.Context, id int64) error
}

// TrendRepository handles persistence for Trends.
type TrendRepository interface {
	// FindAll lists trends by sort order, then ID.
	FindAll(ctx context.Context) ([]entity.Trend, error)
	Create(ctx context.Context, t *entity.Trend) error
	Update(ctx context.Context, t *entity.Trend) error
	Delete(ctx context.Context, id int64) error
}
