package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
	"github.com/egannguyen/storefront-backend/internal/repository/memory"
)

var fixedNow = time.Date(2026, 3, 7, 10, 30, 0, 0, time.UTC)

type fakeNotifier struct {
	mu           sync.Mutex
	confirmed    []string
	cancelled    []string
	confirmErr   error
	cancelledErr error
}

func (n *fakeNotifier) OrderConfirmation(_ context.Context, order *entity.Order, _ []entity.OrderItem, _ *entity.Payment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, order.OrderCode)
	return n.confirmErr
}

func (n *fakeNotifier) OrderCancelled(_ context.Context, order *entity.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, order.OrderCode)
	return n.cancelledErr
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

type fixture struct {
	store     *memory.Store
	notifier  *fakeNotifier
	publisher *fakePublisher
	orders    *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     memory.NewStore(),
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	f.orders = NewOrderService(f.store, f.notifier, f.publisher, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
	return f
}

// seedProduct adds one product with the given stock and returns its ID.
func (f *fixture) seedProduct(t *testing.T, slug string, stock int) int64 {
	t.Helper()
	return f.store.AddProduct(entity.Product{Name: slug, Slug: slug, StockQuantity: stock})
}

func (f *fixture) productBySlug(t *testing.T, slug string) entity.Product {
	t.Helper()
	products, err := f.store.Products().FindAll(context.Background())
	require.NoError(t, err)
	for _, p := range products {
		if p.Slug == slug {
			return p
		}
	}
	t.Fatalf("product %s not found", slug)
	return entity.Product{}
}

func (f *fixture) stockOf(t *testing.T, slug string) int {
	t.Helper()
	return f.productBySlug(t, slug).StockQuantity
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validOrderRequest(items ...OrderItemRequest) CreateOrderRequest {
	return CreateOrderRequest{
		CustomerName:      "Ann Lee",
		CustomerEmail:     "ann@example.com",
		CustomerPhone:     "+15550100",
		AddressStreet:     "Main St 1",
		AddressCity:       "Springfield",
		AddressPostalCode: "12345",
		AddressCountry:    "US",
		Subtotal:          dec("30"),
		TotalAmount:       dec("30"),
		Items:             items,
	}
}

func productItem(productID int64, qty int) OrderItemRequest {
	return OrderItemRequest{
		ProductID:   &productID,
		ProductName: "Item",
		UnitPrice:   decimal.RequireFromString("10"),
		Quantity:    qty,
	}
}

// failingItemsStore makes CreateItems fail inside any transaction.
type failingItemsStore struct {
	repository.Store
}

type failingOrders struct {
	repository.OrderRepository
}

var errItemsInsert = errors.New("insert order_items: connection reset")

func (failingOrders) CreateItems(context.Context, int64, []entity.OrderItem) ([]entity.OrderItem, error) {
	return nil, errItemsInsert
}

func (s failingItemsStore) Orders() repository.OrderRepository {
	return failingOrders{s.Store.Orders()}
}

func (s failingItemsStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		return fn(ctx, failingItemsStore{tx})
	})
}
