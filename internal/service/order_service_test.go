package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/messaging"
)

func TestCreateOrder_ValidationMessages(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "mug", 5)

	tests := []struct {
		name   string
		mutate func(*CreateOrderRequest)
		want   string
	}{
		{"customer name", func(r *CreateOrderRequest) { r.CustomerName = "" }, "Missing required field: customer_name"},
		{"first missing field wins", func(r *CreateOrderRequest) { r.CustomerPhone = ""; r.AddressCity = "" }, "Missing required field: customer_phone"},
		{"postal code", func(r *CreateOrderRequest) { r.AddressPostalCode = "" }, "Missing required field: address_postal_code"},
		{"subtotal", func(r *CreateOrderRequest) { r.Subtotal = nil }, "Missing required field: subtotal"},
		{"total", func(r *CreateOrderRequest) { r.TotalAmount = nil }, "Missing required field: total_amount"},
		{"missing items", func(r *CreateOrderRequest) { r.Items = nil }, "Order items are required"},
		{"empty items", func(r *CreateOrderRequest) { r.Items = []OrderItemRequest{} }, "Order items are required"},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }, "Item quantity must be greater than zero"},
		{"negative quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = -3 }, "Item quantity must be greater than zero"},
		{"item without ids", func(r *CreateOrderRequest) { r.Items[0].ProductID = nil }, "Each item needs a product_id or variant_id"},
		{"bad second item", func(r *CreateOrderRequest) { r.Items = append(r.Items, productItem(pid, -1)) }, "Item quantity must be greater than zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderRequest(productItem(pid, 1))
			tt.mutate(&req)

			_, err := f.orders.CreateOrder(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
			assert.Equal(t, tt.want, err.Error())
		})
	}

	orders, _ := f.orders.ListOrders(context.Background(), entity.OrderFilter{})
	assert.Empty(t, orders, "validation failures write nothing")
	customers, _ := f.store.Customers().FindAll(context.Background())
	assert.Empty(t, customers)
}

func TestCreateOrder_VariantOnlyItemIsValid(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "mug", 5)
	vid := f.store.AddVariant(pid, "Large", 2)

	req := validOrderRequest(OrderItemRequest{VariantID: &vid, ProductName: "Mug", UnitPrice: decimal.RequireFromString("10"), Quantity: 1})
	res, err := f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Nil(t, res.Items[0].ProductID)
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "mug", 5)

	res, err := f.orders.CreateOrder(context.Background(), validOrderRequest(productItem(pid, 3)))
	require.NoError(t, err)

	order := res.Order
	wantNumber := entity.GenerateOrderNumber(fixedNow)
	assert.Equal(t, wantNumber, order.OrderNumber)
	assert.Equal(t, fmt.Sprintf("ORD-20260307-%06d", wantNumber%1000000), order.OrderCode)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.Equal(t, entity.ReservationUnreserved, order.ReservationState)
	assert.True(t, order.ShippingFee.IsZero())
	require.NotNil(t, order.CustomerID)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "30", res.Items[0].TotalPrice.String(), "total defaults to unit price times quantity")
	assert.Nil(t, res.Payment)

	assert.Equal(t, 5, f.stockOf(t, "mug"), "creation does not touch stock")

	detail, err := f.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, detail.StatusHistory, 1)
	assert.Equal(t, "Order created", detail.StatusHistory[0].Note)
	assert.Equal(t, entity.StatusPending, detail.StatusHistory[0].Status)

	assert.Equal(t, []string{order.OrderCode}, f.notifier.confirmed)
	assert.Equal(t, []string{messaging.TopicOrderCreated}, f.publisher.topics)
}

func TestCreateOrder_SuppliedNumberCodeAndPayment(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "mug", 5)
	customerID := int64(777)

	req := validOrderRequest(productItem(pid, 1))
	req.OrderNumber = "1234567890"
	req.CustomerID = &customerID
	req.Status = "confirmed"
	req.Payment = &PaymentRequest{Method: "card", TransactionID: "tx_1"}

	res, err := f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(34567890), res.Order.OrderNumber)
	assert.Equal(t, "ORD-20260307-567890", res.Order.OrderCode)
	assert.Equal(t, customerID, *res.Order.CustomerID)
	assert.Equal(t, entity.ReservationUnreserved, res.Order.ReservationState)

	require.NotNil(t, res.Payment)
	assert.Equal(t, "pending", res.Payment.Status)
	assert.Equal(t, "30", res.Payment.Amount.String(), "amount defaults to order total")
	assert.Equal(t, "tx_1", *res.Payment.TransactionID)

	req.OrderNumber = ""
	req.OrderCode = "CUSTOM-1"
	req.Payment = &PaymentRequest{Status: "paid"}
	res, err = f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-1", res.Order.OrderCode)
	assert.Nil(t, res.Payment, "payment without method is not recorded")
}

func TestCreateOrder_NotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.notifier.confirmErr = errors.New("smtp down")
	f.publisher.err = errors.New("broker down")
	pid := f.seedProduct(t, "mug", 5)

	res, err := f.orders.CreateOrder(context.Background(), validOrderRequest(productItem(pid, 1)))
	require.NoError(t, err)
	assert.NotZero(t, res.Order.ID)
	assert.Len(t, f.notifier.confirmed, 1)
}

func TestCreateOrder_RollsBackWhenItemsFail(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "mug", 5)
	svc := NewOrderService(failingItemsStore{f.store}, f.notifier, f.publisher, zap.NewNop())

	_, err := svc.CreateOrder(context.Background(), validOrderRequest(productItem(pid, 1)))
	require.Error(t, err)
	assert.ErrorIs(t, err, errItemsInsert)
	assert.True(t, apperror.Is(err, apperror.KindBackend))
	assert.True(t, strings.HasPrefix(err.Error(), "Database error: "))

	orders, err := f.orders.ListOrders(context.Background(), entity.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders, "no order without items")
	assert.Empty(t, f.notifier.confirmed)
	assert.Empty(t, f.publisher.topics)
}

func TestCreateOrder_ReusesExistingCustomer(t *testing.T) {
	f := newFixture(t)
	pid := f.seedProduct(t, "mug", 5)

	first, err := f.orders.CreateOrder(context.Background(), validOrderRequest(productItem(pid, 1)))
	require.NoError(t, err)

	req := validOrderRequest(productItem(pid, 1))
	req.CustomerEmail = "other@example.com"
	second, err := f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, *first.Order.CustomerID, *second.Order.CustomerID, "matched on phone")
	customers, _ := f.store.Customers().FindAll(context.Background())
	assert.Len(t, customers, 1)
}

func TestUpdateOrderStatus_ReserveAndReleaseLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 5)

	res, err := f.orders.CreateOrder(ctx, validOrderRequest(productItem(pid, 3)))
	require.NoError(t, err)
	id := res.Order.ID

	steps := []struct {
		status    string
		wantStock int
		wantState entity.ReservationState
	}{
		{"confirmed", 2, entity.ReservationReserved},
		{"confirmed", 2, entity.ReservationReserved},
		{"cancelled", 5, entity.ReservationReleased},
		{"cancelled", 5, entity.ReservationReleased},
		{"confirmed", 2, entity.ReservationReserved},
		{"refunded", 5, entity.ReservationReleased},
	}
	for i, step := range steps {
		order, err := f.orders.UpdateOrderStatus(ctx, id, step.status, "")
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.status, order.Status, "step %d", i)
		assert.Equal(t, step.wantState, order.ReservationState, "step %d", i)
		assert.Equal(t, step.wantStock, f.stockOf(t, "mug"), "step %d", i)
	}

	detail, err := f.orders.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Len(t, detail.StatusHistory, len(steps)+1)
	assert.Equal(t, "Status updated", detail.StatusHistory[1].Note)
	assert.True(t, f.productBySlug(t, "mug").InStock)

	assert.Len(t, f.notifier.cancelled, 1, "only the releasing cancellation emails")
}

func TestUpdateOrderStatus_CancelWithoutReservationKeepsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 5)

	res, err := f.orders.CreateOrder(ctx, validOrderRequest(productItem(pid, 3)))
	require.NoError(t, err)

	order, err := f.orders.UpdateOrderStatus(ctx, res.Order.ID, "cancelled", "customer asked")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationUnreserved, order.ReservationState)
	assert.Equal(t, 5, f.stockOf(t, "mug"))
	assert.Empty(t, f.notifier.cancelled)

	detail, _ := f.orders.GetOrder(ctx, res.Order.ID)
	assert.Equal(t, "customer asked", detail.StatusHistory[1].Note)
}

func TestUpdateOrderStatus_ShippedThenCancelledReleases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 5)

	res, err := f.orders.CreateOrder(ctx, validOrderRequest(productItem(pid, 2)))
	require.NoError(t, err)
	id := res.Order.ID

	for _, status := range []string{"confirmed", "shipped"} {
		_, err := f.orders.UpdateOrderStatus(ctx, id, status, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.stockOf(t, "mug"))

	_, err = f.orders.UpdateOrderStatus(ctx, id, "shipped", "")
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, id, "confirmed", "")
	require.NoError(t, err)
	assert.Equal(t, 3, f.stockOf(t, "mug"), "re-confirm after shipping does not reserve twice")

	order, err := f.orders.UpdateOrderStatus(ctx, id, "Cancelled", "")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationReleased, order.ReservationState)
	assert.Equal(t, 5, f.stockOf(t, "mug"))
}

func TestUpdateOrderStatus_VariantStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "shirt", 10)
	vid := f.store.AddVariant(pid, "Large", 4)

	item := productItem(pid, 3)
	item.VariantID = &vid
	res, err := f.orders.CreateOrder(ctx, validOrderRequest(item))
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderStatus(ctx, res.Order.ID, "confirmed", "")
	require.NoError(t, err)

	v, ok := f.store.Variant(vid)
	require.True(t, ok)
	assert.Equal(t, 1, v.StockQuantity)
	assert.Equal(t, 10, f.stockOf(t, "shirt"), "variant items leave the product row alone")
}

func TestUpdateOrderStatus_MissingProductRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 5)

	res, err := f.orders.CreateOrder(ctx, validOrderRequest(productItem(pid, 2), productItem(9999, 1)))
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderStatus(ctx, res.Order.ID, "confirmed", "")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "Product not found", err.Error())

	assert.Equal(t, 5, f.stockOf(t, "mug"), "earlier adjustment in the batch is undone")
	detail, _ := f.orders.GetOrder(ctx, res.Order.ID)
	assert.Equal(t, entity.StatusPending, detail.Status)
	assert.Equal(t, entity.ReservationUnreserved, detail.ReservationState)
	assert.Len(t, detail.StatusHistory, 1)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.UpdateOrderStatus(context.Background(), 404, "confirmed", "")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "Order not found", err.Error())

	_, err = f.orders.UpdateOrderStatus(context.Background(), 1, "  ", "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "Status is required", err.Error())
}

func TestUpdateOrderStatus_UnknownReservationStateIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 5)

	order := &entity.Order{OrderCode: "ORD-LEGACY", Status: entity.StatusPending, ReservationState: "held"}
	require.NoError(t, f.store.Orders().Create(ctx, order))
	_, err := f.store.Orders().CreateItems(ctx, order.ID, []entity.OrderItem{{ProductID: &pid, Quantity: 2}})
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, "confirmed", "")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindBackend))
	assert.Contains(t, err.Error(), `unknown reservation state "held"`)

	assert.Equal(t, 5, f.stockOf(t, "mug"), "stock untouched")
	stored, err := f.store.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
}

func TestUpdateOrderStatus_ConcurrentConfirmationsNeverGoNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 4)

	var ids []int64
	for i := 0; i < 2; i++ {
		res, err := f.orders.CreateOrder(ctx, validOrderRequest(productItem(pid, 3)))
		require.NoError(t, err)
		ids = append(ids, res.Order.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := f.orders.UpdateOrderStatus(ctx, id, "confirmed", "")
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 0, f.stockOf(t, "mug"))
	assert.False(t, f.productBySlug(t, "mug").InStock)
}

func TestGetOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.GetOrder(context.Background(), 12)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "Order not found", err.Error())
}

func TestListOrders_FiltersAndAnnotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.seedProduct(t, "mug", 50)

	req := validOrderRequest(productItem(pid, 2), productItem(pid, 3))
	req.Payment = &PaymentRequest{Method: "cod", Status: "awaiting"}
	first, err := f.orders.CreateOrder(ctx, req)
	require.NoError(t, err)

	other := validOrderRequest(productItem(pid, 1))
	other.CustomerEmail, other.CustomerPhone = "bob@example.com", "+15550199"
	_, err = f.orders.CreateOrder(ctx, other)
	require.NoError(t, err)

	all, err := f.orders.ListOrders(ctx, entity.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.orders.ListOrders(ctx, entity.OrderFilter{Email: "ann@example.com"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.Order.ID, mine[0].ID)
	assert.Equal(t, 5, mine[0].ItemsCount)
	require.NotNil(t, mine[0].PaymentStatus)
	assert.Equal(t, "awaiting", *mine[0].PaymentStatus)

	byCustomer, err := f.orders.ListOrders(ctx, entity.OrderFilter{CustomerID: first.Order.CustomerID, Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)
}

func TestWithSideEffectTimeout_DetachesFromCaller(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var deadline time.Time
	f.orders.withSideEffectTimeout(ctx, func(ctx context.Context) {
		assert.NoError(t, ctx.Err())
		deadline, _ = ctx.Deadline()
	})
	assert.False(t, deadline.IsZero())
}
