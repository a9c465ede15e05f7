package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/messaging"
	"github.com/egannguyen/storefront-backend/internal/notification"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

const defaultSideEffectTimeout = 10 * time.Second

// OrderService orchestrates order creation and status transitions.
type OrderService struct {
	store     repository.Store
	notifier  notification.Notifier
	publisher messaging.Publisher
	log       *zap.Logger

	now               func() time.Time
	sideEffectTimeout time.Duration
}

// OrderOption configures an OrderService.
type OrderOption func(*OrderService)

// WithClock replaces time.Now for order numbers and codes.
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

// WithSideEffectTimeout bounds each email send and event publish.
func WithSideEffectTimeout(d time.Duration) OrderOption {
	return func(s *OrderService) { s.sideEffectTimeout = d }
}

func NewOrderService(
	store repository.Store,
	notifier notification.Notifier,
	publisher messaging.Publisher,
	log *zap.Logger,
	opts ...OrderOption,
) *OrderService {
	s := &OrderService{
		store:             store,
		notifier:          notifier,
		publisher:         publisher,
		log:               log,
		now:               time.Now,
		sideEffectTimeout: defaultSideEffectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrderRequest is the checkout payload. Fields are declared in the
// order they are validated.
type CreateOrderRequest struct {
	CustomerName      string             `json:"customer_name" validate:"required"`
	CustomerEmail     string             `json:"customer_email" validate:"required"`
	CustomerPhone     string             `json:"customer_phone" validate:"required"`
	AddressStreet     string             `json:"address_street" validate:"required"`
	AddressHouse      string             `json:"address_house"`
	AddressApartment  string             `json:"address_apartment"`
	AddressCity       string             `json:"address_city" validate:"required"`
	AddressRegion     string             `json:"address_region"`
	AddressPostalCode string             `json:"address_postal_code" validate:"required"`
	AddressCountry    string             `json:"address_country" validate:"required"`
	Subtotal          *decimal.Decimal   `json:"subtotal" validate:"required"`
	ShippingFee       *decimal.Decimal   `json:"shipping_fee"`
	TaxAmount         *decimal.Decimal   `json:"tax_amount"`
	DiscountAmount    *decimal.Decimal   `json:"discount_amount"`
	TotalAmount       *decimal.Decimal   `json:"total_amount" validate:"required"`
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,dive"`

	CustomerID  *int64          `json:"customer_id"`
	OrderNumber LooseString     `json:"order_number"`
	OrderCode   string          `json:"order_code"`
	Status      string          `json:"status"`
	Payment     *PaymentRequest `json:"payment"`
}

// OrderItemRequest is one checkout line. TotalPrice defaults to
// UnitPrice * Quantity.
type OrderItemRequest struct {
	ProductID   *int64           `json:"product_id" validate:"required_without=VariantID"`
	VariantID   *int64           `json:"variant_id"`
	ProductName string           `json:"product_name"`
	VariantName string           `json:"variant_name"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	TotalPrice  *decimal.Decimal `json:"total_price"`
}

// PaymentRequest records how the order will be paid. A payment row is only
// written when Method is set.
type PaymentRequest struct {
	Method        string           `json:"method"`
	Status        string           `json:"status"`
	TransactionID string           `json:"transaction_id"`
	Amount        *decimal.Decimal `json:"amount"`
}

// CreateOrderResult is what CreateOrder persisted.
type CreateOrderResult struct {
	Order   *entity.Order      `json:"order"`
	Items   []entity.OrderItem `json:"items"`
	Payment *entity.Payment    `json:"payment"`
}

var createOrderMessages = map[string]string{
	"items":      "Order items are required",
	"product_id": "Each item needs a product_id or variant_id",
	"quantity":   "Item quantity must be greater than zero",
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// CreateOrder validates the payload, resolves the customer and writes the
// order, its items, the optional payment and the first history row in one
// transaction. Stock is not touched. Email and event delivery happen after
// commit and never fail the call.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if err := validateRequest(&req, createOrderMessages); err != nil {
		return nil, err
	}

	orderNumber, err := s.orderNumber(req.OrderNumber)
	if err != nil {
		return nil, err
	}
	orderCode := strings.TrimSpace(req.OrderCode)
	if orderCode == "" {
		orderCode = entity.FormatOrderCode(s.now(), orderNumber)
	}

	customer, err := ensureCustomer(ctx, s.store.Customers(), req.CustomerName, req.CustomerEmail, req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	customerID := req.CustomerID
	if customerID == nil && customer != nil {
		customerID = &customer.ID
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = entity.StatusPending
	}

	order := &entity.Order{
		OrderNumber:       orderNumber,
		OrderCode:         orderCode,
		CustomerID:        customerID,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		AddressStreet:     req.AddressStreet,
		AddressHouse:      optional(req.AddressHouse),
		AddressApartment:  optional(req.AddressApartment),
		AddressCity:       req.AddressCity,
		AddressRegion:     optional(req.AddressRegion),
		AddressPostalCode: req.AddressPostalCode,
		AddressCountry:    req.AddressCountry,
		Subtotal:          *req.Subtotal,
		ShippingFee:       decimalOrZero(req.ShippingFee),
		TaxAmount:         decimalOrZero(req.TaxAmount),
		DiscountAmount:    decimalOrZero(req.DiscountAmount),
		TotalAmount:       *req.TotalAmount,
		Status:            status,
		ReservationState:  entity.ReservationUnreserved,
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		total := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if it.TotalPrice != nil {
			total = *it.TotalPrice
		}
		items = append(items, entity.OrderItem{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			ProductName: it.ProductName,
			VariantName: optional(it.VariantName),
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			TotalPrice:  total,
		})
	}

	result := &CreateOrderResult{Order: order}
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		created, err := tx.Orders().CreateItems(ctx, order.ID, items)
		if err != nil {
			return err
		}
		result.Items = created

		if req.Payment != nil && strings.TrimSpace(req.Payment.Method) != "" {
			payment := &entity.Payment{
				OrderID:       order.ID,
				Method:        req.Payment.Method,
				Status:        req.Payment.Status,
				TransactionID: optional(req.Payment.TransactionID),
				Amount:        order.TotalAmount,
			}
			if payment.Status == "" {
				payment.Status = entity.StatusPending
			}
			if req.Payment.Amount != nil {
				payment.Amount = *req.Payment.Amount
			}
			if err := tx.Payments().Create(ctx, payment); err != nil {
				return err
			}
			result.Payment = payment
		}

		return tx.Orders().AppendHistory(ctx, &entity.StatusHistory{
			OrderID: order.ID,
			Status:  order.Status,
			Note:    "Order created",
		})
	})
	if err != nil {
		return nil, apperror.FromBackend(err)
	}

	s.log.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_code", order.OrderCode),
		zap.Int("items", len(result.Items)),
	)

	s.withSideEffectTimeout(ctx, func(ctx context.Context) {
		if err := s.notifier.OrderConfirmation(ctx, order, result.Items, result.Payment); err != nil {
			s.log.Error("Failed to send order confirmation email", zap.String("order_code", order.OrderCode), zap.Error(apperror.Notification(err)))
		}
	})
	s.publish(ctx, messaging.TopicOrderCreated, order.ID, entity.OrderCreated{
		OrderID:       order.ID,
		OrderCode:     order.OrderCode,
		CustomerID:    order.CustomerID,
		CustomerEmail: order.CustomerEmail,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		ItemCount:     len(result.Items),
		CreatedAt:     order.CreatedAt,
	})

	return result, nil
}

func (s *OrderService) orderNumber(raw LooseString) (int64, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return entity.GenerateOrderNumber(s.now()), nil
	}
	n, err := entity.ParseOrderNumber(string(raw))
	if err != nil {
		return 0, apperror.Validation("order_number must contain digits")
	}
	return n, nil
}

// ListOrders returns matching orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter entity.OrderFilter) ([]entity.OrderSummary, error) {
	orders, err := s.store.Orders().Find(ctx, filter)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	return orders, nil
}

// GetOrder returns the order with its items, payments and history.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*entity.OrderDetail, error) {
	order, err := s.store.Orders().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Order not found")
	}
	if err != nil {
		return nil, apperror.FromBackend(err)
	}

	items, err := s.store.Orders().FindItems(ctx, id)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	payments, err := s.store.Payments().Find(ctx, &id)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	// Payments are shown in insertion order on the detail view.
	for i, j := 0, len(payments)-1; i < j; i, j = i+1, j-1 {
		payments[i], payments[j] = payments[j], payments[i]
	}
	history, err := s.store.Orders().FindHistory(ctx, id)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}

	return &entity.OrderDetail{Order: *order, Items: items, Payments: payments, StatusHistory: history}, nil
}

// UpdateOrderStatus stores status, reserves or releases stock as the order's
// reservation state requires, and appends a history row, all in one
// transaction with the order row locked.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status, note string) (*entity.Order, error) {
	if strings.TrimSpace(status) == "" {
		return nil, apperror.Validation("Status is required")
	}
	if strings.TrimSpace(note) == "" {
		note = "Status updated"
	}

	var (
		updated  *entity.Order
		previous string
		mode     entity.StockMode
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		current, err := tx.Orders().FindByIDForUpdate(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Order not found")
		}
		if err != nil {
			return err
		}
		previous = current.Status
		if current.ReservationState != "" && !current.ReservationState.Valid() {
			return apperror.Backend(fmt.Errorf("order %d has unknown reservation state %q", id, current.ReservationState))
		}

		var next entity.ReservationState
		next, mode = current.ReservationState.Next(status)
		if mode != entity.StockNone {
			items, err := tx.Orders().FindItems(ctx, id)
			if err != nil {
				return err
			}
			if err := adjustStock(ctx, tx.Products(), items, mode); err != nil {
				return err
			}
		}

		updated, err = tx.Orders().UpdateStatus(ctx, id, status, next)
		if err != nil {
			return err
		}

		return tx.Orders().AppendHistory(ctx, &entity.StatusHistory{OrderID: id, Status: status, Note: note})
	})
	if err != nil {
		return nil, apperror.FromBackend(err)
	}

	s.log.Info("Order status updated",
		zap.Int64("order_id", id),
		zap.String("from", previous),
		zap.String("to", updated.Status),
		zap.String("stock_mode", string(mode)),
	)

	s.publish(ctx, messaging.TopicOrderStatusChanged, id, entity.OrderStatusChanged{
		OrderID:          id,
		PreviousStatus:   previous,
		Status:           updated.Status,
		ReservationState: updated.ReservationState,
		StockMode:        mode,
		ChangedAt:        updated.UpdatedAt,
	})
	if mode == entity.StockRelease && entity.NormalizeStatus(status) == entity.StatusCancelled {
		s.withSideEffectTimeout(ctx, func(ctx context.Context) {
			if err := s.notifier.OrderCancelled(ctx, updated); err != nil {
				s.log.Error("Failed to send cancellation email", zap.String("order_code", updated.OrderCode), zap.Error(apperror.Notification(err)))
			}
		})
	}

	return updated, nil
}

// withSideEffectTimeout runs fn detached from the caller's cancellation but
// bounded by the side effect timeout.
func (s *OrderService) withSideEffectTimeout(ctx context.Context, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
	defer cancel()
	fn(ctx)
}

func (s *OrderService) publish(ctx context.Context, topic string, orderID int64, event entity.Event) {
	s.withSideEffectTimeout(ctx, func(ctx context.Context) {
		if err := s.publisher.PublishEvent(ctx, topic, strconv.FormatInt(orderID, 10), event); err != nil {
			s.log.Warn("Failed to publish event", zap.String("topic", topic), zap.String("event", event.EventType()), zap.Error(err))
		}
	})
}
