package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

type orderRepository struct {
	q queryer
}

const orderColumns = `o.id, o.order_number, o.order_code, o.customer_id, o.customer_name, o.customer_email,
	o.customer_phone, o.address_street, o.address_house, o.address_apartment, o.address_city,
	o.address_region, o.address_postal_code, o.address_country, o.subtotal, o.shipping_fee,
	o.tax_amount, o.discount_amount, o.total_amount, o.status, o.reservation_state,
	o.created_at, o.updated_at`

func orderDest(o *entity.Order) []any {
	return []any{
		&o.ID, &o.OrderNumber, &o.OrderCode, &o.CustomerID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.AddressStreet, &o.AddressHouse, &o.AddressApartment, &o.AddressCity,
		&o.AddressRegion, &o.AddressPostalCode, &o.AddressCountry, &o.Subtotal, &o.ShippingFee,
		&o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.Status, &o.ReservationState,
		&o.CreatedAt, &o.UpdatedAt,
	}
}

func (r *orderRepository) Create(ctx context.Context, o *entity.Order) error {
	if o.ReservationState == "" {
		o.ReservationState = entity.ReservationUnreserved
	}
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO orders (
			order_number, order_code, customer_id, customer_name, customer_email, customer_phone,
			address_street, address_house, address_apartment, address_city, address_region,
			address_postal_code, address_country, subtotal, shipping_fee, tax_amount,
			discount_amount, total_amount, status, reservation_state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.OrderCode, o.CustomerID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.AddressStreet, o.AddressHouse, o.AddressApartment, o.AddressCity, o.AddressRegion,
		o.AddressPostalCode, o.AddressCountry, o.Subtotal, o.ShippingFee, o.TaxAmount,
		o.DiscountAmount, o.TotalAmount, o.Status, o.ReservationState,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) CreateItems(ctx context.Context, orderID int64, items []entity.OrderItem) ([]entity.OrderItem, error) {
	created := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = orderID
		err := r.q.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, variant_id, product_name, variant_name, unit_price, quantity, total_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id`,
			orderID, item.ProductID, item.VariantID, item.ProductName, item.VariantName,
			item.UnitPrice, item.Quantity, item.TotalPrice,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		created = append(created, item)
	}
	return created, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders o WHERE o.id = $1", id)
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders o WHERE o.id = $1 FOR UPDATE", id)
}

func (r *orderRepository) findOne(ctx context.Context, query string, id int64) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRowContext(ctx, query, id).Scan(orderDest(&o)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) Find(ctx context.Context, filter entity.OrderFilter) ([]entity.OrderSummary, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("o.status = $%d", filter.Status)
	}
	if filter.Email != "" {
		add("o.customer_email = $%d", filter.Email)
	}
	if filter.Phone != "" {
		add("o.customer_phone = $%d", filter.Phone)
	}
	if filter.CustomerID != nil {
		add("o.customer_id = $%d", *filter.CustomerID)
	}

	query := "SELECT " + orderColumns + `,
		COALESCE((SELECT SUM(i.quantity) FROM order_items i WHERE i.order_id = o.id), 0),
		(SELECT p.status FROM payments p WHERE p.order_id = o.id ORDER BY p.id LIMIT 1)
		FROM orders o`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []entity.OrderSummary{}
	for rows.Next() {
		var s entity.OrderSummary
		dest := append(orderDest(&s.Order), &s.ItemsCount, &s.PaymentStatus)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, s)
	}
	return orders, rows.Err()
}

func (r *orderRepository) FindItems(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, order_id, product_id, variant_id, product_name, variant_name, unit_price, quantity, total_price
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []entity.OrderItem{}
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.ProductName,
			&item.VariantName, &item.UnitPrice, &item.Quantity, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string, state entity.ReservationState) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRowContext(ctx,
		`UPDATE orders o SET status = $1, reservation_state = $2, updated_at = NOW()
		 WHERE o.id = $3
		 RETURNING `+orderColumns,
		status, state, id,
	).Scan(orderDest(&o)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) AppendHistory(ctx context.Context, h *entity.StatusHistory) error {
	err := r.q.QueryRowContext(ctx,
		"INSERT INTO order_status_history (order_id, status, note) VALUES ($1, $2, $3) RETURNING id, changed_at",
		h.OrderID, h.Status, h.Note,
	).Scan(&h.ID, &h.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	return nil
}

func (r *orderRepository) FindHistory(ctx context.Context, orderID int64) ([]entity.StatusHistory, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, order_id, status, note, changed_at FROM order_status_history WHERE order_id = $1 ORDER BY changed_at, id",
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	history := []entity.StatusHistory{}
	for rows.Next() {
		var h entity.StatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Note, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
