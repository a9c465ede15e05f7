package postgres

import (
	"context"
	"fmt"

	"github.com/egannguyen/storefront-backend/internal/entity"
)

type paymentRepository struct {
	q queryer
}

func (r *paymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO payments (order_id, method, status, transaction_id, amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.OrderID, p.Method, p.Status, p.TransactionID, p.Amount,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Find(ctx context.Context, orderID *int64) ([]entity.Payment, error) {
	query := "SELECT id, order_id, method, status, transaction_id, amount, created_at FROM payments"
	var args []any
	if orderID != nil {
		query += " WHERE order_id = $1"
		args = append(args, *orderID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []entity.Payment{}
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Method, &p.Status, &p.TransactionID, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
