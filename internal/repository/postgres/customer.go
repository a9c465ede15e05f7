package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

type customerRepository struct {
	q queryer
}

const customerColumns = "id, auth_user_id, full_name, email, phone, created_at, updated_at"

func scanCustomer(row interface{ Scan(...any) error }) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(&c.ID, &c.AuthUserID, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) FindByContact(ctx context.Context, email, phone string) (*entity.Customer, error) {
	if email == "" && phone == "" {
		return nil, repository.ErrNotFound
	}
	row := r.q.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE ($1 <> '' AND email = $1) OR ($2 <> '' AND phone = $2) ORDER BY id LIMIT 1",
		email, phone,
	)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by contact: %w", err)
	}
	return c, nil
}

func (r *customerRepository) FindByAuthUserID(ctx context.Context, authUserID string) (*entity.Customer, error) {
	row := r.q.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE auth_user_id = $1",
		authUserID,
	)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by auth user: %w", err)
	}
	return c, nil
}

func (r *customerRepository) FindAll(ctx context.Context) ([]entity.Customer, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []entity.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *customerRepository) Create(ctx context.Context, c *entity.Customer) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO customers (auth_user_id, full_name, email, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.AuthUserID, c.FullName, c.Email, c.Phone,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, c *entity.Customer) error {
	err := r.q.QueryRowContext(ctx,
		`UPDATE customers SET auth_user_id = $1, full_name = $2, email = $3, phone = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING updated_at`,
		c.AuthUserID, c.FullName, c.Email, c.Phone, c.ID,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
