package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/egannguyen/storefront-backend/internal/repository"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type store struct {
	db   *sql.DB
	q    queryer
	inTx bool
}

// NewStore creates a repository.Store backed by Postgres.
func NewStore(db *sql.DB) repository.Store {
	return &store{db: db, q: db}
}

func (s *store) Customers() repository.CustomerRepository   { return &customerRepository{q: s.q} }
func (s *store) Orders() repository.OrderRepository         { return &orderRepository{q: s.q} }
func (s *store) Payments() repository.PaymentRepository     { return &paymentRepository{q: s.q} }
func (s *store) Products() repository.ProductRepository     { return &productRepository{q: s.q} }
func (s *store) FAQs() repository.FAQRepository             { return &faqRepository{q: s.q} }
func (s *store) HeroSlides() repository.HeroSlideRepository { return &heroSlideRepository{q: s.q} }
func (s *store) Trends() repository.TrendRepository         { return &trendRepository{q: s.q} }

func (s *store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, &store{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
