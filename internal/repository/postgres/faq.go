package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

type faqRepository struct {
	q queryer
}

func (r *faqRepository) FindAll(ctx context.Context, publishedOnly bool) ([]entity.FAQ, error) {
	query := "SELECT id, question, answer, is_published, sort_order, created_at, updated_at FROM faqs"
	if publishedOnly {
		query += " WHERE is_published = TRUE"
	}
	query += " ORDER BY sort_order, created_at"

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	faqs := []entity.FAQ{}
	for rows.Next() {
		var f entity.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.IsPublished, &f.SortOrder, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

func (r *faqRepository) Create(ctx context.Context, f *entity.FAQ) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO faqs (question, answer, is_published, sort_order)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		f.Question, f.Answer, f.IsPublished, f.SortOrder,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert faq: %w", err)
	}
	return nil
}

func (r *faqRepository) Update(ctx context.Context, f *entity.FAQ) error {
	err := r.q.QueryRowContext(ctx,
		`UPDATE faqs SET question = $1, answer = $2, is_published = $3, sort_order = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		f.Question, f.Answer, f.IsPublished, f.SortOrder, f.ID,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update faq: %w", err)
	}
	return nil
}

func (r *faqRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM faqs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
