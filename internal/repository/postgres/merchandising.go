package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

type heroSlideRepository struct {
	q queryer
}

const heroSlideColumns = "id, image_url, mobile_image_url, created_at, updated_at"

func scanHeroSlide(row interface{ Scan(...any) error }, h *entity.HeroSlide) error {
	return row.Scan(&h.ID, &h.ImageURL, &h.MobileImageURL, &h.CreatedAt, &h.UpdatedAt)
}

func (r *heroSlideRepository) FindAll(ctx context.Context) ([]entity.HeroSlide, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+heroSlideColumns+" FROM hero_slides ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query hero slides: %w", err)
	}
	defer rows.Close()

	slides := []entity.HeroSlide{}
	for rows.Next() {
		var h entity.HeroSlide
		if err := scanHeroSlide(rows, &h); err != nil {
			return nil, fmt.Errorf("failed to scan hero slide: %w", err)
		}
		slides = append(slides, h)
	}
	return slides, rows.Err()
}

func (r *heroSlideRepository) FindByID(ctx context.Context, id int64) (*entity.HeroSlide, error) {
	var h entity.HeroSlide
	err := scanHeroSlide(r.q.QueryRowContext(ctx, "SELECT "+heroSlideColumns+" FROM hero_slides WHERE id = $1", id), &h)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hero slide: %w", err)
	}
	return &h, nil
}

func (r *heroSlideRepository) Create(ctx context.Context, h *entity.HeroSlide) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO hero_slides (image_url, mobile_image_url)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		h.ImageURL, h.MobileImageURL,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert hero slide: %w", err)
	}
	return nil
}

func (r *heroSlideRepository) Update(ctx context.Context, h *entity.HeroSlide) error {
	err := r.q.QueryRowContext(ctx,
		`UPDATE hero_slides SET image_url = $1, mobile_image_url = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING created_at, updated_at`,
		h.ImageURL, h.MobileImageURL, h.ID,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update hero slide: %w", err)
	}
	return nil
}

func (r *heroSlideRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.q, "hero_slides", id)
}

type trendRepository struct {
	q queryer
}

func (r *trendRepository) FindAll(ctx context.Context) ([]entity.Trend, error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, title, description, image_url, sort_order, created_at, updated_at FROM trends ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query trends: %w", err)
	}
	defer rows.Close()

	trends := []entity.Trend{}
	for rows.Next() {
		var t entity.Trend
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ImageURL, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

func (r *trendRepository) Create(ctx context.Context, t *entity.Trend) error {
	err := r.q.QueryRowContext(ctx,
		`INSERT INTO trends (title, description, image_url, sort_order)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.ImageURL, t.SortOrder,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trend: %w", err)
	}
	return nil
}

func (r *trendRepository) Update(ctx context.Context, t *entity.Trend) error {
	err := r.q.QueryRowContext(ctx,
		`UPDATE trends SET title = $1, description = $2, image_url = $3, sort_order = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		t.Title, t.Description, t.ImageURL, t.SortOrder, t.ID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update trend: %w", err)
	}
	return nil
}

func (r *trendRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.q, "trends", id)
}

// deleteByID removes one row from table, returning ErrNotFound if none matched.
func deleteByID(ctx context.Context, q queryer, table string, id int64) error {
	res, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
