package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/cache"
	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

const trendCacheKey = "trends:all"

// TrendService manages the trending cards shown on the storefront.
type TrendService struct {
	store repository.Store
	lists listCache
}

func NewTrendService(store repository.Store, c cache.Cache, ttl time.Duration, log *zap.Logger) *TrendService {
	return &TrendService{store: store, lists: listCache{cache: c, ttl: ttl, log: log}}
}

// TrendRequest creates or replaces a trend.
type TrendRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	SortOrder   int    `json:"sortOrder"`
}

var trendMessages = map[string]string{"title": "Title is required"}

func (s *TrendService) ListTrends(ctx context.Context) ([]entity.Trend, error) {
	return cachedList(ctx, s.lists, trendCacheKey, s.store.Trends().FindAll)
}

func (s *TrendService) CreateTrend(ctx context.Context, req TrendRequest) (*entity.Trend, error) {
	t, err := toTrend(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Trends().Create(ctx, t); err != nil {
		return nil, apperror.FromBackend(err)
	}
	s.lists.invalidate(ctx, trendCacheKey)
	return t, nil
}

func (s *TrendService) UpdateTrend(ctx context.Context, id int64, req TrendRequest) (*entity.Trend, error) {
	t, err := toTrend(req)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := s.store.Trends().Update(ctx, t); err != nil {
		return nil, trendError(err)
	}
	s.lists.invalidate(ctx, trendCacheKey)
	return t, nil
}

func (s *TrendService) DeleteTrend(ctx context.Context, id int64) error {
	if err := s.store.Trends().Delete(ctx, id); err != nil {
		return trendError(err)
	}
	s.lists.invalidate(ctx, trendCacheKey)
	return nil
}

func toTrend(req TrendRequest) (*entity.Trend, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validateRequest(&req, trendMessages); err != nil {
		return nil, err
	}
	return &entity.Trend{
		Title:       req.Title,
		Description: optional(req.Description),
		ImageURL:    optional(req.ImageURL),
		SortOrder:   req.SortOrder,
	}, nil
}

func trendError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Trend not found")
	}
	return apperror.FromBackend(err)
}
