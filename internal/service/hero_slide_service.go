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

const heroSlideCacheKey = "hero_slides:all"

// HeroSlideService manages homepage banner slides. The list is cached like
// FAQs.
type HeroSlideService struct {
	store repository.Store
	lists listCache
}

func NewHeroSlideService(store repository.Store, c cache.Cache, ttl time.Duration, log *zap.Logger) *HeroSlideService {
	return &HeroSlideService{store: store, lists: listCache{cache: c, ttl: ttl, log: log}}
}

// HeroSlideRequest creates or replaces a slide.
type HeroSlideRequest struct {
	ImageURL       string `json:"imageUrl" validate:"required"`
	MobileImageURL string `json:"mobileImageUrl"`
}

var heroSlideMessages = map[string]string{"imageUrl": "Image URL is required"}

func (s *HeroSlideService) ListHeroSlides(ctx context.Context) ([]entity.HeroSlide, error) {
	return cachedList(ctx, s.lists, heroSlideCacheKey, s.store.HeroSlides().FindAll)
}

func (s *HeroSlideService) GetHeroSlide(ctx context.Context, id int64) (*entity.HeroSlide, error) {
	h, err := s.store.HeroSlides().FindByID(ctx, id)
	if err != nil {
		return nil, heroSlideError(err)
	}
	return h, nil
}

func (s *HeroSlideService) CreateHeroSlide(ctx context.Context, req HeroSlideRequest) (*entity.HeroSlide, error) {
	h, err := toHeroSlide(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.HeroSlides().Create(ctx, h); err != nil {
		return nil, apperror.FromBackend(err)
	}
	s.lists.invalidate(ctx, heroSlideCacheKey)
	return h, nil
}

func (s *HeroSlideService) UpdateHeroSlide(ctx context.Context, id int64, req HeroSlideRequest) (*entity.HeroSlide, error) {
	h, err := toHeroSlide(req)
	if err != nil {
		return nil, err
	}
	h.ID = id
	if err := s.store.HeroSlides().Update(ctx, h); err != nil {
		return nil, heroSlideError(err)
	}
	s.lists.invalidate(ctx, heroSlideCacheKey)
	return h, nil
}

func (s *HeroSlideService) DeleteHeroSlide(ctx context.Context, id int64) error {
	if err := s.store.HeroSlides().Delete(ctx, id); err != nil {
		return heroSlideError(err)
	}
	s.lists.invalidate(ctx, heroSlideCacheKey)
	return nil
}

func toHeroSlide(req HeroSlideRequest) (*entity.HeroSlide, error) {
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := validateRequest(&req, heroSlideMessages); err != nil {
		return nil, err
	}
	return &entity.HeroSlide{ImageURL: req.ImageURL, MobileImageURL: optional(req.MobileImageURL)}, nil
}

func heroSlideError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Hero slide not found")
	}
	return apperror.FromBackend(err)
}
