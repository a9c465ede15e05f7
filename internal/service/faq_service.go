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

const faqCacheKey = "faqs:all"

// FAQService manages storefront FAQs. The full list is cached; writes
// invalidate it.
type FAQService struct {
	store repository.Store
	lists listCache
}

func NewFAQService(store repository.Store, c cache.Cache, ttl time.Duration, log *zap.Logger) *FAQService {
	return &FAQService{store: store, lists: listCache{cache: c, ttl: ttl, log: log}}
}

// FAQRequest creates or replaces an FAQ. IsPublished defaults to true.
type FAQRequest struct {
	Question    string `json:"question" validate:"required"`
	Answer      string `json:"answer" validate:"required"`
	IsPublished *bool  `json:"is_published"`
	SortOrder   int    `json:"sort_order"`
}

var faqMessages = map[string]string{
	"question": "Question and answer are required",
	"answer":   "Question and answer are required",
}

// ListFAQs serves the unfiltered list from cache. Published-only reads go to
// the store.
func (s *FAQService) ListFAQs(ctx context.Context, publishedOnly bool) ([]entity.FAQ, error) {
	if publishedOnly {
		faqs, err := s.store.FAQs().FindAll(ctx, true)
		if err != nil {
			return nil, apperror.FromBackend(err)
		}
		return faqs, nil
	}

	return cachedList(ctx, s.lists, faqCacheKey, func(ctx context.Context) ([]entity.FAQ, error) {
		return s.store.FAQs().FindAll(ctx, false)
	})
}

func (s *FAQService) CreateFAQ(ctx context.Context, req FAQRequest) (*entity.FAQ, error) {
	f, err := s.toFAQ(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.FAQs().Create(ctx, f); err != nil {
		return nil, apperror.FromBackend(err)
	}
	s.lists.invalidate(ctx, faqCacheKey)
	return f, nil
}

func (s *FAQService) UpdateFAQ(ctx context.Context, id int64, req FAQRequest) (*entity.FAQ, error) {
	f, err := s.toFAQ(req)
	if err != nil {
		return nil, err
	}
	f.ID = id
	if err := s.store.FAQs().Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("FAQ not found")
		}
		return nil, apperror.FromBackend(err)
	}
	s.lists.invalidate(ctx, faqCacheKey)
	return f, nil
}

func (s *FAQService) DeleteFAQ(ctx context.Context, id int64) error {
	if err := s.store.FAQs().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("FAQ not found")
		}
		return apperror.FromBackend(err)
	}
	s.lists.invalidate(ctx, faqCacheKey)
	return nil
}

func (s *FAQService) toFAQ(req FAQRequest) (*entity.FAQ, error) {
	req.Question, req.Answer = strings.TrimSpace(req.Question), strings.TrimSpace(req.Answer)
	if err := validateRequest(&req, faqMessages); err != nil {
		return nil, err
	}
	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}
	return &entity.FAQ{Question: req.Question, Answer: req.Answer, IsPublished: published, SortOrder: req.SortOrder}, nil
}
