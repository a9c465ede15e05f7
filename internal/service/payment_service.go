package service

import (
	"context"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

// PaymentService lists recorded payments. Nothing is charged here.
type PaymentService struct {
	store repository.Store
}

func NewPaymentService(store repository.Store) *PaymentService {
	return &PaymentService{store: store}
}

// ListPayments returns payments newest first, for one order when orderID is set.
func (s *PaymentService) ListPayments(ctx context.Context, orderID *int64) ([]entity.Payment, error) {
	payments, err := s.store.Payments().Find(ctx, orderID)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	return payments, nil
}
