package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/apperror"
	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/repository"
)

// CustomerService resolves and maintains customer records.
type CustomerService struct {
	store repository.Store
	log   *zap.Logger
}

func NewCustomerService(store repository.Store, log *zap.Logger) *CustomerService {
	return &CustomerService{store: store, log: log}
}

// UpsertCustomerRequest is the payload of a customer profile upsert. Name is
// accepted as an alias of full_name.
type UpsertCustomerRequest struct {
	AuthUserID string `json:"auth_user_id"`
	FullName   string `json:"full_name"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// EnsureCustomer returns the customer matching email or phone, creating one
// from the supplied fields when nothing matches. It returns nil when neither
// email nor phone is given.
//
// Two concurrent calls for the same new contact can both insert.
func (s *CustomerService) EnsureCustomer(ctx context.Context, name, email, phone string) (*entity.Customer, error) {
	return ensureCustomer(ctx, s.store.Customers(), name, email, phone)
}

func ensureCustomer(ctx context.Context, repo repository.CustomerRepository, name, email, phone string) (*entity.Customer, error) {
	email, phone = strings.TrimSpace(email), strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, nil
	}

	existing, err := repo.FindByContact(ctx, email, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.FromBackend(err)
	}

	c := &entity.Customer{FullName: optional(name), Email: optional(email), Phone: optional(phone)}
	if err := repo.Create(ctx, c); err != nil {
		return nil, apperror.FromBackend(err)
	}
	return c, nil
}

// UpsertCustomer matches on auth_user_id first, then email or phone. A match
// is updated with the supplied fields only; otherwise a customer is created.
func (s *CustomerService) UpsertCustomer(ctx context.Context, req UpsertCustomerRequest) (*entity.Customer, error) {
	authUserID, email, phone := optional(req.AuthUserID), optional(req.Email), optional(req.Phone)
	fullName := optional(req.FullName)
	if fullName == nil {
		fullName = optional(req.Name)
	}
	if authUserID == nil && email == nil && phone == nil {
		return nil, apperror.Validation("auth_user_id, email, or phone is required")
	}

	var result *entity.Customer
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		repo := tx.Customers()

		existing, err := s.findForUpsert(ctx, repo, authUserID, email, phone)
		if err != nil {
			return err
		}

		if existing == nil {
			c := &entity.Customer{AuthUserID: authUserID, FullName: fullName, Email: email, Phone: phone}
			if err := repo.Create(ctx, c); err != nil {
				return err
			}
			result = c
			return nil
		}

		if authUserID != nil {
			existing.AuthUserID = authUserID
		}
		if fullName != nil {
			existing.FullName = fullName
		}
		if email != nil {
			existing.Email = email
		}
		if phone != nil {
			existing.Phone = phone
		}
		if err := repo.Update(ctx, existing); err != nil {
			return err
		}
		result = existing
		return nil
	})
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	return result, nil
}

func (s *CustomerService) findForUpsert(ctx context.Context, repo repository.CustomerRepository, authUserID, email, phone *string) (*entity.Customer, error) {
	if authUserID != nil {
		c, err := repo.FindByAuthUserID(ctx, *authUserID)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if email == nil && phone == nil {
		return nil, nil
	}

	var e, p string
	if email != nil {
		e = *email
	}
	if phone != nil {
		p = *phone
	}
	c, err := repo.FindByContact(ctx, e, p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// ListCustomers returns every customer, newest first.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	customers, err := s.store.Customers().FindAll(ctx)
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	return customers, nil
}

// GetCustomerByAuthUserID returns nil, nil when no customer is linked to the
// auth user.
func (s *CustomerService) GetCustomerByAuthUserID(ctx context.Context, authUserID string) (*entity.Customer, error) {
	if strings.TrimSpace(authUserID) == "" {
		return nil, apperror.Validation("authUserId is required")
	}
	c, err := s.store.Customers().FindByAuthUserID(ctx, authUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.FromBackend(err)
	}
	return c, nil
}
