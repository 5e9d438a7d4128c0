package customer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ritamendes/fornaria-backend/internal/apperr"
)

// Service defines customer business logic.
type Service interface {
	CreateCustomer(ctx context.Context, req UpsertCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context, search string) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, id string, req UpsertCustomerRequest) (*Customer, error)
	HasAnyOrder(ctx context.Context, customerID string) (bool, error)
}

type service struct{ repo Repository }

// NewService creates a new customer service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCustomer(ctx context.Context, req UpsertCustomerRequest) (*Customer, error) {
	addresses, err := buildAddresses(req.Addresses)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}

	c := &Customer{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Addresses: addresses,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListCustomers(ctx context.Context, search string) ([]*Customer, error) {
	return s.repo.List(ctx, search)
}

func (s *service) UpdateCustomer(ctx context.Context, id string, req UpsertCustomerRequest) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name", "name is required")
	}
	addresses, err := buildAddresses(req.Addresses)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Email = strings.TrimSpace(req.Email)
	c.Addresses = addresses
	c.Notes = req.Notes

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) HasAnyOrder(ctx context.Context, customerID string) (bool, error) {
	return s.repo.HasAnyOrder(ctx, customerID)
}

func buildAddresses(reqs []AddressRequest) ([]Address, error) {
	var addresses []Address
	for _, a := range reqs {
		if strings.TrimSpace(a.Street) == "" {
			return nil, apperr.Validation("addresses", "address street is required")
		}
		id := uuid.New()
		if a.ID != "" {
			parsed, err := uuid.Parse(a.ID)
			if err != nil {
				return nil, apperr.Validation("addresses", "invalid address id")
			}
			id = parsed
		}
		addresses = append(addresses, Address{
			ID:         id,
			Label:      strings.TrimSpace(a.Label),
			Street:     strings.TrimSpace(a.Street),
			City:       strings.TrimSpace(a.City),
			PostalCode: strings.TrimSpace(a.PostalCode),
		})
	}
	return addresses, nil
}
