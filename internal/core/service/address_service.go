package service

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// AddressInput carries the writable fields of a shipping address.
type AddressInput struct {
	CustomerID   int64
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
}

// AddressService manages shipping addresses. Callers without ROLE_ADMIN
// only see and change their own.
type AddressService struct {
	repo      ports.ShippingAddressRepository
	customers ports.CustomerRepository
	now       func() time.Time
}

func NewAddressService(repo ports.ShippingAddressRepository, customers ports.CustomerRepository) *AddressService {
	return &AddressService{repo: repo, customers: customers, now: time.Now}
}

func (s *AddressService) ListForCustomer(ctx context.Context, customerID int64) ([]domain.ShippingAddress, error) {
	if err := authorizeOwner(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.AddressFilter{CustomerID: customerID})
}

// Search lists addresses across customers by city or country. Admin only.
func (s *AddressService) Search(ctx context.Context, city, country string) ([]domain.ShippingAddress, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.AddressFilter{City: city, Country: country})
}

func (s *AddressService) Get(ctx context.Context, id int64) (*domain.ShippingAddress, error) {
	addr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, addr.CustomerID); err != nil {
		return nil, err
	}
	return addr, nil
}

// Create stores a new address. A zero CustomerID means the caller.
func (s *AddressService) Create(ctx context.Context, in AddressInput) (*domain.ShippingAddress, error) {
	caller, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	if in.CustomerID == 0 {
		in.CustomerID = caller.CustomerID
	}
	if err := authorizeOwner(ctx, in.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	addr := &domain.ShippingAddress{CreatedAt: now}
	applyAddress(addr, in, now)
	return s.repo.Create(ctx, addr)
}

// Update replaces the writable fields. Ownership cannot be transferred.
func (s *AddressService) Update(ctx context.Context, id int64, in AddressInput) (*domain.ShippingAddress, error) {
	addr, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.CustomerID = addr.CustomerID
	applyAddress(addr, in, s.now().UTC())
	return s.repo.Update(ctx, addr)
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func applyAddress(addr *domain.ShippingAddress, in AddressInput, now time.Time) {
	addr.CustomerID = in.CustomerID
	addr.AddressLine1 = in.AddressLine1
	addr.AddressLine2 = in.AddressLine2
	addr.City = in.City
	addr.State = in.State
	addr.PostalCode = in.PostalCode
	addr.Country = in.Country
	addr.UpdatedAt = now
}

func authorizeOwner(ctx context.Context, customerID int64) error {
	caller, err := identity.Require(ctx)
	if err != nil {
		return err
	}
	if caller.CustomerID != customerID && !caller.HasAuthority(domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	return nil
}
