package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// CustomerService exposes customer lookups and administrative changes.
// Mutations evict the affected identity from the cache so the next request
// sees fresh roles.
type CustomerService struct {
	repo       ports.CustomerRepository
	identities *IdentityService
	log        zerolog.Logger
}

func NewCustomerService(repo ports.CustomerRepository, identities *IdentityService, log zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, identities: identities, log: log}
}

func (s *CustomerService) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete removes a customer. Callers may delete themselves; anyone else
// needs ROLE_ADMIN.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	caller, err := identity.Require(ctx)
	if err != nil {
		return err
	}
	if caller.CustomerID != id && !caller.HasAuthority(domain.RoleAdmin) {
		return domain.ErrForbidden
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.identities.Forget(ctx, customer.Username)
	s.log.Info().Int64("customer_id", id).Str("by", caller.Username).Msg("customer deleted")
	return nil
}

func (s *CustomerService) AssignRole(ctx context.Context, customerID, roleID int64) error {
	return s.changeRole(ctx, customerID, roleID, s.repo.AssignRole)
}

func (s *CustomerService) RevokeRole(ctx context.Context, customerID, roleID int64) error {
	return s.changeRole(ctx, customerID, roleID, s.repo.RevokeRole)
}

func (s *CustomerService) changeRole(ctx context.Context, customerID, roleID int64, apply func(context.Context, int64, int64) error) error {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := apply(ctx, customerID, roleID); err != nil {
		return err
	}
	s.identities.Forget(ctx, customer.Username)
	return nil
}
