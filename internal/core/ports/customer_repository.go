package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CustomerRepository is the credential store. Lookups always return the
// customer with its roles resolved.
type CustomerRepository interface {
	// Create persists a new customer. Uniqueness of username and email is
	// enforced by the store itself; a collision yields ErrDuplicateCredential.
	Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindByUsername(ctx context.Context, username string) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// Delete removes the customer together with owned addresses and orders.
	Delete(ctx context.Context, id int64) error
	AssignRole(ctx context.Context, customerID, roleID int64) error
	RevokeRole(ctx context.Context, customerID, roleID int64) error
}
