package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
	Create(ctx context.Context, r *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, r *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id int64) error
	// Holders returns the usernames of customers granted the role.
	Holders(ctx context.Context, id int64) ([]string, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	FindByID(ctx context.Context, id int64) (*domain.Tag, error)
	Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, t *domain.Tag) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// AddressFilter narrows ListAddresses; zero fields are ignored.
type AddressFilter struct {
	CustomerID int64
	City       string
	Country    string
}

type ShippingAddressRepository interface {
	List(ctx context.Context, filter AddressFilter) ([]domain.ShippingAddress, error)
	FindByID(ctx context.Context, id int64) (*domain.ShippingAddress, error)
	Create(ctx context.Context, a *domain.ShippingAddress) (*domain.ShippingAddress, error)
	Update(ctx context.Context, a *domain.ShippingAddress) (*domain.ShippingAddress, error)
	Delete(ctx context.Context, id int64) error
}
