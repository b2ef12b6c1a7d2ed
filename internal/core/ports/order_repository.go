package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// ProductFilter narrows ProductRepository.List; zero fields are ignored.
type ProductFilter struct {
	CategoryID int64
	TagID      int64
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// Create and Update replace the product's tag links with p.TagIDs.
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// Delete fails with domain.ErrProductInUse while order items reference it.
	Delete(ctx context.Context, id int64) error
}

// ItemFilter narrows OrderRepository.ListItems; zero fields are ignored.
type ItemFilter struct {
	OrderID     int64
	ProductID   int64
	MinQuantity int // strictly greater than
}

// OrderRepository stores orders with their items. Every item mutation
// recomputes the owning order's total in the same transaction.
type OrderRepository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error

	FindItem(ctx context.Context, id int64) (*domain.OrderItem, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]domain.OrderItem, error)
	AddItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error)
	UpdateItemQuantity(ctx context.Context, id int64, quantity int) (*domain.OrderItem, error)
	DeleteItem(ctx context.Context, id int64) error
}

// ReviewFilter narrows ReviewRepository.List; zero fields are ignored.
type ReviewFilter struct {
	ProductID  int64
	CustomerID int64
}

type ReviewRepository interface {
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, r *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}
