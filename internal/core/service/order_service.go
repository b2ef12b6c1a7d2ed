package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// OrderLine asks for quantity units of a product.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// OrderInput describes a new order. A zero CustomerID means the caller and
// an empty Status means PENDING.
type OrderInput struct {
	CustomerID int64
	Status     string
	Lines      []OrderLine
}

// OrderService manages orders and their items. Callers without ROLE_ADMIN
// only see and change their own orders. Item prices are taken from the
// product at the time the line is added; stock is not reserved.
type OrderService struct {
	orders    ports.OrderRepository
	products  ports.ProductRepository
	customers ports.CustomerRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	customers ports.CustomerRepository,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		customers: customers,
		log:       log,
		now:       time.Now,
	}
}

func (s *OrderService) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	if err := authorizeOwner(ctx, customerID); err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, customerID)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, order.CustomerID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*domain.Order, error) {
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
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if _, err := s.customers.FindByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	order := &domain.Order{
		CustomerID: in.CustomerID,
		Status:     normalizeStatus(in.Status),
		OrderDate:  s.now().UTC(),
		Items:      make([]domain.OrderItem, 0, len(in.Lines)),
	}
	for _, line := range in.Lines {
		item, err := s.priceLine(ctx, line)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	order.RecomputeTotal()

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("order_id", created.ID).
		Int64("customer_id", created.CustomerID).
		Int64("total_cents", created.TotalCents).
		Msg("order created")
	return created, nil
}

// UpdateStatus sets a free-form status. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.orders.UpdateStatus(ctx, id, normalizeStatus(status))
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

func (s *OrderService) GetItem(ctx context.Context, id int64) (*domain.OrderItem, error) {
	item, err := s.orders.FindItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, item.OrderID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *OrderService) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order.Items, nil
}

// SearchItems lists items across orders. Admin only.
func (s *OrderService) SearchItems(ctx context.Context, filter ports.ItemFilter) ([]domain.OrderItem, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.orders.ListItems(ctx, filter)
}

func (s *OrderService) AddItem(ctx context.Context, orderID int64, line OrderLine) (*domain.OrderItem, error) {
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	item, err := s.priceLine(ctx, line)
	if err != nil {
		return nil, err
	}
	item.OrderID = orderID
	return s.orders.AddItem(ctx, &item)
}

func (s *OrderService) UpdateItemQuantity(ctx context.Context, id int64, quantity int) (*domain.OrderItem, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}
	return s.orders.UpdateItemQuantity(ctx, id, quantity)
}

func (s *OrderService) DeleteItem(ctx context.Context, id int64) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	return s.orders.DeleteItem(ctx, id)
}

func (s *OrderService) priceLine(ctx context.Context, line OrderLine) (domain.OrderItem, error) {
	product, err := s.products.FindByID(ctx, line.ProductID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	return domain.OrderItem{
		ProductID:  product.ID,
		Quantity:   line.Quantity,
		PriceCents: product.PriceCents,
	}, nil
}

func normalizeStatus(status string) string {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return domain.OrderStatusPending
	}
	return status
}

func requireAdmin(ctx context.Context) error {
	caller, err := identity.Require(ctx)
	if err != nil {
		return err
	}
	if !caller.HasAuthority(domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	return nil
}
