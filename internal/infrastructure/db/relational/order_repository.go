package relational

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

// OrderRepository implements ports.OrderRepository. total_cents is derived
// from order_items inside the transaction that changes them.
type OrderRepository struct {
	db *bun.DB
}

var _ ports.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(db *bun.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	var rows []models.Order
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Items", orderItemsByID).
		Where("o.customer_id = ?", customerID).
		Order("o.id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	out := make([]domain.Order, len(rows))
	for i := range rows {
		out[i] = *orderToDomain(&rows[i])
	}
	return out, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := new(models.Order)
	err := r.db.NewSelect().
		Model(row).
		Relation("Items", orderItemsByID).
		Where("o.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, domain.ErrOrderNotFound, "find order")
	}
	return orderToDomain(row), nil
}

// Create inserts the order and its items atomically. The stored total is
// recomputed from the items regardless of o.TotalCents.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	row := &models.Order{
		CustomerID: o.CustomerID,
		Status:     o.Status,
		OrderDate:  o.OrderDate,
	}
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrCustomerNotFound
			}
			return fmt.Errorf("insert order: %w", err)
		}
		if len(o.Items) > 0 {
			items := make([]models.OrderItem, len(o.Items))
			for i, item := range o.Items {
				items[i] = models.OrderItem{
					OrderID:    row.ID,
					ProductID:  item.ProductID,
					Quantity:   item.Quantity,
					PriceCents: item.PriceCents,
				}
			}
			if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
				if isForeignKeyViolation(err) {
					return domain.ErrProductNotFound
				}
				return fmt.Errorf("insert order items: %w", err)
			}
		}
		return refreshOrderTotal(ctx, tx, row.ID)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, row.ID)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	res, err := r.db.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if err := expectAffected(res, domain.ErrOrderNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes the order; its items go with it through ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return expectAffected(res, domain.ErrOrderNotFound)
}

func (r *OrderRepository) FindItem(ctx context.Context, id int64) (*domain.OrderItem, error) {
	return findItem(ctx, r.db, id)
}

func (r *OrderRepository) ListItems(ctx context.Context, f ports.ItemFilter) ([]domain.OrderItem, error) {
	var rows []models.OrderItem
	q := r.db.NewSelect().Model(&rows).Order("oi.id")
	if f.OrderID != 0 {
		q = q.Where("oi.order_id = ?", f.OrderID)
	}
	if f.ProductID != 0 {
		q = q.Where("oi.product_id = ?", f.ProductID)
	}
	if f.MinQuantity != 0 {
		q = q.Where("oi.quantity > ?", f.MinQuantity)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	out := make([]domain.OrderItem, len(rows))
	for i := range rows {
		out[i] = itemToDomain(&rows[i])
	}
	return out, nil
}

func (r *OrderRepository) AddItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	row := &models.OrderItem{
		OrderID:    item.OrderID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		PriceCents: item.PriceCents,
	}
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := mustExist(ctx, tx, (*models.Order)(nil), item.OrderID, domain.ErrOrderNotFound); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("insert order item: %w", err)
		}
		return refreshOrderTotal(ctx, tx, row.OrderID)
	})
	if err != nil {
		return nil, err
	}
	out := itemToDomain(row)
	return &out, nil
}

func (r *OrderRepository) UpdateItemQuantity(ctx context.Context, id int64, quantity int) (*domain.OrderItem, error) {
	var updated *domain.OrderItem
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		item, err := findItem(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.NewUpdate().
			Model((*models.OrderItem)(nil)).
			Set("quantity = ?", quantity).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update order item: %w", err)
		}
		item.Quantity = quantity
		updated = item
		return refreshOrderTotal(ctx, tx, item.OrderID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *OrderRepository) DeleteItem(ctx context.Context, id int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		item, err := findItem(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.NewDelete().Model((*models.OrderItem)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete order item: %w", err)
		}
		return refreshOrderTotal(ctx, tx, item.OrderID)
	})
}

func findItem(ctx context.Context, db bun.IDB, id int64) (*domain.OrderItem, error) {
	row := new(models.OrderItem)
	if err := db.NewSelect().Model(row).Where("oi.id = ?", id).Scan(ctx); err != nil {
		return nil, notFoundOr(err, domain.ErrItemNotFound, "find order item")
	}
	item := itemToDomain(row)
	return &item, nil
}

func refreshOrderTotal(ctx context.Context, tx bun.Tx, orderID int64) error {
	_, err := tx.NewUpdate().
		Model((*models.Order)(nil)).
		Set("total_cents = (SELECT COALESCE(SUM(i.quantity * i.price_cents), 0) FROM order_items AS i WHERE i.order_id = ?)", orderID).
		Where("id = ?", orderID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("refresh order total: %w", err)
	}
	return nil
}

func orderItemsByID(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("oi.id")
}

func orderToDomain(row *models.Order) *domain.Order {
	items := make([]domain.OrderItem, len(row.Items))
	for i := range row.Items {
		items[i] = itemToDomain(&row.Items[i])
	}
	return &domain.Order{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Status:     row.Status,
		TotalCents: row.TotalCents,
		OrderDate:  row.OrderDate.UTC(),
		Items:      items,
	}
}

func itemToDomain(row *models.OrderItem) domain.OrderItem {
	return domain.OrderItem{
		ID:         row.ID,
		OrderID:    row.OrderID,
		ProductID:  row.ProductID,
		Quantity:   row.Quantity,
		PriceCents: row.PriceCents,
	}
}
