package relational

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

type ShippingAddressRepository struct {
	db *bun.DB
}

var _ ports.ShippingAddressRepository = (*ShippingAddressRepository)(nil)

func NewShippingAddressRepository(db *bun.DB) *ShippingAddressRepository {
	return &ShippingAddressRepository{db: db}
}

func (r *ShippingAddressRepository) List(ctx context.Context, f ports.AddressFilter) ([]domain.ShippingAddress, error) {
	var rows []models.ShippingAddress
	q := r.db.NewSelect().Model(&rows).Order("sa.id")
	if f.CustomerID != 0 {
		q = q.Where("sa.customer_id = ?", f.CustomerID)
	}
	if f.City != "" {
		q = q.Where("LOWER(sa.city) = LOWER(?)", f.City)
	}
	if f.Country != "" {
		q = q.Where("LOWER(sa.country) = LOWER(?)", f.Country)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list shipping addresses: %w", err)
	}

	out := make([]domain.ShippingAddress, len(rows))
	for i := range rows {
		out[i] = *addressToDomain(&rows[i])
	}
	return out, nil
}

func (r *ShippingAddressRepository) FindByID(ctx context.Context, id int64) (*domain.ShippingAddress, error) {
	row := new(models.ShippingAddress)
	if err := r.db.NewSelect().Model(row).Where("sa.id = ?", id).Scan(ctx); err != nil {
		return nil, notFoundOr(err, domain.ErrAddressNotFound, "find shipping address")
	}
	return addressToDomain(row), nil
}

func (r *ShippingAddressRepository) Create(ctx context.Context, a *domain.ShippingAddress) (*domain.ShippingAddress, error) {
	row := addressToRow(a)
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("insert shipping address: %w", err)
	}
	return addressToDomain(row), nil
}

func (r *ShippingAddressRepository) Update(ctx context.Context, a *domain.ShippingAddress) (*domain.ShippingAddress, error) {
	row := addressToRow(a)
	res, err := r.db.NewUpdate().
		Model(row).
		Column("address_line1", "address_line2", "city", "state", "postal_code", "country", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update shipping address: %w", err)
	}
	if err := expectAffected(res, domain.ErrAddressNotFound); err != nil {
		return nil, err
	}
	return addressToDomain(row), nil
}

func (r *ShippingAddressRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.ShippingAddress)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete shipping address: %w", err)
	}
	return expectAffected(res, domain.ErrAddressNotFound)
}

func addressToRow(a *domain.ShippingAddress) *models.ShippingAddress {
	return &models.ShippingAddress{
		ID:           a.ID,
		CustomerID:   a.CustomerID,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func addressToDomain(row *models.ShippingAddress) *domain.ShippingAddress {
	return &domain.ShippingAddress{
		ID:           row.ID,
		CustomerID:   row.CustomerID,
		AddressLine1: row.AddressLine1,
		AddressLine2: row.AddressLine2,
		City:         row.City,
		State:        row.State,
		PostalCode:   row.PostalCode,
		Country:      row.Country,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}
