package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

// CustomerRepository implements ports.CustomerRepository on bun.
type CustomerRepository struct {
	db *bun.DB
}

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db *bun.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts the customer and links the roles it carries, by name, in
// one transaction. A UNIQUE violation on username or email surfaces as
// ErrDuplicateCredential.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	row := &models.Customer{
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Phone:        c.Phone,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateCredential
			}
			return fmt.Errorf("insert customer: %w", err)
		}

		for _, role := range c.Roles {
			var roleRow models.Role
			err := tx.NewSelect().Model(&roleRow).Where("r.name = ?", role.Name).Scan(ctx)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: %s", domain.ErrRoleNotFound, role.Name)
				}
				return fmt.Errorf("resolve role %s: %w", role.Name, err)
			}
			link := &models.CustomerRole{CustomerID: row.ID, RoleID: roleRow.ID}
			if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
				return fmt.Errorf("link role %s: %w", role.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, row.ID)
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.findOne(ctx, "c.id = ?", id)
}

func (r *CustomerRepository) FindByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	return r.findOne(ctx, "c.username = ?", username)
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.findOne(ctx, "c.email = ?", email)
}

func (r *CustomerRepository) findOne(ctx context.Context, where string, arg any) (*domain.Customer, error) {
	row := new(models.Customer)
	err := r.db.NewSelect().
		Model(row).
		Relation("Roles", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("r.id")
		}).
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return customerToDomain(row), nil
}

// Delete removes the customer; addresses, orders and role links go with it
// through ON DELETE CASCADE.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*models.Customer)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return expectAffected(res, domain.ErrCustomerNotFound)
}

// AssignRole is idempotent.
func (r *CustomerRepository) AssignRole(ctx context.Context, customerID, roleID int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := mustExist(ctx, tx, (*models.Customer)(nil), customerID, domain.ErrCustomerNotFound); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, (*models.Role)(nil), roleID, domain.ErrRoleNotFound); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&models.CustomerRole{CustomerID: customerID, RoleID: roleID}).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrCustomerNotFound
			}
			return fmt.Errorf("assign role: %w", err)
		}
		return nil
	})
}

// RevokeRole is idempotent for roles the customer does not hold.
func (r *CustomerRepository) RevokeRole(ctx context.Context, customerID, roleID int64) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := mustExist(ctx, tx, (*models.Customer)(nil), customerID, domain.ErrCustomerNotFound); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.CustomerRole)(nil)).
			Where("customer_id = ?", customerID).
			Where("role_id = ?", roleID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("revoke role: %w", err)
		}
		return nil
	})
}

func mustExist(ctx context.Context, db bun.IDB, model any, id int64, notFound error) error {
	ok, err := db.NewSelect().Model(model).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return fmt.Errorf("check existence: %w", err)
	}
	if !ok {
		return notFound
	}
	return nil
}

func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func customerToDomain(row *models.Customer) *domain.Customer {
	roles := make([]domain.Role, len(row.Roles))
	for i, r := range row.Roles {
		roles[i] = domain.Role{ID: r.ID, Name: r.Name}
	}
	return &domain.Customer{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Phone:        row.Phone,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Roles:        roles,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}
