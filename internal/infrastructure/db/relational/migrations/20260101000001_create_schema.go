package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

func init() {
	Migrations.MustRegister(up_20260101000001, down_20260101000001)
}

const (
	fkCustomerCascade = `("customer_id") REFERENCES "customers" ("id") ON DELETE CASCADE`
	fkRoleCascade     = `("role_id") REFERENCES "roles" ("id") ON DELETE CASCADE`
)

// up_20260101000001 creates customers, roles, their join table and the
// customer-owned tables.
func up_20260101000001(ctx context.Context, db *bun.DB) error {
	models.Register(db)

	tables := []struct {
		model any
		fks   []string
	}{
		{model: (*models.Customer)(nil)},
		{model: (*models.Role)(nil)},
		{model: (*models.CustomerRole)(nil), fks: []string{fkCustomerCascade, fkRoleCascade}},
		{model: (*models.Category)(nil)},
		{model: (*models.Tag)(nil)},
		{model: (*models.ShippingAddress)(nil), fks: []string{fkCustomerCascade}},
		{model: (*models.Order)(nil), fks: []string{fkCustomerCascade}},
	}

	for _, tbl := range tables {
		q := db.NewCreateTable().Model(tbl.model).IfNotExists()
		for _, fk := range tbl.fks {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", tbl.model, err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_shipping_addresses_customer ON shipping_addresses(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_customer_roles_role ON customer_roles(role_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func down_20260101000001(ctx context.Context, db *bun.DB) error {
	// Children first so foreign keys never dangle.
	for _, model := range []any{
		(*models.Order)(nil),
		(*models.ShippingAddress)(nil),
		(*models.Tag)(nil),
		(*models.Category)(nil),
		(*models.CustomerRole)(nil),
		(*models.Role)(nil),
		(*models.Customer)(nil),
	} {
		q := db.NewDropTable().Model(model).IfExists()
		if !isSQLite(db) {
			q = q.Cascade()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", model, err)
		}
	}
	return nil
}
