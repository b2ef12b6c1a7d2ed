package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

func init() {
	Migrations.MustRegister(up_20260101000003, down_20260101000003)
}

const (
	fkCategorySetNull = `("category_id") REFERENCES "categories" ("id") ON DELETE SET NULL`
	fkProductCascade  = `("product_id") REFERENCES "products" ("id") ON DELETE CASCADE`
	fkProductRestrict = `("product_id") REFERENCES "products" ("id")`
	fkTagCascade      = `("tag_id") REFERENCES "tags" ("id") ON DELETE CASCADE`
	fkOrderCascade    = `("order_id") REFERENCES "orders" ("id") ON DELETE CASCADE`
)

// up_20260101000003 adds products, their tag links, order items and reviews.
func up_20260101000003(ctx context.Context, db *bun.DB) error {
	models.Register(db)

	tables := []struct {
		model any
		fks   []string
	}{
		{model: (*models.Product)(nil), fks: []string{fkCategorySetNull}},
		{model: (*models.ProductTag)(nil), fks: []string{fkProductCascade, fkTagCascade}},
		{model: (*models.OrderItem)(nil), fks: []string{fkOrderCascade, fkProductRestrict}},
		{model: (*models.Review)(nil), fks: []string{fkCustomerCascade, fkProductCascade}},
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

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_product_tags_tag ON product_tags(tag_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func down_20260101000003(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{
		(*models.Review)(nil),
		(*models.OrderItem)(nil),
		(*models.ProductTag)(nil),
		(*models.Product)(nil),
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
