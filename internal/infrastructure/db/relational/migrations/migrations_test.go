package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/migrate"

	"github.com/storefront/commerce-api/internal/infrastructure/db/relational"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/migrations"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

func TestUp_IsIdempotentAndSeedsRoles(t *testing.T) {
	ctx := context.Background()
	db, err := relational.Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, zerolog.Nop()))
	require.NoError(t, migrations.Up(ctx, db, zerolog.Nop()))

	var names []string
	require.NoError(t, db.NewSelect().Model((*models.Role)(nil)).Column("name").Order("name").Scan(ctx, &names))
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, names)

	for _, model := range []any{(*models.Product)(nil), (*models.ProductTag)(nil), (*models.OrderItem)(nil), (*models.Review)(nil)} {
		_, err := db.NewSelect().Model(model).Count(ctx)
		require.NoError(t, err, "%T table should exist", model)
	}

	group, err := migrate.NewMigrator(db, migrations.Migrations).Rollback(ctx)
	require.NoError(t, err)
	assert.False(t, group.IsZero())

	_, err = db.NewSelect().Model((*models.Customer)(nil)).Count(ctx)
	assert.Error(t, err, "customers table should be gone after rollback")
	_, err = db.NewSelect().Model((*models.Product)(nil)).Count(ctx)
	assert.Error(t, err, "products table should be gone after rollback")
}
