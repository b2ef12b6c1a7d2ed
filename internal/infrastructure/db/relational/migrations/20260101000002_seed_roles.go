package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

func init() {
	Migrations.MustRegister(up_20260101000002, down_20260101000002)
}

var seededRoles = []string{domain.RoleAdmin, domain.RoleUser}

// up_20260101000002 seeds the built-in roles.
func up_20260101000002(ctx context.Context, db *bun.DB) error {
	for _, name := range seededRoles {
		_, err := db.NewInsert().
			Model(&models.Role{Name: name}).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

func down_20260101000002(ctx context.Context, db *bun.DB) error {
	_, err := db.NewDelete().
		Model((*models.Role)(nil)).
		Where("name IN (?)", bun.In(seededRoles)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("remove seeded roles: %w", err)
	}
	return nil
}
