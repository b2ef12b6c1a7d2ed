package relational

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/migrations"
)

// setupTestDB opens a migrated SQLite database private to t.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, migrations.Up(ctx, db, zerolog.Nop()))
	return db
}

func newCustomer(username string, roles ...string) *domain.Customer {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &domain.Customer{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$04$hash",
		Phone:        "555-0100",
		FirstName:    "First",
		LastName:     "Last",
	}
	for _, r := range roles {
		c.Roles = append(c.Roles, domain.Role{Name: r})
	}
	c.MarkCreated(now)
	return c
}
