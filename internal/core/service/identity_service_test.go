package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
)

func seedCustomer(t *testing.T, repo *stubCustomerRepo, username string, roles ...domain.Role) *domain.Customer {
	t.Helper()
	c, err := repo.Create(context.Background(), &domain.Customer{
		Username:     username,
		Email:        username + "@b.com",
		PasswordHash: "hash",
		Roles:        roles,
	})
	require.NoError(t, err)
	return c
}

func TestIdentityService_LoadsFromStoreAndCaches(t *testing.T) {
	repo := newStubCustomerRepo()
	cache := newStubIdentityCache()
	seedCustomer(t, repo, "ab")
	svc := NewIdentityService(repo, cache, zerolog.Nop())

	got, err := svc.LoadByUsername(context.Background(), "ab")
	require.NoError(t, err)
	assert.Equal(t, "ab", got.Username)

	cached, ok := cache.entries["ab"]
	require.True(t, ok, "customer should be cached after a store hit")
	assert.Empty(t, cached.PasswordHash)

	repo.findErr = errStoreDown
	again, err := svc.LoadByUsername(context.Background(), "ab")
	require.NoError(t, err, "second lookup should be served from cache")
	assert.Equal(t, got.ID, again.ID)
}

func TestIdentityService_UnknownSubject(t *testing.T) {
	svc := NewIdentityService(newStubCustomerRepo(), nil, zerolog.Nop())

	_, err := svc.LoadByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUnknownSubject)
	assert.False(t, errors.Is(err, domain.ErrCustomerNotFound))
}

func TestIdentityService_StoreErrorPropagates(t *testing.T) {
	repo := newStubCustomerRepo()
	repo.findErr = errStoreDown
	svc := NewIdentityService(repo, nil, zerolog.Nop())

	_, err := svc.LoadByUsername(context.Background(), "ab")
	require.ErrorIs(t, err, errStoreDown)
	assert.False(t, errors.Is(err, domain.ErrUnknownSubject))
}

func TestIdentityService_CacheOutageFallsBackToStore(t *testing.T) {
	repo := newStubCustomerRepo()
	seedCustomer(t, repo, "ab")
	cache := newStubIdentityCache()
	cache.getErr = errors.New("redis: connection pool timeout")
	svc := NewIdentityService(repo, cache, zerolog.Nop())

	got, err := svc.LoadByUsername(context.Background(), "ab")
	require.NoError(t, err)
	assert.Equal(t, "ab", got.Username)
}

func TestCustomerService_Delete(t *testing.T) {
	repo := newStubCustomerRepo()
	cache := newStubIdentityCache()
	svc := NewCustomerService(repo, NewIdentityService(repo, cache, zerolog.Nop()), zerolog.Nop())

	owner := seedCustomer(t, repo, "ab", domain.Role{ID: 2, Name: domain.RoleUser})
	other := seedCustomer(t, repo, "cd", domain.Role{ID: 2, Name: domain.RoleUser})
	admin := seedCustomer(t, repo, "root", domain.Role{ID: 1, Name: domain.RoleAdmin})

	t.Run("anonymous", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(context.Background(), owner.ID), domain.ErrUnauthenticated)
	})

	t.Run("someone else", func(t *testing.T) {
		ctx := identity.With(context.Background(), identity.FromCustomer(other))
		require.ErrorIs(t, svc.Delete(ctx, owner.ID), domain.ErrForbidden)
	})

	t.Run("self", func(t *testing.T) {
		ctx := identity.With(context.Background(), identity.FromCustomer(owner))
		require.NoError(t, svc.Delete(ctx, owner.ID))
		_, err := repo.FindByID(context.Background(), owner.ID)
		require.ErrorIs(t, err, domain.ErrCustomerNotFound)
		assert.Contains(t, cache.invalidated, "ab")
	})

	t.Run("admin", func(t *testing.T) {
		ctx := identity.With(context.Background(), identity.FromCustomer(admin))
		require.NoError(t, svc.Delete(ctx, other.ID))
	})

	t.Run("missing", func(t *testing.T) {
		ctx := identity.With(context.Background(), identity.FromCustomer(admin))
		require.ErrorIs(t, svc.Delete(ctx, 999), domain.ErrCustomerNotFound)
	})
}

func TestCustomerService_RoleChangesInvalidateCache(t *testing.T) {
	repo := newStubCustomerRepo()
	cache := newStubIdentityCache()
	identities := NewIdentityService(repo, cache, zerolog.Nop())
	svc := NewCustomerService(repo, identities, zerolog.Nop())
	c := seedCustomer(t, repo, "ab")

	_, err := identities.LoadByUsername(context.Background(), "ab")
	require.NoError(t, err)
	require.Contains(t, cache.entries, "ab")

	require.NoError(t, svc.AssignRole(context.Background(), c.ID, 1))
	assert.NotContains(t, cache.entries, "ab")

	reloaded, err := identities.LoadByUsername(context.Background(), "ab")
	require.NoError(t, err)
	assert.True(t, reloaded.HasRole(domain.RoleAdmin))

	require.NoError(t, svc.RevokeRole(context.Background(), c.ID, 1))
	reloaded, err = identities.LoadByUsername(context.Background(), "ab")
	require.NoError(t, err)
	assert.False(t, reloaded.HasRole(domain.RoleAdmin))

	require.ErrorIs(t, svc.AssignRole(context.Background(), c.ID, 42), domain.ErrRoleNotFound)
}
