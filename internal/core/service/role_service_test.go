package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type stubRoleRepo struct {
	roles      map[int64]domain.Role
	holders    map[int64][]string
	holdersErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{
		roles: map[int64]domain.Role{
			1: {ID: 1, Name: domain.RoleAdmin},
			2: {ID: 2, Name: domain.RoleUser},
		},
		holders: map[int64][]string{1: {"ab", "root"}},
	}
}

func (r *stubRoleRepo) List(context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &role, nil
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	created := *role
	created.ID = int64(len(r.roles) + 1)
	r.roles[created.ID] = created
	return &created, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) (*domain.Role, error) {
	if _, ok := r.roles[role.ID]; !ok {
		return nil, domain.ErrRoleNotFound
	}
	r.roles[role.ID] = *role
	return role, nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.roles[id]; !ok {
		return domain.ErrRoleNotFound
	}
	delete(r.roles, id)
	delete(r.holders, id)
	return nil
}

func (r *stubRoleRepo) Holders(_ context.Context, id int64) ([]string, error) {
	if r.holdersErr != nil {
		return nil, r.holdersErr
	}
	return r.holders[id], nil
}

func newRoleServiceWithCache() (*RoleService, *stubRoleRepo, *stubIdentityCache) {
	repo := newStubRoleRepo()
	cache := newStubIdentityCache()
	identities := NewIdentityService(newStubCustomerRepo(), cache, zerolog.Nop())
	return NewRoleService(repo, identities, zerolog.Nop()), repo, cache
}

func TestRoleService_CreateNormalizesName(t *testing.T) {
	svc, _, _ := newRoleServiceWithCache()

	role, err := svc.Create(context.Background(), "  support ")
	require.NoError(t, err)
	assert.Equal(t, "SUPPORT", role.Name)
}

func TestRoleService_DeleteEvictsHolders(t *testing.T) {
	svc, _, cache := newRoleServiceWithCache()
	cache.entries["ab"] = &domain.Customer{Username: "ab", Roles: []domain.Role{{ID: 1, Name: domain.RoleAdmin}}}

	require.NoError(t, svc.Delete(context.Background(), 1))

	assert.Equal(t, []string{"ab", "root"}, cache.invalidated)
	assert.NotContains(t, cache.entries, "ab")
}

func TestRoleService_UpdateEvictsHolders(t *testing.T) {
	svc, repo, cache := newRoleServiceWithCache()

	role, err := svc.Update(context.Background(), 1, "superuser")
	require.NoError(t, err)
	assert.Equal(t, "SUPERUSER", role.Name)
	assert.Equal(t, "SUPERUSER", repo.roles[1].Name)
	assert.Equal(t, []string{"ab", "root"}, cache.invalidated)
}

func TestRoleService_FailuresLeaveCacheAlone(t *testing.T) {
	svc, repo, cache := newRoleServiceWithCache()

	require.ErrorIs(t, svc.Delete(context.Background(), 99), domain.ErrRoleNotFound)
	_, err := svc.Update(context.Background(), 99, "x")
	require.ErrorIs(t, err, domain.ErrRoleNotFound)

	repo.holdersErr = errStoreDown
	require.ErrorIs(t, svc.Delete(context.Background(), 1), errStoreDown)
	assert.Contains(t, repo.roles, int64(1), "role must survive a failed holder lookup")
	assert.Empty(t, cache.invalidated)
}
