package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// RoleService manages the role catalog. Renaming or deleting a role evicts
// every holder from the identity cache.
type RoleService struct {
	repo       ports.RoleRepository
	identities *IdentityService
	log        zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, identities *IdentityService, log zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, identities: identities, log: log}
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.repo.List(ctx)
}

func (s *RoleService) Get(ctx context.Context, id int64) (*domain.Role, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a role. Names are upper-cased so ROLE_ADMIN and role_admin
// cannot coexist.
func (s *RoleService) Create(ctx context.Context, name string) (*domain.Role, error) {
	role, err := s.repo.Create(ctx, &domain.Role{Name: normalizeRoleName(name)})
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	s.log.Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role created")
	return role, nil
}

func (s *RoleService) Update(ctx context.Context, id int64, name string) (*domain.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	holders, err := s.repo.Holders(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := role.Name
	role.Name = normalizeRoleName(name)
	updated, err := s.repo.Update(ctx, role)
	if err != nil {
		return nil, err
	}
	s.forget(ctx, holders)
	s.log.Info().Int64("role_id", id).Str("from", previous).Str("to", updated.Name).Int("holders", len(holders)).Msg("role renamed")
	return updated, nil
}

// Delete removes a role and its grants. Holders are read first because the
// grants cascade away with the role.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	holders, err := s.repo.Holders(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(ctx, holders)
	s.log.Info().Int64("role_id", id).Int("holders", len(holders)).Msg("role deleted")
	return nil
}

func (s *RoleService) forget(ctx context.Context, usernames []string) {
	for _, username := range usernames {
		s.identities.Forget(ctx, username)
	}
}

func normalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// CategoryService manages product categories.
type CategoryService struct {
	repo ports.CategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo ports.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: time.Now}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.Category{
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *CategoryService) Update(ctx context.Context, id int64, name, description string) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(name)
	category.Description = description
	category.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, category)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// TagService manages product tags.
type TagService struct {
	repo ports.TagRepository
}

func NewTagService(repo ports.TagRepository) *TagService {
	return &TagService{repo: repo}
}

func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.List(ctx)
}

func (s *TagService) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TagService) Create(ctx context.Context, name string) (*domain.Tag, error) {
	return s.repo.Create(ctx, &domain.Tag{Name: strings.TrimSpace(name)})
}

func (s *TagService) Update(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = strings.TrimSpace(name)
	return s.repo.Update(ctx, tag)
}

func (s *TagService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
