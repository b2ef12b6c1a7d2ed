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

// ========================================
// Roles
// ========================================

type RoleRepository struct {
	db *bun.DB
}

var _ ports.RoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *bun.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	var rows []models.Role
	if err := r.db.NewSelect().Model(&rows).Order("r.id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]domain.Role, len(rows))
	for i, row := range rows {
		out[i] = domain.Role{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	row := new(models.Role)
	if err := r.db.NewSelect().Model(row).Where("r.id = ?", id).Scan(ctx); err != nil {
		return nil, notFoundOr(err, domain.ErrRoleNotFound, "find role")
	}
	return &domain.Role{ID: row.ID, Name: row.Name}, nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	row := &models.Role{Name: role.Name}
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return nil, duplicateOr(err, "insert role")
	}
	return &domain.Role{ID: row.ID, Name: row.Name}, nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	row := &models.Role{ID: role.ID, Name: role.Name}
	res, err := r.db.NewUpdate().Model(row).Column("name").WherePK().Exec(ctx)
	if err != nil {
		return nil, duplicateOr(err, "update role")
	}
	if err := expectAffected(res, domain.ErrRoleNotFound); err != nil {
		return nil, err
	}
	return &domain.Role{ID: row.ID, Name: row.Name}, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Role)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return expectAffected(res, domain.ErrRoleNotFound)
}

func (r *RoleRepository) Holders(ctx context.Context, id int64) ([]string, error) {
	var usernames []string
	err := r.db.NewSelect().
		Model((*models.Customer)(nil)).
		Column("c.username").
		Join("JOIN customer_roles AS cr ON cr.customer_id = c.id").
		Where("cr.role_id = ?", id).
		Order("c.username").
		Scan(ctx, &usernames)
	if err != nil {
		return nil, fmt.Errorf("list role holders: %w", err)
	}
	return usernames, nil
}

// ========================================
// Categories
// ========================================

type CategoryRepository struct {
	db *bun.DB
}

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

func NewCategoryRepository(db *bun.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var rows []models.Category
	if err := r.db.NewSelect().Model(&rows).Order("cat.name").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]domain.Category, len(rows))
	for i := range rows {
		out[i] = *categoryToDomain(&rows[i])
	}
	return out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	row := new(models.Category)
	if err := r.db.NewSelect().Model(row).Where("cat.id = ?", id).Scan(ctx); err != nil {
		return nil, notFoundOr(err, domain.ErrCategoryNotFound, "find category")
	}
	return categoryToDomain(row), nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	row := &models.Category{
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return nil, duplicateOr(err, "insert category")
	}
	return categoryToDomain(row), nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	row := &models.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	res, err := r.db.NewUpdate().
		Model(row).
		Column("name", "description", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, duplicateOr(err, "update category")
	}
	if err := expectAffected(res, domain.ErrCategoryNotFound); err != nil {
		return nil, err
	}
	return categoryToDomain(row), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Category)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectAffected(res, domain.ErrCategoryNotFound)
}

func categoryToDomain(row *models.Category) *domain.Category {
	return &domain.Category{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}

// ========================================
// Tags
// ========================================

type TagRepository struct {
	db *bun.DB
}

var _ ports.TagRepository = (*TagRepository)(nil)

func NewTagRepository(db *bun.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var rows []models.Tag
	if err := r.db.NewSelect().Model(&rows).Order("t.name").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	out := make([]domain.Tag, len(rows))
	for i, row := range rows {
		out[i] = domain.Tag{ID: row.ID, Name: row.Name}
	}
	return out, nil
}

func (r *TagRepository) FindByID(ctx context.Context, id int64) (*domain.Tag, error) {
	row := new(models.Tag)
	if err := r.db.NewSelect().Model(row).Where("t.id = ?", id).Scan(ctx); err != nil {
		return nil, notFoundOr(err, domain.ErrTagNotFound, "find tag")
	}
	return &domain.Tag{ID: row.ID, Name: row.Name}, nil
}

func (r *TagRepository) Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error) {
	row := &models.Tag{Name: t.Name}
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return nil, duplicateOr(err, "insert tag")
	}
	return &domain.Tag{ID: row.ID, Name: row.Name}, nil
}

func (r *TagRepository) Update(ctx context.Context, t *domain.Tag) (*domain.Tag, error) {
	row := &models.Tag{ID: t.ID, Name: t.Name}
	res, err := r.db.NewUpdate().Model(row).Column("name").WherePK().Exec(ctx)
	if err != nil {
		return nil, duplicateOr(err, "update tag")
	}
	if err := expectAffected(res, domain.ErrTagNotFound); err != nil {
		return nil, err
	}
	return &domain.Tag{ID: row.ID, Name: row.Name}, nil
}

func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Tag)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return expectAffected(res, domain.ErrTagNotFound)
}

func notFoundOr(err, notFound error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func duplicateOr(err error, op string) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicateName
	}
	return fmt.Errorf("%s: %w", op, err)
}
