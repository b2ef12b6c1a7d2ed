package relational

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

type ReviewRepository struct {
	db *bun.DB
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

func NewReviewRepository(db *bun.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) List(ctx context.Context, f ports.ReviewFilter) ([]domain.Review, error) {
	var rows []models.Review
	q := r.db.NewSelect().Model(&rows).Order("rv.id")
	if f.ProductID != 0 {
		q = q.Where("rv.product_id = ?", f.ProductID)
	}
	if f.CustomerID != 0 {
		q = q.Where("rv.customer_id = ?", f.CustomerID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	out := make([]domain.Review, len(rows))
	for i := range rows {
		out[i] = *reviewToDomain(&rows[i])
	}
	return out, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	row := new(models.Review)
	if err := r.db.NewSelect().Model(row).Where("rv.id = ?", id).Scan(ctx); err != nil {
		return nil, notFoundOr(err, domain.ErrReviewNotFound, "find review")
	}
	return reviewToDomain(row), nil
}

// Create maps a dangling product to ErrProductNotFound. The customer is the
// authenticated caller, so it is not re-checked.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	row := &models.Review{
		CustomerID: rv.CustomerID,
		ProductID:  rv.ProductID,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt,
		UpdatedAt:  rv.UpdatedAt,
	}
	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return reviewToDomain(row), nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) (*domain.Review, error) {
	row := &models.Review{
		ID:         rv.ID,
		CustomerID: rv.CustomerID,
		ProductID:  rv.ProductID,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		CreatedAt:  rv.CreatedAt,
		UpdatedAt:  rv.UpdatedAt,
	}
	res, err := r.db.NewUpdate().
		Model(row).
		Column("rating", "comment", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if err := expectAffected(res, domain.ErrReviewNotFound); err != nil {
		return nil, err
	}
	return reviewToDomain(row), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Review)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return expectAffected(res, domain.ErrReviewNotFound)
}

func reviewToDomain(row *models.Review) *domain.Review {
	return &domain.Review{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		ProductID:  row.ProductID,
		Rating:     row.Rating,
		Comment:    row.Comment,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}
}
