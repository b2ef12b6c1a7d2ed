package relational

import (
	"context"
	"fmt"
	"slices"

	"github.com/uptrace/bun"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

type ProductRepository struct {
	db *bun.DB
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(db *bun.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, f ports.ProductFilter) ([]domain.Product, error) {
	var rows []models.Product
	q := r.db.NewSelect().Model(&rows).Relation("Tags").Order("p.id")
	if f.CategoryID != 0 {
		q = q.Where("p.category_id = ?", f.CategoryID)
	}
	if f.TagID != 0 {
		q = q.Where("EXISTS (SELECT 1 FROM product_tags AS pt WHERE pt.product_id = p.id AND pt.tag_id = ?)", f.TagID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]domain.Product, len(rows))
	for i := range rows {
		out[i] = *productToDomain(&rows[i])
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := new(models.Product)
	err := r.db.NewSelect().
		Model(row).
		Relation("Tags").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, domain.ErrProductNotFound, "find product")
	}
	return productToDomain(row), nil
}

// Create inserts the product and its tag links in one transaction. An
// unknown category or tag rolls the whole insert back.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := productToRow(p)
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrCategoryNotFound
			}
			return fmt.Errorf("insert product: %w", err)
		}
		return replaceProductTags(ctx, tx, row.ID, p.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, row.ID)
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	row := productToRow(p)
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(row).
			Column("name", "description", "price_cents", "stock_quantity", "category_id", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrCategoryNotFound
			}
			return fmt.Errorf("update product: %w", err)
		}
		if err := expectAffected(res, domain.ErrProductNotFound); err != nil {
			return err
		}
		return replaceProductTags(ctx, tx, row.ID, p.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, row.ID)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Product)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return expectAffected(res, domain.ErrProductNotFound)
}

func replaceProductTags(ctx context.Context, tx bun.Tx, productID int64, tagIDs []int64) error {
	_, err := tx.NewDelete().
		Model((*models.ProductTag)(nil)).
		Where("product_id = ?", productID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("clear product tags: %w", err)
	}

	ids := slices.Clone(tagIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil
	}

	links := make([]models.ProductTag, len(ids))
	for i, id := range ids {
		links[i] = models.ProductTag{ProductID: productID, TagID: id}
	}
	if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrTagNotFound
		}
		return fmt.Errorf("link product tags: %w", err)
	}
	return nil
}

func productToRow(p *domain.Product) *models.Product {
	return &models.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PriceCents:    p.PriceCents,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func productToDomain(row *models.Product) *domain.Product {
	tagIDs := make([]int64, len(row.Tags))
	for i, t := range row.Tags {
		tagIDs[i] = t.ID
	}
	slices.Sort(tagIDs)
	return &domain.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		PriceCents:    row.PriceCents,
		StockQuantity: row.StockQuantity,
		CategoryID:    row.CategoryID,
		TagIDs:        tagIDs,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}
