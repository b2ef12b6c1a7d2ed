package service

import (
	"context"
	"strings"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
	CategoryID    *int64
	TagIDs        []int64
}

// ProductService manages the product catalog. Unknown categories and tags
// surface as their not-found errors.
type ProductService struct {
	repo ports.ProductRepository
	now  func() time.Time
}

func NewProductService(repo ports.ProductRepository) *ProductService {
	return &ProductService{repo: repo, now: time.Now}
}

func (s *ProductService) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	now := s.now().UTC()
	p := &domain.Product{CreatedAt: now}
	applyProduct(p, in, now)
	return s.repo.Create(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProduct(p, in, s.now().UTC())
	return s.repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func applyProduct(p *domain.Product, in ProductInput, now time.Time) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.StockQuantity = in.StockQuantity
	p.CategoryID = in.CategoryID
	p.TagIDs = in.TagIDs
	p.UpdatedAt = now
}
