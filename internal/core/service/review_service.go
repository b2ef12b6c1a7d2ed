package service

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// ReviewService manages product reviews. Anyone authenticated may read them;
// only the author or an admin may change one.
type ReviewService struct {
	repo     ports.ReviewRepository
	products ports.ProductRepository
	now      func() time.Time
}

func NewReviewService(repo ports.ReviewRepository, products ports.ProductRepository) *ReviewService {
	return &ReviewService{repo: repo, products: products, now: time.Now}
}

func (s *ReviewService) List(ctx context.Context, filter ports.ReviewFilter) ([]domain.Review, error) {
	return s.repo.List(ctx, filter)
}

// ListForProduct fails with ErrProductNotFound for unknown products rather
// than returning an empty list.
func (s *ReviewService) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ports.ReviewFilter{ProductID: productID})
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	return s.repo.FindByID(ctx, id)
}

// Create records a review authored by the caller.
func (s *ReviewService) Create(ctx context.Context, productID int64, rating int, comment string) (*domain.Review, error) {
	caller, err := identity.Require(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.Review{
		CustomerID: caller.CustomerID,
		ProductID:  productID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (s *ReviewService) Update(ctx context.Context, id int64, rating int, comment string) (*domain.Review, error) {
	review, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	review.Rating = rating
	review.Comment = comment
	review.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, review)
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *ReviewService) owned(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, review.CustomerID); err != nil {
		return nil, err
	}
	return review, nil
}
