package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type reviewService interface {
	List(ctx context.Context, filter ports.ReviewFilter) ([]domain.Review, error)
	ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	Create(ctx context.Context, productID int64, rating int, comment string) (*domain.Review, error)
	Update(ctx context.Context, id int64, rating int, comment string) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type reviewRequest struct {
	ProductID int64  `json:"productId" validate:"gte=1"`
	Rating    int    `json:"rating"    validate:"gte=1,lte=5"`
	Comment   string `json:"comment"   validate:"max=2000"`
}

type reviewUpdateRequest struct {
	Rating  int    `json:"rating"  validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewHandler struct {
	reviews reviewService
}

func NewReviewHandler(reviews reviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// @Summary   List reviews
// @Tags      reviews
// @Produce   json
// @Security  BearerAuth
// @Param     customerId  query    int  false  "Author ID"
// @Success   200         {array}  domain.Review
// @Router    /api/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	customerID, err := queryID(c, "customerId")
	if err != nil {
		return err
	}
	reviews, err := h.reviews.List(c.Request().Context(), ports.ReviewFilter{CustomerID: customerID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// @Summary   Reviews of a product
// @Tags      reviews
// @Produce   json
// @Security  BearerAuth
// @Param     productId  path     int  true  "Product ID"
// @Success   200        {array}  domain.Review
// @Failure   404        {object} errorResponse
// @Router    /api/reviews/product/{productId} [get]
func (h *ReviewHandler) ListForProduct(c echo.Context) error {
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	reviews, err := h.reviews.ListForProduct(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// @Summary   Get review
// @Tags      reviews
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Review ID"
// @Success   200  {object}  domain.Review
// @Failure   404  {object}  errorResponse
// @Router    /api/reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.reviews.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// Create records a review by the caller.
//
// @Summary   Create review
// @Tags      reviews
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      reviewRequest  true  "Review"
// @Success   201   {object}  domain.Review
// @Failure   400   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /api/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	var req reviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Create(c.Request().Context(), req.ProductID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// @Summary   Update review
// @Tags      reviews
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int                  true  "Review ID"
// @Param     body  body      reviewUpdateRequest  true  "Review"
// @Success   200   {object}  domain.Review
// @Failure   403   {object}  errorResponse
// @Router    /api/reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reviewUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviews.Update(c.Request().Context(), id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// @Summary   Delete review
// @Tags      reviews
// @Security  BearerAuth
// @Param     id  path  int  true  "Review ID"
// @Success   204
// @Failure   403  {object}  errorResponse
// @Router    /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
