package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/core/service"
)

type productService interface {
	List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in service.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in service.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productRequest struct {
	Name          string  `json:"name"          validate:"required,max=255"`
	Description   string  `json:"description"   validate:"max=2000"`
	PriceCents    int64   `json:"priceCents"    validate:"gte=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	CategoryID    *int64  `json:"categoryId"    validate:"omitempty,gte=1"`
	TagIDs        []int64 `json:"tagIds"        validate:"dive,gte=1"`
}

func (r productRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		PriceCents:    r.PriceCents,
		StockQuantity: r.StockQuantity,
		CategoryID:    r.CategoryID,
		TagIDs:        r.TagIDs,
	}
}

type ProductHandler struct {
	products productService
}

func NewProductHandler(products productService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns the catalog, optionally narrowed to one category and/or tag.
//
// @Summary   List products
// @Tags      products
// @Produce   json
// @Security  BearerAuth
// @Param     categoryId  query    int  false  "Category ID"
// @Param     tagId       query    int  false  "Tag ID"
// @Success   200         {array}  domain.Product
// @Failure   400         {object} errorResponse
// @Router    /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	categoryID, err := queryID(c, "categoryId")
	if err != nil {
		return err
	}
	tagID, err := queryID(c, "tagId")
	if err != nil {
		return err
	}
	products, err := h.products.List(c.Request().Context(), ports.ProductFilter{CategoryID: categoryID, TagID: tagID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// @Summary   Get product
// @Tags      products
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Product ID"
// @Success   200  {object}  domain.Product
// @Failure   404  {object}  errorResponse
// @Router    /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// @Summary   Create product
// @Tags      products
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      productRequest  true  "Product"
// @Success   201   {object}  domain.Product
// @Failure   400   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.products.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// @Summary   Update product
// @Tags      products
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int             true  "Product ID"
// @Param     body  body      productRequest  true  "Product"
// @Success   200   {object}  domain.Product
// @Failure   404   {object}  errorResponse
// @Router    /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.products.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// @Summary   Delete product
// @Tags      products
// @Security  BearerAuth
// @Param     id  path  int  true  "Product ID"
// @Success   204
// @Failure   409  {object}  errorResponse
// @Router    /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// queryID parses an optional positive int64 query parameter; absent is zero.
func queryID(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
