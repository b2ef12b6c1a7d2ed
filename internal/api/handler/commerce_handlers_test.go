package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
	"github.com/storefront/commerce-api/internal/core/service"
)

type stubProducts struct {
	filter ports.ProductFilter
	input  service.ProductInput
}

func (s *stubProducts) List(_ context.Context, f ports.ProductFilter) ([]domain.Product, error) {
	s.filter = f
	return []domain.Product{}, nil
}
func (s *stubProducts) Get(context.Context, int64) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}
func (s *stubProducts) Create(_ context.Context, in service.ProductInput) (*domain.Product, error) {
	s.input = in
	return &domain.Product{ID: 1, Name: in.Name, PriceCents: in.PriceCents, CategoryID: in.CategoryID, TagIDs: in.TagIDs}, nil
}
func (s *stubProducts) Update(context.Context, int64, service.ProductInput) (*domain.Product, error) {
	return nil, domain.ErrCategoryNotFound
}
func (s *stubProducts) Delete(context.Context, int64) error { return domain.ErrProductInUse }

func TestProductHandler(t *testing.T) {
	stub := &stubProducts{}
	h := NewProductHandler(stub)

	c, rec := newTestContext(http.MethodGet, "/api/products?categoryId=3&tagId=7", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ports.ProductFilter{CategoryID: 3, TagID: 7}, stub.filter)

	c, _ = newTestContext(http.MethodGet, "/api/products?tagId=x", "")
	var he *echo.HTTPError
	require.ErrorAs(t, h.List(c), &he)
	assert.Equal(t, "invalid tagId", he.Message)

	c, rec = newTestContext(http.MethodPost, "/api/products",
		`{"name":"Pen","priceCents":250,"stockQuantity":4,"categoryId":3,"tagIds":[1,2]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.input.CategoryID)
	assert.EqualValues(t, 3, *stub.input.CategoryID)
	assert.Equal(t, []int64{1, 2}, stub.input.TagIDs)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"priceCents":1}`, "name is required"},
		{"negative price", `{"name":"Pen","priceCents":-1}`, "priceCents must be at least 0"},
		{"zero tag", `{"name":"Pen","tagIds":[0]}`, "tagIds[0] must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/api/products", tt.body)
			var he *echo.HTTPError
			require.ErrorAs(t, h.Create(c), &he)
			assert.Equal(t, http.StatusBadRequest, he.Code)
			assert.Equal(t, tt.want, he.Message)
		})
	}

	c, _ = newTestContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.ErrorIs(t, h.Delete(c), domain.ErrProductInUse)

	c, _ = newTestContext(http.MethodPut, "/", `{"name":"Pen"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.ErrorIs(t, h.Update(c), domain.ErrCategoryNotFound)
}

type stubOrders struct {
	input    service.OrderInput
	status   string
	filter   ports.ItemFilter
	line     service.OrderLine
	lineTo   int64
	quantity int
}

func (s *stubOrders) ListForCustomer(context.Context, int64) ([]domain.Order, error) {
	return nil, domain.ErrForbidden
}
func (s *stubOrders) Get(context.Context, int64) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}
func (s *stubOrders) Create(_ context.Context, in service.OrderInput) (*domain.Order, error) {
	s.input = in
	return &domain.Order{ID: 1, Status: domain.OrderStatusPending}, nil
}
func (s *stubOrders) UpdateStatus(_ context.Context, id int64, status string) (*domain.Order, error) {
	s.status = status
	return &domain.Order{ID: id, Status: status}, nil
}
func (s *stubOrders) Delete(context.Context, int64) error { return nil }
func (s *stubOrders) GetItem(context.Context, int64) (*domain.OrderItem, error) {
	return nil, domain.ErrItemNotFound
}
func (s *stubOrders) ListItems(context.Context, int64) ([]domain.OrderItem, error) {
	return []domain.OrderItem{}, nil
}
func (s *stubOrders) SearchItems(_ context.Context, f ports.ItemFilter) ([]domain.OrderItem, error) {
	s.filter = f
	return []domain.OrderItem{}, nil
}
func (s *stubOrders) AddItem(_ context.Context, orderID int64, line service.OrderLine) (*domain.OrderItem, error) {
	s.lineTo, s.line = orderID, line
	return &domain.OrderItem{ID: 5, OrderID: orderID, ProductID: line.ProductID, Quantity: line.Quantity}, nil
}
func (s *stubOrders) UpdateItemQuantity(_ context.Context, id int64, quantity int) (*domain.OrderItem, error) {
	s.quantity = quantity
	return &domain.OrderItem{ID: id, Quantity: quantity}, nil
}
func (s *stubOrders) DeleteItem(context.Context, int64) error { return nil }

func TestOrderHandler_Orders(t *testing.T) {
	stub := &stubOrders{}
	h := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/orders",
		`{"items":[{"productId":10,"quantity":2},{"productId":11,"quantity":1}]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Zero(t, stub.input.CustomerID)
	assert.Equal(t, []service.OrderLine{{ProductID: 10, Quantity: 2}, {ProductID: 11, Quantity: 1}}, stub.input.Lines)

	c, _ = newTestContext(http.MethodPost, "/api/orders", `{"items":[{"productId":10,"quantity":0}]}`)
	var he *echo.HTTPError
	require.ErrorAs(t, h.Create(c), &he)
	assert.Equal(t, "quantity must be at least 1", he.Message)

	c, rec = newTestContext(http.MethodPatch, "/", `{"status":"shipped"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", stub.status)

	c, _ = newTestContext(http.MethodPatch, "/", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.ErrorAs(t, h.UpdateStatus(c), &he)
	assert.Equal(t, "status is required", he.Message)

	c, _ = newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("customerId")
	c.SetParamValues("3")
	assert.ErrorIs(t, h.ListForCustomer(c), domain.ErrForbidden)

	c, _ = newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("9")
	assert.ErrorIs(t, h.Get(c), domain.ErrOrderNotFound)
}

func TestOrderHandler_Items(t *testing.T) {
	stub := &stubOrders{}
	h := NewOrderHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/order-items", `{"orderId":1,"productId":10,"quantity":3}`)
	require.NoError(t, h.AddItem(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 1, stub.lineTo)
	assert.Equal(t, service.OrderLine{ProductID: 10, Quantity: 3}, stub.line)

	c, rec = newTestContext(http.MethodPut, "/", `{"quantity":7}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, stub.quantity)

	c, _ = newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("quantity")
	c.SetParamValues("2")
	require.NoError(t, h.ItemsAboveQuantity(c))
	assert.Equal(t, ports.ItemFilter{MinQuantity: 2}, stub.filter)

	c, _ = newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("productId")
	c.SetParamValues("10")
	require.NoError(t, h.ItemsForProduct(c))
	assert.Equal(t, ports.ItemFilter{ProductID: 10}, stub.filter)

	for _, bad := range []string{"x", "-1"} {
		c, _ = newTestContext(http.MethodGet, "/", "")
		c.SetParamNames("quantity")
		c.SetParamValues(bad)
		var he *echo.HTTPError
		require.ErrorAs(t, h.ItemsAboveQuantity(c), &he, bad)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	}

	c, _ = newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	assert.ErrorIs(t, h.GetItem(c), domain.ErrItemNotFound)

	c, rec = newTestContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.DeleteItem(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

type stubReviews struct {
	filter  ports.ReviewFilter
	product int64
	rating  int
}

func (s *stubReviews) List(_ context.Context, f ports.ReviewFilter) ([]domain.Review, error) {
	s.filter = f
	return []domain.Review{}, nil
}
func (s *stubReviews) ListForProduct(context.Context, int64) ([]domain.Review, error) {
	return nil, domain.ErrProductNotFound
}
func (s *stubReviews) Get(context.Context, int64) (*domain.Review, error) {
	return nil, domain.ErrReviewNotFound
}
func (s *stubReviews) Create(_ context.Context, productID int64, rating int, comment string) (*domain.Review, error) {
	s.product, s.rating = productID, rating
	return &domain.Review{ID: 1, ProductID: productID, Rating: rating, Comment: comment}, nil
}
func (s *stubReviews) Update(context.Context, int64, int, string) (*domain.Review, error) {
	return nil, domain.ErrForbidden
}
func (s *stubReviews) Delete(context.Context, int64) error { return nil }

func TestReviewHandler(t *testing.T) {
	stub := &stubReviews{}
	h := NewReviewHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/reviews", `{"productId":10,"rating":5,"comment":"great"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.EqualValues(t, 10, stub.product)
	assert.Equal(t, 5, stub.rating)

	for body, want := range map[string]string{
		`{"productId":10,"rating":6}`: "rating must be at most 5",
		`{"productId":10}`:            "rating must be at least 1",
	} {
		c, _ = newTestContext(http.MethodPost, "/api/reviews", body)
		var he *echo.HTTPError
		require.ErrorAs(t, h.Create(c), &he, body)
		assert.Equal(t, want, he.Message)
	}

	c, _ = newTestContext(http.MethodGet, "/api/reviews?customerId=4", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, ports.ReviewFilter{CustomerID: 4}, stub.filter)

	c, _ = newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("productId")
	c.SetParamValues("99")
	assert.ErrorIs(t, h.ListForProduct(c), domain.ErrProductNotFound)

	c, _ = newTestContext(http.MethodPut, "/", `{"rating":1}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.ErrorIs(t, h.Update(c), domain.ErrForbidden)
}
