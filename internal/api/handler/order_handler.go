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

type orderService interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)
	Get(ctx context.Context, id int64) (*domain.Order, error)
	Create(ctx context.Context, in service.OrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error

	GetItem(ctx context.Context, id int64) (*domain.OrderItem, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	SearchItems(ctx context.Context, filter ports.ItemFilter) ([]domain.OrderItem, error)
	AddItem(ctx context.Context, orderID int64, line service.OrderLine) (*domain.OrderItem, error)
	UpdateItemQuantity(ctx context.Context, id int64, quantity int) (*domain.OrderItem, error)
	DeleteItem(ctx context.Context, id int64) error
}

type orderLineRequest struct {
	ProductID int64 `json:"productId" validate:"gte=1"`
	Quantity  int   `json:"quantity"  validate:"gte=1"`
}

// orderRequest omits customerId for the caller's own order.
type orderRequest struct {
	CustomerID int64              `json:"customerId" validate:"gte=0"`
	Status     string             `json:"status"     validate:"max=32"`
	Items      []orderLineRequest `json:"items"      validate:"dive"`
}

func (r orderRequest) input() service.OrderInput {
	lines := make([]service.OrderLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = service.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return service.OrderInput{CustomerID: r.CustomerID, Status: r.Status, Lines: lines}
}

type statusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

type itemRequest struct {
	OrderID   int64 `json:"orderId"   validate:"gte=1"`
	ProductID int64 `json:"productId" validate:"gte=1"`
	Quantity  int   `json:"quantity"  validate:"gte=1"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// OrderHandler serves /api/orders and /api/order-items.
type OrderHandler struct {
	orders orderService
}

func NewOrderHandler(orders orderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// @Summary   List orders of a customer
// @Tags      orders
// @Produce   json
// @Security  BearerAuth
// @Param     customerId  path     int  true  "Customer ID"
// @Success   200         {array}  domain.Order
// @Failure   403         {object} errorResponse
// @Router    /api/orders/customer/{customerId} [get]
func (h *OrderHandler) ListForCustomer(c echo.Context) error {
	customerID, err := pathID(c, "customerId")
	if err != nil {
		return err
	}
	orders, err := h.orders.ListForCustomer(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// @Summary   Get order
// @Tags      orders
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Order ID"
// @Success   200  {object}  domain.Order
// @Failure   404  {object}  errorResponse
// @Router    /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Create places an order. Unit prices come from the products, not the body.
//
// @Summary   Create order
// @Tags      orders
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      orderRequest  true  "Order"
// @Success   201   {object}  domain.Order
// @Failure   400   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req orderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// @Summary   Set order status
// @Tags      orders
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int            true  "Order ID"
// @Param     body  body      statusRequest  true  "Status"
// @Success   200   {object}  domain.Order
// @Failure   403   {object}  errorResponse
// @Router    /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// @Summary   Delete order
// @Tags      orders
// @Security  BearerAuth
// @Param     id  path  int  true  "Order ID"
// @Success   204
// @Failure   404  {object}  errorResponse
// @Router    /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.orders.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// @Summary   Get order item
// @Tags      order-items
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Item ID"
// @Success   200  {object}  domain.OrderItem
// @Failure   404  {object}  errorResponse
// @Router    /api/order-items/{id} [get]
func (h *OrderHandler) GetItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.orders.GetItem(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// @Summary   List items of an order
// @Tags      order-items
// @Produce   json
// @Security  BearerAuth
// @Param     orderId  path     int  true  "Order ID"
// @Success   200      {array}  domain.OrderItem
// @Router    /api/order-items/order/{orderId} [get]
func (h *OrderHandler) ItemsForOrder(c echo.Context) error {
	orderID, err := pathID(c, "orderId")
	if err != nil {
		return err
	}
	items, err := h.orders.ListItems(c.Request().Context(), orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ItemsForProduct lists lines for a product across all orders.
//
// @Summary   Items by product
// @Tags      order-items
// @Produce   json
// @Security  BearerAuth
// @Param     productId  path     int  true  "Product ID"
// @Success   200        {array}  domain.OrderItem
// @Failure   403        {object} errorResponse
// @Router    /api/order-items/product/{productId} [get]
func (h *OrderHandler) ItemsForProduct(c echo.Context) error {
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	items, err := h.orders.SearchItems(c.Request().Context(), ports.ItemFilter{ProductID: productID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ItemsAboveQuantity lists lines whose quantity exceeds the path value.
//
// @Summary   Items above a quantity
// @Tags      order-items
// @Produce   json
// @Security  BearerAuth
// @Param     quantity  path     int  true  "Exclusive lower bound"
// @Success   200       {array}  domain.OrderItem
// @Failure   403       {object} errorResponse
// @Router    /api/order-items/quantity/{quantity} [get]
func (h *OrderHandler) ItemsAboveQuantity(c echo.Context) error {
	quantity, err := strconv.Atoi(c.Param("quantity"))
	if err != nil || quantity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	items, err := h.orders.SearchItems(c.Request().Context(), ports.ItemFilter{MinQuantity: quantity})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// @Summary   Add order item
// @Tags      order-items
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      itemRequest  true  "Item"
// @Success   201   {object}  domain.OrderItem
// @Failure   404   {object}  errorResponse
// @Router    /api/order-items [post]
func (h *OrderHandler) AddItem(c echo.Context) error {
	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.orders.AddItem(c.Request().Context(), req.OrderID, service.OrderLine{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// @Summary   Change item quantity
// @Tags      order-items
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int              true  "Item ID"
// @Param     body  body      quantityRequest  true  "Quantity"
// @Success   200   {object}  domain.OrderItem
// @Failure   404   {object}  errorResponse
// @Router    /api/order-items/{id} [put]
func (h *OrderHandler) UpdateItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.orders.UpdateItemQuantity(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// @Summary   Delete order item
// @Tags      order-items
// @Security  BearerAuth
// @Param     id  path  int  true  "Item ID"
// @Success   204
// @Failure   404  {object}  errorResponse
// @Router    /api/order-items/{id} [delete]
func (h *OrderHandler) DeleteItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.orders.DeleteItem(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
