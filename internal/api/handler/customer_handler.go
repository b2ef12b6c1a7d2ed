package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type customerService interface {
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	Delete(ctx context.Context, id int64) error
	AssignRole(ctx context.Context, customerID, roleID int64) error
	RevokeRole(ctx context.Context, customerID, roleID int64) error
}

type CustomerHandler struct {
	customers customerService
}

func NewCustomerHandler(customers customerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Me returns the authenticated customer.
//
// @Summary      Current customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Customer
// @Failure      401  {object}  errorResponse
// @Router       /api/customers/me [get]
func (h *CustomerHandler) Me(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	customer, err := h.customers.FindByID(c.Request().Context(), id.CustomerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Get returns a customer by id.
//
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.customers.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Delete removes a customer with their addresses and orders.
//
// @Summary      Delete customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id   path  int  true  "Customer ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.customers.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignRole grants a role to a customer.
//
// @Summary      Assign role
// @Tags         customers
// @Security     BearerAuth
// @Param        id      path  int  true  "Customer ID"
// @Param        roleId  path  int  true  "Role ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id}/roles/{roleId} [post]
func (h *CustomerHandler) AssignRole(c echo.Context) error {
	return h.changeRole(c, h.customers.AssignRole)
}

// RevokeRole removes a role from a customer.
//
// @Summary      Revoke role
// @Tags         customers
// @Security     BearerAuth
// @Param        id      path  int  true  "Customer ID"
// @Param        roleId  path  int  true  "Role ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id}/roles/{roleId} [delete]
func (h *CustomerHandler) RevokeRole(c echo.Context) error {
	return h.changeRole(c, h.customers.RevokeRole)
}

func (h *CustomerHandler) changeRole(c echo.Context, apply func(context.Context, int64, int64) error) error {
	customerID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}
	if err := apply(c.Request().Context(), customerID, roleID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
