package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/service"
)

type addressService interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]domain.ShippingAddress, error)
	Search(ctx context.Context, city, country string) ([]domain.ShippingAddress, error)
	Get(ctx context.Context, id int64) (*domain.ShippingAddress, error)
	Create(ctx context.Context, in service.AddressInput) (*domain.ShippingAddress, error)
	Update(ctx context.Context, id int64, in service.AddressInput) (*domain.ShippingAddress, error)
	Delete(ctx context.Context, id int64) error
}

// addressRequest omits customerId for the caller's own address.
type addressRequest struct {
	CustomerID   int64  `json:"customerId"   validate:"gte=0"`
	AddressLine1 string `json:"addressLine1" validate:"required,max=255"`
	AddressLine2 string `json:"addressLine2" validate:"max=255"`
	City         string `json:"city"         validate:"required,max=100"`
	State        string `json:"state"        validate:"max=100"`
	PostalCode   string `json:"postalCode"   validate:"required,max=20"`
	Country      string `json:"country"      validate:"required,max=100"`
}

func (r addressRequest) input() service.AddressInput {
	return service.AddressInput{
		CustomerID:   r.CustomerID,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
	}
}

type AddressHandler struct {
	addresses addressService
}

func NewAddressHandler(addresses addressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// ListForCustomer returns every address of one customer.
//
// @Summary   List addresses of a customer
// @Tags      shipping-addresses
// @Produce   json
// @Security  BearerAuth
// @Param     customerId  path   int  true  "Customer ID"
// @Success   200         {array}  domain.ShippingAddress
// @Failure   403         {object} errorResponse
// @Router    /api/shipping-addresses/customer/{customerId} [get]
func (h *AddressHandler) ListForCustomer(c echo.Context) error {
	customerID, err := pathID(c, "customerId")
	if err != nil {
		return err
	}
	addrs, err := h.addresses.ListForCustomer(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addrs)
}

// ByCity lists addresses in a city across customers.
//
// @Summary   Addresses by city
// @Tags      shipping-addresses
// @Produce   json
// @Security  BearerAuth
// @Param     city  path     string  true  "City"
// @Success   200   {array}  domain.ShippingAddress
// @Failure   403   {object} errorResponse
// @Router    /api/shipping-addresses/city/{city} [get]
func (h *AddressHandler) ByCity(c echo.Context) error {
	addrs, err := h.addresses.Search(c.Request().Context(), c.Param("city"), "")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addrs)
}

// ByCountry lists addresses in a country across customers.
//
// @Summary   Addresses by country
// @Tags      shipping-addresses
// @Produce   json
// @Security  BearerAuth
// @Param     country  path     string  true  "Country"
// @Success   200      {array}  domain.ShippingAddress
// @Failure   403      {object} errorResponse
// @Router    /api/shipping-addresses/country/{country} [get]
func (h *AddressHandler) ByCountry(c echo.Context) error {
	addrs, err := h.addresses.Search(c.Request().Context(), "", c.Param("country"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addrs)
}

// @Summary   Get address
// @Tags      shipping-addresses
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      int  true  "Address ID"
// @Success   200  {object}  domain.ShippingAddress
// @Failure   404  {object}  errorResponse
// @Router    /api/shipping-addresses/{id} [get]
func (h *AddressHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	addr, err := h.addresses.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addr)
}

// @Summary   Create address
// @Tags      shipping-addresses
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      addressRequest  true  "Address"
// @Success   201   {object}  domain.ShippingAddress
// @Failure   400   {object}  errorResponse
// @Router    /api/shipping-addresses [post]
func (h *AddressHandler) Create(c echo.Context) error {
	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	addr, err := h.addresses.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, addr)
}

// @Summary   Update address
// @Tags      shipping-addresses
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      int             true  "Address ID"
// @Param     body  body      addressRequest  true  "Address"
// @Success   200   {object}  domain.ShippingAddress
// @Failure   404   {object}  errorResponse
// @Router    /api/shipping-addresses/{id} [put]
func (h *AddressHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	addr, err := h.addresses.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, addr)
}

// @Summary   Delete address
// @Tags      shipping-addresses
// @Security  BearerAuth
// @Param     id  path  int  true  "Address ID"
// @Success   204
// @Failure   404  {object}  errorResponse
// @Router    /api/shipping-addresses/{id} [delete]
func (h *AddressHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.addresses.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
