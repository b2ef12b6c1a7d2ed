package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	tokenService ports.TokenService
}

func NewAuthHandler(authService ports.AuthService, tokenService ports.TokenService) *AuthHandler {
	return &AuthHandler{authService: authService, tokenService: tokenService}
}

type signupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	Phone    string `json:"phone"    validate:"max=32"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// signupResponse mirrors the storefront's {data, error} envelope. Exactly one
// of the two fields is non-null.
type signupResponse struct {
	Data  *domain.Customer `json:"data"`
	Error *string          `json:"error"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Signup registers a new customer.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest   true  "Registration details"
// @Success      200   {object}  signupResponse
// @Failure      400   {object}  signupResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return signupFailure(c, err)
	}

	customer, err := h.authService.Signup(c.Request().Context(), ports.Registration{
		FullName: req.FullName,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
	})
	switch {
	case err == nil:
		metrics.SignupsTotal.WithLabelValues("success").Inc()
		return c.JSON(http.StatusOK, signupResponse{Data: customer})
	case errors.Is(err, domain.ErrDuplicateCredential):
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return signupFailure(c, err)
	case errors.Is(err, domain.ErrInvalidNameFormat), errors.Is(err, domain.ErrPasswordTooLong):
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return signupFailure(c, err)
	default:
		return err
	}
}

func signupFailure(c echo.Context, err error) error {
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	return c.JSON(http.StatusBadRequest, signupResponse{Error: &msg})
}

// Login verifies credentials and issues a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.authService.Authenticate(c.Request().Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	token, err := h.tokenService.Issue(customer)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: h.tokenService.ExpiresInMillis(),
	})
}
