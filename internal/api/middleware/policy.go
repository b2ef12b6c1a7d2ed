package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
)

// RequireIdentity rejects anonymous requests with domain.ErrUnauthenticated.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := identity.FromContext(c.Request().Context()); !ok {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// RequireAuthority lets the request through when the caller holds at least
// one of the given authorities.
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := identity.FromContext(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			for _, a := range authorities {
				if id.HasAuthority(a) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
