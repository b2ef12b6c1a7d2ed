package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

// Identity resolves the bearer token of every request into a request-scoped
// identity. It never rejects a request for a missing or bad token; route
// policy does that. The only failures it returns are a subject with no
// matching customer (domain.ErrUnknownSubject) and unexpected errors, both
// of which go to the central error handler.
func Identity(tokens ports.TokenService, loader ports.IdentityLoader, log zerolog.Logger) echo.MiddlewareFunc {
	return IdentityWithConfig(IdentityConfig{Tokens: tokens, Loader: loader, Log: log})
}

// IdentityConfig configures IdentityWithConfig.
type IdentityConfig struct {
	// Skipper bypasses resolution entirely; skipped requests stay anonymous.
	Skipper echomiddleware.Skipper

	Tokens ports.TokenService
	Loader ports.IdentityLoader
	Log    zerolog.Logger
}

// IdentityWithConfig is Identity with a skipper.
func IdentityWithConfig(cfg IdentityConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = echomiddleware.DefaultSkipper
	}
	tokens, loader, log := cfg.Tokens, cfg.Loader, cfg.Log

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				metrics.IdentityResolutionsTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}
			token := strings.TrimSpace(header[len(bearerPrefix):])

			subject, err := tokens.ExtractSubject(token)
			if err != nil {
				metrics.IdentityResolutionsTotal.WithLabelValues("invalid_token").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected, continuing anonymously")
				return next(c)
			}

			ctx := c.Request().Context()
			if _, ok := identity.FromContext(ctx); ok {
				return next(c)
			}

			customer, err := resolve(c, loader, subject)
			if err != nil {
				if errors.Is(err, domain.ErrUnknownSubject) {
					metrics.IdentityResolutionsTotal.WithLabelValues("unknown_subject").Inc()
				} else {
					metrics.IdentityResolutionsTotal.WithLabelValues("error").Inc()
				}
				return err
			}

			if !tokens.IsValid(token, customer) {
				metrics.IdentityResolutionsTotal.WithLabelValues("expired").Inc()
				return next(c)
			}

			metrics.IdentityResolutionsTotal.WithLabelValues("authenticated").Inc()
			c.SetRequest(c.Request().WithContext(identity.With(ctx, identity.FromCustomer(customer))))
			return next(c)
		}
	}
}

// resolve turns a panic in the loader into an error so it reaches the
// central handler with the request still intact.
func resolve(c echo.Context, loader ports.IdentityLoader, subject string) (customer *domain.Customer, err error) {
	defer func() {
		if r := recover(); r != nil {
			customer = nil
			err = fmt.Errorf("identity lookup panicked: %v", r)
		}
	}()
	return loader.LoadByUsername(c.Request().Context(), subject)
}
