package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns the single place where errors become HTTP
// responses:
//   - known domain errors map to fixed status codes;
//   - echo errors keep their own code;
//   - anything else is logged and rendered as a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateCredential):
		return http.StatusBadRequest, domain.DuplicateCredentialMessage
	case errors.Is(err, domain.ErrInvalidNameFormat):
		return http.StatusBadRequest, domain.ErrInvalidNameFormat.Error()
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, domain.ErrPasswordTooLong.Error()
	case errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusBadRequest, domain.ErrEmptyOrder.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnknownSubject):
		return http.StatusUnauthorized, domain.ErrUnknownSubject.Error()
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrRoleNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, domain.ErrDuplicateName):
		return http.StatusConflict, domain.ErrDuplicateName.Error()
	case errors.Is(err, domain.ErrProductInUse):
		return http.StatusConflict, domain.ErrProductInUse.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// rootMessage returns the sentinel's own message, dropping wrap context that
// may name internal identifiers.
func rootMessage(err error) string {
	for _, target := range []error{
		domain.ErrCustomerNotFound,
		domain.ErrRoleNotFound,
		domain.ErrCategoryNotFound,
		domain.ErrTagNotFound,
		domain.ErrAddressNotFound,
		domain.ErrProductNotFound,
		domain.ErrOrderNotFound,
		domain.ErrItemNotFound,
		domain.ErrReviewNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
