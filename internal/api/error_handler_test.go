package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"duplicate credential", domain.ErrDuplicateCredential, http.StatusBadRequest, "Email or username already exists!"},
		{"invalid name", domain.ErrInvalidNameFormat, http.StatusBadRequest, domain.ErrInvalidNameFormat.Error()},
		{"password too long", domain.ErrPasswordTooLong, http.StatusBadRequest, domain.ErrPasswordTooLong.Error()},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"unknown subject", fmt.Errorf("%w: ghost", domain.ErrUnknownSubject), http.StatusUnauthorized, "unknown token subject"},
		{"anonymous", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"wrapped not found", fmt.Errorf("%w: ROLE_GHOST", domain.ErrRoleNotFound), http.StatusNotFound, "role not found"},
		{"wrapped item not found", fmt.Errorf("%w: 42", domain.ErrItemNotFound), http.StatusNotFound, "order item not found"},
		{"review not found", domain.ErrReviewNotFound, http.StatusNotFound, domain.ErrReviewNotFound.Error()},
		{"empty order", domain.ErrEmptyOrder, http.StatusBadRequest, "order must contain at least one item"},
		{"duplicate name", domain.ErrDuplicateName, http.StatusConflict, "name already exists"},
		{"product in use", domain.ErrProductInUse, http.StatusConflict, "product is referenced by orders"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "email is required"), http.StatusBadRequest, "email is required"},
		{"unexpected", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusNoContent)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("committed response must not be rewritten")
	}
}
