package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/identity"
)

func policyContext(id *identity.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(identity.With(context.Background(), *id))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func TestRequireIdentity(t *testing.T) {
	c, _ := policyContext(nil)
	called := false
	if err := RequireIdentity()(okHandler(&called))(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if called {
		t.Fatalf("should not reach next handler")
	}

	c, rec := policyContext(&identity.Identity{Username: "ab"})
	if err := RequireIdentity()(okHandler(&called))(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got called=%v code=%d", called, rec.Code)
	}
}

func TestRequireAuthority_Allows(t *testing.T) {
	c, rec := policyContext(&identity.Identity{Username: "root", Authorities: []string{domain.RoleAdmin}})
	called := false

	if err := RequireAuthority(domain.RoleAdmin)(okHandler(&called))(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got called=%v code=%d", called, rec.Code)
	}
}

func TestRequireAuthority_Forbids(t *testing.T) {
	c, _ := policyContext(&identity.Identity{Username: "ab", Authorities: []string{domain.RoleUser}})
	called := false

	if err := RequireAuthority(domain.RoleAdmin)(okHandler(&called))(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if called {
		t.Fatalf("should not reach next handler")
	}

	anon, _ := policyContext(nil)
	if err := RequireAuthority(domain.RoleAdmin)(okHandler(&called))(anon); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous, got %v", err)
	}
}
