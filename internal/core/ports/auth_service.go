package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// Registration carries signup input. Password is plaintext and must never
// be logged or stored as-is.
type Registration struct {
	FullName string
	Email    string
	Username string
	Password string
	Phone    string
}

// Credentials carries login input.
type Credentials struct {
	Email    string
	Password string
}

type AuthService interface {
	Signup(ctx context.Context, in Registration) (*domain.Customer, error)
	Authenticate(ctx context.Context, in Credentials) (*domain.Customer, error)
}

// TokenService issues and checks signed, time-limited bearer tokens.
type TokenService interface {
	Issue(p domain.Principal) (string, error)
	ExpiresInMillis() int64
	ExtractSubject(token string) (string, error)
	IsValid(token string, p domain.Principal) bool
}
