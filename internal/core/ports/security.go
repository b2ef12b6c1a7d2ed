package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// PasswordHasher is a one-way salted hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// CredentialVerifier checks an email/password pair. It returns
// ErrInvalidCredentials for an unknown email or a wrong password alike.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}

// IdentityLoader resolves a token subject to a customer. A subject with no
// matching customer yields ErrUnknownSubject.
type IdentityLoader interface {
	LoadByUsername(ctx context.Context, username string) (*domain.Customer, error)
}

// IdentityCache is a read-through cache in front of the credential store.
// Cached customers never carry a password hash.
type IdentityCache interface {
	Get(ctx context.Context, username string) (*domain.Customer, bool, error)
	Put(ctx context.Context, c *domain.Customer) error
	Invalidate(ctx context.Context, username string) error
}
