// Package identity carries the authenticated caller on a request's
// context.Context. Each request gets its own context, so concurrent
// requests never observe each other's identity.
package identity

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// Identity is the request-scoped view of an authenticated customer.
type Identity struct {
	CustomerID  int64
	Username    string
	Email       string
	Authorities []string
}

// FromCustomer snapshots the fields downstream handlers need.
func FromCustomer(c *domain.Customer) Identity {
	return Identity{
		CustomerID:  c.ID,
		Username:    c.Username,
		Email:       c.Email,
		Authorities: c.Authorities(),
	}
}

// HasAuthority reports whether the identity was granted name.
func (i Identity) HasAuthority(name string) bool {
	for _, a := range i.Authorities {
		if a == name {
			return true
		}
	}
	return false
}

type contextKey struct{}

// With returns a copy of ctx carrying id.
func With(ctx context.Context, id Identity) context.Context {
	id.Authorities = append([]string(nil), id.Authorities...)
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored on ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Require is FromContext that fails with domain.ErrUnauthenticated.
func Require(ctx context.Context) (Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
