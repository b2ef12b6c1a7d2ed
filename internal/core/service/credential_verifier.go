package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// PasswordVerifier checks an email/password pair against the credential
// store.
type PasswordVerifier struct {
	repo   ports.CustomerRepository
	hasher ports.PasswordHasher
}

var _ ports.CredentialVerifier = (*PasswordVerifier)(nil)

func NewPasswordVerifier(repo ports.CustomerRepository, hasher ports.PasswordHasher) *PasswordVerifier {
	return &PasswordVerifier{repo: repo, hasher: hasher}
}

func (v *PasswordVerifier) Verify(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	customer, err := v.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("verify credentials: %w", err)
	}

	if err := v.hasher.Compare(customer.HashedPassword(), password); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}
