package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// AuthService implements signup and login.
type AuthService struct {
	repo     ports.CustomerRepository
	hasher   ports.PasswordHasher
	verifier ports.CredentialVerifier
	audit    ports.AuditPublisher
	log      zerolog.Logger
	now      func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService wires the service. audit may be nil.
func NewAuthService(
	repo ports.CustomerRepository,
	hasher ports.PasswordHasher,
	verifier ports.CredentialVerifier,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		verifier: verifier,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

// Signup creates a customer holding ROLE_USER. Every persistence failure is reported as
// ErrDuplicateCredential; the store's unique constraints are the only
// uniqueness check, so concurrent signups cannot both succeed.
func (s *AuthService) Signup(ctx context.Context, in ports.Registration) (*domain.Customer, error) {
	customer := &domain.Customer{
		Email:    in.Email,
		Username: in.Username,
		Phone:    in.Phone,
		Roles:    []domain.Role{{Name: domain.RoleUser}},
	}
	if err := customer.SetFullName(in.FullName); err != nil {
		s.record(domain.AuthEventSignup, domain.AuthResultRejected, in.Username, in.Email, 0, "invalid_name")
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, domain.ErrPasswordTooLong) {
		s.record(domain.AuthEventSignup, domain.AuthResultRejected, in.Username, in.Email, 0, "password_too_long")
		return nil, domain.ErrPasswordTooLong
	}
	if err != nil {
		s.record(domain.AuthEventSignup, domain.AuthResultError, in.Username, in.Email, 0, "hash_failed")
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}
	customer.PasswordHash = hash
	customer.MarkCreated(s.now().UTC())

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("signup rejected by credential store")
		s.record(domain.AuthEventSignup, domain.AuthResultRejected, in.Username, in.Email, 0, "duplicate")
		return nil, domain.ErrDuplicateCredential
	}

	s.log.Info().Int64("customer_id", created.ID).Str("username", created.Username).Msg("customer registered")
	s.record(domain.AuthEventSignup, domain.AuthResultSuccess, created.Username, created.Email, created.ID, "")
	return created, nil
}

// Authenticate verifies the credentials and then reloads the customer by
// email. A customer that disappears between the two steps is an internal
// error, not a credentials failure.
func (s *AuthService) Authenticate(ctx context.Context, in ports.Credentials) (*domain.Customer, error) {
	if err := s.verifier.Verify(ctx, in.Email, in.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.record(domain.AuthEventLogin, domain.AuthResultRejected, "", in.Email, 0, "invalid_credentials")
		} else {
			s.record(domain.AuthEventLogin, domain.AuthResultError, "", in.Email, 0, "verify_failed")
		}
		return nil, err
	}

	customer, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		s.record(domain.AuthEventLogin, domain.AuthResultError, "", in.Email, 0, "reload_failed")
		return nil, fmt.Errorf("authenticate: reload verified customer: %v", err)
	}

	s.log.Info().Int64("customer_id", customer.ID).Str("username", customer.Username).Msg("customer authenticated")
	s.record(domain.AuthEventLogin, domain.AuthResultSuccess, customer.Username, customer.Email, customer.ID, "")
	return customer, nil
}

func (s *AuthService) record(typ domain.AuthEventType, result domain.AuthEventResult, username, email string, customerID int64, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Publish(domain.AuthEvent{
		Type:       typ,
		Result:     result,
		Username:   username,
		Email:      email,
		CustomerID: customerID,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	})
}
