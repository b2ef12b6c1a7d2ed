package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

func newTestAuthService(repo *stubCustomerRepo, audit ports.AuditPublisher) *AuthService {
	hasher := bcryptHasher{}
	return NewAuthService(repo, hasher, NewPasswordVerifier(repo, hasher), audit, zerolog.Nop())
}

func registration() ports.Registration {
	return ports.Registration{
		FullName: "First Last",
		Email:    "a@b.com",
		Username: "ab",
		Password: "pw",
		Phone:    "555-0100",
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubCustomerRepo()
	audit := &recordingAudit{}
	svc := newTestAuthService(repo, audit)

	customer, err := svc.Signup(context.Background(), registration())
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if customer.ID == 0 {
		t.Fatalf("expected an assigned id")
	}
	if customer.FirstName != "First" || customer.LastName != "Last" {
		t.Fatalf("unexpected name split: %q %q", customer.FirstName, customer.LastName)
	}
	if customer.PasswordHash == "pw" || customer.PasswordHash == "" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("pw")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !customer.HasRole(domain.RoleUser) {
		t.Fatalf("expected new customers to hold %s, got %v", domain.RoleUser, customer.Authorities())
	}
	if customer.CreatedAt.IsZero() || !customer.CreatedAt.Equal(customer.UpdatedAt) {
		t.Fatalf("expected creation timestamps to be set together")
	}

	got := audit.last()
	if got.Type != domain.AuthEventSignup || got.Result != domain.AuthResultSuccess || got.CustomerID != customer.ID {
		t.Fatalf("unexpected audit event: %+v", got)
	}
}

func TestAuthService_Signup_DuplicatesLookIdentical(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ports.Registration)
	}{
		{name: "same email", mutate: func(r *ports.Registration) { r.Username = "other" }},
		{name: "same username", mutate: func(r *ports.Registration) { r.Email = "other@b.com" }},
		{name: "both", mutate: func(*ports.Registration) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStubCustomerRepo()
			svc := newTestAuthService(repo, nil)
			if _, err := svc.Signup(context.Background(), registration()); err != nil {
				t.Fatalf("first signup failed: %v", err)
			}

			second := registration()
			tt.mutate(&second)
			_, err := svc.Signup(context.Background(), second)
			if !errors.Is(err, domain.ErrDuplicateCredential) {
				t.Fatalf("expected ErrDuplicateCredential, got %v", err)
			}
			if err.Error() != domain.DuplicateCredentialMessage {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestAuthService_Signup_StoreFailureIsMasked(t *testing.T) {
	repo := newStubCustomerRepo()
	repo.createErr = errStoreDown
	svc := newTestAuthService(repo, nil)

	_, err := svc.Signup(context.Background(), registration())
	if !errors.Is(err, domain.ErrDuplicateCredential) {
		t.Fatalf("expected ErrDuplicateCredential, got %v", err)
	}
}

func TestAuthService_Signup_InvalidName(t *testing.T) {
	repo := newStubCustomerRepo()
	audit := &recordingAudit{}
	svc := newTestAuthService(repo, audit)

	in := registration()
	in.FullName = "OnlyOneName"
	if _, err := svc.Signup(context.Background(), in); !errors.Is(err, domain.ErrInvalidNameFormat) {
		t.Fatalf("expected ErrInvalidNameFormat, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing should have been stored")
	}
	if got := audit.last(); got.Result != domain.AuthResultRejected {
		t.Fatalf("expected rejected audit event, got %+v", got)
	}
}

func TestAuthService_Signup_PasswordTooLong(t *testing.T) {
	repo := newStubCustomerRepo()
	audit := &recordingAudit{}
	svc := newTestAuthService(repo, audit)

	in := registration()
	in.Password = strings.Repeat("é", 40)
	_, err := svc.Signup(context.Background(), in)
	if !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if errors.Is(err, domain.ErrDuplicateCredential) {
		t.Fatalf("a long password is not a duplicate")
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing should have been stored")
	}
	if got := audit.last(); got.Result != domain.AuthResultRejected || got.Reason != "password_too_long" {
		t.Fatalf("unexpected audit event: %+v", got)
	}
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	repo := newStubCustomerRepo()
	audit := &recordingAudit{}
	svc := newTestAuthService(repo, audit)
	if _, err := svc.Signup(context.Background(), registration()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	customer, err := svc.Authenticate(context.Background(), ports.Credentials{Email: "a@b.com", Password: "pw"})
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if customer.Username != "ab" {
		t.Fatalf("unexpected customer: %+v", customer)
	}
	if got := audit.last(); got.Type != domain.AuthEventLogin || got.Result != domain.AuthResultSuccess {
		t.Fatalf("unexpected audit event: %+v", got)
	}
}

func TestAuthService_Authenticate_BadCredentials(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := newTestAuthService(repo, nil)
	if _, err := svc.Signup(context.Background(), registration()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	cases := map[string]ports.Credentials{
		"wrong password": {Email: "a@b.com", Password: "nope"},
		"unknown email":  {Email: "x@b.com", Password: "pw"},
		"empty password": {Email: "a@b.com"},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Authenticate(context.Background(), creds); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Authenticate_ReloadMissIsInternal(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := newTestAuthService(repo, nil)
	if _, err := svc.Signup(context.Background(), registration()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	repo.forgetOnReload = true

	_, err := svc.Authenticate(context.Background(), ports.Credentials{Email: "a@b.com", Password: "pw"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if errors.Is(err, domain.ErrCustomerNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("reload miss must not map to a client error, got %v", err)
	}
}

func TestPasswordVerifier_StoreErrorIsWrapped(t *testing.T) {
	repo := newStubCustomerRepo()
	repo.findErr = errStoreDown
	v := NewPasswordVerifier(repo, bcryptHasher{})

	err := v.Verify(context.Background(), "a@b.com", "pw")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store outage must not look like bad credentials")
	}
}
