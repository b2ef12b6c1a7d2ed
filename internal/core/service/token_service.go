package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// TokenConfig is built once at startup and never mutated afterwards.
type TokenConfig struct {
	Secret   []byte
	Lifetime time.Duration
	Issuer   string
}

// TokenService signs and checks HS256 bearer tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
}

var _ ports.TokenService = (*TokenService)(nil)

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token service: signing secret is empty")
	}
	if cfg.Lifetime <= 0 {
		return nil, errors.New("token service: lifetime must be positive")
	}
	return &TokenService{
		secret:   append([]byte(nil), cfg.Secret...),
		lifetime: cfg.Lifetime,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}, nil
}

// WithClock returns a copy that reads time from now. Tests only.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// Lifetime is the configured token validity window.
func (s *TokenService) Lifetime() time.Duration { return s.lifetime }

// ExpiresInMillis is Lifetime in milliseconds, as reported to clients.
func (s *TokenService) ExpiresInMillis() int64 { return s.lifetime.Milliseconds() }

// Issue signs a token whose subject is the principal's username.
func (s *TokenService) Issue(p domain.Principal) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   p.Subject(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token service: sign: %w", err)
	}
	return signed, nil
}

// ExtractSubject verifies the signature and returns the subject claim.
// Expiry is not judged here; see IsValid.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether token verifies, names p as its subject and has
// not yet expired.
func (s *TokenService) IsValid(token string, p domain.Principal) bool {
	claims, err := s.parse(token)
	if err != nil {
		return false
	}
	if claims.Subject != p.Subject() || claims.ExpiresAt == nil {
		return false
	}
	return s.now().Before(claims.ExpiresAt.Time)
}

func (s *TokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", domain.ErrInvalidToken, claims.Issuer)
	}
	return claims, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}
