package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// IdentityService resolves token subjects for the request identity filter,
// reading through an optional cache.
type IdentityService struct {
	repo  ports.CustomerRepository
	cache ports.IdentityCache
	log   zerolog.Logger
}

var _ ports.IdentityLoader = (*IdentityService)(nil)

// NewIdentityService returns a loader. cache may be nil.
func NewIdentityService(repo ports.CustomerRepository, cache ports.IdentityCache, log zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, cache: cache, log: log}
}

func (s *IdentityService) LoadByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, username)
		switch {
		case err != nil:
			// Cache outages degrade to store lookups.
			s.log.Warn().Err(err).Str("username", username).Msg("identity cache read failed")
		case ok:
			return cached, nil
		}
	}

	customer, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSubject, username)
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, customer); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("identity cache write failed")
		}
	}
	return customer, nil
}

// Forget drops any cached copy of username.
func (s *IdentityService) Forget(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("identity cache invalidation failed")
	}
}
