package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const (
	identityKeyPrefix  = "identity:"
	defaultIdentityTTL = time.Minute
)

// IdentityCache keeps recently resolved customers so the identity filter does
// not hit the credential store on every request.
// Key format: identity:<username>
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.IdentityCache = (*IdentityCache)(nil)

// NewIdentityCache wraps client. A non-positive ttl falls back to one minute.
func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	if ttl <= 0 {
		ttl = defaultIdentityTTL
	}
	return &IdentityCache{client: client, ttl: ttl}
}

type cachedRole struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// cachedIdentity deliberately has no password field.
type cachedIdentity struct {
	ID        int64        `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone,omitempty"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Roles     []cachedRole `json:"roles"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (c *IdentityCache) Get(ctx context.Context, username string) (*domain.Customer, bool, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("identity cache get: %w", err)
	}

	var ci cachedIdentity
	if err := json.Unmarshal(raw, &ci); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.client.Del(ctx, c.key(username)).Err()
		return nil, false, nil
	}
	return ci.toDomain(), true, nil
}

func (c *IdentityCache) Put(ctx context.Context, customer *domain.Customer) error {
	raw, err := json.Marshal(fromDomain(customer))
	if err != nil {
		return fmt.Errorf("identity cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(customer.Username), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("identity cache set: %w", err)
	}
	return nil
}

func (c *IdentityCache) Invalidate(ctx context.Context, username string) error {
	if err := c.client.Del(ctx, c.key(username)).Err(); err != nil {
		return fmt.Errorf("identity cache del: %w", err)
	}
	return nil
}

func (c *IdentityCache) key(username string) string {
	return identityKeyPrefix + username
}

func fromDomain(c *domain.Customer) cachedIdentity {
	roles := make([]cachedRole, len(c.Roles))
	for i, r := range c.Roles {
		roles[i] = cachedRole{ID: r.ID, Name: r.Name}
	}
	return cachedIdentity{
		ID:        c.ID,
		Username:  c.Username,
		Email:     c.Email,
		Phone:     c.Phone,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Roles:     roles,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (ci cachedIdentity) toDomain() *domain.Customer {
	roles := make([]domain.Role, len(ci.Roles))
	for i, r := range ci.Roles {
		roles[i] = domain.Role{ID: r.ID, Name: r.Name}
	}
	return &domain.Customer{
		ID:        ci.ID,
		Username:  ci.Username,
		Email:     ci.Email,
		Phone:     ci.Phone,
		FirstName: ci.FirstName,
		LastName:  ci.LastName,
		Roles:     roles,
		CreatedAt: ci.CreatedAt,
		UpdatedAt: ci.UpdatedAt,
	}
}
