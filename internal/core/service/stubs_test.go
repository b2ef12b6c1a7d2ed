package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/commerce-api/internal/core/domain"
)

type stubCustomerRepo struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*domain.Customer
	roles     map[int64]domain.Role
	createErr error
	findErr   error // returned by every lookup when set
	// forgetOnReload makes FindByEmail miss after the first successful call.
	forgetOnReload bool
	emailLookups   int
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		byID: make(map[int64]*domain.Customer),
		roles: map[int64]domain.Role{
			1: {ID: 1, Name: domain.RoleAdmin},
			2: {ID: 2, Name: domain.RoleUser},
		},
	}
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	clone := *c
	clone.Roles = append([]domain.Role(nil), c.Roles...)
	return &clone
}

func (r *stubCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Username == c.Username || existing.Email == c.Email {
			return nil, domain.ErrDuplicateCredential
		}
	}
	r.nextID++
	stored := cloneCustomer(c)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return cloneCustomer(stored), nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

func (r *stubCustomerRepo) FindByUsername(_ context.Context, username string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, c := range r.byID {
		if c.Username == username {
			return cloneCustomer(c), nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *stubCustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.emailLookups++
	if r.forgetOnReload && r.emailLookups > 1 {
		return nil, domain.ErrCustomerNotFound
	}
	for _, c := range r.byID {
		if c.Email == email {
			return cloneCustomer(c), nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *stubCustomerRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCustomerRepo) AssignRole(_ context.Context, customerID, roleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[customerID]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	role, ok := r.roles[roleID]
	if !ok {
		return domain.ErrRoleNotFound
	}
	if !c.HasRole(role.Name) {
		c.Roles = append(c.Roles, role)
	}
	return nil
}

func (r *stubCustomerRepo) RevokeRole(_ context.Context, customerID, roleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[customerID]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	kept := c.Roles[:0]
	for _, role := range c.Roles {
		if role.ID != roleID {
			kept = append(kept, role)
		}
	}
	c.Roles = kept
	return nil
}

// bcryptHasher mirrors the production hasher at the cheapest cost.
type bcryptHasher struct{}

func (bcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	return string(b), err
}

func (bcryptHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

type stubIdentityCache struct {
	entries     map[string]*domain.Customer
	getErr      error
	invalidated []string
}

func newStubIdentityCache() *stubIdentityCache {
	return &stubIdentityCache{entries: make(map[string]*domain.Customer)}
}

func (c *stubIdentityCache) Get(_ context.Context, username string) (*domain.Customer, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	cached, ok := c.entries[username]
	if !ok {
		return nil, false, nil
	}
	return cloneCustomer(cached), true, nil
}

func (c *stubIdentityCache) Put(_ context.Context, customer *domain.Customer) error {
	stored := cloneCustomer(customer)
	stored.PasswordHash = ""
	c.entries[customer.Username] = stored
	return nil
}

func (c *stubIdentityCache) Invalidate(_ context.Context, username string) error {
	delete(c.entries, username)
	c.invalidated = append(c.invalidated, username)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (a *recordingAudit) Publish(e domain.AuthEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) last() domain.AuthEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events[len(a.events)-1]
}

var errStoreDown = errors.New("connection refused")
