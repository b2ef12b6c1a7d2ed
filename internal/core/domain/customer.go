package domain

import (
	"strings"
	"time"
)

// Principal is anything the token and authentication layers can work with:
// a subject name, a stored password hash and a set of granted authorities.
type Principal interface {
	Subject() string
	HashedPassword() string
	Authorities() []string
}

// Customer is a registered, authenticatable user of the store.
type Customer struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var _ Principal = (*Customer)(nil)

// FullName joins first and last name with a single space.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// SetFullName splits s on whitespace and requires exactly two tokens.
func (c *Customer) SetFullName(s string) error {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return ErrInvalidNameFormat
	}
	c.FirstName, c.LastName = parts[0], parts[1]
	return nil
}

// MarkCreated stamps both timestamps. Called once, before the first write.
func (c *Customer) MarkCreated(now time.Time) {
	c.CreatedAt = now
	c.UpdatedAt = now
}

// Touch refreshes the update timestamp on mutation.
func (c *Customer) Touch(now time.Time) {
	c.UpdatedAt = now
}

func (c *Customer) Subject() string        { return c.Username }
func (c *Customer) HashedPassword() string { return c.PasswordHash }

// Authorities returns role names, e.g. ["ROLE_ADMIN"].
func (c *Customer) Authorities() []string {
	out := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		out = append(out, r.Name)
	}
	return out
}

// HasRole reports whether the customer holds the named role.
func (c *Customer) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
