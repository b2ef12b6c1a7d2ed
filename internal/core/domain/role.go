package domain

const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Role is referenced, never owned, by a Customer.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
