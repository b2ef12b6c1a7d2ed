package domain

import "time"

// ShippingAddress is owned by a Customer and removed with it.
type ShippingAddress struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customerId"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postalCode"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
