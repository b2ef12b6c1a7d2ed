package domain

import "time"

// Review is a customer's rating of a product, 1 to 5.
type Review struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	ProductID  int64     `json:"productId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
