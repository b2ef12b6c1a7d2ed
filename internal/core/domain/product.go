package domain

import "time"

// Product is a sellable catalog entry. It may belong to one category and
// carry any number of tags. Prices are integer cents.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PriceCents    int64     `json:"priceCents"`
	StockQuantity int       `json:"stockQuantity"`
	CategoryID    *int64    `json:"categoryId"`
	TagIDs        []int64   `json:"tagIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
