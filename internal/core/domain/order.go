package domain

import "time"

// OrderStatusPending is given to orders created without a status. Status is
// otherwise free text; no transitions are enforced.
const OrderStatusPending = "PENDING"

// Order is owned by a Customer and removed with it. TotalCents always equals
// the sum of its items.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customerId"`
	Status     string      `json:"status"`
	TotalCents int64       `json:"totalCents"`
	OrderDate  time.Time   `json:"orderDate"`
	Items      []OrderItem `json:"items"`
}

// OrderItem is one product line. PriceCents is the unit price captured when
// the line was added.
type OrderItem struct {
	ID         int64 `json:"id"`
	OrderID    int64 `json:"orderId"`
	ProductID  int64 `json:"productId"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"priceCents"`
}

// Subtotal is quantity times unit price.
func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.PriceCents
}

// RecomputeTotal sets TotalCents from Items.
func (o *Order) RecomputeTotal() {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	o.TotalCents = total
}
