// Package models holds the bun row types of the relational store.
package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Customer is the credential row. Username and email are UNIQUE; the store
// is the only place uniqueness is enforced.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,notnull,unique"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Phone        string    `bun:"phone,notnull,default:''"`
	FirstName    string    `bun:"first_name,notnull"`
	LastName     string    `bun:"last_name,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Roles []Role `bun:"m2m:customer_roles,join:Customer=Role"`
}

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
}

// CustomerRole is the customer_roles join table.
type CustomerRole struct {
	bun.BaseModel `bun:"table:customer_roles,alias:cr"`

	CustomerID int64     `bun:"customer_id,pk"`
	Customer   *Customer `bun:"rel:belongs-to,join:customer_id=id"`
	RoleID     int64     `bun:"role_id,pk"`
	Role       *Role     `bun:"rel:belongs-to,join:role_id=id"`
}

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull,unique"`
	Description string    `bun:"description,notnull,default:''"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type Tag struct {
	bun.BaseModel `bun:"table:tags,alias:t"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
}

// ShippingAddress rows are deleted with their customer.
type ShippingAddress struct {
	bun.BaseModel `bun:"table:shipping_addresses,alias:sa"`

	ID           int64     `bun:"id,pk,autoincrement"`
	CustomerID   int64     `bun:"customer_id,notnull"`
	AddressLine1 string    `bun:"address_line1,notnull"`
	AddressLine2 string    `bun:"address_line2,notnull,default:''"`
	City         string    `bun:"city,notnull"`
	State        string    `bun:"state,notnull,default:''"`
	PostalCode   string    `bun:"postal_code,notnull,default:''"`
	Country      string    `bun:"country,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Order is owned by a customer. total_cents is kept equal to the sum of its
// items by the repository.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID         int64     `bun:"id,pk,autoincrement"`
	CustomerID int64     `bun:"customer_id,notnull"`
	Status     string    `bun:"status,notnull"`
	TotalCents int64     `bun:"total_cents,notnull,default:0"`
	OrderDate  time.Time `bun:"order_date,notnull,default:current_timestamp"`

	Items []OrderItem `bun:"rel:has-many,join:id=order_id"`
}

// Product.CategoryID is set to NULL when its category is deleted.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull"`
	Description   string    `bun:"description,notnull,default:''"`
	PriceCents    int64     `bun:"price_cents,notnull"`
	StockQuantity int       `bun:"stock_quantity,notnull,default:0"`
	CategoryID    *int64    `bun:"category_id"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Tags []Tag `bun:"m2m:product_tags,join:Product=Tag"`
}

// ProductTag is the product_tags join table.
type ProductTag struct {
	bun.BaseModel `bun:"table:product_tags,alias:pt"`

	ProductID int64    `bun:"product_id,pk"`
	Product   *Product `bun:"rel:belongs-to,join:product_id=id"`
	TagID     int64    `bun:"tag_id,pk"`
	Tag       *Tag     `bun:"rel:belongs-to,join:tag_id=id"`
}

// OrderItem rows go with their order; a referenced product cannot be
// deleted.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID         int64 `bun:"id,pk,autoincrement"`
	OrderID    int64 `bun:"order_id,notnull"`
	ProductID  int64 `bun:"product_id,notnull"`
	Quantity   int   `bun:"quantity,notnull"`
	PriceCents int64 `bun:"price_cents,notnull"`
}

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:rv"`

	ID         int64     `bun:"id,pk,autoincrement"`
	CustomerID int64     `bun:"customer_id,notnull"`
	ProductID  int64     `bun:"product_id,notnull"`
	Rating     int       `bun:"rating,notnull"`
	Comment    string    `bun:"comment,notnull,default:''"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Register must run before any m2m query touches customer_roles or
// product_tags.
func Register(db *bun.DB) {
	db.RegisterModel((*CustomerRole)(nil), (*ProductTag)(nil))
}
