package domain

import "errors"

// DuplicateCredentialMessage is shown to clients for any signup collision.
// It intentionally does not say which field collided.
const DuplicateCredentialMessage = "Email or username already exists!"

// Authentication errors.
var (
	ErrDuplicateCredential = errors.New(DuplicateCredentialMessage)
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnknownSubject      = errors.New("unknown token subject")
	ErrInvalidNameFormat   = errors.New("full name must contain exactly a first and a last name")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("access forbidden")
)

// Lookup and persistence errors.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrRoleNotFound     = errors.New("role not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrAddressNotFound  = errors.New("shipping address not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrItemNotFound     = errors.New("order item not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrDuplicateName    = errors.New("name already exists")
	ErrProductInUse     = errors.New("product is referenced by orders")
	ErrEmptyOrder       = errors.New("order must contain at least one item")
)
