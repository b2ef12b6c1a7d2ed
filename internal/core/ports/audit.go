package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// AuditPublisher hands an event off for asynchronous persistence.
// Publish must not block the request path.
type AuditPublisher interface {
	Publish(event domain.AuthEvent)
}

// AuditRepository persists authentication events.
type AuditRepository interface {
	InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditFilter narrows AuditReader.Recent. Zero fields match everything.
type AuditFilter struct {
	Username string
	Email    string
	Type     domain.AuthEventType
	Limit    int
}

// AuditReader lists recorded authentication events, newest first.
type AuditReader interface {
	Recent(ctx context.Context, filter AuditFilter) ([]domain.AuthEvent, error)
}
