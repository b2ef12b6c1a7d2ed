package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const (
	authEventsCollection = "auth_events"
	defaultAuditLimit    = 50
	maxAuditLimit        = 500
)

// AuditRepository stores authentication events in MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

var (
	_ ports.AuditRepository = (*AuditRepository)(nil)
	_ ports.AuditReader     = (*AuditRepository)(nil)
)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(authEventsCollection)}
}

type authEventDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Type       string             `bson:"type"`
	Result     string             `bson:"result"`
	Username   string             `bson:"username,omitempty"`
	Email      string             `bson:"email,omitempty"`
	CustomerID int64              `bson:"customer_id,omitempty"`
	Reason     string             `bson:"reason,omitempty"`
	OccurredAt time.Time          `bson:"occurred_at"`
	RecordedAt time.Time          `bson:"recorded_at"`
}

// EnsureIndexes creates the lookup index used by Recent. Safe to call on
// every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

// InsertAuthEvent persists one event.
func (r *AuditRepository) InsertAuthEvent(ctx context.Context, event *domain.AuthEvent) error {
	doc := authEventDoc{
		Type:       string(event.Type),
		Result:     string(event.Result),
		Username:   event.Username,
		Email:      event.Email,
		CustomerID: event.CustomerID,
		Reason:     event.Reason,
		OccurredAt: event.OccurredAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// Recent returns the newest events first. An empty filter field matches all.
func (r *AuditRepository) Recent(ctx context.Context, filter ports.AuditFilter) ([]domain.AuthEvent, error) {
	query := bson.M{}
	if filter.Username != "" {
		query["username"] = filter.Username
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find auth events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []authEventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode auth events: %w", err)
	}

	events := make([]domain.AuthEvent, len(docs))
	for i, d := range docs {
		events[i] = domain.AuthEvent{
			Type:       domain.AuthEventType(d.Type),
			Result:     domain.AuthEventResult(d.Result),
			Username:   d.Username,
			Email:      d.Email,
			CustomerID: d.CustomerID,
			Reason:     d.Reason,
			OccurredAt: d.OccurredAt.UTC(),
		}
	}
	return events, nil
}
