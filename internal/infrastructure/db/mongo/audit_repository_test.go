package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

func TestAuditRepository_InsertAuthEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAuditRepository(mt.DB)

		err := repo.InsertAuthEvent(context.Background(), &domain.AuthEvent{
			Type:       domain.AuthEventLogin,
			Result:     domain.AuthResultSuccess,
			Username:   "ab",
			CustomerID: 1,
			OccurredAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("InsertAuthEvent: %v", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "insert" {
			t.Fatalf("expected an insert command, got %+v", started)
		}
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted at shutdown",
		}))
		repo := NewAuditRepository(mt.DB)

		if err := repo.InsertAuthEvent(context.Background(), &domain.AuthEvent{Type: domain.AuthEventSignup}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestAuditRepository_Recent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes newest first", func(mt *mtest.T) {
		newer := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
		older := newer.Add(-time.Hour)
		ns := mt.DB.Name() + "." + authEventsCollection

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "type", Value: "login"},
				{Key: "result", Value: "success"},
				{Key: "username", Value: "ab"},
				{Key: "customer_id", Value: int64(1)},
				{Key: "occurred_at", Value: newer},
			},
			bson.D{
				{Key: "type", Value: "login"},
				{Key: "result", Value: "rejected"},
				{Key: "email", Value: "a@b.com"},
				{Key: "reason", Value: "invalid_credentials"},
				{Key: "occurred_at", Value: older},
			},
		))
		repo := NewAuditRepository(mt.DB)

		events, err := repo.Recent(context.Background(), ports.AuditFilter{Username: "ab", Limit: 10_000})
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].CustomerID != 1 || !events[0].OccurredAt.Equal(newer) {
			t.Fatalf("unexpected first event: %+v", events[0])
		}
		if events[1].Result != domain.AuthResultRejected || events[1].Reason != "invalid_credentials" {
			t.Fatalf("unexpected second event: %+v", events[1])
		}

		cmd := mt.GetStartedEvent().Command
		if limit, ok := cmd.Lookup("limit").AsInt64OK(); !ok || limit != maxAuditLimit {
			t.Fatalf("expected limit capped at %d, got %v", maxAuditLimit, cmd.Lookup("limit"))
		}
	})
}
