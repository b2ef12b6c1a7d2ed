package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCustomer_SetFullName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   error
		wantFirst string
		wantLast  string
	}{
		{name: "two tokens", input: "First Last", wantFirst: "First", wantLast: "Last"},
		{name: "extra whitespace", input: "  Jane \t Doe ", wantFirst: "Jane", wantLast: "Doe"},
		{name: "single token", input: "OnlyOneName", wantErr: ErrInvalidNameFormat},
		{name: "three tokens", input: "Mary Ann Smith", wantErr: ErrInvalidNameFormat},
		{name: "empty", input: "   ", wantErr: ErrInvalidNameFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Customer
			err := c.SetFullName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if c.FirstName != tt.wantFirst || c.LastName != tt.wantLast {
				t.Fatalf("unexpected names: %q %q", c.FirstName, c.LastName)
			}
		})
	}
}

func TestCustomer_FullNameRoundTrip(t *testing.T) {
	var c Customer
	if err := c.SetFullName("Jane Doe"); err != nil {
		t.Fatalf("SetFullName: %v", err)
	}
	if got := c.FullName(); got != "Jane Doe" {
		t.Fatalf("expected %q, got %q", "Jane Doe", got)
	}
}

func TestCustomer_Timestamps(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	var c Customer
	c.MarkCreated(created)
	if !c.CreatedAt.Equal(created) || !c.UpdatedAt.Equal(created) {
		t.Fatalf("expected both timestamps at creation time")
	}

	later := created.Add(time.Hour)
	c.Touch(later)
	if !c.CreatedAt.Equal(created) {
		t.Fatalf("created_at must not move on update")
	}
	if !c.UpdatedAt.Equal(later) {
		t.Fatalf("updated_at not refreshed")
	}
}

func TestCustomer_Authorities(t *testing.T) {
	c := &Customer{Username: "ab", Roles: []Role{{ID: 1, Name: RoleAdmin}, {ID: 2, Name: RoleUser}}}

	var p Principal = c
	if p.Subject() != "ab" {
		t.Fatalf("unexpected subject %q", p.Subject())
	}
	got := p.Authorities()
	if len(got) != 2 || got[0] != RoleAdmin || got[1] != RoleUser {
		t.Fatalf("unexpected authorities: %v", got)
	}
	if !c.HasRole(RoleAdmin) || c.HasRole("ROLE_GHOST") {
		t.Fatalf("HasRole mismatch")
	}
}
