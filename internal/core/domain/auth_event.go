package domain

import "time"

// AuthEventType names an authentication action recorded in the audit trail.
type AuthEventType string

const (
	AuthEventSignup AuthEventType = "signup"
	AuthEventLogin  AuthEventType = "login"
)

// AuthEventResult is the outcome of an authentication action.
type AuthEventResult string

const (
	AuthResultSuccess  AuthEventResult = "success"
	AuthResultRejected AuthEventResult = "rejected"
	AuthResultError    AuthEventResult = "error"
)

// AuthEvent is one audit record. It never carries a password or a token.
type AuthEvent struct {
	Type       AuthEventType   `json:"type"`
	Result     AuthEventResult `json:"result"`
	Username   string          `json:"username,omitempty"`
	Email      string          `json:"email,omitempty"`
	CustomerID int64           `json:"customerId,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}
