package event

import (
	"time"

	"github.com/google/uuid"
)

// Type names a policy lifecycle transition.
type Type string

const (
	PolicyCreated   Type = "policy.created"
	PolicyCancelled Type = "policy.cancelled"
	PolicyExpired   Type = "policy.expired"
)

// Event is the message body published to the policy events queue.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Type         Type      `json:"type"`
	PolicyID     int64     `json:"policy_id"`
	PolicyNumber string    `json:"policy_number"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func New(t Type, policyID int64, policyNumber string, at time.Time) Event {
	return Event{
		ID:           uuid.New(),
		Type:         t,
		PolicyID:     policyID,
		PolicyNumber: policyNumber,
		OccurredAt:   at.UTC(),
	}
}
