package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalidTransition = errors.New("invalid application status transition")
)

// Status represents the decisioning state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// CanTransitionTo reports whether a decision may move the application to next.
// Only pending applications can be decided.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && (next == StatusAccepted || next == StatusRejected)
}

// Application is a prospective policyholder's request for cover.
type Application struct {
	ID              int64
	OwnerID         uuid.UUID
	ProductType     string
	DesiredCoverage decimal.NullDecimal
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
