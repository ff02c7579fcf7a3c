package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("payment not found")
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrPolicyNotActive   = errors.New("policy is not active")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
)

type Status string

const (
	StatusDue    Status = "due"
	StatusPaid   Status = "paid"
	StatusUnused Status = "unused"
)

// CanTransitionTo reports whether a payment may move to next.
// Only due payments move; paid and unused are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusDue && (next == StatusPaid || next == StatusUnused)
}

// Payment is one scheduled installment of a policy premium.
type Payment struct {
	ID        int64
	PolicyID  int64
	Amount    decimal.Decimal
	DueDate   time.Time
	Status    Status
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt *time.Time
}
