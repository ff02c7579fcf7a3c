package policy

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("policy not found")
	ErrAlreadyExists     = errors.New("policy already exists for application")
	ErrInvalidTransition = errors.New("invalid policy status transition")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Policy is an issued contract. Its premium is fixed when it is created.
type Policy struct {
	ID            int64
	Number        string
	ApplicationID int64
	OwnerID       uuid.UUID
	StartDate     time.Time
	AnnualPremium decimal.Decimal
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Number formats a policy number as POL-<year>-<applicationID>.
func Number(year int, applicationID int64) string {
	return fmt.Sprintf("POL-%d-%d", year, applicationID)
}
