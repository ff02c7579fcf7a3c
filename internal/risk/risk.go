package risk

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("risk assessment not found")
	ErrApplicationNotFound = errors.New("application not found")
)

// Outcome is the result of a guarded delete. None of the outcomes is an error.
type Outcome int

const (
	OutcomeDeleted Outcome = iota
	OutcomeNotFound
	OutcomeBlocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Assessment is an underwriter's note on an application.
type Assessment struct {
	ID            int64
	ApplicationID int64
	Content       string
	Score         int
	Flags         []string
	CreatedAt     time.Time
}

// Factors are the applicant details declared at assessment time.
type Factors struct {
	Age    int
	Smoker bool
}

var (
	highCoverage   = decimal.NewFromInt(500_000)
	mediumCoverage = decimal.NewFromInt(250_000)
	lowCoverage    = decimal.NewFromInt(100_000)
)

const maxScore = 100

// Score rates an applicant from 0 (lowest risk) to 100.
func Score(f Factors, coverage decimal.Decimal) (int, []string) {
	if f.Age > 80 {
		return maxScore, []string{"age_over_80"}
	}

	score := 0
	flags := []string{}

	switch {
	case f.Age > 65:
		score += 50
		flags = append(flags, "senior_65_plus")
	case f.Age > 60:
		score += 35
		flags = append(flags, "senior")
	case f.Age > 50:
		score += 25
	case f.Age > 40:
		score += 10
	}

	if f.Smoker {
		score += 25
		flags = append(flags, "smoker")
	}

	switch {
	case coverage.GreaterThan(highCoverage):
		score += 25
		flags = append(flags, "high_coverage")
	case coverage.GreaterThan(mediumCoverage):
		score += 15
		flags = append(flags, "medium_high_coverage")
	case coverage.GreaterThan(lowCoverage):
		score += 10
	}

	return min(score, maxScore), flags
}
