package premium

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
)

var (
	termLifeRate      = decimal.RequireFromString("0.012")
	universalLifeRate = decimal.RequireFromString("0.025")

	// Whole life is priced in two bands.
	wholeLifeBandLimit  = decimal.NewFromInt(250_000)
	wholeLifeBandRate   = decimal.RequireFromString("0.030")
	wholeLifeExcessRate = decimal.RequireFromString("0.022")
)

// coverageOf returns the desired coverage, or false when there is nothing to price.
func coverageOf(app *application.Application) (decimal.Decimal, bool) {
	if app == nil || !app.DesiredCoverage.Valid {
		return decimal.Zero, false
	}

	if app.DesiredCoverage.Decimal.IsNegative() {
		return decimal.Zero, false
	}

	return app.DesiredCoverage.Decimal, true
}

// flatRate charges a fixed share of the desired coverage.
type flatRate struct {
	name StrategyName
	rate decimal.Decimal
}

func (s flatRate) Name() StrategyName { return s.name }

func (s flatRate) Calculate(app *application.Application) decimal.Decimal {
	coverage, ok := coverageOf(app)
	if !ok {
		return decimal.Zero
	}

	return coverage.Mul(s.rate)
}

func NewTermLife() Strategy {
	return flatRate{name: TermLife, rate: termLifeRate}
}

func NewUniversalLife() Strategy {
	return flatRate{name: UniversalLife, rate: universalLifeRate}
}

type wholeLife struct{}

func NewWholeLife() Strategy {
	return wholeLife{}
}

func (wholeLife) Name() StrategyName { return WholeLife }

func (wholeLife) Calculate(app *application.Application) decimal.Decimal {
	coverage, ok := coverageOf(app)
	if !ok {
		return decimal.Zero
	}

	band := decimal.Min(coverage, wholeLifeBandLimit)
	excess := coverage.Sub(band)

	return band.Mul(wholeLifeBandRate).Add(excess.Mul(wholeLifeExcessRate))
}
