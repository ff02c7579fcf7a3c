package premium

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
)

// StrategyName identifies a pricing rule in the registry.
type StrategyName string

const (
	TermLife      StrategyName = "TermLifePremium"
	WholeLife     StrategyName = "WholeLifePremium"
	UniversalLife StrategyName = "UniversalLifePremium"
)

// Strategy prices an application for one product family.
// Implementations must be pure: same application, same premium, no side effects.
type Strategy interface {
	Name() StrategyName
	Calculate(app *application.Application) decimal.Decimal
}

var ErrUnsupportedProductType = errors.New("unsupported product type")

// UnsupportedProductTypeError is returned when no strategy prices the given product type.
type UnsupportedProductTypeError struct {
	ProductType string
}

func (e *UnsupportedProductTypeError) Error() string {
	return fmt.Sprintf("no premium calculation strategy found for product type: %q", e.ProductType)
}

func (e *UnsupportedProductTypeError) Unwrap() error {
	return ErrUnsupportedProductType
}
