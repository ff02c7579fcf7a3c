package premium

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/metrics"
)

type rule struct {
	keyword  string
	strategy StrategyName
}

// rules is evaluated in order. A product type mentioning several keywords
// is priced by the earliest rule, so "Term to Whole Conversion" is term life.
var rules = []rule{
	{keyword: "term", strategy: TermLife},
	{keyword: "whole", strategy: WholeLife},
	{keyword: "universal", strategy: UniversalLife},
}

// Classify maps free-text product types to a strategy name, case-insensitively.
func Classify(productType string) (StrategyName, bool) {
	lower := strings.ToLower(productType)

	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r.strategy, true
		}
	}

	return "", false
}

// Registry is a fixed set of strategies keyed by name. It is read-only once built.
type Registry struct {
	strategies map[StrategyName]Strategy
}

// NewRegistry panics if two strategies share a name; registries are built at startup.
func NewRegistry(strategies ...Strategy) *Registry {
	m := make(map[StrategyName]Strategy, len(strategies))

	for _, s := range strategies {
		if _, dup := m[s.Name()]; dup {
			panic(fmt.Sprintf("premium: strategy %q registered twice", s.Name()))
		}

		m[s.Name()] = s
	}

	return &Registry{strategies: m}
}

// DefaultRegistry registers every known product family.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewTermLife(),
		NewWholeLife(),
		NewUniversalLife(),
	)
}

func (r *Registry) Lookup(name StrategyName) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

type Service struct {
	registry *Registry
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(registry *Registry, opts ...Option) *Service {
	s := &Service{registry: registry}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Calculate prices the application with the strategy matching its product type.
// It returns an *UnsupportedProductTypeError when no registered strategy applies.
func (s *Service) Calculate(app *application.Application) (decimal.Decimal, error) {
	if app == nil {
		s.metrics.IncUnsupportedProduct()
		return decimal.Zero, &UnsupportedProductTypeError{}
	}

	name, ok := Classify(app.ProductType)
	if !ok {
		s.metrics.IncUnsupportedProduct()
		return decimal.Zero, &UnsupportedProductTypeError{ProductType: app.ProductType}
	}

	strategy, ok := s.registry.Lookup(name)
	if !ok {
		s.metrics.IncUnsupportedProduct()
		return decimal.Zero, &UnsupportedProductTypeError{ProductType: app.ProductType}
	}

	s.metrics.IncPremiumCalculation(string(name))

	return strategy.Calculate(app), nil
}

// Quote prices a product type and coverage without a stored application.
func (s *Service) Quote(productType string, coverage decimal.Decimal) (decimal.Decimal, error) {
	return s.Calculate(&application.Application{
		ProductType:     productType,
		DesiredCoverage: decimal.NewNullDecimal(coverage),
	})
}
