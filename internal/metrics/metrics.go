package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the policy engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Premium calculations by strategy name
	PremiumCalculations *prometheus.CounterVec

	// Calculations rejected because no strategy matched the product type
	UnsupportedProducts prometheus.Counter

	PoliciesCreated   prometheus.Counter
	PoliciesCancelled prometheus.Counter

	// Due payments voided by the cancellation cascade
	PaymentsVoided prometheus.Counter

	// Risk assessment deletions by outcome
	RiskDeletions *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		PremiumCalculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepolicy_premium_calculations_total",
			Help: "Premium calculations by pricing strategy",
		}, []string{"strategy"}),

		UnsupportedProducts: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepolicy_premium_unsupported_product_total",
			Help: "Premium calculations rejected for an unmapped product type",
		}),

		PoliciesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepolicy_policies_created_total",
			Help: "Policies created from applications",
		}),

		PoliciesCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepolicy_policies_cancelled_total",
			Help: "Policies moved to the cancelled status",
		}),

		PaymentsVoided: f.NewCounter(prometheus.CounterOpts{
			Name: "lifepolicy_payments_voided_total",
			Help: "Due payments marked unused after their policy was cancelled",
		}),

		RiskDeletions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lifepolicy_risk_assessment_deletions_total",
			Help: "Risk assessment deletion attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncPremiumCalculation(strategy string) {
	if m != nil {
		m.PremiumCalculations.WithLabelValues(strategy).Inc()
	}
}

func (m *Metrics) IncUnsupportedProduct() {
	if m != nil {
		m.UnsupportedProducts.Inc()
	}
}

func (m *Metrics) IncPoliciesCreated() {
	if m != nil {
		m.PoliciesCreated.Inc()
	}
}

func (m *Metrics) IncPoliciesCancelled() {
	if m != nil {
		m.PoliciesCancelled.Inc()
	}
}

func (m *Metrics) AddPaymentsVoided(n int) {
	if m != nil && n > 0 {
		m.PaymentsVoided.Add(float64(n))
	}
}

func (m *Metrics) IncRiskDeletion(outcome string) {
	if m != nil {
		m.RiskDeletions.WithLabelValues(outcome).Inc()
	}
}
