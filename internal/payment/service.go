package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/metrics"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, id int64) (*Payment, error)
	ListPayments(ctx context.Context, filter ListFilter) ([]*Payment, error)
	// TransitionStatus writes to only if the payment is still in from, and
	// reports whether it did.
	TransitionStatus(ctx context.Context, id int64, from, to Status, at time.Time) (bool, error)
}

// PolicyFinder returns nil when the policy does not exist.
type PolicyFinder interface {
	Find(ctx context.Context, id int64) (*policy.Policy, error)
}

type ListFilter struct {
	PolicyID *int64
	Status   *Status
}

type Service struct {
	repo     Repository
	policies PolicyFinder
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, policies PolicyFinder, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		policies: policies,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	PolicyID int64
	Amount   decimal.Decimal
	DueDate  time.Time
}

// Create schedules a due installment on an active policy.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Payment, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	p, err := s.policies.Find(ctx, params.PolicyID)
	if err != nil {
		return nil, fmt.Errorf("find policy: %w", err)
	}

	if p == nil {
		return nil, policy.ErrNotFound
	}

	if p.Status != policy.StatusActive {
		return nil, fmt.Errorf("%w: policy %d is %s", ErrPolicyNotActive, p.ID, p.Status)
	}

	pay := &Payment{
		PolicyID: params.PolicyID,
		Amount:   params.Amount,
		DueDate:  params.DueDate,
		Status:   StatusDue,
	}

	if err := s.repo.CreatePayment(ctx, pay); err != nil {
		return nil, err
	}

	return pay, nil
}

func (s *Service) List(ctx context.Context) ([]*Payment, error) {
	return s.repo.ListPayments(ctx, ListFilter{})
}

// ListByPolicy returns every payment scheduled for p, in any status.
func (s *Service) ListByPolicy(ctx context.Context, p *policy.Policy) ([]*Payment, error) {
	if p == nil {
		return nil, nil
	}

	return s.repo.ListPayments(ctx, ListFilter{PolicyID: &p.ID})
}

// Pay settles a due payment.
func (s *Service) Pay(ctx context.Context, id int64) (*Payment, error) {
	pay, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !pay.Status.CanTransitionTo(StatusPaid) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, pay.Status, StatusPaid)
	}

	now := s.now()

	ok, err := s.repo.TransitionStatus(ctx, id, StatusDue, StatusPaid, now)
	if err != nil {
		return nil, fmt.Errorf("transition payment: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: payment %d is no longer due", ErrInvalidTransition, id)
	}

	pay.Status = StatusPaid
	pay.PaidAt = &now

	return pay, nil
}

// RemoveUnusedSchedules marks every due payment of a cancelled policy as
// unused and returns how many it changed. Unknown or non-cancelled policies
// are left alone. Running it again changes nothing.
func (s *Service) RemoveUnusedSchedules(ctx context.Context, policyID int64) (int, error) {
	p, err := s.policies.Find(ctx, policyID)
	if err != nil {
		return 0, fmt.Errorf("find policy: %w", err)
	}

	if p == nil || p.Status != policy.StatusCancelled {
		return 0, nil
	}

	payments, err := s.repo.ListPayments(ctx, ListFilter{PolicyID: &policyID})
	if err != nil {
		return 0, fmt.Errorf("list payments: %w", err)
	}

	now := s.now()
	voided := 0

	for _, pay := range payments {
		if pay.Status != StatusDue {
			continue
		}

		ok, err := s.repo.TransitionStatus(ctx, pay.ID, StatusDue, StatusUnused, now)
		if err != nil {
			return voided, fmt.Errorf("void payment %d: %w", pay.ID, err)
		}

		// A concurrent run got there first.
		if !ok {
			continue
		}

		pay.Status = StatusUnused
		voided++
	}

	if voided > 0 {
		slog.Info("voided payment schedules", "policy_id", policyID, "count", voided)
		s.metrics.AddPaymentsVoided(voided)
	}

	return voided, nil
}
