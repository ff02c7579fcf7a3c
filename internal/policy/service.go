package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/event"
	"github.com/MrJamesThe3rd/lifepolicy/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=policy
type Repository interface {
	CreatePolicy(ctx context.Context, p *Policy) error
	GetPolicy(ctx context.Context, id int64) (*Policy, error)
	ListPolicies(ctx context.Context, filter ListFilter) ([]*Policy, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error)
}

// PremiumCalculator prices an application at policy creation.
type PremiumCalculator interface {
	Calculate(app *application.Application) (decimal.Decimal, error)
}

type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}

type ListFilter struct {
	OwnerID *uuid.UUID
	Status  *Status
}

type Service struct {
	repo      Repository
	premiums  PremiumCalculator
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(repo Repository, premiums PremiumCalculator, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		premiums: premiums,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateFromApplication issues an active policy priced from the application's
// product type and desired coverage. Pricing errors are returned unchanged and
// nothing is stored.
func (s *Service) CreateFromApplication(ctx context.Context, app *application.Application) (*Policy, error) {
	premium, err := s.premiums.Calculate(app)
	if err != nil {
		return nil, err
	}

	now := s.now()

	p := &Policy{
		Number:        Number(now.Year(), app.ID),
		ApplicationID: app.ID,
		OwnerID:       app.OwnerID,
		StartDate:     now,
		AnnualPremium: premium,
		Status:        StatusActive,
	}

	if err := s.repo.CreatePolicy(ctx, p); err != nil {
		return nil, err
	}

	s.metrics.IncPoliciesCreated()
	s.publish(ctx, event.PolicyCreated, p)

	return p, nil
}

// Create stores a policy as given.
func (s *Service) Create(ctx context.Context, p *Policy) error {
	if p.Status == "" {
		p.Status = StatusActive
	}

	return s.repo.CreatePolicy(ctx, p)
}

func (s *Service) List(ctx context.Context) ([]*Policy, error) {
	return s.repo.ListPolicies(ctx, ListFilter{})
}

func (s *Service) ListByStatus(ctx context.Context, status Status) ([]*Policy, error) {
	return s.repo.ListPolicies(ctx, ListFilter{Status: &status})
}

func (s *Service) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*Policy, error) {
	return s.repo.ListPolicies(ctx, ListFilter{OwnerID: &owner})
}

func (s *Service) ListActiveByOwner(ctx context.Context, owner uuid.UUID) ([]*Policy, error) {
	status := StatusActive
	return s.repo.ListPolicies(ctx, ListFilter{OwnerID: &owner, Status: &status})
}

// Find returns the policy with the given id, or nil if there is none.
func (s *Service) Find(ctx context.Context, id int64) (*Policy, error) {
	p, err := s.repo.GetPolicy(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return p, nil
}

// Cancel moves an active policy to cancelled. Its due payments are not
// touched here; callers run the payment cascade afterwards.
func (s *Service) Cancel(ctx context.Context, id int64) (*Policy, error) {
	p, changed, err := s.transition(ctx, id, StatusCancelled)
	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.IncPoliciesCancelled()
		s.publish(ctx, event.PolicyCancelled, p)
	}

	return p, nil
}

func (s *Service) Expire(ctx context.Context, id int64) (*Policy, error) {
	p, changed, err := s.transition(ctx, id, StatusExpired)
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, event.PolicyExpired, p)
	}

	return p, nil
}

// transition moves an active policy to the target status. A policy already in
// the target status is returned unchanged.
func (s *Service) transition(ctx context.Context, id int64, to Status) (*Policy, bool, error) {
	p, err := s.repo.GetPolicy(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if p.Status == to {
		return p, false, nil
	}

	if p.Status != StatusActive {
		return nil, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}

	ok, err := s.repo.UpdateStatus(ctx, id, StatusActive, to)
	if err != nil {
		return nil, false, fmt.Errorf("update status: %w", err)
	}

	if !ok {
		current, err := s.repo.GetPolicy(ctx, id)
		if err != nil {
			return nil, false, err
		}

		if current.Status == to {
			return current, false, nil
		}

		return nil, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	p.Status = to

	return p, true, nil
}

func (s *Service) publish(ctx context.Context, t event.Type, p *Policy) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event.New(t, p.ID, p.Number, s.now())); err != nil {
		slog.Warn("failed to publish policy event", "type", t, "policy_id", p.ID, "error", err)
	}
}
