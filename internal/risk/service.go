package risk

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=risk
type Repository interface {
	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id int64) (*Assessment, error)
	ListAssessments(ctx context.Context, filter ListFilter) ([]*Assessment, error)
	DeleteAssessment(ctx context.Context, id int64) error
}

// ApplicationFinder returns nil when the application does not exist.
type ApplicationFinder interface {
	Find(ctx context.Context, id int64) (*application.Application, error)
}

type ListFilter struct {
	ApplicationID *int64
}

type Service struct {
	repo    Repository
	apps    ApplicationFinder
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(repo Repository, apps ApplicationFinder, opts ...Option) *Service {
	s := &Service{repo: repo, apps: apps}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	ApplicationID int64
	Content       string
	Factors       Factors
}

// Create scores the applicant against the application's desired coverage and
// stores the assessment.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Assessment, error) {
	app, err := s.apps.Find(ctx, params.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}

	if app == nil {
		return nil, ErrApplicationNotFound
	}

	score, flags := Score(params.Factors, app.DesiredCoverage.Decimal)

	a := &Assessment{
		ApplicationID: app.ID,
		Content:       params.Content,
		Score:         score,
		Flags:         flags,
	}

	if err := s.repo.CreateAssessment(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) List(ctx context.Context) ([]*Assessment, error) {
	return s.repo.ListAssessments(ctx, ListFilter{})
}

func (s *Service) ListByApplication(ctx context.Context, applicationID int64) ([]*Assessment, error) {
	return s.repo.ListAssessments(ctx, ListFilter{ApplicationID: &applicationID})
}

// Find returns the assessment with the given id, or nil if there is none.
func (s *Service) Find(ctx context.Context, id int64) (*Assessment, error) {
	a, err := s.repo.GetAssessment(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return a, nil
}

// Delete removes an assessment unless its application has been accepted.
// An assessment whose application cannot be found is kept as well.
func (s *Service) Delete(ctx context.Context, id int64) (Outcome, error) {
	outcome, err := s.delete(ctx, id)
	if err != nil {
		return outcome, err
	}

	s.metrics.IncRiskDeletion(outcome.String())

	return outcome, nil
}

func (s *Service) delete(ctx context.Context, id int64) (Outcome, error) {
	a, err := s.Find(ctx, id)
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("find assessment: %w", err)
	}

	if a == nil {
		return OutcomeNotFound, nil
	}

	app, err := s.apps.Find(ctx, a.ApplicationID)
	if err != nil {
		return OutcomeBlocked, fmt.Errorf("find application: %w", err)
	}

	if app == nil || app.Status == application.StatusAccepted {
		return OutcomeBlocked, nil
	}

	if err := s.repo.DeleteAssessment(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return OutcomeNotFound, nil
		}

		return OutcomeBlocked, fmt.Errorf("delete assessment: %w", err)
	}

	return OutcomeDeleted, nil
}
