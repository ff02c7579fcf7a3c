package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=application
type Repository interface {
	CreateApplication(ctx context.Context, app *Application) error
	GetApplication(ctx context.Context, id int64) (*Application, error)
	ListApplications(ctx context.Context, filter ListFilter) ([]*Application, error)
	UpdateStatus(ctx context.Context, id int64, from, to Status) (bool, error)

	CreateApplications(ctx context.Context, apps []*Application) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	OwnerID         uuid.UUID
	ProductType     string
	DesiredCoverage decimal.NullDecimal
}

type ListFilter struct {
	OwnerID *uuid.UUID
	Status  *Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Application, error) {
	app := newApplication(params)
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	return app, nil
}

// CreateBatch stores all applications atomically; an empty batch is a no-op.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Application, error) {
	if len(params) == 0 {
		return nil, nil
	}

	apps := make([]*Application, len(params))
	for i, p := range params {
		apps[i] = newApplication(p)
	}

	if err := s.repo.CreateApplications(ctx, apps); err != nil {
		return nil, fmt.Errorf("create applications: %w", err)
	}

	return apps, nil
}

// Find returns the application with the given id, or nil if there is none.
func (s *Service) Find(ctx context.Context, id int64) (*Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return app, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Application, error) {
	return s.repo.ListApplications(ctx, filter)
}

// Decide accepts or rejects a pending application.
func (s *Service) Decide(ctx context.Context, id int64, status Status) (*Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	if app.Status == status {
		return app, nil
	}

	if !app.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, status)
	}

	ok, err := s.repo.UpdateStatus(ctx, id, app.Status, status)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if !ok {
		// Someone else decided it between the read and the write.
		return nil, fmt.Errorf("%w: application %d is no longer %s", ErrInvalidTransition, id, app.Status)
	}

	app.Status = status

	return app, nil
}

func newApplication(p CreateParams) *Application {
	return &Application{
		OwnerID:         p.OwnerID,
		ProductType:     p.ProductType,
		DesiredCoverage: p.DesiredCoverage,
		Status:          StatusPending,
	}
}
