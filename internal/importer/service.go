package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
)

var ErrOwnerMismatch = errors.New("export contains applications of another owner")

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type BatchCreator interface {
	CreateBatch(ctx context.Context, params []application.CreateParams) ([]*application.Application, error)
}

type Service struct {
	parser *Parser
	apps   BatchCreator
}

func NewService(apps BatchCreator) *Service {
	return &Service{
		parser: NewParser(),
		apps:   apps,
	}
}

type Result struct {
	Profile      string
	Applications []*application.Application
}

// Import parses an uploaded export and stores every application in it, or none.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Result, error) {
	params, profile, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	return s.store(ctx, params, profile)
}

// ImportAs is Import for a single applicant: every row must belong to owner,
// otherwise nothing is stored.
func (s *Service) ImportAs(ctx context.Context, r io.Reader, owner uuid.UUID) (*Result, error) {
	params, profile, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	for i, p := range params {
		if p.OwnerID != owner {
			return nil, fmt.Errorf("%w: application %d", ErrOwnerMismatch, i+1)
		}
	}

	return s.store(ctx, params, profile)
}

func (s *Service) store(ctx context.Context, params []application.CreateParams, profile string) (*Result, error) {
	apps, err := s.apps.CreateBatch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("store applications: %w", err)
	}

	slog.Info("applications imported", "profile", profile, "count", len(apps))

	return &Result{Profile: profile, Applications: apps}, nil
}
