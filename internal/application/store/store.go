package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, owner_id, product_type, desired_coverage, status, created_at, updated_at
func scanApplication(s scanner) (*application.Application, error) {
	var app application.Application

	var status string

	if err := s.Scan(
		&app.ID, &app.OwnerID, &app.ProductType, &app.DesiredCoverage, &status,
		&app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}

	app.Status = application.Status(status)

	return &app, nil
}

const selectApplicationColumns = `id, owner_id, product_type, desired_coverage, status, created_at, updated_at`

const insertApplication = `
	INSERT INTO applications (owner_id, product_type, desired_coverage, status, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	RETURNING id, created_at
`

func (s *Store) CreateApplication(ctx context.Context, app *application.Application) error {
	err := s.db.QueryRowContext(ctx, insertApplication,
		app.OwnerID,
		app.ProductType,
		app.DesiredCoverage,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating application: %w", err)
	}

	return nil
}

func (s *Store) CreateApplications(ctx context.Context, apps []*application.Application) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, app := range apps {
		err := dbTx.QueryRowContext(ctx, insertApplication,
			app.OwnerID,
			app.ProductType,
			app.DesiredCoverage,
			app.Status,
		).Scan(&app.ID, &app.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating application: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetApplication(ctx context.Context, id int64) (*application.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrNotFound
		}

		return nil, fmt.Errorf("getting application: %w", err)
	}

	return app, nil
}

func (s *Store) ListApplications(ctx context.Context, filter application.ListFilter) ([]*application.Application, error) {
	query := `SELECT ` + selectApplicationColumns + ` FROM applications WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*application.Application

	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}

		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating application rows: %w", err)
	}

	return apps, nil
}

// UpdateStatus moves the application from one status to another and reports
// whether the row was still in the expected status.
func (s *Store) UpdateStatus(ctx context.Context, id int64, from, to application.Status) (bool, error) {
	query := `
		UPDATE applications
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	res, err := s.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return n == 1, nil
}
