package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, number, application_id, owner_id, start_date, annual_premium, status, created_at, updated_at
func scanPolicy(s scanner) (*policy.Policy, error) {
	var p policy.Policy

	var status string

	if err := s.Scan(
		&p.ID, &p.Number, &p.ApplicationID, &p.OwnerID, &p.StartDate, &p.AnnualPremium, &status,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = policy.Status(status)

	return &p, nil
}

// Owner lives on the application; policies always read it through the join.
const selectPolicies = `
	SELECT p.id, p.number, p.application_id, a.owner_id, p.start_date, p.annual_premium, p.status,
	       p.created_at, p.updated_at
	FROM policies p
	JOIN applications a ON a.id = p.application_id
`

func (s *Store) CreatePolicy(ctx context.Context, p *policy.Policy) error {
	query := `
		INSERT INTO policies (number, application_id, start_date, annual_premium, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.Number,
		p.ApplicationID,
		p.StartDate,
		p.AnnualPremium,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: application %d", policy.ErrAlreadyExists, p.ApplicationID)
		}

		return fmt.Errorf("creating policy: %w", err)
	}

	return nil
}

func (s *Store) GetPolicy(ctx context.Context, id int64) (*policy.Policy, error) {
	p, err := scanPolicy(s.db.QueryRowContext(ctx, selectPolicies+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, policy.ErrNotFound
		}

		return nil, fmt.Errorf("getting policy: %w", err)
	}

	return p, nil
}

func (s *Store) ListPolicies(ctx context.Context, filter policy.ListFilter) ([]*policy.Policy, error) {
	query := selectPolicies + ` WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND a.owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND p.status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY p.id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing policies: %w", err)
	}
	defer rows.Close()

	var policies []*policy.Policy

	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning policy: %w", err)
		}

		policies = append(policies, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating policy rows: %w", err)
	}

	return policies, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, from, to policy.Status) (bool, error) {
	query := `
		UPDATE policies
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
