package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/lifepolicy/internal/risk"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, application_id, content, score, flags, created_at
func scanAssessment(s scanner) (*risk.Assessment, error) {
	var a risk.Assessment

	var flags []byte

	if err := s.Scan(&a.ID, &a.ApplicationID, &a.Content, &a.Score, &flags, &a.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(flags, &a.Flags); err != nil {
		return nil, fmt.Errorf("decoding flags: %w", err)
	}

	return &a, nil
}

const selectAssessmentColumns = `id, application_id, content, score, flags, created_at`

func (s *Store) CreateAssessment(ctx context.Context, a *risk.Assessment) error {
	flags := a.Flags
	if flags == nil {
		flags = []string{}
	}

	encoded, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("encoding flags: %w", err)
	}

	query := `
		INSERT INTO risk_assessments (application_id, content, score, flags, created_at)
		VALUES ($1, $2, $3, $4::jsonb, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		a.ApplicationID,
		a.Content,
		a.Score,
		string(encoded),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating risk assessment: %w", err)
	}

	return nil
}

func (s *Store) GetAssessment(ctx context.Context, id int64) (*risk.Assessment, error) {
	query := `SELECT ` + selectAssessmentColumns + ` FROM risk_assessments WHERE id = $1`

	a, err := scanAssessment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, risk.ErrNotFound
		}

		return nil, fmt.Errorf("getting risk assessment: %w", err)
	}

	return a, nil
}

func (s *Store) ListAssessments(ctx context.Context, filter risk.ListFilter) ([]*risk.Assessment, error) {
	query := `SELECT ` + selectAssessmentColumns + ` FROM risk_assessments`

	var args []any

	if filter.ApplicationID != nil {
		query += ` WHERE application_id = $1`

		args = append(args, *filter.ApplicationID)
	}

	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing risk assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*risk.Assessment

	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning risk assessment: %w", err)
		}

		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating risk assessment rows: %w", err)
	}

	return assessments, nil
}

func (s *Store) DeleteAssessment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM risk_assessments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting risk assessment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return risk.ErrNotFound
	}

	return nil
}
