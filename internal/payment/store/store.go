package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
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

// Expected column order: id, policy_id, amount, due_date, status, paid_at, created_at, updated_at
func scanPayment(s scanner) (*payment.Payment, error) {
	var p payment.Payment

	var status string

	if err := s.Scan(
		&p.ID, &p.PolicyID, &p.Amount, &p.DueDate, &status, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = payment.Status(status)

	return &p, nil
}

const selectPaymentColumns = `id, policy_id, amount, due_date, status, paid_at, created_at, updated_at`

func (s *Store) CreatePayment(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (policy_id, amount, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.PolicyID,
		p.Amount,
		p.DueDate,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

func (s *Store) GetPayment(ctx context.Context, id int64) (*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	query := `SELECT ` + selectPaymentColumns + ` FROM payments WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.PolicyID != nil {
		query += fmt.Sprintf(" AND policy_id = $%d", argIdx)

		args = append(args, *filter.PolicyID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY due_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*payment.Payment

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment rows: %w", err)
	}

	return payments, nil
}

// TransitionStatus is a compare-and-set on the status column. paid_at is
// stamped only when the payment becomes paid.
func (s *Store) TransitionStatus(ctx context.Context, id int64, from, to payment.Status, at time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1,
		    paid_at = CASE WHEN $1 = 'paid' THEN $4::timestamptz ELSE paid_at END,
		    updated_at = $4
		WHERE id = $2 AND status = $3
	`

	res, err := s.db.ExecContext(ctx, query, to, id, from, at)
	if err != nil {
		return false, fmt.Errorf("transitioning payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return n == 1, nil
}
