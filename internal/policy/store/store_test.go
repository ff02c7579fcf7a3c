package store_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy/store"
)

var policyColumns = []string{
	"id", "number", "application_id", "owner_id", "start_date", "annual_premium", "status", "created_at", "updated_at",
}

func newMock(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return store.New(db), mock
}

func TestStore_CreatePolicy(t *testing.T) {
	p := &policy.Policy{
		Number:        "POL-2026-42",
		ApplicationID: 42,
		StartDate:     time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		AnnualPremium: decimal.NewFromInt(2500),
		Status:        policy.StatusActive,
	}

	t.Run("Success", func(t *testing.T) {
		s, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO policies")).
			WithArgs(p.Number, p.ApplicationID, p.StartDate, p.AnnualPremium, p.Status).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), time.Now()))

		require.NoError(t, s.CreatePolicy(context.Background(), p))
		assert.Equal(t, int64(9), p.ID)
	})

	t.Run("UniqueViolation", func(t *testing.T) {
		s, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO policies")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "policies_application_id_key"})

		err := s.CreatePolicy(context.Background(), p)
		assert.ErrorIs(t, err, policy.ErrAlreadyExists)
	})
}

func TestStore_GetPolicy(t *testing.T) {
	owner := uuid.New()

	t.Run("Found", func(t *testing.T) {
		s, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("JOIN applications a ON a.id = p.application_id")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(policyColumns).AddRow(
				int64(1), "POL-2026-7", int64(7), owner.String(), time.Now(), "175.5", "cancelled", time.Now(), nil,
			))

		p, err := s.GetPolicy(context.Background(), 1)
		require.NoError(t, err)

		assert.Equal(t, owner, p.OwnerID)
		assert.Equal(t, policy.StatusCancelled, p.Status)
		assert.True(t, decimal.RequireFromString("175.5").Equal(p.AnnualPremium))
	})

	t.Run("NotFound", func(t *testing.T) {
		s, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows(policyColumns))

		_, err := s.GetPolicy(context.Background(), 2)
		assert.ErrorIs(t, err, policy.ErrNotFound)
	})
}

func TestStore_ListPolicies_OwnerAndStatus(t *testing.T) {
	s, mock := newMock(t)

	owner := uuid.New()
	active := policy.StatusActive

	mock.ExpectQuery(regexp.QuoteMeta("WHERE TRUE AND a.owner_id = $1 AND p.status = $2 ORDER BY p.id ASC")).
		WithArgs(owner, active).
		WillReturnRows(sqlmock.NewRows(policyColumns))

	got, err := s.ListPolicies(context.Background(), policy.ListFilter{OwnerID: &owner, Status: &active})
	require.NoError(t, err)
	assert.Empty(t, got)
}
