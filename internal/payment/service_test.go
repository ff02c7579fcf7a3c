package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lifepolicy/internal/payment"
	"github.com/MrJamesThe3rd/lifepolicy/internal/policy"
)

var fixedNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

// fakeLedger backs the repository mock with rows so status changes persist
// across calls.
type fakeLedger struct {
	rows map[int64]*payment.Payment
}

func newLedger(statuses ...payment.Status) *fakeLedger {
	l := &fakeLedger{rows: map[int64]*payment.Payment{}}
	for i, st := range statuses {
		id := int64(i + 1)
		l.rows[id] = &payment.Payment{ID: id, PolicyID: 10, Amount: decimal.NewFromInt(100), Status: st}
	}

	return l
}

func (l *fakeLedger) install(m *payment.MockRepository) {
	m.EXPECT().
		ListPayments(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f payment.ListFilter) ([]*payment.Payment, error) {
			var out []*payment.Payment

			for id := int64(1); id <= int64(len(l.rows)); id++ {
				p := l.rows[id]
				if f.PolicyID != nil && p.PolicyID != *f.PolicyID {
					continue
				}

				cp := *p
				out = append(out, &cp)
			}

			return out, nil
		}).
		AnyTimes()

	m.EXPECT().
		TransitionStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, from, to payment.Status, _ time.Time) (bool, error) {
			p := l.rows[id]
			if p.Status != from {
				return false, nil
			}

			p.Status = to

			return true, nil
		}).
		AnyTimes()
}

func (l *fakeLedger) statuses() []payment.Status {
	out := make([]payment.Status, len(l.rows))
	for id, p := range l.rows {
		out[id-1] = p.Status
	}

	return out
}

func newService(t *testing.T) (*payment.Service, *payment.MockRepository, *payment.MockPolicyFinder) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := payment.NewMockRepository(ctrl)
	policies := payment.NewMockPolicyFinder(ctrl)

	svc := payment.NewService(repo, policies, payment.WithClock(func() time.Time { return fixedNow }))

	return svc, repo, policies
}

func TestService_RemoveUnusedSchedules_CancelledPolicy(t *testing.T) {
	svc, repo, policies := newService(t)

	policies.EXPECT().
		Find(gomock.Any(), int64(10)).
		Return(&policy.Policy{ID: 10, Status: policy.StatusCancelled}, nil).
		Times(2)

	ledger := newLedger(payment.StatusDue, payment.StatusDue, payment.StatusPaid, payment.StatusUnused)
	ledger.install(repo)

	n, err := svc.RemoveUnusedSchedules(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []payment.Status{
		payment.StatusUnused, payment.StatusUnused, payment.StatusPaid, payment.StatusUnused,
	}, ledger.statuses())

	n, err = svc.RemoveUnusedSchedules(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []payment.Status{
		payment.StatusUnused, payment.StatusUnused, payment.StatusPaid, payment.StatusUnused,
	}, ledger.statuses())
}

func TestService_RemoveUnusedSchedules_NoOp(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *payment.MockPolicyFinder)
	}

	tests := []testCase{
		{
			name: "ActivePolicy",
			setupMock: func(m *payment.MockPolicyFinder) {
				m.EXPECT().Find(gomock.Any(), int64(10)).Return(&policy.Policy{ID: 10, Status: policy.StatusActive}, nil)
			},
		},
		{
			name: "ExpiredPolicy",
			setupMock: func(m *payment.MockPolicyFinder) {
				m.EXPECT().Find(gomock.Any(), int64(10)).Return(&policy.Policy{ID: 10, Status: policy.StatusExpired}, nil)
			},
		},
		{
			name: "UnknownPolicy",
			setupMock: func(m *payment.MockPolicyFinder) {
				m.EXPECT().Find(gomock.Any(), int64(10)).Return(nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The repository mock has no expectations: touching it fails the test.
			svc, _, policies := newService(t)
			tt.setupMock(policies)

			n, err := svc.RemoveUnusedSchedules(context.Background(), 10)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestService_RemoveUnusedSchedules_LostRace(t *testing.T) {
	svc, repo, policies := newService(t)

	policies.EXPECT().Find(gomock.Any(), int64(10)).Return(&policy.Policy{ID: 10, Status: policy.StatusCancelled}, nil)
	repo.EXPECT().
		ListPayments(gomock.Any(), gomock.Any()).
		Return([]*payment.Payment{{ID: 1, PolicyID: 10, Status: payment.StatusDue}}, nil)
	repo.EXPECT().
		TransitionStatus(gomock.Any(), int64(1), payment.StatusDue, payment.StatusUnused, fixedNow).
		Return(false, nil)

	n, err := svc.RemoveUnusedSchedules(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_RemoveUnusedSchedules_FinderError(t *testing.T) {
	svc, _, policies := newService(t)

	policies.EXPECT().Find(gomock.Any(), int64(10)).Return(nil, errors.New("db down"))

	_, err := svc.RemoveUnusedSchedules(context.Background(), 10)
	assert.Error(t, err)
}

func TestService_ListByPolicy(t *testing.T) {
	svc, repo, _ := newService(t)

	id := int64(10)
	repo.EXPECT().
		ListPayments(gomock.Any(), payment.ListFilter{PolicyID: &id}).
		Return([]*payment.Payment{{ID: 1, PolicyID: 10}, {ID: 2, PolicyID: 10}}, nil)

	got, err := svc.ListByPolicy(context.Background(), &policy.Policy{ID: 10})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ListByPolicy(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		amount    decimal.Decimal
		setupMock func(repo *payment.MockRepository, policies *payment.MockPolicyFinder)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			amount: decimal.NewFromInt(208),
			setupMock: func(repo *payment.MockRepository, policies *payment.MockPolicyFinder) {
				policies.EXPECT().Find(gomock.Any(), int64(10)).Return(&policy.Policy{ID: 10, Status: policy.StatusActive}, nil)
				repo.EXPECT().
					CreatePayment(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *payment.Payment) error {
						assert.Equal(t, payment.StatusDue, p.Status)
						p.ID = 3
						return nil
					})
			},
		},
		{
			name:    "ZeroAmount",
			amount:  decimal.Zero,
			wantErr: payment.ErrInvalidAmount,
		},
		{
			name:   "UnknownPolicy",
			amount: decimal.NewFromInt(1),
			setupMock: func(_ *payment.MockRepository, policies *payment.MockPolicyFinder) {
				policies.EXPECT().Find(gomock.Any(), int64(10)).Return(nil, nil)
			},
			wantErr: policy.ErrNotFound,
		},
		{
			name:   "CancelledPolicy",
			amount: decimal.NewFromInt(1),
			setupMock: func(_ *payment.MockRepository, policies *payment.MockPolicyFinder) {
				policies.EXPECT().Find(gomock.Any(), int64(10)).Return(&policy.Policy{ID: 10, Status: policy.StatusCancelled}, nil)
			},
			wantErr: payment.ErrPolicyNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, policies := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, policies)
			}

			got, err := svc.Create(context.Background(), payment.CreateParams{
				PolicyID: 10,
				Amount:   tt.amount,
				DueDate:  fixedNow.AddDate(0, 1, 0),
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(3), got.ID)
		})
	}
}

func TestService_Pay(t *testing.T) {
	type testCase struct {
		name      string
		status    payment.Status
		setupMock func(repo *payment.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Due",
			status: payment.StatusDue,
			setupMock: func(repo *payment.MockRepository) {
				repo.EXPECT().
					TransitionStatus(gomock.Any(), int64(4), payment.StatusDue, payment.StatusPaid, fixedNow).
					Return(true, nil)
			},
		},
		{name: "AlreadyPaid", status: payment.StatusPaid, wantErr: payment.ErrInvalidTransition},
		{name: "Unused", status: payment.StatusUnused, wantErr: payment.ErrInvalidTransition},
		{
			name:   "VoidedMeanwhile",
			status: payment.StatusDue,
			setupMock: func(repo *payment.MockRepository) {
				repo.EXPECT().
					TransitionStatus(gomock.Any(), int64(4), payment.StatusDue, payment.StatusPaid, fixedNow).
					Return(false, nil)
			},
			wantErr: payment.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)

			repo.EXPECT().GetPayment(gomock.Any(), int64(4)).Return(&payment.Payment{ID: 4, Status: tt.status}, nil)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := svc.Pay(context.Background(), 4)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, payment.StatusPaid, got.Status)
			require.NotNil(t, got.PaidAt)
			assert.Equal(t, fixedNow, *got.PaidAt)
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	all := []payment.Status{payment.StatusDue, payment.StatusPaid, payment.StatusUnused}

	for _, from := range all {
		for _, to := range all {
			want := from == payment.StatusDue && to != payment.StatusDue
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}
