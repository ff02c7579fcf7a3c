package risk_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	"github.com/MrJamesThe3rd/lifepolicy/internal/metrics"
	"github.com/MrJamesThe3rd/lifepolicy/internal/risk"
)

func TestService_Delete(t *testing.T) {
	assessment := &risk.Assessment{ID: 1, ApplicationID: 9}

	type testCase struct {
		name      string
		setupMock func(repo *risk.MockRepository, apps *risk.MockApplicationFinder)
		want      risk.Outcome
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "PendingApplication",
			setupMock: func(repo *risk.MockRepository, apps *risk.MockApplicationFinder) {
				repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(assessment, nil)
				apps.EXPECT().Find(gomock.Any(), int64(9)).Return(&application.Application{ID: 9, Status: application.StatusPending}, nil)
				repo.EXPECT().DeleteAssessment(gomock.Any(), int64(1)).Return(nil)
			},
			want: risk.OutcomeDeleted,
		},
		{
			name: "RejectedApplication",
			setupMock: func(repo *risk.MockRepository, apps *risk.MockApplicationFinder) {
				repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(assessment, nil)
				apps.EXPECT().Find(gomock.Any(), int64(9)).Return(&application.Application{ID: 9, Status: application.StatusRejected}, nil)
				repo.EXPECT().DeleteAssessment(gomock.Any(), int64(1)).Return(nil)
			},
			want: risk.OutcomeDeleted,
		},
		{
			name: "AcceptedApplication",
			setupMock: func(repo *risk.MockRepository, apps *risk.MockApplicationFinder) {
				repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(assessment, nil)
				apps.EXPECT().Find(gomock.Any(), int64(9)).Return(&application.Application{ID: 9, Status: application.StatusAccepted}, nil)
			},
			want: risk.OutcomeBlocked,
		},
		{
			name: "MissingApplication",
			setupMock: func(repo *risk.MockRepository, apps *risk.MockApplicationFinder) {
				repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(assessment, nil)
				apps.EXPECT().Find(gomock.Any(), int64(9)).Return(nil, nil)
			},
			want: risk.OutcomeBlocked,
		},
		{
			name: "MissingAssessment",
			setupMock: func(repo *risk.MockRepository, _ *risk.MockApplicationFinder) {
				repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(nil, risk.ErrNotFound)
			},
			want: risk.OutcomeNotFound,
		},
		{
			name: "DeletedConcurrently",
			setupMock: func(repo *risk.MockRepository, apps *risk.MockApplicationFinder) {
				repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(assessment, nil)
				apps.EXPECT().Find(gomock.Any(), int64(9)).Return(&application.Application{ID: 9, Status: application.StatusPending}, nil)
				repo.EXPECT().DeleteAssessment(gomock.Any(), int64(1)).Return(risk.ErrNotFound)
			},
			want: risk.OutcomeNotFound,
		},
		{
			name: "RepoError",
			setupMock: func(repo *risk.MockRepository, _ *risk.MockApplicationFinder) {
				repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := risk.NewMockRepository(ctrl)
			apps := risk.NewMockApplicationFinder(ctrl)
			tt.setupMock(repo, apps)

			got, err := risk.NewService(repo, apps).Delete(context.Background(), 1)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Delete_CountsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := risk.NewMockRepository(ctrl)
	apps := risk.NewMockApplicationFinder(ctrl)
	m := metrics.New(prometheus.NewRegistry())

	repo.EXPECT().GetAssessment(gomock.Any(), int64(1)).Return(&risk.Assessment{ID: 1, ApplicationID: 9}, nil)
	apps.EXPECT().Find(gomock.Any(), int64(9)).Return(&application.Application{ID: 9, Status: application.StatusAccepted}, nil)

	_, err := risk.NewService(repo, apps, risk.WithMetrics(m)).Delete(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RiskDeletions.WithLabelValues("blocked")))
}

func TestService_Create(t *testing.T) {
	t.Run("ScoresFromApplicationCoverage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := risk.NewMockRepository(ctrl)
		apps := risk.NewMockApplicationFinder(ctrl)

		apps.EXPECT().Find(gomock.Any(), int64(9)).Return(&application.Application{
			ID:              9,
			DesiredCoverage: decimal.NewNullDecimal(decimal.NewFromInt(600_000)),
		}, nil)
		repo.EXPECT().CreateAssessment(gomock.Any(), gomock.Any()).Return(nil)

		got, err := risk.NewService(repo, apps).Create(context.Background(), risk.CreateParams{
			ApplicationID: 9,
			Content:       "declared smoker",
			Factors:       risk.Factors{Age: 45, Smoker: true},
		})
		require.NoError(t, err)

		assert.Equal(t, 60, got.Score)
		assert.Equal(t, []string{"smoker", "high_coverage"}, got.Flags)
	})

	t.Run("UnknownApplication", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		apps := risk.NewMockApplicationFinder(ctrl)

		apps.EXPECT().Find(gomock.Any(), int64(9)).Return(nil, nil)

		_, err := risk.NewService(risk.NewMockRepository(ctrl), apps).Create(context.Background(), risk.CreateParams{ApplicationID: 9})
		assert.ErrorIs(t, err, risk.ErrApplicationNotFound)
	})
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		factors   risk.Factors
		coverage  int64
		wantScore int
		wantFlags []string
	}{
		{name: "Young", factors: risk.Factors{Age: 30}, coverage: 50_000, wantScore: 0, wantFlags: []string{}},
		{name: "OverEighty", factors: risk.Factors{Age: 81, Smoker: true}, coverage: 900_000, wantScore: 100, wantFlags: []string{"age_over_80"}},
		{name: "SeniorSmokerHighCover", factors: risk.Factors{Age: 70, Smoker: true}, coverage: 900_000, wantScore: 100, wantFlags: []string{"senior_65_plus", "smoker", "high_coverage"}},
		{name: "MediumCover", factors: risk.Factors{Age: 55}, coverage: 300_000, wantScore: 40, wantFlags: []string{"medium_high_coverage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, flags := risk.Score(tt.factors, decimal.NewFromInt(tt.coverage))

			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantFlags, flags)
		})
	}
}
