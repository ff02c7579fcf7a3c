package risk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lifepolicy/internal/application"
	riskhttp "github.com/MrJamesThe3rd/lifepolicy/internal/http/risk"
	"github.com/MrJamesThe3rd/lifepolicy/internal/risk"
)

type fixture struct {
	repo   *risk.MockRepository
	apps   *risk.MockApplicationFinder
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo: risk.NewMockRepository(ctrl),
		apps: risk.NewMockApplicationFinder(ctrl),
	}

	r := chi.NewRouter()
	r.Route("/risk-assessments", riskhttp.NewHandler(risk.NewService(f.repo, f.apps)).Routes)
	f.router = r

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func TestHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(f *fixture)
		wantStatus int
	}{
		{
			name: "PendingApplication",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetAssessment(gomock.Any(), int64(5)).Return(&risk.Assessment{ID: 5, ApplicationID: 42}, nil)
				f.apps.EXPECT().Find(gomock.Any(), int64(42)).Return(&application.Application{ID: 42, Status: application.StatusPending}, nil)
				f.repo.EXPECT().DeleteAssessment(gomock.Any(), int64(5)).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "AcceptedApplication",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetAssessment(gomock.Any(), int64(5)).Return(&risk.Assessment{ID: 5, ApplicationID: 42}, nil)
				f.apps.EXPECT().Find(gomock.Any(), int64(42)).Return(&application.Application{ID: 42, Status: application.StatusAccepted}, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "MissingApplication",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetAssessment(gomock.Any(), int64(5)).Return(&risk.Assessment{ID: 5, ApplicationID: 42}, nil)
				f.apps.EXPECT().Find(gomock.Any(), int64(42)).Return(nil, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "NotFound",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetAssessment(gomock.Any(), int64(5)).Return(nil, risk.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			rec := f.do(http.MethodDelete, "/risk-assessments/5", "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_Create(t *testing.T) {
	f := newFixture(t)

	f.apps.EXPECT().Find(gomock.Any(), int64(42)).Return(&application.Application{
		ID:              42,
		DesiredCoverage: decimal.NewNullDecimal(decimal.NewFromInt(300_000)),
	}, nil)
	f.repo.EXPECT().
		CreateAssessment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *risk.Assessment) error {
			a.ID = 5
			return nil
		})

	rec := f.do(http.MethodPost, "/risk-assessments", `{"application_id":42,"content":"Family history reviewed","age":45,"smoker":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID    int64    `json:"id"`
		Score int      `json:"score"`
		Flags []string `json:"flags"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.EqualValues(t, 5, resp.ID)
	assert.Equal(t, 50, resp.Score)
	assert.Equal(t, []string{"smoker", "medium_high_coverage"}, resp.Flags)
}

func TestHandler_Create_UnknownApplication(t *testing.T) {
	f := newFixture(t)

	f.apps.EXPECT().Find(gomock.Any(), int64(42)).Return(nil, nil)

	rec := f.do(http.MethodPost, "/risk-assessments", `{"application_id":42,"content":"x","age":30}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_List_ByApplication(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		ListAssessments(gomock.Any(), risk.ListFilter{ApplicationID: new(int64(42))}).
		Return([]*risk.Assessment{{ID: 5, ApplicationID: 42}}, nil)

	rec := f.do(http.MethodGet, "/risk-assessments?application_id=42", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/risk-assessments?application_id=x", "").Code)
}
