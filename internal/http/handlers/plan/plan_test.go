package plan

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/middlewarectx"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
)

// MockSession реализует интерфейс plan.Session
type MockSession struct {
	mock.Mock
}

func (m *MockSession) Plan(ctx context.Context) (*storefront.PlanView, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*storefront.PlanView)
	return v, args.Error(1)
}

func (m *MockSession) RegeneratePlan(ctx context.Context) (*models.ActionPlan, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(*models.ActionPlan)
	return p, args.Error(1)
}

func (m *MockSession) ToggleTask(ctx context.Context, taskID int) (*models.ActionPlan, error) {
	args := m.Called(ctx, taskID)
	p, _ := args.Get(0).(*models.ActionPlan)
	return p, args.Error(1)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func samplePlan() *models.ActionPlan {
	p := &models.ActionPlan{
		Month: "October 2026",
		Tier:  models.TierBasic,
		Tasks: []models.Task{
			{ID: 1, Week: 1, Task: "Set up profile", Priority: models.PriorityHigh, Completed: true},
			{ID: 2, Week: 1, Task: "Pick niche", Priority: models.PriorityMedium},
		},
	}
	p.Recompute()
	return p
}

func TestGetHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockSession)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "план есть",
			setupMock: func(m *MockSession) {
				m.On("Plan", mock.Anything).Return(&storefront.PlanView{ActionPlan: samplePlan(), Stale: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"stale":true`,
		},
		{
			name: "плана нет",
			setupMock: func(m *MockSession) {
				m.On("Plan", mock.Anything).Return(nil, storefront.ErrNoPlan)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"no action plan"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockSession)
			tt.setupMock(m)

			req := httptest.NewRequest(http.MethodGet, "/plan", nil)
			req = req.WithContext(middlewarectx.WithSession(req.Context(), "s1"))
			w := httptest.NewRecorder()
			NewGet(newLogger(), func(string) Session { return m }).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			m.AssertExpectations(t)
		})
	}
}

func TestRegenerateHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockSession)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешно",
			setupMock: func(m *MockSession) {
				m.On("RegeneratePlan", mock.Anything).Return(samplePlan(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"month":"October 2026"`,
		},
		{
			name: "не подписан",
			setupMock: func(m *MockSession) {
				m.On("RegeneratePlan", mock.Anything).Return(nil, storefront.ErrNotSubscribed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"not subscribed"`,
		},
		{
			name: "ошибка генератора",
			setupMock: func(m *MockSession) {
				m.On("RegeneratePlan", mock.Anything).Return(nil, errors.New("timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not process action plan"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockSession)
			tt.setupMock(m)

			req := httptest.NewRequest(http.MethodPost, "/plan/regenerate", nil)
			req = req.WithContext(middlewarectx.WithSession(req.Context(), "s1"))
			w := httptest.NewRecorder()
			NewRegenerate(newLogger(), func(string) Session { return m }).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			m.AssertExpectations(t)
		})
	}
}

func TestToggleHandler(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockSession)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешно",
			id:   "2",
			setupMock: func(m *MockSession) {
				m.On("ToggleTask", mock.Anything, 2).Return(samplePlan(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"progress":50`,
		},
		{
			name:           "некорректный id",
			id:             "two",
			setupMock:      func(_ *MockSession) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid id"`,
		},
		{
			name: "задачи нет",
			id:   "99",
			setupMock: func(m *MockSession) {
				m.On("ToggleTask", mock.Anything, 99).Return(nil, storefront.ErrTaskNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"task not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockSession)
			tt.setupMock(m)

			req := httptest.NewRequest(http.MethodPost, "/plan/tasks/"+tt.id+"/toggle", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithSession(ctx, "s1"))

			w := httptest.NewRecorder()
			NewToggle(newLogger(), func(string) Session { return m }).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			m.AssertExpectations(t)
		})
	}
}
