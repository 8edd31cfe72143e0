package subscribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/middlewarectx"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/leadsync"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
)

// MockSession реализует интерфейс subscribe.Session
type MockSession struct {
	mock.Mock
}

func (m *MockSession) Subscribe(ctx context.Context, req storefront.SubscribeRequest) (*storefront.SubscribeResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*storefront.SubscribeResult)
	return res, args.Error(1)
}

func (m *MockSession) Subscription(ctx context.Context) (*storefront.Subscription, error) {
	args := m.Called(ctx)
	sub, _ := args.Get(0).(*storefront.Subscription)
	return sub, args.Error(1)
}

func (m *MockSession) UpgradeTier(ctx context.Context, next models.Tier) (*storefront.Subscription, error) {
	args := m.Called(ctx, next)
	sub, _ := args.Get(0).(*storefront.Subscription)
	return sub, args.Error(1)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithSession(req.Context(), "s1"))
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockSession)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная подписка",
			body: `{"email":"a@b.co","first_name":"Ann"}`,
			setupMock: func(m *MockSession) {
				m.On("Subscribe", mock.Anything, storefront.SubscribeRequest{Email: "a@b.co", FirstName: "Ann"}).
					Return(&storefront.SubscribeResult{
						Subscriber:     models.Subscriber{Email: "a@b.co", FirstName: "Ann", Tier: models.TierBasic},
						LeadMagnetLink: "https://example.com/magnet.pdf",
						LeadSync:       leadsync.Result{OK: true, Status: 200},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"leadMagnetLink":"https://example.com/magnet.pdf"`,
		},
		{
			name: "ошибка CRM не отменяет подписку",
			body: `{"email":"a@b.co","tier":"premium"}`,
			setupMock: func(m *MockSession) {
				m.On("Subscribe", mock.Anything, storefront.SubscribeRequest{Email: "a@b.co", Tier: "premium"}).
					Return(&storefront.SubscribeResult{
						Subscriber: models.Subscriber{Email: "a@b.co", Tier: models.TierPremium},
						LeadSync:   leadsync.Result{Status: 500},
						APIError:   storefront.APIErrorSubscribe,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"apiError":"Subscription failed. Please try again later."`,
		},
		{
			name:           "email без @",
			body:           `{"email":"nobody"}`,
			setupMock:      func(_ *MockSession) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must contain \"@\"`,
		},
		{
			name:           "пустой email",
			body:           `{"first_name":"Ann"}`,
			setupMock:      func(_ *MockSession) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email is a required field`,
		},
		{
			name:           "неизвестный уровень",
			body:           `{"email":"a@b.co","tier":"gold"}`,
			setupMock:      func(_ *MockSession) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Tier must be one of [basic premium]`,
		},
		{
			name:           "некорректный JSON",
			body:           `{`,
			setupMock:      func(_ *MockSession) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name: "email отклонён сервисом",
			body: `{"email":" @ "}`,
			setupMock: func(m *MockSession) {
				m.On("Subscribe", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("storefront.Subscribe: %w", storefront.ErrInvalidEmail))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `email must contain @`,
		},
		{
			name: "ошибка сервиса",
			body: `{"email":"a@b.co"}`,
			setupMock: func(m *MockSession) {
				m.On("Subscribe", mock.Anything, mock.Anything).Return(nil, errors.New("plan failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not subscribe"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockSession)
			tt.setupMock(m)

			req := withSession(httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(tt.body)))
			w := httptest.NewRecorder()
			New(newLogger(), func(string) Session { return m }).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			m.AssertExpectations(t)
		})
	}
}

func TestStatusHandler(t *testing.T) {
	t.Run("подписан", func(t *testing.T) {
		m := new(MockSession)
		m.On("Subscription", mock.Anything).Return(&storefront.Subscription{
			Subscriber: models.Subscriber{Email: "a@b.co", Tier: models.TierBasic},
			Tier:       models.TierBasic,
		}, nil)

		w := httptest.NewRecorder()
		NewStatus(newLogger(), func(string) Session { return m }).
			ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/subscription", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"tier":"basic"`)
		m.AssertExpectations(t)
	})

	t.Run("не подписан", func(t *testing.T) {
		m := new(MockSession)
		m.On("Subscription", mock.Anything).Return(nil, storefront.ErrNotSubscribed)

		w := httptest.NewRecorder()
		NewStatus(newLogger(), func(string) Session { return m }).
			ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/subscription", nil)))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"not subscribed"`)
	})
}

func TestUpgradeHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockSession)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "basic -> premium",
			body: `{"tier":"premium"}`,
			setupMock: func(m *MockSession) {
				m.On("UpgradeTier", mock.Anything, models.TierPremium).
					Return(&storefront.Subscription{Tier: models.TierPremium}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tier":"premium"`,
		},
		{
			name: "понижение запрещено",
			body: `{"tier":"basic"}`,
			setupMock: func(m *MockSession) {
				m.On("UpgradeTier", mock.Anything, models.TierBasic).Return(nil, storefront.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"tier transition not allowed"`,
		},
		{
			name: "без подписки",
			body: `{"tier":"premium"}`,
			setupMock: func(m *MockSession) {
				m.On("UpgradeTier", mock.Anything, models.TierPremium).Return(nil, storefront.ErrNotSubscribed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"not subscribed"`,
		},
		{
			name:           "пустой уровень",
			body:           `{}`,
			setupMock:      func(_ *MockSession) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Tier is a required field`,
		},
		{
			name:           "неизвестный уровень",
			body:           `{"tier":"gold"}`,
			setupMock:      func(_ *MockSession) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `must be one of [basic premium]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockSession)
			tt.setupMock(m)

			req := withSession(httptest.NewRequest(http.MethodPost, "/tier/upgrade", strings.NewReader(tt.body)))
			w := httptest.NewRecorder()
			NewUpgrade(newLogger(), func(string) Session { return m }).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			m.AssertExpectations(t)
		})
	}
}
