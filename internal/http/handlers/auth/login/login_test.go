package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gitaprawira/pos-api/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	args := m.Called(ctx, username, password)
	if res := args.Get(0); res != nil {
		return res.(*models.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"username":"cashier","password":"secret1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cashier", "secret1").
					Return(&models.AuthResult{
						AccessToken:  "access",
						RefreshToken: "refresh",
						Username:     "cashier",
						Role:         models.RoleStaff,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"access_token":"access"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"username":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "отсутствует пароль",
			body:           `{"username":"cashier"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Password is a required field`,
		},
		{
			name: "неверные учетные данные",
			body: `{"username":"cashier","password":"wrong"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cashier", "wrong").
					Return(nil, models.ErrBadCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `invalid username or password`,
		},
		{
			name: "ошибка сервиса",
			body: `{"username":"cashier","password":"secret1"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "cashier", "secret1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to login`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
