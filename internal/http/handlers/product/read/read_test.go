package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gitaprawira/pos-api/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение товара",
			url:  "/products/1",
			setupMock: func(m *MockService) {
				m.On("GetByID", mock.Anything, int64(1)).Return(&models.Product{
					ID:            1,
					SKU:           "COF-001",
					Name:          "Espresso Beans 1kg",
					Price:         17.50,
					StockQuantity: 40,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"sku":"COF-001"`,
		},
		{
			name:           "некорректный id в URL",
			url:            "/products/abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `failed to decode id from url`,
		},
		{
			name: "товар не найден",
			url:  "/products/404",
			setupMock: func(m *MockService) {
				m.On("GetByID", mock.Anything, int64(404)).
					Return(nil, models.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `product not found`,
		},
		{
			name: "ошибка сервиса",
			url:  "/products/777",
			setupMock: func(m *MockService) {
				m.On("GetByID", mock.Anything, int64(777)).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not read product`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", strings.TrimPrefix(tt.url, "/products/"))
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
