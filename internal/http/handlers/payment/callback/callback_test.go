package callback

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/darinsight/tarobot/internal/config"
	services "github.com/darinsight/tarobot/internal/services/subscription"
)

// MockService реализует интерфейс callback.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ActivatePaid(userID int64, amountKopecks int64, regPayNum string) (config.Plan, error) {
	args := m.Called(userID, amountKopecks, regPayNum)
	return args.Get(0).(config.Plan), args.Error(1)
}

// MockNotifier реализует интерфейс callback.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) ConfirmPayment(userID int64, plan config.Plan) error {
	return m.Called(userID, plan).Error(0)
}

func TestCallbackHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	weekPlan := config.Plan{ID: "week", Name: "7 дней", Price: 159, Days: 7}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService, *MockNotifier)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "оплата недельного тарифа активирует подписку",
			body: `{"property":{"ИДЕНТИФИКАТОР":"42"},"state":"PAYED","amount":"15900","regPayNum":"PAY-1"}`,
			setupMock: func(s *MockService, n *MockNotifier) {
				s.On("ActivatePaid", int64(42), int64(15900), "PAY-1").Return(weekPlan, nil)
				n.On("ConfirmPayment", int64(42), weekPlan).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name: "статус в нижнем регистре тоже принимается",
			body: `{"property":{"ИДЕНТИФИКАТОР":"42"},"state":"payed","amount":"15900","regPayNum":"PAY-2"}`,
			setupMock: func(s *MockService, n *MockNotifier) {
				s.On("ActivatePaid", int64(42), int64(15900), "PAY-2").Return(weekPlan, nil)
				n.On("ConfirmPayment", int64(42), weekPlan).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "неподтверждённый платёж не мутирует состояние",
			body:           `{"property":{"ИДЕНТИФИКАТОР":"42"},"state":"CANCELED","amount":"15900"}`,
			setupMock:      func(_ *MockService, _ *MockNotifier) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"payment not confirmed"`,
		},
		{
			name: "незнакомая сумма отклоняется без мутаций",
			body: `{"property":{"ИДЕНТИФИКАТОР":"42"},"state":"PAYED","amount":"20000"}`,
			setupMock: func(s *MockService, _ *MockNotifier) {
				s.On("ActivatePaid", int64(42), int64(20000), "").
					Return(config.Plan{}, services.ErrUnknownAmount)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"unknown payment amount"`,
		},
		{
			name: "повторное уведомление не продлевает подписку",
			body: `{"property":{"ИДЕНТИФИКАТОР":"42"},"state":"PAYED","amount":"15900","regPayNum":"PAY-1"}`,
			setupMock: func(s *MockService, _ *MockNotifier) {
				s.On("ActivatePaid", int64(42), int64(15900), "PAY-1").
					Return(config.Plan{}, services.ErrDuplicatePayment)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"payment already processed"`,
		},
		{
			name:           "отсутствует идентификатор пользователя",
			body:           `{"property":{},"state":"PAYED","amount":"15900"}`,
			setupMock:      func(_ *MockService, _ *MockNotifier) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field UserID is a required field`,
		},
		{
			name:           "отсутствует статус платежа",
			body:           `{"property":{"ИДЕНТИФИКАТОР":"42"},"amount":"15900"}`,
			setupMock:      func(_ *MockService, _ *MockNotifier) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field State is a required field`,
		},
		{
			name:           "отсутствует сумма",
			body:           `{"property":{"ИДЕНТИФИКАТОР":"42"},"state":"PAYED"}`,
			setupMock:      func(_ *MockService, _ *MockNotifier) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Amount is a required field`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not a json`,
			setupMock:      func(_ *MockService, _ *MockNotifier) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid JSON"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			notifier := new(MockNotifier)
			tt.setupMock(service, notifier)

			handler := New(logger, service, notifier)

			req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestCallbackHandler_NotifierFailureStillOK(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	weekPlan := config.Plan{ID: "week", Price: 159, Days: 7}

	service := new(MockService)
	notifier := new(MockNotifier)
	service.On("ActivatePaid", int64(42), int64(15900), "PAY-9").Return(weekPlan, nil)
	notifier.On("ConfirmPayment", int64(42), weekPlan).Return(assert.AnError)

	handler := New(logger, service, notifier)
	req := httptest.NewRequest(http.MethodPost, "/callback",
		bytes.NewBufferString(`{"property":{"ИДЕНТИФИКАТОР":"42"},"state":"PAYED","amount":"15900","regPayNum":"PAY-9"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// сбой уведомления не откатывает активацию
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
}
