package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	return req.WithContext(middleware.WithUser(req.Context(), 42, ""))
}

const validBody = `{"services":[{"serviceId":1,"quantity":2},{"serviceId":3}],"date":"2025-06-02","startTime":"10:00"}`

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	uc.On("Execute", mock.Anything, &createBooking.Request{
		ClientID:  42,
		Services:  []domain.ServiceQuantity{{ServiceID: 1, Quantity: 2}, {ServiceID: 3, Quantity: 1}},
		Date:      date,
		StartTime: types.TimeString("10:00"),
	}).Return(&createBooking.Response{Booking: &domain.Booking{
		ID: 11, ClientID: 42, Date: date, StartMinute: 600, DurationMinutes: 50,
	}}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(validBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(11), body.ID)
	assert.Equal(t, "10:00", body.StartTime)
	assert.Equal(t, "10:50", body.EndTime)
	uc.AssertExpectations(t)
}

func TestHandle_Conflict(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &availability.ConflictError{ReservationID: 5}).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(validBody))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body handlers.ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(5), *body.ConflictingBookingID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ucErr  error
		status int
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "bad date", body: `{"services":[{"serviceId":1}],"date":"2/6/2025","startTime":"10:00"}`, status: http.StatusBadRequest},
		{name: "bad time", body: `{"services":[{"serviceId":1}],"date":"2025-06-02","startTime":"10"}`, status: http.StatusBadRequest},
		{name: "service not found", body: validBody, ucErr: createBooking.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "professional not found", body: validBody, ucErr: createBooking.ErrProfessionalNotFound, status: http.StatusNotFound},
		{name: "outside hours", body: validBody, ucErr: createBooking.ErrOutsideWorkingHours, status: http.StatusBadRequest},
		{name: "beyond horizon", body: validBody, ucErr: createBooking.ErrBeyondHorizon, status: http.StatusBadRequest},
		{name: "too late", body: validBody, ucErr: createBooking.ErrTooLateToBook, status: http.StatusBadRequest},
		{name: "internal", body: validBody, ucErr: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr).Once()
			}

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, newRequest(tt.body))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&mockUseCase{}, nopLogger{}).Handle(rec,
		httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
