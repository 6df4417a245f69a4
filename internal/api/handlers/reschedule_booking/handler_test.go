package reschedule_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	rescheduleBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_booking"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *rescheduleBooking.Request) (*rescheduleBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rescheduleBooking.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func request(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/5/reschedule", strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"bookingId": "5"})
}

const validBody = `{"date":"2025-06-03","startTime":"09:00"}`

func TestHandle_OK(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	note := domain.DirectRescheduleNote

	uc.On("Execute", mock.Anything, &rescheduleBooking.Request{BookingID: 5, Date: date, StartTime: "09:00"}).
		Return(&rescheduleBooking.Response{
			Booking: &domain.Booking{ID: 5, Date: date, StartMinute: 540, DurationMinutes: 60},
			History: &domain.RescheduleRequest{ID: 20, BookingID: 5, Status: domain.RescheduleStatusApproved, ResponseNote: &note},
		}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, request(validBody))

	require.Equal(t, http.StatusOK, rec.Code)
	var body RescheduleBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "09:00", body.Booking.StartTime)
	assert.Equal(t, "approved", body.History.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ucErr  error
		status int
	}{
		{name: "bad time", body: `{"date":"2025-06-03","startTime":"9am"}`, status: http.StatusBadRequest},
		{name: "conflict", body: validBody, ucErr: &availability.ConflictError{ReservationID: 8}, status: http.StatusConflict},
		{name: "not found", body: validBody, ucErr: rescheduleBooking.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "cancelled", body: validBody, ucErr: rescheduleBooking.ErrBookingCancelled, status: http.StatusConflict},
		{name: "past", body: validBody, ucErr: rescheduleBooking.ErrInvalidDate, status: http.StatusBadRequest},
		{name: "past midnight", body: `{"date":"2025-06-03","startTime":"23:30"}`, ucErr: rescheduleBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", body: validBody, ucErr: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr).Once()
			}

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, request(tt.body))

			assert.Equal(t, tt.status, rec.Code)
			if tt.name == "conflict" {
				var body handlers.ConflictResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, int64(8), *body.ConflictingBookingID)
			}
		})
	}
}
