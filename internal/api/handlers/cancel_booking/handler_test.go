package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) Cancel(ctx context.Context, bookingID int64, actor models.Actor) error {
	return m.Called(ctx, bookingID, actor).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		err    error
		status int
	}{
		{name: "client", status: http.StatusNoContent},
		{name: "admin", role: middleware.RoleAdmin, status: http.StatusNoContent},
		{name: "not found", err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "denied", err: bookings.ErrAccessDenied, status: http.StatusForbidden},
		{name: "already cancelled", err: bookings.ErrAlreadyCancelled, status: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Cancel", mock.Anything, int64(9), models.Actor{
				UserID:  42,
				IsAdmin: tt.role == middleware.RoleAdmin,
			}).Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/9/cancel", nil)
			req = mux.SetURLVars(req, map[string]string{"bookingId": "9"})
			req = req.WithContext(middleware.WithUser(req.Context(), 42, tt.role))
			rec := httptest.NewRecorder()

			NewHandler(svc, nopLogger{}).Handle(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
