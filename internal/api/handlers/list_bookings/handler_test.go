package list_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type mockService struct{ mock.Mock }

func (m *mockService) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestToServiceRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/bookings?professionalId=3&dateFrom=2025-06-01&dateTo=2025-06-30&timeFrom=09:00&timeTo=12:00&includeCancelled=true", nil)

	req, err := ToServiceRequest(r)

	require.NoError(t, err)
	assert.Equal(t, int64(3), *req.ProfessionalID)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *req.DateFrom)
	assert.Equal(t, types.TimeString("12:00"), *req.TimeTo)
	assert.Nil(t, req.Time)
	assert.Nil(t, req.ClientID)
	assert.True(t, req.IncludeCancelled)

	for _, q := range []string{"dateFrom=06/01", "time=9", "includeCancelled=maybe", "clientId=-1"} {
		_, err := ToServiceRequest(httptest.NewRequest(http.MethodGet, "/api/v1/bookings?"+q, nil))
		assert.Error(t, err, q)
	}
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.MatchedBy(func(req *models.ListBookingsRequest) bool {
		return !req.IncludeCancelled && req.ClientID != nil && *req.ClientID == 42
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}}}, nil).Once()
	svc.On("List", mock.Anything, mock.MatchedBy(func(req *models.ListBookingsRequest) bool {
		return req.ClientID == nil
	})).Return(nil, bookings.ErrInvalidTimeRange).Once()

	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?clientId=42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?timeFrom=12:00&timeTo=09:00", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?dateTo=bad", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}
