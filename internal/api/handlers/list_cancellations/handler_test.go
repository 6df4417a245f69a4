package list_cancellations

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
)

type mockService struct{ mock.Mock }

func (m *mockService) ListCancellations(ctx context.Context, req *models.ListCancellationsRequest) (*models.CancellationListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CancellationListResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestToServiceRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/cancellations?cancelledBy=client&createdFrom=2025-06-01T10:00:00Z&createdTo=2025-06-30&bookingIds=4,5&limit=500", nil)

	req, err := ToServiceRequest(r)

	require.NoError(t, err)
	assert.Equal(t, "client", *req.CancelledBy)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), *req.CreatedFrom)
	assert.Equal(t, time.Date(2025, 6, 30, 23, 59, 59, 999999999, time.UTC), *req.CreatedTo)
	assert.Equal(t, []int64{4, 5}, req.BookingIDs)
	assert.Equal(t, 500, req.Limit)

	for _, q := range []string{"createdFrom=yesterday", "limit=ten", "professionalId=x"} {
		_, err := ToServiceRequest(httptest.NewRequest(http.MethodGet, "/api/v1/cancellations?"+q, nil))
		assert.Error(t, err, q)
	}
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("ListCancellations", mock.Anything, mock.MatchedBy(func(req *models.ListCancellationsRequest) bool {
		return req.CancelledBy == nil
	})).Return(&models.CancellationListResponse{Cancellations: []models.CancellationResponse{{ID: 1}}}, nil).Once()
	svc.On("ListCancellations", mock.Anything, mock.MatchedBy(func(req *models.ListCancellationsRequest) bool {
		return req.CancelledBy != nil
	})).Return(nil, bookings.ErrInvalidInput).Once()

	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cancellations", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cancellations"`)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cancellations?cancelledBy=robot", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}
