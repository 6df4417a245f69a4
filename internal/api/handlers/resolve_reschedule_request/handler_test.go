package resolve_reschedule_request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	resolveRequest "github.com/m04kA/SMC-AppointmentService/internal/usecase/resolve_reschedule_request"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *resolveRequest.Request) (*domain.RescheduleRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RescheduleRequest), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func request(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/reschedule-requests/"+id, strings.NewReader(body))
	return mux.SetURLVars(req, map[string]string{"requestId": id})
}

func TestHandle_Approve(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &resolveRequest.Request{RequestID: 10, Action: resolveRequest.ActionApprove}).
		Return(&domain.RescheduleRequest{ID: 10, Status: domain.RescheduleStatusApproved}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, request("10", `{"action":"approve"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"approved"`)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		ucErr  error
		status int
	}{
		{name: "bad id", id: "zero", status: http.StatusBadRequest},
		{name: "conflict", id: "10", ucErr: &availability.ConflictError{ReservationID: 2}, status: http.StatusConflict},
		{name: "not found", id: "10", ucErr: resolveRequest.ErrRequestNotFound, status: http.StatusNotFound},
		{name: "processed", id: "10", ucErr: resolveRequest.ErrAlreadyProcessed, status: http.StatusConflict},
		{name: "cancelled", id: "10", ucErr: resolveRequest.ErrBookingCancelled, status: http.StatusConflict},
		{name: "bad action", id: "10", ucErr: resolveRequest.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", id: "10", ucErr: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr).Once()
			}

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, request(tt.id, `{"action":"approve","note":"ok"}`))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
