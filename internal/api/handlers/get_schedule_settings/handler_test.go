package get_schedule_settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type mockService struct{ mock.Mock }

func (m *mockService) GetSettings(ctx context.Context, professionalID *int64) (*models.SettingsResponse, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettingsResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("GetSettings", mock.Anything, ptr.Ptr(int64(3))).Return(&models.SettingsResponse{
		BusinessHours: []models.BusinessHoursResponse{{Weekday: 1, Enabled: true}},
		SpecialDates:  []models.SpecialDateResponse{},
		ManualSlots:   []models.ManualSlotResponse{},
		Horizon:       ptr.Ptr("2025-08"),
	}, nil).Once()
	svc.On("GetSettings", mock.Anything, (*int64)(nil)).Return(nil, errors.New("boom")).Once()

	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule-settings?professionalId=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body models.SettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-08", *body.Horizon)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule-settings", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule-settings?professionalId=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}
