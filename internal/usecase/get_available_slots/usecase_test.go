package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) ListActiveForDate(ctx context.Context, date time.Time, professionalID *int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, date, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) GetScheduleRules(ctx context.Context, date time.Time, professionalID *int64) (domain.ScheduleRules, error) {
	args := m.Called(ctx, date, professionalID)
	return args.Get(0).(domain.ScheduleRules), args.Error(1)
}

func (m *mockScheduleRepo) ListManualSlotsForDate(ctx context.Context, date time.Time, professionalID *int64) ([]*domain.ManualSlot, error) {
	args := m.Called(ctx, date, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ManualSlot), args.Error(1)
}

func (m *mockScheduleRepo) GetHorizon(ctx context.Context) (*domain.YearMonth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.YearMonth), args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetServices(ctx context.Context, ids []int64) ([]domain.Service, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Service), args.Error(1)
}

type memoryCache struct {
	items map[string]domain.DayPreview
}

func (c *memoryCache) Get(_ context.Context, key string) (domain.DayPreview, bool) {
	p, ok := c.items[key]
	return p, ok
}

func (c *memoryCache) Set(_ context.Context, key string, preview domain.DayPreview) error {
	c.items[key] = preview
	return nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func int64Ptr(v int64) *int64 { return &v }

// 2025-06-02 понедельник
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func globalWeekday(open, closeMinute int) domain.ScheduleRules {
	return domain.ScheduleRules{
		GlobalWeekday: &domain.OperatingWindow{Weekday: time.Monday, Enabled: true, OpenMinute: open, CloseMinute: closeMinute},
	}
}

func TestExecute_GeneratesBuckets(t *testing.T) {
	bookings := &mockBookingRepo{}
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}

	catalog.On("GetServices", mock.Anything, []int64{1}).
		Return([]domain.Service{{ID: 1, DurationMinutes: 30}}, nil).Once()
	schedule.On("GetScheduleRules", mock.Anything, monday, (*int64)(nil)).
		Return(globalWeekday(540, 720), nil).Once()
	schedule.On("ListManualSlotsForDate", mock.Anything, monday, (*int64)(nil)).
		Return([]*domain.ManualSlot{}, nil).Once()
	schedule.On("GetHorizon", mock.Anything).Return(nil, nil).Once()
	bookings.On("ListActiveForDate", mock.Anything, monday, (*int64)(nil)).
		Return([]*domain.Booking{{ID: 10, Date: monday, StartMinute: 600, DurationMinutes: 60}}, nil).Once()

	uc := NewUseCase(bookings, schedule, catalog, nil, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})

	require.NoError(t, err)
	assert.Equal(t, []int{540, 570, 660, 690}, resp.Slots.Morning)
	assert.Empty(t, resp.Slots.Afternoon)
	assert.Equal(t, domain.SourceGlobalWeekday, resp.Window.Source)
	assert.Equal(t, 30, resp.DurationMinutes)
	catalog.AssertExpectations(t)
	schedule.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestExecute_InfersProfessional(t *testing.T) {
	bookings := &mockBookingRepo{}
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}
	prof := int64Ptr(3)

	catalog.On("GetServices", mock.Anything, []int64{1, 2}).Return([]domain.Service{
		{ID: 1, DurationMinutes: 30, ResponsibleProfessionalID: prof},
		{ID: 2, DurationMinutes: 15},
	}, nil).Once()
	schedule.On("GetScheduleRules", mock.Anything, monday, prof).Return(globalWeekday(540, 600), nil).Once()
	schedule.On("ListManualSlotsForDate", mock.Anything, monday, prof).Return([]*domain.ManualSlot{}, nil).Once()
	schedule.On("GetHorizon", mock.Anything).Return(nil, nil).Once()
	bookings.On("ListActiveForDate", mock.Anything, monday, prof).Return([]*domain.Booking{}, nil).Once()

	uc := NewUseCase(bookings, schedule, catalog, nil, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1, 2, 1}})

	require.NoError(t, err)
	require.NotNil(t, resp.ProfessionalID)
	assert.Equal(t, int64(3), *resp.ProfessionalID)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, []int{540}, resp.Slots.Morning)
}

func TestExecute_ConflictingProfessionals(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("GetServices", mock.Anything, []int64{1, 2}).Return([]domain.Service{
		{ID: 1, DurationMinutes: 30, ResponsibleProfessionalID: int64Ptr(3)},
		{ID: 2, DurationMinutes: 30, ResponsibleProfessionalID: int64Ptr(4)},
	}, nil).Once()

	uc := NewUseCase(&mockBookingRepo{}, &mockScheduleRepo{}, catalog, nil, time.UTC, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1, 2}})

	assert.ErrorIs(t, err, ErrConflictingProfessionals)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	catalog := &mockCatalog{}
	catalog.On("GetServices", mock.Anything, []int64{1, 99}).
		Return(nil, &catalogClient.MissingServicesError{IDs: []int64{99}}).Once()

	uc := NewUseCase(&mockBookingRepo{}, &mockScheduleRepo{}, catalog, nil, time.UTC, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1, 99}})

	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Contains(t, err.Error(), "99")
}

func TestExecute_InvalidWindowDegradesToClosed(t *testing.T) {
	bookings := &mockBookingRepo{}
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}

	catalog.On("GetServices", mock.Anything, []int64{1}).Return([]domain.Service{{ID: 1, DurationMinutes: 30}}, nil).Once()
	schedule.On("GetScheduleRules", mock.Anything, monday, (*int64)(nil)).Return(globalWeekday(720, 600), nil).Once()
	schedule.On("ListManualSlotsForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.ManualSlot{}, nil).Once()
	schedule.On("GetHorizon", mock.Anything).Return(nil, nil).Once()
	bookings.On("ListActiveForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.Booking{}, nil).Once()

	uc := NewUseCase(bookings, schedule, catalog, nil, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})

	require.NoError(t, err)
	assert.False(t, resp.Window.Enabled)
	assert.Equal(t, 0, resp.Slots.Total())
}

func TestExecute_UsesCacheForFutureDates(t *testing.T) {
	bookings := &mockBookingRepo{}
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}
	cache := &memoryCache{items: map[string]domain.DayPreview{}}

	catalog.On("GetServices", mock.Anything, []int64{1}).Return([]domain.Service{{ID: 1, DurationMinutes: 30}}, nil).Twice()
	schedule.On("GetScheduleRules", mock.Anything, monday, (*int64)(nil)).Return(globalWeekday(540, 600), nil).Once()
	schedule.On("ListManualSlotsForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.ManualSlot{}, nil).Once()
	schedule.On("GetHorizon", mock.Anything).Return(nil, nil).Once()
	bookings.On("ListActiveForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.Booking{}, nil).Once()

	uc := NewUseCase(bookings, schedule, catalog, cache, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	first, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
	assert.Equal(t, first.Window, second.Window)
	assert.Len(t, cache.items, 1)
	schedule.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestExecute_CacheHitKeepsWindow(t *testing.T) {
	bookings := &mockBookingRepo{}
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}
	cache := &memoryCache{items: map[string]domain.DayPreview{}}

	catalog.On("GetServices", mock.Anything, []int64{1}).Return([]domain.Service{{ID: 1, DurationMinutes: 30}}, nil).Twice()
	// Ни одного правила: срабатывает fallback 09:00-20:00
	schedule.On("GetScheduleRules", mock.Anything, monday, (*int64)(nil)).Return(domain.ScheduleRules{}, nil).Once()
	schedule.On("ListManualSlotsForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.ManualSlot{}, nil).Once()
	schedule.On("GetHorizon", mock.Anything).Return(nil, nil).Once()
	bookings.On("ListActiveForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.Booking{}, nil).Once()

	uc := NewUseCase(bookings, schedule, catalog, cache, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	miss, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})
	require.NoError(t, err)
	hit, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})
	require.NoError(t, err)

	assert.True(t, miss.Window.Enabled)
	assert.Equal(t, domain.SourceFallback, miss.Window.Source)
	assert.Equal(t, miss.Window, hit.Window)
	assert.Equal(t, miss.Slots, hit.Slots)
	schedule.AssertExpectations(t)
}

func TestExecute_QuantityExtendsDuration(t *testing.T) {
	bookings := &mockBookingRepo{}
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}

	catalog.On("GetServices", mock.Anything, []int64{1}).Return([]domain.Service{{ID: 1, DurationMinutes: 30}}, nil).Once()
	schedule.On("GetScheduleRules", mock.Anything, monday, (*int64)(nil)).Return(globalWeekday(540, 720), nil).Once()
	schedule.On("ListManualSlotsForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.ManualSlot{}, nil).Once()
	schedule.On("GetHorizon", mock.Anything).Return(nil, nil).Once()
	bookings.On("ListActiveForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.Booking{}, nil).Once()

	uc := NewUseCase(bookings, schedule, catalog, nil, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{
		Date:       monday,
		ServiceIDs: []int64{1},
		Quantities: map[int64]int{1: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	// 11:30 не помещается: две услуги по 30 минут заканчиваются после 12:00
	assert.Equal(t, []int{540, 570, 600, 630, 660}, resp.Slots.Morning)
}

func TestExecute_TodayNotCached(t *testing.T) {
	bookings := &mockBookingRepo{}
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}
	cache := &memoryCache{items: map[string]domain.DayPreview{}}

	catalog.On("GetServices", mock.Anything, []int64{1}).Return([]domain.Service{{ID: 1, DurationMinutes: 30}}, nil).Once()
	schedule.On("GetScheduleRules", mock.Anything, monday, (*int64)(nil)).Return(globalWeekday(540, 1200), nil).Once()
	schedule.On("ListManualSlotsForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.ManualSlot{}, nil).Once()
	schedule.On("GetHorizon", mock.Anything).Return(nil, nil).Once()
	bookings.On("ListActiveForDate", mock.Anything, monday, (*int64)(nil)).Return([]*domain.Booking{}, nil).Once()

	uc := NewUseCase(bookings, schedule, catalog, cache, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 2, 14, 5, 0, 0, time.UTC)})

	resp, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots.Morning)
	assert.Equal(t, 870, resp.Slots.Afternoon[0])
	assert.Empty(t, cache.items)
}

func TestExecute_StorageError(t *testing.T) {
	schedule := &mockScheduleRepo{}
	catalog := &mockCatalog{}

	catalog.On("GetServices", mock.Anything, []int64{1}).Return([]domain.Service{{ID: 1, DurationMinutes: 30}}, nil).Once()
	schedule.On("GetScheduleRules", mock.Anything, monday, (*int64)(nil)).
		Return(domain.ScheduleRules{}, errors.New("db down")).Once()

	uc := NewUseCase(&mockBookingRepo{}, schedule, catalog, nil, time.UTC, nopLogger{}).
		WithTimeProvider(fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)})

	_, err := uc.Execute(context.Background(), &Request{Date: monday, ServiceIDs: []int64{1}})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "no date", req: Request{ServiceIDs: []int64{1}}},
		{name: "no services", req: Request{Date: monday}},
		{name: "bad service id", req: Request{Date: monday, ServiceIDs: []int64{0}}},
		{name: "zero quantity", req: Request{Date: monday, ServiceIDs: []int64{1}, Quantities: map[int64]int{1: 0}}},
		{name: "bad professional", req: Request{Date: monday, ServiceIDs: []int64{1}, ProfessionalID: int64Ptr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, validateRequest(&tt.req), ErrInvalidInput)
		})
	}
}
