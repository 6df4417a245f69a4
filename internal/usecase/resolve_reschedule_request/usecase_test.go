package resolve_reschedule_request

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	rescheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reschedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// memoryStore бронирования и запросы в памяти; транзакция откатывает состояние при ошибке
type memoryStore struct {
	mu       sync.Mutex
	bookings map[int64]domain.Booking
	requests map[int64]domain.RescheduleRequest
}

func (s *memoryStore) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	bookings := make(map[int64]domain.Booking, len(s.bookings))
	for k, v := range s.bookings {
		bookings[k] = v
	}
	requests := make(map[int64]domain.RescheduleRequest, len(s.requests))
	for k, v := range s.requests {
		requests[k] = v
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.bookings, s.requests = bookings, requests
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (s *memoryStore) UpdateTime(_ context.Context, id int64, date time.Time, startMinute int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Date, b.StartMinute = date, startMinute
	s.bookings[id] = b
	return nil
}

func (s *memoryStore) LockSchedule(context.Context, time.Time, *int64) error { return nil }

func (s *memoryStore) ListActiveForDate(_ context.Context, date time.Time, professionalID *int64) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		b := b
		if !domain.SameCalendarDay(b.Date, date) || b.IsCancelled() {
			continue
		}
		if professionalID != nil && b.ProfessionalID != nil && *b.ProfessionalID != *professionalID {
			continue
		}
		result = append(result, &b)
	}
	return result, nil
}

// requestsView адаптер хранилища под RescheduleRepository
type requestsView struct{ s *memoryStore }

func (v requestsView) GetByID(_ context.Context, id int64) (*domain.RescheduleRequest, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	r, ok := v.s.requests[id]
	if !ok {
		return nil, rescheduleRepo.ErrRequestNotFound
	}
	return &r, nil
}

func (v requestsView) Resolve(_ context.Context, id int64, status domain.RescheduleStatus, note *string) (*domain.RescheduleRequest, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	r, ok := v.s.requests[id]
	if !ok {
		return nil, rescheduleRepo.ErrRequestNotFound
	}
	now := time.Now()
	r.Status, r.ResponseNote, r.RespondedAt = status, note, &now
	v.s.requests[id] = r
	return &r, nil
}

type nopCache struct{}

func (nopCache) InvalidateDate(context.Context, time.Time) error { return nil }

type countingMetrics struct {
	decisions map[string]int
	conflicts int
}

func (m *countingMetrics) IncRescheduleDecision(d string) { m.decisions[d]++ }
func (m *countingMetrics) IncBookingConflict(string)      { m.conflicts++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	monday  = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
)

func newStore() *memoryStore {
	prof := ptr.Ptr(int64(3))
	return &memoryStore{
		bookings: map[int64]domain.Booking{
			1: {ID: 1, ClientID: 42, ProfessionalID: prof, Date: monday, StartMinute: 600, DurationMinutes: 60},
			2: {ID: 2, ClientID: 43, ProfessionalID: prof, Date: tuesday, StartMinute: 660, DurationMinutes: 60},
		},
		requests: map[int64]domain.RescheduleRequest{
			10: {ID: 10, BookingID: 1, RequestedDate: tuesday, RequestedMinute: 690, Status: domain.RescheduleStatusPending},
			11: {ID: 11, BookingID: 1, RequestedDate: tuesday, RequestedMinute: 540, Status: domain.RescheduleStatusPending},
			12: {ID: 12, BookingID: 1, RequestedDate: tuesday, RequestedMinute: 540, Status: domain.RescheduleStatusDenied},
		},
	}
}

func newUseCase(s *memoryStore, m *countingMetrics) *UseCase {
	validator := conflicts.NewValidator(s, nopLogger{})
	return NewUseCase(s, requestsView{s: s}, validator, s, nopCache{}, m, nopLogger{})
}

func TestApprove_ConflictLeavesStateUnchanged(t *testing.T) {
	s := newStore()
	m := &countingMetrics{decisions: map[string]int{}}

	_, err := newUseCase(s, m).Execute(context.Background(), &Request{RequestID: 10, Action: ActionApprove})

	require.ErrorIs(t, err, availability.ErrConflict)
	var ce *availability.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, int64(2), ce.ReservationID)

	assert.Equal(t, domain.RescheduleStatusPending, s.requests[10].Status)
	assert.Equal(t, monday, s.bookings[1].Date)
	assert.Equal(t, 600, s.bookings[1].StartMinute)
	assert.Equal(t, 1, m.conflicts)
	assert.Empty(t, m.decisions)
}

func TestApprove_MovesBooking(t *testing.T) {
	s := newStore()
	m := &countingMetrics{decisions: map[string]int{}}
	note := "see you"

	result, err := newUseCase(s, m).Execute(context.Background(), &Request{RequestID: 11, Action: ActionApprove, Note: &note})

	require.NoError(t, err)
	assert.Equal(t, domain.RescheduleStatusApproved, result.Status)
	assert.NotNil(t, result.RespondedAt)
	assert.Equal(t, "see you", *result.ResponseNote)
	assert.Equal(t, tuesday, s.bookings[1].Date)
	assert.Equal(t, 540, s.bookings[1].StartMinute)
	assert.Equal(t, 1, m.decisions["approved"])
}

func TestApprove_SameDayExcludesItself(t *testing.T) {
	s := newStore()
	s.requests[10] = domain.RescheduleRequest{ID: 10, BookingID: 1, RequestedDate: monday, RequestedMinute: 630, Status: domain.RescheduleStatusPending}
	m := &countingMetrics{decisions: map[string]int{}}

	_, err := newUseCase(s, m).Execute(context.Background(), &Request{RequestID: 10, Action: ActionApprove})

	require.NoError(t, err)
	assert.Equal(t, 630, s.bookings[1].StartMinute)
}

func TestDeny(t *testing.T) {
	s := newStore()
	m := &countingMetrics{decisions: map[string]int{}}

	result, err := newUseCase(s, m).Execute(context.Background(), &Request{RequestID: 10, Action: ActionDeny})

	require.NoError(t, err)
	assert.Equal(t, domain.RescheduleStatusDenied, result.Status)
	assert.Equal(t, 600, s.bookings[1].StartMinute)
	assert.Equal(t, 1, m.decisions["denied"])
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		req      Request
		mutate   func(s *memoryStore)
		expected error
	}{
		{name: "unknown request", req: Request{RequestID: 99, Action: ActionApprove}, expected: ErrRequestNotFound},
		{name: "already denied", req: Request{RequestID: 12, Action: ActionApprove}, expected: ErrAlreadyProcessed},
		{name: "deny twice", req: Request{RequestID: 12, Action: ActionDeny}, expected: ErrAlreadyProcessed},
		{name: "bad action", req: Request{RequestID: 10, Action: "maybe"}, expected: ErrInvalidInput},
		{
			name: "cancelled booking",
			req:  Request{RequestID: 11, Action: ActionApprove},
			mutate: func(s *memoryStore) {
				b := s.bookings[1]
				at := time.Now()
				b.CancelledAt = &at
				s.bookings[1] = b
			},
			expected: ErrBookingCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			if tt.mutate != nil {
				tt.mutate(s)
			}
			m := &countingMetrics{decisions: map[string]int{}}

			_, err := newUseCase(s, m).Execute(context.Background(), &tt.req)

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestApprove_PastMidnightIsInvalidInput(t *testing.T) {
	s := newStore()
	s.requests[10] = domain.RescheduleRequest{ID: 10, BookingID: 1, RequestedDate: tuesday, RequestedMinute: 1410, Status: domain.RescheduleStatusPending}
	m := &countingMetrics{decisions: map[string]int{}}

	_, err := newUseCase(s, m).Execute(context.Background(), &Request{RequestID: 10, Action: ActionApprove})

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, domain.RescheduleStatusPending, s.requests[10].Status)
	assert.Equal(t, monday, s.bookings[1].Date)
	assert.Zero(t, m.conflicts)
}
