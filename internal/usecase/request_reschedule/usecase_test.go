package request_reschedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type mockRescheduleRepo struct{ mock.Mock }

func (m *mockRescheduleRepo) HasPending(ctx context.Context, bookingID int64) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRescheduleRepo) Create(ctx context.Context, req *domain.RescheduleRequest) (*domain.RescheduleRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RescheduleRequest), args.Error(1)
}

type inlineTx struct{ err error }

func (tx inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return tx.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		UserID:    42,
		BookingID: 5,
		Date:      time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		StartTime: "11:30",
	}
}

func newUseCase(bookings *mockBookingRepo, reschedules *mockRescheduleRepo, tx inlineTx) *UseCase {
	return NewUseCase(bookings, reschedules, tx, time.UTC, nopLogger{}).WithTimeProvider(fixedTime{now: now})
}

func TestExecute_CreatesPendingRequest(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookingRepo{}
	reschedules := &mockRescheduleRepo{}

	bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{ID: 5, ClientID: 42}, nil).Once()
	reschedules.On("HasPending", ctx, int64(5)).Return(false, nil).Once()
	reschedules.On("Create", ctx, mock.MatchedBy(func(r *domain.RescheduleRequest) bool {
		return r.Status == domain.RescheduleStatusPending && r.RequestedMinute == 690
	})).Return(&domain.RescheduleRequest{ID: 9, BookingID: 5, Status: domain.RescheduleStatusPending}, nil).Once()

	result, err := newUseCase(bookings, reschedules, inlineTx{}).Execute(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(9), result.ID)
	bookings.AssertExpectations(t)
	reschedules.AssertExpectations(t)
}

func TestExecute_DuplicatePending(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookingRepo{}
	reschedules := &mockRescheduleRepo{}

	bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{ID: 5, ClientID: 42}, nil).Once()
	reschedules.On("HasPending", ctx, int64(5)).Return(true, nil).Once()

	_, err := newUseCase(bookings, reschedules, inlineTx{}).Execute(ctx, validRequest())

	assert.ErrorIs(t, err, ErrDuplicatePendingRequest)
	reschedules.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_Rejections(t *testing.T) {
	ctx := context.Background()
	cancelledAt := now

	tests := []struct {
		name     string
		booking  *domain.Booking
		repoErr  error
		mutate   func(r *Request)
		expected error
	}{
		{name: "not found", repoErr: bookingRepo.ErrBookingNotFound, expected: ErrBookingNotFound},
		{name: "not owner", booking: &domain.Booking{ID: 5, ClientID: 7}, expected: ErrAccessDenied},
		{name: "cancelled", booking: &domain.Booking{ID: 5, ClientID: 42, CancelledAt: &cancelledAt}, expected: ErrBookingCancelled},
		{name: "past date", mutate: func(r *Request) { r.Date = time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC) }, expected: ErrInvalidDate},
		{name: "earlier today", mutate: func(r *Request) { r.Date = now; r.StartTime = "11:00" }, expected: ErrInvalidDate},
		{name: "bad time", mutate: func(r *Request) { r.StartTime = "noon" }, expected: ErrInvalidInput},
		{
			name:     "past midnight",
			booking:  &domain.Booking{ID: 5, ClientID: 42, DurationMinutes: 60},
			mutate:   func(r *Request) { r.StartTime = "23:30" },
			expected: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &mockBookingRepo{}
			reschedules := &mockRescheduleRepo{}
			if tt.booking != nil || tt.repoErr != nil {
				bookings.On("GetByID", ctx, int64(5)).Return(tt.booking, tt.repoErr).Once()
			}
			req := validRequest()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			_, err := newUseCase(bookings, reschedules, inlineTx{}).Execute(ctx, req)

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestExecute_SerializationFailure(t *testing.T) {
	ctx := context.Background()
	bookings := &mockBookingRepo{}
	reschedules := &mockRescheduleRepo{}

	bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{ID: 5, ClientID: 42}, nil).Once()
	reschedules.On("HasPending", ctx, int64(5)).Return(false, nil).Once()
	reschedules.On("Create", ctx, mock.Anything).Return(&domain.RescheduleRequest{ID: 9}, nil).Once()

	tx := inlineTx{err: errors.Join(errors.New("commit"), &pq.Error{Code: "40001"})}
	_, err := newUseCase(bookings, reschedules, tx).Execute(ctx, validRequest())

	assert.ErrorIs(t, err, conflicts.ErrConcurrentModification)
}
