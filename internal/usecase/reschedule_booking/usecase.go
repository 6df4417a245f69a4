package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
)

// UseCase use case для прямого переноса бронирования администратором
type UseCase struct {
	bookingRepo    BookingRepository
	rescheduleRepo RescheduleRepository
	validator      ConflictValidator
	txManager      TransactionManager
	cache          SlotsCache
	metrics        Metrics
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rescheduleRepo RescheduleRepository,
	validator ConflictValidator,
	txManager TransactionManager,
	cache SlotsCache,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		rescheduleRepo: rescheduleRepo,
		validator:      validator,
		txManager:      txManager,
		cache:          cache,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит бронирование и пишет одобренный запрос в историю
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, date=%s, time=%s",
		req.BookingID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if req.BookingID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: bookingID and date are required", ErrInvalidInput)
	}
	minute, err := req.StartTime.Minutes()
	if err != nil {
		uc.logger.Warn("RescheduleBooking: invalid startTime %q: %v", req.StartTime, err)
		return nil, fmt.Errorf("%w: invalid startTime: %w", ErrInvalidInput, err)
	}

	now := uc.timeProvider.Now().In(uc.location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)

	if domain.DateOnly(date).Before(domain.DateOnly(now)) ||
		(domain.SameCalendarDay(date, now) && minute <= domain.MinuteOfDay(now)) {
		uc.logger.Warn("RescheduleBooking: %s %s is in the past", date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrInvalidDate
	}

	var (
		booking *domain.Booking
		history *domain.RescheduleRequest
		oldDate time.Time
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Бронирование с блокировкой строки
		var err error
		booking, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if booking.IsCancelled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d is cancelled", req.BookingID)
			return ErrBookingCancelled
		}

		// 3. Перепроверка пересечений без учета самого бронирования
		if err := uc.validator.ValidateAndReserve(txCtx, conflicts.ProposedInterval{
			Date:            date,
			StartMinute:     minute,
			DurationMinutes: booking.DurationMinutes,
			ProfessionalID:  booking.ProfessionalID,
		}, &booking.ID); err != nil {
			return err
		}

		// 4. Переносим
		if err := uc.bookingRepo.UpdateTime(txCtx, booking.ID, date, minute); err != nil {
			uc.logger.Error("RescheduleBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		// 5. История: запрос сразу в статусе approved
		note := domain.DirectRescheduleNote
		respondedAt := now
		history, err = uc.rescheduleRepo.Create(txCtx, &domain.RescheduleRequest{
			BookingID:       booking.ID,
			RequestedDate:   date,
			RequestedMinute: minute,
			Status:          domain.RescheduleStatusApproved,
			ResponseNote:    &note,
			RespondedAt:     &respondedAt,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to record history for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to record history: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, availability.ErrConflict) {
			uc.metrics.IncBookingConflict("reschedule")
		}
		// Интервал, уходящий за полночь, ошибка запроса, а не сервера
		if errors.Is(err, conflicts.ErrInvalidInterval) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, conflicts.MapTxError(err)
	}

	oldDate = booking.Date
	booking.Date, booking.StartMinute = date, minute

	for _, d := range []time.Time{oldDate, date} {
		if err := uc.cache.InvalidateDate(ctx, d); err != nil {
			uc.logger.Warn("RescheduleBooking: failed to invalidate slots cache: %v", err)
		}
	}

	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s %s", booking.ID, date.Format(domain.DateFormat), req.StartTime)
	return &Response{Booking: booking, History: history}, nil
}
