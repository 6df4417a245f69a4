package request_reschedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для запроса клиента на перенос бронирования
// Запрос только фиксирует желаемое время, интервал проверяется при одобрении
type UseCase struct {
	bookingRepo    BookingRepository
	rescheduleRepo RescheduleRepository
	txManager      TransactionManager
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rescheduleRepo RescheduleRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		rescheduleRepo: rescheduleRepo,
		txManager:      txManager,
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

// Execute создает запрос на перенос в статусе pending
// Второй ожидающий запрос для того же бронирования отклоняется внутри сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.RescheduleRequest, error) {
	uc.logger.Info("RequestReschedule: user=%d, booking=%d, date=%s, time=%s",
		req.UserID, req.BookingID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	minute, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("RequestReschedule: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)

	if domain.DateOnly(date).Before(domain.DateOnly(now)) ||
		(domain.SameCalendarDay(date, now) && minute <= domain.MinuteOfDay(now)) {
		uc.logger.Warn("RequestReschedule: requested %s %s is in the past", date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrInvalidDate
	}

	var result *domain.RescheduleRequest

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Бронирование должно существовать и быть активным
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RequestReschedule: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RequestReschedule: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		if !req.IsAdmin && booking.ClientID != req.UserID {
			uc.logger.Warn("RequestReschedule: user=%d is not the owner of booking id=%d", req.UserID, req.BookingID)
			return ErrAccessDenied
		}

		if booking.IsCancelled() {
			uc.logger.Warn("RequestReschedule: booking id=%d is cancelled", req.BookingID)
			return ErrBookingCancelled
		}

		if minute+booking.DurationMinutes > types.MinutesPerDay {
			uc.logger.Warn("RequestReschedule: %s+%d runs past midnight", req.StartTime, booking.DurationMinutes)
			return fmt.Errorf("%w: booking of %d minutes cannot start at %s", ErrInvalidInput, booking.DurationMinutes, req.StartTime)
		}

		// 3. Не более одного ожидающего запроса
		pending, err := uc.rescheduleRepo.HasPending(txCtx, req.BookingID)
		if err != nil {
			uc.logger.Error("RequestReschedule: failed to check pending requests: %v", err)
			return fmt.Errorf("%w: failed to check pending requests: %w", ErrInternal, err)
		}
		if pending {
			uc.logger.Warn("RequestReschedule: booking id=%d already has a pending request", req.BookingID)
			return ErrDuplicatePendingRequest
		}

		// 4. Сохраняем запрос
		created, err := uc.rescheduleRepo.Create(txCtx, &domain.RescheduleRequest{
			BookingID:       req.BookingID,
			RequestedDate:   date,
			RequestedMinute: minute,
			Status:          domain.RescheduleStatusPending,
			ClientNote:      req.Note,
		})
		if err != nil {
			uc.logger.Error("RequestReschedule: failed to create request: %v", err)
			return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, conflicts.MapTxError(err)
	}

	uc.logger.Info("RequestReschedule: created request id=%d for booking id=%d", result.ID, req.BookingID)
	return result, nil
}

// validateRequest валидирует входные данные и возвращает время в минутах
func validateRequest(req *Request) (int, error) {
	if req.UserID <= 0 {
		return 0, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return 0, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return 0, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	minute, err := req.StartTime.Minutes()
	if err != nil {
		return 0, fmt.Errorf("%w: invalid startTime: %w", ErrInvalidInput, err)
	}

	if req.Note != nil && len([]rune(*req.Note)) > domain.MaxNotesLength {
		return 0, fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return minute, nil
}
