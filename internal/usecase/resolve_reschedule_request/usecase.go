package resolve_reschedule_request

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	rescheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reschedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для решения администратора по запросу на перенос
type UseCase struct {
	bookingRepo    BookingRepository
	rescheduleRepo RescheduleRepository
	validator      ConflictValidator
	txManager      TransactionManager
	cache          SlotsCache
	metrics        Metrics
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
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		rescheduleRepo: rescheduleRepo,
		validator:      validator,
		txManager:      txManager,
		cache:          cache,
		metrics:        metrics,
		logger:         logger,
	}
}

// Execute одобряет или отклоняет запрос
// При пересечении одобрение откатывается целиком: запрос остается pending, бронирование не меняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.RescheduleRequest, error) {
	uc.logger.Info("ResolveReschedule: request=%d, action=%s", req.RequestID, req.Action)

	// 1. Валидация входных данных
	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ResolveReschedule: validation failed: %v", err)
		return nil, err
	}

	var (
		result  *domain.RescheduleRequest
		booking *domain.Booking
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2. Загружаем запрос с блокировкой строки
		request, err := uc.rescheduleRepo.GetByID(txCtx, req.RequestID)
		if err != nil {
			if errors.Is(err, rescheduleRepo.ErrRequestNotFound) {
				uc.logger.Warn("ResolveReschedule: request id=%d not found", req.RequestID)
				return ErrRequestNotFound
			}
			uc.logger.Error("ResolveReschedule: failed to get request id=%d: %v", req.RequestID, err)
			return fmt.Errorf("%w: failed to get request: %w", ErrInternal, err)
		}

		if !domain.CanTransition(request.Status, target) {
			uc.logger.Warn("ResolveReschedule: request id=%d is already %s", req.RequestID, request.Status)
			return fmt.Errorf("%w: status is %s", ErrAlreadyProcessed, request.Status)
		}

		// 3. Одобрение: проверяем интервал и переносим бронирование
		if target == domain.RescheduleStatusApproved {
			booking, err = uc.approve(txCtx, request)
			if err != nil {
				return err
			}
		}

		// 4. Фиксируем решение
		resolved, err := uc.rescheduleRepo.Resolve(txCtx, request.ID, target, req.Note)
		if err != nil {
			uc.logger.Error("ResolveReschedule: failed to resolve request id=%d: %v", req.RequestID, err)
			return fmt.Errorf("%w: failed to resolve request: %w", ErrInternal, err)
		}

		result = resolved
		return nil
	})

	if err != nil {
		if errors.Is(err, availability.ErrConflict) {
			uc.metrics.IncBookingConflict("approve")
		}
		if errors.Is(err, conflicts.ErrInvalidInterval) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, conflicts.MapTxError(err)
	}

	uc.metrics.IncRescheduleDecision(string(target))

	if booking != nil {
		uc.invalidate(ctx, booking, result)
	}

	uc.logger.Info("ResolveReschedule: request id=%d is %s", result.ID, result.Status)
	return result, nil
}

func (uc *UseCase) approve(ctx context.Context, request *domain.RescheduleRequest) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, request.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ResolveReschedule: booking id=%d not found", request.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ResolveReschedule: failed to get booking id=%d: %v", request.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}

	if booking.IsCancelled() {
		uc.logger.Warn("ResolveReschedule: booking id=%d is cancelled", booking.ID)
		return nil, ErrBookingCancelled
	}

	if err := uc.validator.ValidateAndReserve(ctx, conflicts.ProposedInterval{
		Date:            request.RequestedDate,
		StartMinute:     request.RequestedMinute,
		DurationMinutes: booking.DurationMinutes,
		ProfessionalID:  booking.ProfessionalID,
	}, &booking.ID); err != nil {
		uc.logger.Warn("ResolveReschedule: cannot move booking id=%d to %s %s: %v",
			booking.ID, request.RequestedDate.Format(domain.DateFormat), types.FromMinutes(request.RequestedMinute), err)
		return nil, err
	}

	if err := uc.bookingRepo.UpdateTime(ctx, booking.ID, request.RequestedDate, request.RequestedMinute); err != nil {
		uc.logger.Error("ResolveReschedule: failed to update booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
	}

	return booking, nil
}

// invalidate сбрасывает превью старой и новой даты
func (uc *UseCase) invalidate(ctx context.Context, booking *domain.Booking, request *domain.RescheduleRequest) {
	if err := uc.cache.InvalidateDate(ctx, booking.Date); err != nil {
		uc.logger.Warn("ResolveReschedule: failed to invalidate slots cache: %v", err)
	}
	if domain.SameCalendarDay(booking.Date, request.RequestedDate) {
		return
	}
	if err := uc.cache.InvalidateDate(ctx, request.RequestedDate); err != nil {
		uc.logger.Warn("ResolveReschedule: failed to invalidate slots cache: %v", err)
	}
}

// validateRequest возвращает целевой статус
func validateRequest(req *Request) (domain.RescheduleStatus, error) {
	if req.RequestID <= 0 {
		return "", fmt.Errorf("%w: requestID must be positive", ErrInvalidInput)
	}

	if req.Note != nil && len([]rune(*req.Note)) > domain.MaxResponseNoteLength {
		return "", fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxResponseNoteLength)
	}

	switch req.Action {
	case ActionApprove:
		return domain.RescheduleStatusApproved, nil
	case ActionDeny:
		return domain.RescheduleStatusDenied, nil
	default:
		return "", fmt.Errorf("%w: action must be approve or deny", ErrInvalidInput)
	}
}
