package conflicts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ProposedInterval интервал, который собираются записать
type ProposedInterval struct {
	Date            time.Time
	StartMinute     int
	DurationMinutes int
	ProfessionalID  *int64
}

// Validator проверяет интервал на пересечения в момент записи
type Validator struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewValidator создает новый экземпляр валидатора
func NewValidator(bookingRepo BookingRepository, logger Logger) *Validator {
	return &Validator{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// ValidateAndReserve перепроверяет интервал против актуальных бронирований
// Вызывается внутри сериализуемой транзакции, запись выполняет вызывающий в той же транзакции.
// Возвращает *availability.ConflictError при пересечении
func (v *Validator) ValidateAndReserve(ctx context.Context, iv ProposedInterval, excludeID *int64) error {
	// 1. Валидация интервала
	if iv.DurationMinutes <= 0 || iv.StartMinute < 0 || iv.StartMinute+iv.DurationMinutes > types.MinutesPerDay {
		return fmt.Errorf("%w: start=%d duration=%d", ErrInvalidInterval, iv.StartMinute, iv.DurationMinutes)
	}

	// 2. Блокировка на (дату, мастера) до конца транзакции
	if err := v.bookingRepo.LockSchedule(ctx, iv.Date, iv.ProfessionalID); err != nil {
		return v.wrapStorageError("LockSchedule", err)
	}

	// 3. Перечитываем активные бронирования (FOR UPDATE внутри транзакции)
	reservations, err := v.bookingRepo.ListActiveForDate(ctx, iv.Date, iv.ProfessionalID)
	if err != nil {
		return v.wrapStorageError("ListActiveForDate", err)
	}

	// 4. Ищем пересечение
	if conflict := availability.FindConflict(iv.StartMinute, iv.DurationMinutes, reservations, excludeID); conflict != nil {
		v.logger.Warn("ValidateAndReserve: date=%s, start=%s, duration=%d conflicts with booking id=%d",
			iv.Date.Format(domain.DateFormat), types.FromMinutes(iv.StartMinute), iv.DurationMinutes, conflict.ID)
		return &availability.ConflictError{ReservationID: conflict.ID}
	}

	return nil
}

func (v *Validator) wrapStorageError(op string, err error) error {
	if txmanager.IsSerializationFailure(err) {
		v.logger.Warn("ValidateAndReserve: %s - concurrent modification: %v", op, err)
		return fmt.Errorf("%w: %s - %v", ErrConcurrentModification, op, err)
	}
	v.logger.Error("ValidateAndReserve: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
}

// MapTxError приводит ошибку сериализации транзакции к ErrConcurrentModification
// Остальные ошибки возвращаются без изменений
func MapTxError(err error) error {
	if err == nil || errors.Is(err, ErrConcurrentModification) {
		return err
	}
	if txmanager.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %v", ErrConcurrentModification, err)
	}
	return err
}
