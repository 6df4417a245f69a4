package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.Services) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[int64]struct{}, len(req.Services))
	for _, s := range req.Services {
		if s.ServiceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if s.Quantity < 1 || s.Quantity > domain.MaxServiceQuantity {
			return fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, domain.MaxServiceQuantity)
		}
		if _, ok := seen[s.ServiceID]; ok {
			return fmt.Errorf("%w: service id=%d is listed twice", ErrInvalidInput, s.ServiceID)
		}
		seen[s.ServiceID] = struct{}{}
	}

	if req.ProfessionalID != nil && *req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %w", ErrInvalidInput, err)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата и время начала не в прошлом
func validateDate(date time.Time, startMinute int, now time.Time) error {
	if domain.DateOnly(date).Before(domain.DateOnly(now)) {
		return ErrInvalidDate
	}

	if domain.SameCalendarDay(date, now) && startMinute <= domain.MinuteOfDay(now) {
		return fmt.Errorf("%w: start %02d:%02d has already passed", ErrTooLateToBook, startMinute/60, startMinute%60)
	}

	return nil
}

// fitsSchedule проверяет, что интервал лежит в рабочем окне или начинается в доступном ручном слоте
// В закрытый день ручные слоты не действуют, интервал из ручного слота должен закончиться до полуночи
func fitsSchedule(window domain.EffectiveWindow, manualSlots []*domain.ManualSlot, startMinute, duration int) bool {
	if !window.Enabled {
		return false
	}
	if startMinute+duration > types.MinutesPerDay {
		return false
	}
	if window.Contains(startMinute, duration) {
		return true
	}
	for _, ms := range manualSlots {
		if ms != nil && ms.Available && ms.Minute == startMinute {
			return true
		}
	}
	return false
}

// quantitiesByService количество по id услуги
func quantitiesByService(services []domain.ServiceQuantity) map[int64]int {
	result := make(map[int64]int, len(services))
	for _, s := range services {
		result[s.ServiceID] = s.Quantity
	}
	return result
}

func serviceIDs(services []domain.ServiceQuantity) []int64 {
	ids := make([]int64, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ServiceID)
	}
	return ids
}
