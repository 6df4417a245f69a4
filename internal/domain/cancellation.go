package domain

import "time"

// CancelledBy кто отменил бронирование
type CancelledBy string

const (
	CancelledByClient CancelledBy = "client"
	CancelledByAdmin  CancelledBy = "admin"
)

// IsValid проверяет значение
func (c CancelledBy) IsValid() bool {
	return c == CancelledByClient || c == CancelledByAdmin
}

// Cancellation запись об отмене бронирования
type Cancellation struct {
	ID          int64
	BookingID   int64
	CancelledBy CancelledBy
	CreatedAt   time.Time

	// Денормализация для списка отмен
	BookingDate    time.Time
	StartMinute    int
	ProfessionalID *int64
	ClientID       int64
}

// CancellationsFilter фильтр списка отмен
type CancellationsFilter struct {
	CancelledBy    *CancelledBy
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	BookingIDs     []int64
	ProfessionalID *int64
	Limit          int
}

// ClampLimit приводит лимит к диапазону 1..200, 0 означает значение по умолчанию
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultCancellationsLimit
	case limit > MaxCancellationsLimit:
		return MaxCancellationsLimit
	default:
		return limit
	}
}
