package domain

import (
	"time"
)

// Booking бронирование клиента (резервация интервала времени)
// Отмена хранится отдельной записью в cancellations, сама строка не удаляется
type Booking struct {
	ID              int64
	ClientID        int64
	ProfessionalID  *int64 // NULL = бронирование без мастера, пересекается с бронированиями любого мастера на эту дату
	Date            time.Time
	StartMinute     int // минуты от полуночи
	DurationMinutes int // сумма длительностей услуг с учетом количества

	Services []BookingService
	Notes    *string

	// Заполняются из записи об отмене (LEFT JOIN cancellations)
	CancelledBy *CancelledBy
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingService услуга в составе бронирования с денормализованными данными каталога
type BookingService struct {
	ServiceID       int64
	Quantity        int
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int
}

// EndMinute конец интервала (не включительно)
func (b *Booking) EndMinute() int {
	return b.StartMinute + b.DurationMinutes
}

// IsCancelled returns true if the booking has a cancellation record
func (b *Booking) IsCancelled() bool {
	return b.CancelledAt != nil
}

// IsActive returns true if the booking still occupies its interval
func (b *Booking) IsActive() bool {
	return !b.IsCancelled()
}

// ServiceIDs список id услуг бронирования
func (b *Booking) ServiceIDs() []int64 {
	ids := make([]int64, 0, len(b.Services))
	for _, s := range b.Services {
		ids = append(ids, s.ServiceID)
	}
	return ids
}

// TotalPrice стоимость бронирования
func (b *Booking) TotalPrice() float64 {
	var total float64
	for _, s := range b.Services {
		total += s.ServicePrice * float64(s.Quantity)
	}
	return total
}

// BookingsFilter фильтр списка бронирований для администратора
type BookingsFilter struct {
	ProfessionalID   *int64
	ClientID         *int64
	ServiceID        *int64
	DateFrom         *time.Time
	DateTo           *time.Time
	StartMinute      *int // точное время начала
	TimeFrom         *int // диапазон времени начала [TimeFrom, TimeTo]
	TimeTo           *int
	IncludeCancelled bool // отмененные скрыты по умолчанию
}
