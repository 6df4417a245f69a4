package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListActiveForDate активные бронирования на дату (всего салона или мастера вместе с записями без мастера)
	ListActiveForDate(ctx context.Context, date time.Time, professionalID *int64) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetScheduleRules(ctx context.Context, date time.Time, professionalID *int64) (domain.ScheduleRules, error)
	ListManualSlotsForDate(ctx context.Context, date time.Time, professionalID *int64) ([]*domain.ManualSlot, error)
	GetHorizon(ctx context.Context) (*domain.YearMonth, error)
}

// CatalogClient интерфейс клиента каталога услуг
type CatalogClient interface {
	GetServices(ctx context.Context, ids []int64) ([]domain.Service, error)
}

// SlotsCache интерфейс кэша превью слотов
type SlotsCache interface {
	Get(ctx context.Context, key string) (domain.DayPreview, bool)
	Set(ctx context.Context, key string, preview domain.DayPreview) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
