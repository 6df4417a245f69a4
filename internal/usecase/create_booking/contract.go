package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
}

// ConflictValidator перепроверка интервала в момент записи
type ConflictValidator interface {
	ValidateAndReserve(ctx context.Context, iv conflicts.ProposedInterval, excludeID *int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache сброс кэша превью слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date time.Time) error
}

// Metrics доменные метрики
type Metrics interface {
	IncBookingCreated(scope string)
	IncBookingConflict(operation string)
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
