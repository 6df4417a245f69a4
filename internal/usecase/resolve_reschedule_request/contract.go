package resolve_reschedule_request

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateTime(ctx context.Context, id int64, date time.Time, startMinute int) error
}

// RescheduleRepository интерфейс репозитория запросов на перенос
type RescheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RescheduleRequest, error)
	Resolve(ctx context.Context, id int64, status domain.RescheduleStatus, note *string) (*domain.RescheduleRequest, error)
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
	IncRescheduleDecision(decision string)
	IncBookingConflict(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
