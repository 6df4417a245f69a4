package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CancellationRepository интерфейс репозитория отмен
type CancellationRepository interface {
	Create(ctx context.Context, bookingID int64, cancelledBy domain.CancelledBy) (*domain.Cancellation, error)
	List(ctx context.Context, filter domain.CancellationsFilter) ([]*domain.Cancellation, error)
}

// RescheduleRepository интерфейс репозитория запросов на перенос
type RescheduleRepository interface {
	List(ctx context.Context, filter domain.RescheduleRequestsFilter) ([]*domain.RescheduleRequest, error)
	DenyPending(ctx context.Context, bookingID int64, note string) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache сброс кэша превью слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date time.Time) error
}

// Metrics доменные метрики
type Metrics interface {
	IncCancellation(cancelledBy string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
