package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// LockSchedule берет транзакционную блокировку на (дату, мастера)
	LockSchedule(ctx context.Context, date time.Time, professionalID *int64) error
	// ListActiveForDate активные бронирования на дату: мастера вместе с бронированиями без мастера,
	// либо вся дата, если мастер nil
	ListActiveForDate(ctx context.Context, date time.Time, professionalID *int64) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
