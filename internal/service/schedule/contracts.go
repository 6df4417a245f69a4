package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория правил расписания
type ScheduleRepository interface {
	ListBusinessHours(ctx context.Context, professionalID *int64) ([]*domain.OperatingWindow, error)
	ReplaceBusinessHours(ctx context.Context, professionalID *int64, windows []*domain.OperatingWindow) error
	ListSpecialDates(ctx context.Context, from time.Time, professionalID *int64) ([]*domain.SpecialDateOverride, error)
	UpsertSpecialDate(ctx context.Context, o *domain.SpecialDateOverride) (*domain.SpecialDateOverride, error)
	DeleteSpecialDate(ctx context.Context, id int64) (*domain.SpecialDateOverride, error)
	ListManualSlots(ctx context.Context, from time.Time, limit int) ([]*domain.ManualSlot, error)
	CreateManualSlot(ctx context.Context, s *domain.ManualSlot) (*domain.ManualSlot, error)
	DeleteManualSlot(ctx context.Context, id int64) (time.Time, error)
	GetHorizon(ctx context.Context) (*domain.YearMonth, error)
	SetHorizon(ctx context.Context, horizon *domain.YearMonth) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache сброс кэша превью слотов
type SlotsCache interface {
	InvalidateDate(ctx context.Context, date time.Time) error
	InvalidateAll(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
