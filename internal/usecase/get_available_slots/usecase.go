package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	slotsCache "github.com/m04kA/SMC-AppointmentService/internal/infra/cache/slots"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	catalogClient CatalogClient
	cache         SlotsCache
	timeProvider  TimeProvider
	location      *time.Location
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
// cache может быть nil, тогда превью не кэшируется
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogClient,
	cache SlotsCache,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		catalogClient: catalogClient,
		cache:         cache,
		timeProvider:  &RealTimeProvider{},
		location:      location,
		logger:        logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, services=%v, professional=%v",
		req.Date.Format(domain.DateFormat), req.ServiceIDs, formatProfessional(req.ProfessionalID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)

	// 2. Получаем услуги из каталога
	services, err := uc.catalogClient.GetServices(ctx, uniqueIDs(req.ServiceIDs))
	if err != nil {
		var missing *catalogClient.MissingServicesError
		if errors.As(err, &missing) {
			uc.logger.Warn("GetAvailableSlots: services not found ids=%v", missing.IDs)
			return nil, fmt.Errorf("%w: ids=%v", ErrServiceNotFound, missing.IDs)
		}
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	// 3. Определяем мастера
	professionalID, err := availability.InferProfessional(req.ProfessionalID, services)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrConflictingProfessionals, err)
	}

	// Длительность считается так же, как при создании бронирования
	duration := domain.TotalDuration(services, req.Quantities)

	// 4. Прошлое и сегодня не кэшируем: сегодняшний результат зависит от текущей минуты
	cacheKey := slotsCache.Key(date, professionalID, duration)
	cacheable := uc.cache != nil && date.After(now)
	if cacheable {
		if cached, ok := uc.cache.Get(ctx, cacheKey); ok {
			return &Response{
				Date:            date,
				ProfessionalID:  professionalID,
				DurationMinutes: duration,
				Window:          cached.Window,
				Slots:           cached.Slots,
			}, nil
		}
	}

	// 5. Определяем рабочее окно
	rules, err := uc.scheduleRepo.GetScheduleRules(ctx, date, professionalID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule rules: %v", ErrInternal, err)
	}

	window, err := availability.ResolveWindow(rules)
	if err != nil {
		// Некорректное окно не ломает запрос, день считается закрытым
		uc.logger.Warn("GetAvailableSlots: %v, treating %s as closed", err, date.Format(domain.DateFormat))
	}

	// 6. Ручные слоты, горизонт и бронирования
	manualSlots, err := uc.scheduleRepo.ListManualSlotsForDate(ctx, date, professionalID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get manual slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get manual slots: %v", ErrInternal, err)
	}

	horizon, err := uc.scheduleRepo.GetHorizon(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get horizon: %v", err)
		return nil, fmt.Errorf("%w: failed to get horizon: %v", ErrInternal, err)
	}

	reservations, err := uc.bookingRepo.ListActiveForDate(ctx, date, professionalID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты
	slots := availability.GenerateSlots(availability.SlotParams{
		Date:            date,
		DurationMinutes: duration,
		Window:          window,
		Reservations:    reservations,
		ManualSlots:     manualSlots,
		Horizon:         horizon,
		Now:             now,
	})

	if cacheable {
		if err := uc.cache.Set(ctx, cacheKey, domain.DayPreview{Window: window, Slots: slots}); err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to cache slots key=%s: %v", cacheKey, err)
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for date=%s, professional=%v, duration=%d, source=%s",
		slots.Total(), date.Format(domain.DateFormat), formatProfessional(professionalID), duration, window.Source)

	return &Response{
		Date:            date,
		ProfessionalID:  professionalID,
		DurationMinutes: duration,
		Window:          window,
		Slots:           slots,
	}, nil
}

func formatProfessional(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
