package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
)

const (
	scopeProfessional = "professional"
	scopeDate         = "date"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	catalogClient CatalogClient
	validator     ConflictValidator
	txManager     TransactionManager
	cache         SlotsCache
	metrics       Metrics
	timeProvider  TimeProvider
	location      *time.Location
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogClient,
	validator ConflictValidator,
	txManager TransactionManager,
	cache SlotsCache,
	metrics Metrics,
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
		validator:     validator,
		txManager:     txManager,
		cache:         cache,
		metrics:       metrics,
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

// Execute выполняет use case создания бронирования
// Проверка пересечений и запись выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, services=%v, date=%s, time=%s",
		req.ClientID, serviceIDs(req.Services), req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	startMinute, _ := req.StartTime.Minutes()
	now := uc.timeProvider.Now().In(uc.location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)

	// 2. Дата и время не в прошлом
	if err := validateDate(date, startMinute, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услуги из каталога
	services, err := uc.catalogClient.GetServices(ctx, serviceIDs(req.Services))
	if err != nil {
		var missing *catalogClient.MissingServicesError
		if errors.As(err, &missing) {
			uc.logger.Warn("CreateBooking: services not found ids=%v", missing.IDs)
			return nil, fmt.Errorf("%w: ids=%v", ErrServiceNotFound, missing.IDs)
		}
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	// 4. Определяем мастера
	professionalID, err := availability.InferProfessional(req.ProfessionalID, services)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrConflictingProfessionals, err)
	}

	// 5. Явно выбранный мастер должен существовать
	if req.ProfessionalID != nil {
		if err := uc.checkProfessional(ctx, *req.ProfessionalID); err != nil {
			return nil, err
		}
	}

	quantities := quantitiesByService(req.Services)
	duration := domain.TotalDuration(services, quantities)

	booking := &domain.Booking{
		ClientID:        req.ClientID,
		ProfessionalID:  professionalID,
		Date:            date,
		StartMinute:     startMinute,
		DurationMinutes: duration,
		Services:        snapshotServices(services, quantities),
		Notes:           req.Notes,
	}

	var result *domain.Booking

	// 6. Проверка расписания, пересечений и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Горизонт бронирования
		horizon, err := uc.scheduleRepo.GetHorizon(txCtx)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get horizon: %v", err)
			return fmt.Errorf("%w: failed to get horizon: %v", ErrInternal, err)
		}
		if horizon != nil && horizon.After(date) {
			uc.logger.Warn("CreateBooking: date=%s is beyond horizon %s", date.Format(domain.DateFormat), horizon)
			return fmt.Errorf("%w: last bookable month is %s", ErrBeyondHorizon, horizon)
		}

		// 6.2. Рабочее окно и ручные слоты
		rules, err := uc.scheduleRepo.GetScheduleRules(txCtx, date, professionalID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get schedule rules: %v", err)
			return fmt.Errorf("%w: failed to get schedule rules: %v", ErrInternal, err)
		}

		window, err := availability.ResolveWindow(rules)
		if err != nil {
			uc.logger.Warn("CreateBooking: %v, treating %s as closed", err, date.Format(domain.DateFormat))
		}

		manualSlots, err := uc.scheduleRepo.ListManualSlotsForDate(txCtx, date, professionalID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get manual slots: %v", err)
			return fmt.Errorf("%w: failed to get manual slots: %v", ErrInternal, err)
		}

		if !fitsSchedule(window, manualSlots, startMinute, duration) {
			uc.logger.Warn("CreateBooking: %s+%d is outside window %+v on %s",
				req.StartTime, duration, window, date.Format(domain.DateFormat))
			return ErrOutsideWorkingHours
		}

		// 6.3. Перепроверка пересечений
		if err := uc.validator.ValidateAndReserve(txCtx, conflicts.ProposedInterval{
			Date:            date,
			StartMinute:     startMinute,
			DurationMinutes: duration,
			ProfessionalID:  professionalID,
		}, nil); err != nil {
			return err
		}

		// 6.4. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, availability.ErrConflict) {
			uc.metrics.IncBookingConflict("create")
		}
		if errors.Is(err, conflicts.ErrInvalidInterval) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, conflicts.MapTxError(err)
	}

	scope := scopeDate
	if professionalID != nil {
		scope = scopeProfessional
	}
	uc.metrics.IncBookingCreated(scope)

	// 7. Сбрасываем кэш превью на эту дату
	if err := uc.cache.InvalidateDate(ctx, date); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate slots cache for %s: %v", date.Format(domain.DateFormat), err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{Booking: result}, nil
}

func (uc *UseCase) checkProfessional(ctx context.Context, id int64) error {
	professional, err := uc.catalogClient.GetProfessional(ctx, id)
	if err != nil {
		if errors.Is(err, catalogClient.ErrProfessionalNotFound) {
			uc.logger.Warn("CreateBooking: professional id=%d not found", id)
			return ErrProfessionalNotFound
		}
		uc.logger.Error("CreateBooking: failed to get professional id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
	}

	if !professional.Active {
		uc.logger.Warn("CreateBooking: professional id=%d is not active", id)
		return ErrProfessionalNotFound
	}

	return nil
}

// snapshotServices денормализует данные каталога в бронирование
func snapshotServices(services []domain.Service, quantities map[int64]int) []domain.BookingService {
	result := make([]domain.BookingService, 0, len(services))
	for _, s := range services {
		q := quantities[s.ID]
		if q <= 0 {
			q = 1
		}
		result = append(result, domain.BookingService{
			ServiceID:       s.ID,
			Quantity:        q,
			ServiceName:     s.Name,
			ServicePrice:    s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}
	return result
}
