package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	cancellationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/cancellation"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo      BookingRepository
	cancellationRepo CancellationRepository
	rescheduleRepo   RescheduleRepository
	txManager        TransactionManager
	cache            SlotsCache
	metrics          Metrics
	logger           Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	cancellationRepo CancellationRepository,
	rescheduleRepo RescheduleRepository,
	txManager TransactionManager,
	cache SlotsCache,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:      bookingRepo,
		cancellationRepo: cancellationRepo,
		rescheduleRepo:   rescheduleRepo,
		txManager:        txManager,
		cache:            cache,
		metrics:          metrics,
		logger:           logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, администратор любое
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	// Проверяем права доступа
	if !actor.IsAdmin && booking.ClientID != actor.UserID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListForClient история бронирований клиента, включая отмененные
func (s *Service) ListForClient(ctx context.Context, clientID int64) (*models.BookingListResponse, error) {
	s.logger.Info("ListForClient: fetching bookings for client=%d", clientID)

	if clientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{ClientID: &clientID, IncludeCancelled: true})
	if err != nil {
		s.logger.Error("ListForClient: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListForClient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListForClient: successfully fetched %d bookings for client=%d", len(bookings), clientID)
	return models.FromDomainBookingList(bookings), nil
}

// List получает бронирования с фильтрацией для администратора
// Точное время имеет приоритет над диапазоном, отмененные скрыты без IncludeCancelled
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := toBookingsFilter(req)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Владелец отменяет как client, администратор как admin
func (s *Service) Cancel(ctx context.Context, bookingID int64, actor models.Actor) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d, admin=%t", bookingID, actor.UserID, actor.IsAdmin)

	var (
		booking     *domain.Booking
		cancelledBy domain.CancelledBy
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование с блокировкой строки
		var err error
		booking, err = s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		// 2. Определяем, кто отменяет
		switch {
		case booking.ClientID == actor.UserID:
			cancelledBy = domain.CancelledByClient
		case actor.IsAdmin:
			cancelledBy = domain.CancelledByAdmin
		default:
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", actor.UserID, bookingID)
			return ErrAccessDenied
		}

		if booking.IsCancelled() {
			s.logger.Warn("Cancel: booking id=%d is already cancelled", bookingID)
			return ErrAlreadyCancelled
		}

		// 3. Записываем отмену
		if _, err := s.cancellationRepo.Create(txCtx, bookingID, cancelledBy); err != nil {
			if errors.Is(err, cancellationRepo.ErrAlreadyCancelled) {
				s.logger.Warn("Cancel: booking id=%d is already cancelled", bookingID)
				return ErrAlreadyCancelled
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// 4. Ожидающие запросы на перенос больше некуда применять
		denied, err := s.rescheduleRepo.DenyPending(txCtx, bookingID, domain.CancelledBookingNote)
		if err != nil {
			s.logger.Error("Cancel: failed to deny pending reschedule requests for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - deny pending requests: %v", ErrInternal, err)
		}
		if denied > 0 {
			s.logger.Info("Cancel: denied %d pending reschedule requests for booking id=%d", denied, bookingID)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncCancellation(string(cancelledBy))

	if err := s.cache.InvalidateDate(ctx, booking.Date); err != nil {
		s.logger.Warn("Cancel: failed to invalidate slots cache: %v", err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d by %s", bookingID, cancelledBy)
	return nil
}

// ListCancellations журнал отмен для администратора
func (s *Service) ListCancellations(ctx context.Context, req *models.ListCancellationsRequest) (*models.CancellationListResponse, error) {
	filter := domain.CancellationsFilter{
		CreatedFrom:    req.CreatedFrom,
		CreatedTo:      req.CreatedTo,
		BookingIDs:     req.BookingIDs,
		ProfessionalID: req.ProfessionalID,
		Limit:          domain.ClampLimit(req.Limit),
	}

	if req.CancelledBy != nil {
		by := domain.CancelledBy(*req.CancelledBy)
		if !by.IsValid() {
			return nil, fmt.Errorf("%w: cancelledBy must be client or admin", ErrInvalidInput)
		}
		filter.CancelledBy = &by
	}

	if req.CreatedFrom != nil && req.CreatedTo != nil && req.CreatedTo.Before(*req.CreatedFrom) {
		return nil, fmt.Errorf("%w: createdFrom is after createdTo", ErrInvalidTimeRange)
	}

	items, err := s.cancellationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListCancellations: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListCancellations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListCancellations: successfully fetched %d cancellations", len(items))
	return models.FromDomainCancellations(items), nil
}

// ListRescheduleRequests запросы на перенос, новые первыми
func (s *Service) ListRescheduleRequests(ctx context.Context, req *models.ListRescheduleRequestsRequest) (*models.RescheduleRequestListResponse, error) {
	filter := domain.RescheduleRequestsFilter{BookingIDs: req.BookingIDs}

	if req.Status != nil {
		status := domain.RescheduleStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	items, err := s.rescheduleRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListRescheduleRequests: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRescheduleRequests - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListRescheduleRequests: successfully fetched %d requests", len(items))
	return models.FromDomainRescheduleRequests(items), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// toBookingsFilter конвертирует request в domain фильтр
func toBookingsFilter(req *models.ListBookingsRequest) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ProfessionalID:   req.ProfessionalID,
		ClientID:         req.ClientID,
		ServiceID:        req.ServiceID,
		DateFrom:         req.DateFrom,
		DateTo:           req.DateTo,
		IncludeCancelled: req.IncludeCancelled,
	}

	if req.DateFrom != nil && req.DateTo != nil && req.DateTo.Before(*req.DateFrom) {
		return filter, fmt.Errorf("%w: dateFrom is after dateTo", ErrInvalidTimeRange)
	}

	var err error
	if filter.StartMinute, err = optionalMinutes(req.Time); err != nil {
		return filter, err
	}
	if filter.TimeFrom, err = optionalMinutes(req.TimeFrom); err != nil {
		return filter, err
	}
	if filter.TimeTo, err = optionalMinutes(req.TimeTo); err != nil {
		return filter, err
	}

	if filter.TimeFrom != nil && filter.TimeTo != nil && *filter.TimeTo < *filter.TimeFrom {
		return filter, fmt.Errorf("%w: timeFrom is after timeTo", ErrInvalidTimeRange)
	}

	return filter, nil
}

func optionalMinutes(t *types.TimeString) (*int, error) {
	if t == nil {
		return nil, nil
	}
	m, err := t.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return &m, nil
}
