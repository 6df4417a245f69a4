package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис настроек расписания
// Все изменения сбрасывают кэш превью слотов
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	cache        SlotsCache
	location     *time.Location
	now          func() time.Time
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	cache SlotsCache,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		cache:        cache,
		location:     location,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock подменяет источник времени
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetSettings возвращает рабочие часы области, ближайшие исключения, ручные слоты и горизонт
// Публичный метод
func (s *Service) GetSettings(ctx context.Context, professionalID *int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: professional=%v", professionalID)

	today := domain.DateOnly(s.now().In(s.location))

	hours, err := s.scheduleRepo.ListBusinessHours(ctx, professionalID)
	if err != nil {
		s.logger.Error("GetSettings: failed to list business hours: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - business hours: %v", ErrInternal, err)
	}

	specialDates, err := s.scheduleRepo.ListSpecialDates(ctx, today, professionalID)
	if err != nil {
		s.logger.Error("GetSettings: failed to list special dates: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - special dates: %v", ErrInternal, err)
	}

	manualSlots, err := s.scheduleRepo.ListManualSlots(ctx, today, domain.MaxManualSlotsInSettings)
	if err != nil {
		s.logger.Error("GetSettings: failed to list manual slots: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - manual slots: %v", ErrInternal, err)
	}

	horizon, err := s.scheduleRepo.GetHorizon(ctx)
	if err != nil {
		s.logger.Error("GetSettings: failed to get horizon: %v", err)
		return nil, fmt.Errorf("%w: GetSettings - horizon: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(&domain.ScheduleSettings{
		BusinessHours: hours,
		SpecialDates:  specialDates,
		ManualSlots:   manualSlots,
		Horizon:       horizon,
	}), nil
}

// ReplaceBusinessHours заменяет неделю рабочих часов области
// Требуется ровно 7 записей с днями недели 0..6 без повторов
func (s *Service) ReplaceBusinessHours(ctx context.Context, req *models.ReplaceBusinessHoursRequest) ([]models.BusinessHoursResponse, error) {
	s.logger.Info("ReplaceBusinessHours: professional=%v, entries=%d", req.ProfessionalID, len(req.Hours))

	// 1. Валидация недели
	if len(req.Hours) != domain.DaysPerWeek {
		return nil, fmt.Errorf("%w: exactly %d business hours entries are required", ErrInvalidInput, domain.DaysPerWeek)
	}

	seen := make(map[int]bool, domain.DaysPerWeek)
	windows := make([]*domain.OperatingWindow, 0, domain.DaysPerWeek)
	for _, h := range req.Hours {
		if h.Weekday < 0 || h.Weekday >= domain.DaysPerWeek {
			return nil, fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
		}
		if seen[h.Weekday] {
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, h.Weekday)
		}
		seen[h.Weekday] = true

		open, closeMinute, err := parseWindow(h.Enabled, h.OpenTime, h.CloseTime)
		if err != nil {
			s.logger.Warn("ReplaceBusinessHours: weekday %d: %v", h.Weekday, err)
			return nil, err
		}

		windows = append(windows, &domain.OperatingWindow{
			Weekday:        time.Weekday(h.Weekday),
			Enabled:        h.Enabled,
			OpenMinute:     open,
			CloseMinute:    closeMinute,
			ProfessionalID: req.ProfessionalID,
		})
	}

	// 2. Удаление и вставка в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceBusinessHours(txCtx, req.ProfessionalID, windows)
	})
	if err != nil {
		s.logger.Error("ReplaceBusinessHours: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReplaceBusinessHours - repository error: %v", ErrInternal, err)
	}

	s.invalidateAll(ctx, "ReplaceBusinessHours")

	resp := make([]models.BusinessHoursResponse, 0, len(windows))
	for _, w := range windows {
		resp = append(resp, models.FromDomainBusinessHours(w))
	}
	return resp, nil
}

// UpsertSpecialDate создает или обновляет исключение для даты
func (s *Service) UpsertSpecialDate(ctx context.Context, req *models.UpsertSpecialDateRequest) (*models.SpecialDateResponse, error) {
	s.logger.Info("UpsertSpecialDate: date=%s, professional=%v, enabled=%t", req.Date, req.ProfessionalID, req.Enabled)

	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateNote(req.Note); err != nil {
		return nil, err
	}

	open, closeMinute, err := parseWindow(req.Enabled, req.OpenTime, req.CloseTime)
	if err != nil {
		s.logger.Warn("UpsertSpecialDate: %v", err)
		return nil, err
	}

	saved, err := s.scheduleRepo.UpsertSpecialDate(ctx, &domain.SpecialDateOverride{
		Date:           date,
		Enabled:        req.Enabled,
		OpenMinute:     open,
		CloseMinute:    closeMinute,
		ProfessionalID: req.ProfessionalID,
		Note:           req.Note,
	})
	if err != nil {
		s.logger.Error("UpsertSpecialDate: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpsertSpecialDate - repository error: %v", ErrInternal, err)
	}

	s.invalidateDate(ctx, "UpsertSpecialDate", date)

	s.logger.Info("UpsertSpecialDate: saved special date id=%d", saved.ID)
	return models.FromDomainSpecialDate(saved), nil
}

// DeleteSpecialDate удаляет исключение
func (s *Service) DeleteSpecialDate(ctx context.Context, id int64) error {
	s.logger.Info("DeleteSpecialDate: id=%d", id)

	deleted, err := s.scheduleRepo.DeleteSpecialDate(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSpecialDateNotFound) {
			s.logger.Warn("DeleteSpecialDate: id=%d not found", id)
			return ErrSpecialDateNotFound
		}
		s.logger.Error("DeleteSpecialDate: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteSpecialDate - repository error: %v", ErrInternal, err)
	}

	s.invalidateDate(ctx, "DeleteSpecialDate", deleted.Date)
	return nil
}

// CreateManualSlot добавляет ручной слот
func (s *Service) CreateManualSlot(ctx context.Context, req *models.CreateManualSlotRequest) (*models.ManualSlotResponse, error) {
	s.logger.Info("CreateManualSlot: date=%s, time=%s, professional=%v", req.Date, req.Time, req.ProfessionalID)

	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	minute, err := req.Time.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
	}
	if err := validateNote(req.Note); err != nil {
		return nil, err
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	created, err := s.scheduleRepo.CreateManualSlot(ctx, &domain.ManualSlot{
		Date:           date,
		Minute:         minute,
		ProfessionalID: req.ProfessionalID,
		Note:           req.Note,
		Available:      available,
	})
	if err != nil {
		s.logger.Error("CreateManualSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateManualSlot - repository error: %v", ErrInternal, err)
	}

	s.invalidateDate(ctx, "CreateManualSlot", date)

	s.logger.Info("CreateManualSlot: created manual slot id=%d", created.ID)
	return models.FromDomainManualSlot(created), nil
}

// DeleteManualSlot удаляет ручной слот
func (s *Service) DeleteManualSlot(ctx context.Context, id int64) error {
	s.logger.Info("DeleteManualSlot: id=%d", id)

	date, err := s.scheduleRepo.DeleteManualSlot(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrManualSlotNotFound) {
			s.logger.Warn("DeleteManualSlot: id=%d not found", id)
			return ErrManualSlotNotFound
		}
		s.logger.Error("DeleteManualSlot: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteManualSlot - repository error: %v", ErrInternal, err)
	}

	s.invalidateDate(ctx, "DeleteManualSlot", date)
	return nil
}

// SetHorizon задает последний месяц для бронирования, nil снимает ограничение
func (s *Service) SetHorizon(ctx context.Context, req *models.SetHorizonRequest) (*string, error) {
	s.logger.Info("SetHorizon: lastMonth=%v", req.LastMonth)

	var horizon *domain.YearMonth
	if req.LastMonth != nil && *req.LastMonth != "" {
		ym, err := domain.ParseYearMonth(*req.LastMonth)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		horizon = &ym
	}

	if err := s.scheduleRepo.SetHorizon(ctx, horizon); err != nil {
		s.logger.Error("SetHorizon: repository error: %v", err)
		return nil, fmt.Errorf("%w: SetHorizon - repository error: %v", ErrInternal, err)
	}

	s.invalidateAll(ctx, "SetHorizon")

	if horizon == nil {
		return nil, nil
	}
	value := horizon.String()
	return &value, nil
}

// Вспомогательные методы

func (s *Service) parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateFormat, value, s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, value)
	}
	return date, nil
}

func (s *Service) invalidateDate(ctx context.Context, op string, date time.Time) {
	if err := s.cache.InvalidateDate(ctx, date); err != nil {
		s.logger.Warn("%s: failed to invalidate slots cache for %s: %v", op, date.Format(domain.DateFormat), err)
	}
}

func (s *Service) invalidateAll(ctx context.Context, op string) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate slots cache: %v", op, err)
	}
}

// parseWindow проверяет окно: у рабочего дня open < close, у выходного времена игнорируются
func parseWindow(enabled bool, open, closeTime *types.TimeString) (int, int, error) {
	if !enabled {
		return 0, 0, nil
	}
	if open == nil || closeTime == nil {
		return 0, 0, fmt.Errorf("%w: openTime and closeTime are required for an enabled day", ErrInvalidInput)
	}

	openMinute, err := open.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid openTime: %v", ErrInvalidInput, err)
	}
	closeMinute, err := closeTime.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid closeTime: %v", ErrInvalidInput, err)
	}
	if openMinute >= closeMinute {
		return 0, 0, fmt.Errorf("%w: openTime must be before closeTime", ErrInvalidInput)
	}

	return openMinute, closeMinute, nil
}

func validateNote(note *string) error {
	if note != nil && utf8.RuneCountInString(*note) > domain.MaxNotesLength {
		return fmt.Errorf("%w: note must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
