package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// BusinessHoursEntry рабочие часы одного дня недели
type BusinessHoursEntry struct {
	Weekday   int               `json:"weekday"` // 0 = воскресенье
	Enabled   bool              `json:"enabled"`
	OpenTime  *types.TimeString `json:"openTime,omitempty"`
	CloseTime *types.TimeString `json:"closeTime,omitempty"`
}

// ReplaceBusinessHoursRequest полная замена недели, ровно 7 записей
type ReplaceBusinessHoursRequest struct {
	ProfessionalID *int64               `json:"professionalId,omitempty"` // nil = глобальные часы
	Hours          []BusinessHoursEntry `json:"hours"`
}

// UpsertSpecialDateRequest исключение для конкретной даты
type UpsertSpecialDateRequest struct {
	Date           string            `json:"date"` // YYYY-MM-DD
	Enabled        bool              `json:"enabled"`
	OpenTime       *types.TimeString `json:"openTime,omitempty"`
	CloseTime      *types.TimeString `json:"closeTime,omitempty"`
	ProfessionalID *int64            `json:"professionalId,omitempty"`
	Note           *string           `json:"note,omitempty"`
}

// CreateManualSlotRequest ручной слот
type CreateManualSlotRequest struct {
	Date           string           `json:"date"`
	Time           types.TimeString `json:"time"`
	ProfessionalID *int64           `json:"professionalId,omitempty"`
	Note           *string          `json:"note,omitempty"`
	Available      *bool            `json:"available,omitempty"` // по умолчанию true
}

// SetHorizonRequest горизонт бронирования, null снимает ограничение
type SetHorizonRequest struct {
	LastMonth *string `json:"lastMonth"` // YYYY-MM
}

// Response модели

// BusinessHoursResponse рабочие часы дня недели
type BusinessHoursResponse struct {
	Weekday        int               `json:"weekday"`
	Enabled        bool              `json:"enabled"`
	OpenTime       *types.TimeString `json:"openTime,omitempty"`
	CloseTime      *types.TimeString `json:"closeTime,omitempty"`
	ProfessionalID *int64            `json:"professionalId,omitempty"`
}

// SpecialDateResponse исключение для даты
type SpecialDateResponse struct {
	ID             int64             `json:"id"`
	Date           string            `json:"date"`
	Enabled        bool              `json:"enabled"`
	OpenTime       *types.TimeString `json:"openTime,omitempty"`
	CloseTime      *types.TimeString `json:"closeTime,omitempty"`
	ProfessionalID *int64            `json:"professionalId,omitempty"`
	Note           *string           `json:"note,omitempty"`
}

// ManualSlotResponse ручной слот
type ManualSlotResponse struct {
	ID             int64            `json:"id"`
	Date           string           `json:"date"`
	Time           types.TimeString `json:"time"`
	ProfessionalID *int64           `json:"professionalId,omitempty"`
	Note           *string          `json:"note,omitempty"`
	Available      bool             `json:"available"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// SettingsResponse настройки расписания
type SettingsResponse struct {
	BusinessHours []BusinessHoursResponse `json:"businessHours"`
	SpecialDates  []SpecialDateResponse   `json:"specialDates"`
	ManualSlots   []ManualSlotResponse    `json:"manualSlots"`
	Horizon       *string                 `json:"horizon"`
}

// Методы конвертации

func windowTimes(enabled bool, open, closeMinute int) (*types.TimeString, *types.TimeString) {
	if !enabled {
		return nil, nil
	}
	o, c := types.FromMinutes(open), types.FromMinutes(closeMinute)
	return &o, &c
}

// FromDomainBusinessHours конвертирует рабочие часы в DTO
func FromDomainBusinessHours(w *domain.OperatingWindow) BusinessHoursResponse {
	open, closeTime := windowTimes(w.Enabled, w.OpenMinute, w.CloseMinute)
	return BusinessHoursResponse{
		Weekday:        int(w.Weekday),
		Enabled:        w.Enabled,
		OpenTime:       open,
		CloseTime:      closeTime,
		ProfessionalID: w.ProfessionalID,
	}
}

// FromDomainSpecialDate конвертирует исключение в DTO
func FromDomainSpecialDate(o *domain.SpecialDateOverride) *SpecialDateResponse {
	if o == nil {
		return nil
	}
	open, closeTime := windowTimes(o.Enabled, o.OpenMinute, o.CloseMinute)
	return &SpecialDateResponse{
		ID:             o.ID,
		Date:           o.Date.Format(domain.DateFormat),
		Enabled:        o.Enabled,
		OpenTime:       open,
		CloseTime:      closeTime,
		ProfessionalID: o.ProfessionalID,
		Note:           o.Note,
	}
}

// FromDomainManualSlot конвертирует ручной слот в DTO
func FromDomainManualSlot(s *domain.ManualSlot) *ManualSlotResponse {
	if s == nil {
		return nil
	}
	return &ManualSlotResponse{
		ID:             s.ID,
		Date:           s.Date.Format(domain.DateFormat),
		Time:           types.FromMinutes(s.Minute),
		ProfessionalID: s.ProfessionalID,
		Note:           s.Note,
		Available:      s.Available,
		CreatedAt:      s.CreatedAt,
	}
}

// FromDomainSettings конвертирует настройки расписания в DTO
func FromDomainSettings(s *domain.ScheduleSettings) *SettingsResponse {
	resp := &SettingsResponse{
		BusinessHours: make([]BusinessHoursResponse, 0, len(s.BusinessHours)),
		SpecialDates:  make([]SpecialDateResponse, 0, len(s.SpecialDates)),
		ManualSlots:   make([]ManualSlotResponse, 0, len(s.ManualSlots)),
	}
	for _, w := range s.BusinessHours {
		resp.BusinessHours = append(resp.BusinessHours, FromDomainBusinessHours(w))
	}
	for _, o := range s.SpecialDates {
		resp.SpecialDates = append(resp.SpecialDates, *FromDomainSpecialDate(o))
	}
	for _, m := range s.ManualSlots {
		resp.ManualSlots = append(resp.ManualSlots, *FromDomainManualSlot(m))
	}
	if s.Horizon != nil {
		h := s.Horizon.String()
		resp.Horizon = &h
	}
	return resp
}
